// Package picky 是一个餐厅推荐工具包：从交互历史构建口味画像，
// 按相似度与距离给候选打分，支持多轮会话中的在线偏好调整。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支撑推荐理由与观测
// - Node 可扩展: 自定义 Node 即可插拔扩展（过滤规则、打分策略均可替换）
package picky

import "github.com/pickyrec/picky/pipeline"

// 轻量 facade：便于用户直接 import "picky" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
