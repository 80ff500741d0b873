// Package rerank 在排序之后做截断与多样性调整。
package rerank

import (
	"context"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个候选。
// 通常在排序（Rank）节点之后使用，用于限制返回结果数量。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        rank.NewScoreNode(),       // 排序
//	        &rerank.TopNNode{N: 10},   // 截取 Top 10
//	    },
//	}
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则返回所有候选（不截断）
	// 如果 N > len(candidates)，则返回所有候选
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	// 如果 N <= 0，不截断，返回所有候选
	if n.N <= 0 {
		return candidates, nil
	}

	// 如果候选数量小于等于 N，直接返回
	if len(candidates) <= n.N {
		return candidates, nil
	}

	// 截取前 N 个候选
	return candidates[:n.N], nil
}
