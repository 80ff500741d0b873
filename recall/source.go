// Package recall 提供候选召回源与并发 fan-out 节点。
package recall

import (
	"context"

	"github.com/pickyrec/picky/core"
)

// Source 表示一个可复用的召回源（静态目录/存储/心愿单/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}
