// Package filter 提供候选过滤：去重（已到访）、半径硬过滤、城市过滤、
// 会话已展示过滤与规则过滤。
package filter

import (
	"context"

	"github.com/pickyrec/picky/core"
)

// Filter 是过滤器的抽象接口，用于判断一个候选是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, c *core.Candidate) (bool, error)
}
