package filter

import (
	"context"

	"github.com/pickyrec/picky/core"
)

// ShownFilter 是会话轮次过滤器：剔除本会话已展示过的候选，
// 保证多轮推荐不重复出同一家店。已展示集合由 rctx.Shown 透传。
type ShownFilter struct{}

func NewShownFilter() *ShownFilter {
	return &ShownFilter{}
}

func (f *ShownFilter) Name() string {
	return "filter.shown"
}

func (f *ShownFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || rctx == nil {
		return false, nil
	}
	return rctx.IsShown(c.ID()), nil
}

var _ Filter = (*ShownFilter)(nil)
