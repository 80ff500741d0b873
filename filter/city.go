package filter

import (
	"context"
	"strings"

	"github.com/pickyrec/picky/core"
)

// CityFilter 是城市过滤器：纯城市/州检索（无原点）时，剔除不在目标城市的候选。
// 城市内候选的距离分在排序阶段按 1.0 处理。
type CityFilter struct{}

func NewCityFilter() *CityFilter {
	return &CityFilter{}
}

func (f *CityFilter) Name() string {
	return "filter.city"
}

func (f *CityFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || rctx == nil || rctx.Origin != nil || rctx.City == "" {
		return false, nil
	}

	loc := c.Restaurant.Location
	if !strings.EqualFold(loc.City, rctx.City) {
		return true, nil
	}
	if rctx.State != "" && !strings.EqualFold(loc.State, rctx.State) {
		return true, nil
	}
	return false, nil
}

var _ Filter = (*CityFilter)(nil)
