package filter

import (
	"context"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/scorer"
)

// RadiusFilter 是半径硬过滤器：请求带原点时，坐标缺失或距离达到半径的候选
// 整体剔除，避免远处结果稀释限定范围的请求。
// 幸存候选的距离会写入 Candidate.DistanceKm，供排序与解释阶段复用。
// 请求不带原点时本过滤器不生效（城市检索走 CityFilter）。
type RadiusFilter struct {
	Distance scorer.DistanceScorer

	// DefaultRadiusKm 在 rctx.RadiusKm <= 0 时兜底。
	DefaultRadiusKm float64
}

func NewRadiusFilter(distance scorer.DistanceScorer) *RadiusFilter {
	if distance == nil {
		distance = scorer.NewDistance()
	}
	cfg := &core.DefaultEngineConfig{}
	return &RadiusFilter{
		Distance:        distance,
		DefaultRadiusKm: cfg.DefaultRadiusKm(),
	}
}

func (f *RadiusFilter) Name() string {
	return "filter.radius"
}

func (f *RadiusFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || rctx == nil || rctx.Origin == nil {
		return false, nil
	}

	km, ok := f.Distance.DistanceKm(*rctx.Origin, c.Restaurant)
	if !ok {
		// 限定半径的请求里，坐标缺失等同于不在范围内
		return true, nil
	}

	radius := rctx.RadiusKm
	if radius <= 0 {
		radius = f.DefaultRadiusKm
	}
	if km >= radius {
		return true, nil
	}

	d := km
	c.DistanceKm = &d
	return false, nil
}

var _ Filter = (*RadiusFilter)(nil)
