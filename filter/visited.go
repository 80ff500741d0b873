package filter

import (
	"context"
	"strings"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/match"
	"github.com/pickyrec/picky/pkg/geo"
)

// VisitedFilter 是已到访去重过滤器：候选与任一已到访餐厅判定为同一地点时剔除，
// 保证结果不会把用户记录过的店重新端出来。
//
// 同一地点的判定（跨来源身份解析）：
//  1. 归一化名称相似度 >= NameThreshold 且城市相同（大小写不敏感）；或
//  2. 两者坐标距离 <= SamePlaceKm。
//
// 对自身输出重复执行结果不变（幂等）。
type VisitedFilter struct {
	// Matcher 是名称相似度实现，nil 时使用默认的编辑距离匹配。
	Matcher match.Matcher

	// NameThreshold 是名称匹配阈值（0-100），默认 85。
	NameThreshold int

	// SamePlaceKm 是坐标判同阈值（km），默认 0.1（100 米）。
	SamePlaceKm float64
}

func NewVisitedFilter(matcher match.Matcher) *VisitedFilter {
	cfg := &core.DefaultEngineConfig{}
	if matcher == nil {
		matcher = match.NewLevenshteinMatcher()
	}
	return &VisitedFilter{
		Matcher:       matcher,
		NameThreshold: cfg.NameMatchThreshold(),
		SamePlaceKm:   cfg.SamePlaceDistanceKm(),
	}
}

func (f *VisitedFilter) Name() string {
	return "filter.visited"
}

func (f *VisitedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || c.Restaurant == nil || rctx == nil || len(rctx.Visited) == 0 {
		return false, nil
	}

	for _, v := range rctx.Visited {
		if v == nil {
			continue
		}
		if v.ID != "" && v.ID == c.Restaurant.ID {
			return true, nil
		}
		if f.samePlace(c.Restaurant, v) {
			return true, nil
		}
	}
	return false, nil
}

func (f *VisitedFilter) samePlace(a, b *core.Restaurant) bool {
	// 坐标判同优先：两店都有坐标且相距 100 米内
	if a.Location.HasCoords() && b.Location.HasCoords() {
		if geo.WithinKm(*a.Location.Lat, *a.Location.Lng, *b.Location.Lat, *b.Location.Lng, f.SamePlaceKm) {
			return true
		}
	}

	// 名称 + 城市判同
	if !strings.EqualFold(a.Location.City, b.Location.City) {
		return false
	}
	matcher := f.Matcher
	if matcher == nil {
		matcher = match.NewLevenshteinMatcher()
	}
	return matcher.Ratio(a.Name, b.Name) >= f.NameThreshold
}

var _ Filter = (*VisitedFilter)(nil)
