// Package engine 把召回/过滤/排序/解释组装成面向调用方的推荐入口。
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/explain"
	"github.com/pickyrec/picky/filter"
	"github.com/pickyrec/picky/match"
	"github.com/pickyrec/picky/pipeline"
	"github.com/pickyrec/picky/rank"
	"github.com/pickyrec/picky/rerank"
	"github.com/pickyrec/picky/scorer"
)

// 心愿单候选的加成分，封顶 1.0。
const wishlistBoost = 0.3

// Engine 是推荐引擎：给定画像与候选目录，产出排好序、带理由的推荐。
// 引擎本身无状态，同一实例可被并发使用；会话状态由 session 包承载。
type Engine struct {
	Matcher    match.Matcher
	Similarity *scorer.Similarity
	Distance   scorer.DistanceScorer
	Config     core.EngineConfig
}

// NewEngine 创建使用默认打分器与配置的引擎。
func NewEngine() *Engine {
	return &Engine{
		Matcher:    match.NewLevenshteinMatcher(),
		Similarity: scorer.NewSimilarity(),
		Distance:   scorer.NewDistance(),
		Config:     &core.DefaultEngineConfig{},
	}
}

// Recommend 执行一次完整的推荐：去重过滤 → 打分排序 → 截断 → 生成理由。
// 候选全部被过滤时返回空切片，不视为错误。
func (e *Engine) Recommend(
	ctx context.Context,
	rctx *core.RecommendContext,
	restaurants []*core.Restaurant,
	limit int,
) ([]*core.Recommendation, error) {
	if err := rctx.Validate(); err != nil {
		return nil, err
	}

	candidates := wrap(restaurants)
	p := e.buildPipeline(limit)

	out, err := p.Run(ctx, rctx, candidates)
	if err != nil {
		return nil, err
	}
	return toRecommendations(out), nil
}

// RecommendByCity 是城市检索入口：不做半径过滤，复合分退化为纯相似度。
func (e *Engine) RecommendByCity(
	ctx context.Context,
	rctx *core.RecommendContext,
	restaurants []*core.Restaurant,
	city, state string,
	limit int,
) ([]*core.Recommendation, error) {
	if rctx == nil {
		return nil, core.ErrInvalidContext
	}
	rctx.Origin = nil
	rctx.City = city
	rctx.State = state
	return e.Recommend(ctx, rctx, restaurants, limit)
}

// FindSimilar 返回与目标餐厅最像的候选（"像 X 这样的店"检索）。
// 只看标签重合（0.6×菜系 + 0.4×氛围），不考虑距离；
// 相似度低于配置下限的候选不返回。
func (e *Engine) FindSimilar(
	_ context.Context,
	target *core.Restaurant,
	restaurants []*core.Restaurant,
	limit int,
) ([]*core.Recommendation, error) {
	if target == nil {
		return nil, core.ErrInvalidRestaurant
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	sim := e.similarity()
	floor := e.config().PairSimilarityFloor()

	var out []*core.Recommendation
	for _, r := range restaurants {
		if r == nil || r.ID == target.ID {
			continue
		}
		score := sim.ScorePair(target, r)
		if score < floor {
			continue
		}
		c := core.NewCandidate(r)
		c.Score = score
		c.PutComponent(core.ComponentSimilarity, score)
		out = append(out, c.ToRecommendation(fmt.Sprintf("Similar to %s", target.Name)))
	}

	sortRecommendations(out)
	return truncate(out, e.limitOrDefault(limit)), nil
}

// WishlistRecommendations 从心愿单里挑当下最合适的：正常打分后
// 加上心愿单加成（+0.3，封顶 1.0），理由带 "From your wishlist" 前缀。
func (e *Engine) WishlistRecommendations(
	ctx context.Context,
	rctx *core.RecommendContext,
	wishlist []*core.Restaurant,
	limit int,
) ([]*core.Recommendation, error) {
	if err := rctx.Validate(); err != nil {
		return nil, err
	}

	candidates := wrap(wishlist)
	p := &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			e.filterNode(),
			e.rankNode(),
		},
	}
	scored, err := p.Run(ctx, rctx, candidates)
	if err != nil {
		return nil, err
	}

	var profile *core.PreferenceProfile
	if rctx != nil {
		profile = rctx.Profile
	}

	out := make([]*core.Recommendation, 0, len(scored))
	for _, c := range scored {
		if c == nil || c.Restaurant == nil {
			continue
		}
		c.Score += wishlistBoost
		if c.Score > 1.0 {
			c.Score = 1.0
		}
		reasoning := "From your wishlist; " + explain.Reasoning(profile, c)
		out = append(out, c.ToRecommendation(reasoning))
	}

	sortRecommendations(out)
	return truncate(out, e.limitOrDefault(limit)), nil
}

// buildPipeline 组装标准推荐链路。
func (e *Engine) buildPipeline(limit int) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			e.filterNode(),
			e.rankNode(),
			&rerank.TopNNode{N: e.limitOrDefault(limit)},
			explain.NewReasonNode(),
		},
	}
}

func (e *Engine) filterNode() *filter.Node {
	matcher := e.Matcher
	if matcher == nil {
		matcher = match.NewLevenshteinMatcher()
	}
	visited := filter.NewVisitedFilter(matcher)
	cfg := e.config()
	visited.NameThreshold = cfg.NameMatchThreshold()
	visited.SamePlaceKm = cfg.SamePlaceDistanceKm()

	radius := filter.NewRadiusFilter(e.distance())
	radius.DefaultRadiusKm = cfg.DefaultRadiusKm()

	return &filter.Node{
		Filters: []filter.Filter{
			filter.NewShownFilter(),
			visited,
			radius,
			filter.NewCityFilter(),
		},
	}
}

func (e *Engine) rankNode() *rank.ScoreNode {
	n := rank.NewScoreNode()
	n.Similarity = e.similarity()
	n.Distance = e.distance()
	return n
}

func (e *Engine) similarity() *scorer.Similarity {
	if e.Similarity != nil {
		return e.Similarity
	}
	return scorer.NewSimilarity()
}

func (e *Engine) distance() scorer.DistanceScorer {
	if e.Distance != nil {
		return e.Distance
	}
	return scorer.NewDistance()
}

func (e *Engine) config() core.EngineConfig {
	if e.Config != nil {
		return e.Config
	}
	return &core.DefaultEngineConfig{}
}

func (e *Engine) limitOrDefault(limit int) int {
	if limit > 0 {
		return limit
	}
	return e.config().DefaultLimit()
}

func wrap(restaurants []*core.Restaurant) []*core.Candidate {
	out := make([]*core.Candidate, 0, len(restaurants))
	for _, r := range restaurants {
		if r == nil {
			continue
		}
		out = append(out, core.NewCandidate(r))
	}
	return out
}

func toRecommendations(candidates []*core.Candidate) []*core.Recommendation {
	out := make([]*core.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Restaurant == nil {
			continue
		}
		reasoning := ""
		if c.Labels != nil {
			reasoning = c.Labels[core.LabelReasoning].Value
		}
		out = append(out, c.ToRecommendation(reasoning))
	}
	return out
}

// sortRecommendations 统一的结果排序：分数降序、评分降序、名称字典序。
func sortRecommendations(recs []*core.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		ri, rj := recs[i].Restaurant.RatingOrZero(), recs[j].Restaurant.RatingOrZero()
		if ri != rj {
			return ri > rj
		}
		return recs[i].Restaurant.Name < recs[j].Restaurant.Name
	})
}

func truncate(recs []*core.Recommendation, n int) []*core.Recommendation {
	if n <= 0 || len(recs) <= n {
		return recs
	}
	return recs[:n]
}
