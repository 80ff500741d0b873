// Package rank 计算候选的复合分并排序。
package rank

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
	"github.com/pickyrec/picky/pkg/utils"
	"github.com/pickyrec/picky/scorer"
)

// 复合分权重：带原点请求按 0.6×相似度 + 0.4×距离分融合
//（价位契合已折算进相似度），无原点请求退化为纯相似度排序。
const (
	similarityWeight = 0.6
	distanceWeight   = 0.4
)

// ScoreNode 是排序 Node：
//   - 对每个候选计算相似度/距离组件分与复合分（候选间无共享状态，可并发）
//   - 写入 matched_cuisines / matched_vibes / distance_band 标签供解释阶段使用
//   - 复合分降序排序，平分按聚合评分降序、再按名称字典序
type ScoreNode struct {
	Similarity *scorer.Similarity
	Distance   scorer.DistanceScorer

	// Concurrency 是打分并发度，<=0 时取 CPU 数。
	Concurrency int
}

func NewScoreNode() *ScoreNode {
	return &ScoreNode{
		Similarity: scorer.NewSimilarity(),
		Distance:   scorer.NewDistance(),
	}
}

func (n *ScoreNode) Name() string        { return "rank.score" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}
	sim := n.Similarity
	if sim == nil {
		sim = scorer.NewSimilarity()
	}
	dist := n.Distance
	if dist == nil {
		dist = scorer.NewDistance()
	}

	limit := n.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for _, c := range candidates {
		if c == nil || c.Restaurant == nil {
			continue
		}
		cand := c
		eg.Go(func() error {
			n.scoreOne(rctx, cand, sim, dist)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci == nil || ci.Restaurant == nil {
			return false
		}
		if cj == nil || cj.Restaurant == nil {
			return true
		}
		if ci.Score != cj.Score {
			return ci.Score > cj.Score
		}
		ri, rj := ci.Restaurant.RatingOrZero(), cj.Restaurant.RatingOrZero()
		if ri != rj {
			return ri > rj
		}
		return ci.Restaurant.Name < cj.Restaurant.Name
	})
	return candidates, nil
}

func (n *ScoreNode) scoreOne(rctx *core.RecommendContext, c *core.Candidate, sim *scorer.Similarity, dist scorer.DistanceScorer) {
	var profile *core.PreferenceProfile
	if rctx != nil {
		profile = rctx.Profile
	}

	_, _, priceFit := sim.Breakdown(profile, c.Restaurant)
	similarity := sim.Score(profile, c.Restaurant)
	c.PutComponent(core.ComponentSimilarity, similarity)
	c.PutComponent(core.ComponentPriceFit, priceFit)

	if rctx != nil && rctx.Origin != nil && c.DistanceKm != nil {
		radius := rctx.RadiusKm
		if radius <= 0 {
			radius = (&core.DefaultEngineConfig{}).DefaultRadiusKm()
		}
		distScore := dist.Score(*c.DistanceKm, radius)
		c.PutComponent(core.ComponentDistance, distScore)
		c.Score = similarityWeight*similarity + distanceWeight*distScore
		c.PutLabel("distance_band", utils.Label{Value: distanceBand(distScore), Source: "rank"})
	} else {
		// 无原点（城市检索）：距离分视为 1.0，复合分退化为纯相似度
		c.Score = similarity
	}

	if profile == nil {
		return
	}
	if matched := matchedTags(profile.CuisineRank, c.Restaurant.Cuisines); matched != "" {
		c.PutLabel("matched_cuisines", utils.Label{Value: matched, Source: "rank"})
	}
	if matched := matchedTags(profile.VibeRank, c.Restaurant.Vibes); matched != "" {
		c.PutLabel("matched_vibes", utils.Label{Value: matched, Source: "rank"})
	}
}

// matchedTags 按画像的确定性顺序返回命中候选的标签，'|' 连接。
func matchedTags(ranked []string, tags []string) string {
	if len(ranked) == 0 || len(tags) == 0 {
		return ""
	}
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	var hit []string
	for _, t := range ranked {
		if _, ok := set[t]; ok {
			hit = append(hit, t)
		}
	}
	return strings.Join(hit, "|")
}

// distanceBand 按距离分的三分位给出距离档："close" / "moderate" / "far"。
func distanceBand(score float64) string {
	switch {
	case score >= 2.0/3.0:
		return "close"
	case score >= 1.0/3.0:
		return "moderate"
	default:
		return "far"
	}
}
