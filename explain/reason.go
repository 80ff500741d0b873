// Package explain 为排好序的候选生成人类可读的推荐理由。
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
	"github.com/pickyrec/picky/pkg/utils"
)

// 画像权重超过该阈值的标签才值得在理由里点名
const strongTagWeight = 0.2

var priceDescriptions = map[int]string{
	core.PriceLevelMin: "budget-friendly",
	2:                  "moderately priced",
	3:                  "upscale",
	core.PriceLevelMax: "fine dining",
}

// ReasonNode 是后处理 Node：把排序阶段留下的组件分与标签翻译成
// "You love Italian cuisine; Highly rated (4.5/5.0)" 这类理由串，
// 写入候选的 reasoning 标签。放在 TopN 之后只为幸存者生成。
type ReasonNode struct{}

func NewReasonNode() *ReasonNode {
	return &ReasonNode{}
}

func (n *ReasonNode) Name() string        { return "explain.reason" }
func (n *ReasonNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *ReasonNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	var profile *core.PreferenceProfile
	if rctx != nil {
		profile = rctx.Profile
	}
	for _, c := range candidates {
		if c == nil || c.Restaurant == nil {
			continue
		}
		c.PutLabel(core.LabelReasoning, utils.Label{
			Value:  Reasoning(profile, c),
			Source: "explain",
		})
	}
	return candidates, nil
}

// Reasoning 为单个候选生成理由串，分号连接。
func Reasoning(profile *core.PreferenceProfile, c *core.Candidate) string {
	r := c.Restaurant
	var reasons []string

	if len(r.Cuisines) > 0 {
		best, weight := bestTag(profile.CuisineWeightsOrNil(), r.Cuisines)
		if weight > strongTagWeight {
			reasons = append(reasons, fmt.Sprintf("You love %s cuisine", best))
		} else {
			reasons = append(reasons, fmt.Sprintf("Serves %s cuisine", strings.Join(r.Cuisines, ", ")))
		}
	}

	if rating := r.RatingOrZero(); rating >= 4.0 {
		reasons = append(reasons, fmt.Sprintf("Highly rated (%.1f/5.0)", rating))
	}

	if profile != nil && r.PriceLevel != 0 && profile.PriceInComfort(r.PriceLevel) {
		if desc, ok := priceDescriptions[r.PriceLevel]; ok {
			reasons = append(reasons, fmt.Sprintf("Matches your %s preference", desc))
		}
	}

	if len(r.Vibes) > 0 {
		best, weight := bestTag(profile.VibeWeightsOrNil(), r.Vibes)
		if weight > strongTagWeight {
			reasons = append(reasons, fmt.Sprintf("Perfect %s atmosphere for you", strings.ToLower(best)))
		}
	}

	if c.DistanceKm != nil {
		switch bandOf(c) {
		case "close":
			reasons = append(reasons, fmt.Sprintf("Only %.1f km away", *c.DistanceKm))
		case "moderate":
			reasons = append(reasons, fmt.Sprintf("%.1f km away", *c.DistanceKm))
		}
	}

	if r.Revisit {
		reasons = append(reasons, "Previously marked as 'would revisit'")
	}

	if len(reasons) == 0 {
		switch {
		case c.Score > 0.5:
			reasons = append(reasons, "Strongly matches your preferences")
		case c.Score > 0:
			reasons = append(reasons, "Good match for your tastes")
		default:
			reasons = append(reasons, "Worth trying something new")
		}
	}

	return strings.Join(reasons, "; ")
}

// bestTag 返回候选标签里画像权重最高的一个。
// 多个并列取字典序最小的，保证理由串确定。
func bestTag(weights map[string]float64, tags []string) (string, float64) {
	best := ""
	bestWeight := -1.0
	for _, t := range tags {
		w := weights[t]
		if w > bestWeight || (w == bestWeight && t < best) {
			best, bestWeight = t, w
		}
	}
	return best, bestWeight
}

func bandOf(c *core.Candidate) string {
	if c.Labels == nil {
		return ""
	}
	return c.Labels["distance_band"].Value
}
