package profile

import (
	"time"

	"github.com/pickyrec/picky/core"
)

// NudgeIncrement 是单次反馈对标签权重的调整幅度：当前总质量的 10%。
const NudgeIncrement = 0.1

// Nudge 按会话反馈对画像做有界增量调整，返回新画像，不修改入参。
//
// 更新顺序是刻意固定的（会话学习的 tie-break 依赖它）：
//  1. liked 餐厅的标签各 +increment
//  2. disliked 餐厅的标签各 -increment（下限 0）
//  3. explicitTags 提升到不低于当前最大权重
//  4. 维度内重新归一化
//
// 只依赖当前画像与反馈增量，不回放交互历史——这是会话能快速迭代的原因。
func Nudge(p *core.PreferenceProfile, liked, disliked []*core.Restaurant, explicitTags []string) *core.PreferenceProfile {
	out := p.Clone()
	if out == nil {
		out = core.NewPreferenceProfile("")
	}

	out.CuisineWeights = nudgeWeights(out.CuisineWeights, tagsOf(liked, cuisineDim), tagsOf(disliked, cuisineDim))
	out.VibeWeights = nudgeWeights(out.VibeWeights, tagsOf(liked, vibeDim), tagsOf(disliked, vibeDim))

	applyExplicit(out, explicitTags)

	out.CuisineWeights = normalize(out.CuisineWeights)
	out.VibeWeights = normalize(out.VibeWeights)
	out.CuisineRank = core.RankByWeight(out.CuisineWeights)
	out.VibeRank = core.RankByWeight(out.VibeWeights)
	out.UpdateTime = time.Now()
	return out
}

type dimension int

const (
	cuisineDim dimension = iota
	vibeDim
)

func tagsOf(restaurants []*core.Restaurant, dim dimension) []string {
	var tags []string
	for _, r := range restaurants {
		if r == nil {
			continue
		}
		if dim == cuisineDim {
			tags = append(tags, r.Cuisines...)
		} else {
			tags = append(tags, r.Vibes...)
		}
	}
	return tags
}

// nudgeWeights 应用 liked/disliked 增量。空画像由 liked 标签均匀起种。
func nudgeWeights(weights map[string]float64, likedTags, dislikedTags []string) map[string]float64 {
	out := make(map[string]float64, len(weights))
	var total float64
	for tag, w := range weights {
		out[tag] = w
		total += w
	}
	if total <= 0 {
		total = 1.0
	}
	inc := NudgeIncrement * total

	for _, tag := range likedTags {
		out[tag] += inc
	}
	for _, tag := range dislikedTags {
		if w, ok := out[tag]; ok {
			w -= inc
			if w < 0 {
				w = 0
			}
			out[tag] = w
		}
	}
	return out
}

// applyExplicit 把显式标签偏好提升到不低于所在维度的当前最大权重。
// 标签已存在于某维度时在该维度提升，两个维度都没有时按菜系标签处理。
func applyExplicit(p *core.PreferenceProfile, tags []string) {
	if len(tags) == 0 {
		return
	}
	cuisineMax := maxWeight(p.CuisineWeights)
	vibeMax := maxWeight(p.VibeWeights)

	for _, tag := range tags {
		if tag == "" {
			continue
		}
		_, inCuisine := p.CuisineWeights[tag]
		_, inVibe := p.VibeWeights[tag]
		switch {
		case inVibe && !inCuisine:
			if p.VibeWeights[tag] < vibeMax {
				p.VibeWeights[tag] = vibeMax
			}
		default:
			if p.CuisineWeights == nil {
				p.CuisineWeights = make(map[string]float64)
			}
			if p.CuisineWeights[tag] < cuisineMax {
				p.CuisineWeights[tag] = cuisineMax
			}
			if p.CuisineWeights[tag] == 0 {
				// 空维度起种：给显式标签一个非零权重，归一化后独占分布
				p.CuisineWeights[tag] = NudgeIncrement
			}
		}
	}
}

func maxWeight(weights map[string]float64) float64 {
	var max float64
	for _, w := range weights {
		if w > max {
			max = w
		}
	}
	return max
}
