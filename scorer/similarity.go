package scorer

import "github.com/pickyrec/picky/core"

// 画像-候选相似度的维度权重。
const (
	cuisineWeight = 0.5
	vibeWeight    = 0.3
	priceWeight   = 0.2
)

// 餐厅对相似度的维度权重。
const (
	pairCuisineWeight = 0.6
	pairVibeWeight    = 0.4
)

// Similarity 是相似度打分器。
//
// 画像-候选：0.5×菜系重合 + 0.3×氛围重合 + 0.2×价位契合。
// 重合度 = 候选标签在画像分布中的权重之和（分布归一化，结果天然落在 [0,1]）。
// 某维度候选无标签时该项记 0，不会除零。
//
// 餐厅对：0.6×菜系 Jaccard + 0.4×氛围 Jaccard。
type Similarity struct{}

func NewSimilarity() *Similarity {
	return &Similarity{}
}

func (s *Similarity) Score(p *core.PreferenceProfile, r *core.Restaurant) float64 {
	cuisine, vibe, priceFit := s.Breakdown(p, r)
	return cuisineWeight*cuisine + vibeWeight*vibe + priceWeight*priceFit
}

// Breakdown 返回相似度的三个组成项，供排序节点记录组件分。
func (s *Similarity) Breakdown(p *core.PreferenceProfile, r *core.Restaurant) (cuisine, vibe, priceFit float64) {
	if r == nil {
		return 0, 0, 0
	}
	if p != nil {
		cuisine = overlap(p.CuisineWeights, r.Cuisines)
		vibe = overlap(p.VibeWeights, r.Vibes)
	}
	priceFit = PriceFit(p, r.PriceLevel)
	return cuisine, vibe, priceFit
}

func (s *Similarity) ScorePair(a, b *core.Restaurant) float64 {
	if a == nil || b == nil {
		return 0
	}
	return pairCuisineWeight*jaccard(a.Cuisines, b.Cuisines) +
		pairVibeWeight*jaccard(a.Vibes, b.Vibes)
}

// overlap 求候选标签在画像分布中的权重之和。
func overlap(weights map[string]float64, tags []string) float64 {
	if len(weights) == 0 || len(tags) == 0 {
		return 0
	}
	var sum float64
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		sum += weights[tag]
	}
	if sum > 1 {
		sum = 1
	}
	return sum
}

// PriceFit 计算价位契合度：舒适区内 1.0，出区后在一档缓冲内线性衰减到 0。
// 价位未知时返回中性 0.5。
func PriceFit(p *core.PreferenceProfile, level int) float64 {
	if level < core.PriceLevelMin || level > core.PriceLevelMax {
		return 0.5
	}
	if p == nil || p.PriceInComfort(level) {
		return 1.0
	}
	var outside int
	if level < p.PriceMin {
		outside = p.PriceMin - level
	} else {
		outside = level - p.PriceMax
	}
	fit := 1 - float64(outside)/2
	if fit < 0 {
		return 0
	}
	return fit
}

// jaccard 计算标签集合的 Jaccard 相似度。两个空集视为相同（1.0），单侧为空记 0。
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := toSet(a)
	setB := toSet(b)
	var inter int
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func toSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

var (
	_ ProfileScorer = (*Similarity)(nil)
	_ PairScorer    = (*Similarity)(nil)
)
