package core

import (
	"sort"
	"time"
)

// 价位档次的取值范围（1=平价 ... 4=高端）。
const (
	PriceLevelMin = 1
	PriceLevelMax = 4
)

// PreferenceProfile 是用户口味的数值画像。
//
// 一句话定义：画像 = 推荐打分的"口味分布 + 价位舒适区 + 评分基线"
//
// 不变量：
//   - CuisineWeights / VibeWeights 为归一化分布（各自求和为 1），或完全为空
//   - CuisineRank / VibeRank 是对应维度的确定性标签顺序，驱动解释文案
//   - PriceMin <= PriceMax，均落在 [1,4]
//
// 生命周期：首次打分请求时由交互历史构建；会话反馈通过 Nudge 增量调整，
// 不需要回放全量历史。
type PreferenceProfile struct {
	UserID string `json:"user_id"`

	// 口味分布（长期）- 打分核心
	CuisineWeights map[string]float64 `json:"cuisine_weights,omitempty"`
	VibeWeights    map[string]float64 `json:"vibe_weights,omitempty"`

	// CuisineRank / VibeRank 是标签的确定性展示顺序：
	// 权重降序，平权时按最近交互序、再按字典序。
	CuisineRank []string `json:"cuisine_rank,omitempty"`
	VibeRank    []string `json:"vibe_rank,omitempty"`

	// 价位舒适区 [PriceMin, PriceMax]
	PriceMin int `json:"price_min"`
	PriceMax int `json:"price_max"`

	// 评分统计
	RatedCount int     `json:"rated_count,omitempty"`
	AvgRating  float64 `json:"avg_rating,omitempty"`

	UpdateTime time.Time `json:"update_time,omitempty"`
}

// NewPreferenceProfile 创建一个空画像：权重为空，价位舒适区为全范围。
func NewPreferenceProfile(userID string) *PreferenceProfile {
	return &PreferenceProfile{
		UserID:         userID,
		CuisineWeights: make(map[string]float64),
		VibeWeights:    make(map[string]float64),
		PriceMin:       PriceLevelMin,
		PriceMax:       PriceLevelMax,
		UpdateTime:     time.Now(),
	}
}

// Empty 判断画像是否为空（没有任何已评分交互支撑）。
func (p *PreferenceProfile) Empty() bool {
	return p == nil || (len(p.CuisineWeights) == 0 && len(p.VibeWeights) == 0)
}

// Normalized 校验归一化不变量：两个维度的权重分布各自为空，或求和为 1（容差 1e-9）。
func (p *PreferenceProfile) Normalized() bool {
	if p == nil {
		return true
	}
	return distributionOK(p.CuisineWeights) && distributionOK(p.VibeWeights)
}

func distributionOK(weights map[string]float64) bool {
	if len(weights) == 0 {
		return true
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum > 1-1e-9 && sum < 1+1e-9
}

// Clone 返回深拷贝，用于会话快照（会话内 Nudge 不应影响原画像）。
func (p *PreferenceProfile) Clone() *PreferenceProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.CuisineWeights = make(map[string]float64, len(p.CuisineWeights))
	for k, v := range p.CuisineWeights {
		cp.CuisineWeights[k] = v
	}
	cp.VibeWeights = make(map[string]float64, len(p.VibeWeights))
	for k, v := range p.VibeWeights {
		cp.VibeWeights[k] = v
	}
	cp.CuisineRank = append([]string(nil), p.CuisineRank...)
	cp.VibeRank = append([]string(nil), p.VibeRank...)
	return &cp
}

// PriceInComfort 判断价位档次是否落在舒适区内。
func (p *PreferenceProfile) PriceInComfort(level int) bool {
	if p == nil {
		return true
	}
	return level >= p.PriceMin && level <= p.PriceMax
}

// CuisineWeightsOrNil 返回菜系权重表，nil 画像返回 nil（查空 map 语义）。
func (p *PreferenceProfile) CuisineWeightsOrNil() map[string]float64 {
	if p == nil {
		return nil
	}
	return p.CuisineWeights
}

// VibeWeightsOrNil 返回氛围权重表，nil 画像返回 nil。
func (p *PreferenceProfile) VibeWeightsOrNil() map[string]float64 {
	if p == nil {
		return nil
	}
	return p.VibeWeights
}

// TopCuisines 按确定性顺序返回前 n 个菜系标签。
func (p *PreferenceProfile) TopCuisines(n int) []string {
	if p == nil {
		return nil
	}
	return topRank(p.CuisineRank, n)
}

// TopVibes 按确定性顺序返回前 n 个氛围标签。
func (p *PreferenceProfile) TopVibes(n int) []string {
	if p == nil {
		return nil
	}
	return topRank(p.VibeRank, n)
}

func topRank(rank []string, n int) []string {
	if n <= 0 || len(rank) == 0 {
		return nil
	}
	if n > len(rank) {
		n = len(rank)
	}
	return append([]string(nil), rank[:n]...)
}

// RankByWeight 计算权重降序的确定性标签顺序；平权时按字典序。
// 画像构建时如需时间序 tie-break，由 profile 包在此之上叠加最近交互序。
func RankByWeight(weights map[string]float64) []string {
	rank := make([]string, 0, len(weights))
	for tag := range weights {
		rank = append(rank, tag)
	}
	sort.Slice(rank, func(i, j int) bool {
		wi, wj := weights[rank[i]], weights[rank[j]]
		if wi != wj {
			return wi > wj
		}
		return rank[i] < rank[j]
	})
	return rank
}
