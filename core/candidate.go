package core

import "github.com/pickyrec/picky/pkg/utils"

// 组件分的标准 key，贯穿 Rank → Explain。
const (
	ComponentSimilarity = "similarity"
	ComponentDistance   = "distance"
	ComponentPriceFit   = "price_fit"
)

// LabelReasoning 是解释阶段写入推荐理由的标签 key。
const LabelReasoning = "reasoning"

// Candidate 是推荐链路中的统一承载结构：餐厅实体、分数、组件分、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Candidate struct {
	Restaurant *Restaurant
	Score      float64
	// Components 记录复合分的各组成项（similarity / distance / price_fit）。
	Components map[string]float64
	// DistanceKm 是与请求原点的大圆距离，nil 表示无原点或坐标缺失。
	DistanceKm *float64
	Labels     map[string]utils.Label
}

// NewCandidate 把餐厅包装为链路候选。
func NewCandidate(r *Restaurant) *Candidate {
	return &Candidate{
		Restaurant: r,
		Components: make(map[string]float64),
		Labels:     make(map[string]utils.Label),
	}
}

// ID 返回候选餐厅标识，空候选返回 ""。
func (c *Candidate) ID() string {
	if c == nil || c.Restaurant == nil {
		return ""
	}
	return c.Restaurant.ID
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// PutComponent 记录一项组件分。
func (c *Candidate) PutComponent(key string, v float64) {
	if c.Components == nil {
		c.Components = make(map[string]float64)
	}
	c.Components[key] = v
}

// Recommendation 是返回给调用方的最终结果：请求内构建，核心不持久化。
type Recommendation struct {
	Restaurant *Restaurant
	// Score 是复合分，落在 [0,1]。
	Score float64
	// Components 是复合分的组成项快照。
	Components map[string]float64
	// Reasoning 是人类可读的推荐理由。
	Reasoning  string
	DistanceKm *float64
}

// ToRecommendation 把打分后的候选转为对外结果。
func (c *Candidate) ToRecommendation(reasoning string) *Recommendation {
	comps := make(map[string]float64, len(c.Components))
	for k, v := range c.Components {
		comps[k] = v
	}
	return &Recommendation{
		Restaurant: c.Restaurant,
		Score:      c.Score,
		Components: comps,
		Reasoning:  reasoning,
		DistanceKm: c.DistanceKm,
	}
}
