// Package profile 从交互历史构建用户口味画像，并支持会话反馈的增量调整。
package profile

import (
	"sort"
	"time"

	"github.com/pickyrec/picky/core"
)

// Catalog 是餐厅查询的窄接口，由存储/导入协作方提供。
// 画像计算只需要按 ID 取餐厅标签，不关心底层存储。
type Catalog interface {
	Restaurant(id string) (*core.Restaurant, bool)
}

// MapCatalog 是基于内存 map 的 Catalog 实现，适合协作方一次性交付记录集的场景。
type MapCatalog map[string]*core.Restaurant

func (m MapCatalog) Restaurant(id string) (*core.Restaurant, bool) {
	r, ok := m[id]
	return r, ok
}

// MapCatalogOf 从记录切片构建 MapCatalog，跳过无标识的记录。
func MapCatalogOf(restaurants []*core.Restaurant) MapCatalog {
	m := make(MapCatalog, len(restaurants))
	for _, r := range restaurants {
		if r != nil && r.ID != "" {
			m[r.ID] = r
		}
	}
	return m
}

// Analyzer 从评分交互构建/更新 PreferenceProfile。
type Analyzer struct {
	Catalog Catalog
}

func NewAnalyzer(catalog Catalog) *Analyzer {
	return &Analyzer{Catalog: catalog}
}

// BuildProfile 从交互历史构建画像。
//
// 规则：
//   - 只统计带评分的交互；全部无评分时返回空画像（权重为空，价位舒适区全范围）
//   - 标签权重 = 该标签的评分加权出现量（rating/5）/ 该维度总量，维度内归一化
//   - 平权标签按最近交互序、再按字典序排序，保证解释文案输出确定
//   - 价位舒适区 = 评分 >=3 的交互的 [min,max] 档次；无则退化为全部评分交互；再无则全范围
func (a *Analyzer) BuildProfile(userID string, interactions []*core.Interaction) (*core.PreferenceProfile, error) {
	p := core.NewPreferenceProfile(userID)
	if userID == "" {
		return nil, core.ErrInvalidInteraction
	}

	rated := make([]*core.Interaction, 0, len(interactions))
	for _, it := range interactions {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if it.Rated() {
			rated = append(rated, it)
		}
	}
	if len(rated) == 0 {
		return p, nil
	}

	// 稳定的时间序：新交互在前，同时间按餐厅 ID
	sort.SliceStable(rated, func(i, j int) bool {
		if !rated[i].CreatedAt.Equal(rated[j].CreatedAt) {
			return rated[i].CreatedAt.After(rated[j].CreatedAt)
		}
		return rated[i].RestaurantID < rated[j].RestaurantID
	})

	var (
		cuisineMass = make(map[string]float64)
		vibeMass    = make(map[string]float64)
		lastSeen    = make(map[string]time.Time)
		ratingSum   float64
	)

	comfort := priceRange{}
	fallback := priceRange{}

	for _, it := range rated {
		rating := *it.Rating
		ratingSum += rating
		w := rating / 5.0

		r, ok := a.lookup(it.RestaurantID)
		if !ok {
			continue
		}
		for _, tag := range r.Cuisines {
			cuisineMass[tag] += w
			markSeen(lastSeen, "c:"+tag, it.CreatedAt)
		}
		for _, tag := range r.Vibes {
			vibeMass[tag] += w
			markSeen(lastSeen, "v:"+tag, it.CreatedAt)
		}
		if r.PriceLevel >= core.PriceLevelMin && r.PriceLevel <= core.PriceLevelMax {
			fallback.extend(r.PriceLevel)
			if rating >= 3 {
				comfort.extend(r.PriceLevel)
			}
		}
	}

	p.CuisineWeights = normalize(cuisineMass)
	p.VibeWeights = normalize(vibeMass)
	p.CuisineRank = rankTags(p.CuisineWeights, lastSeen, "c:")
	p.VibeRank = rankTags(p.VibeWeights, lastSeen, "v:")
	p.RatedCount = len(rated)
	p.AvgRating = ratingSum / float64(len(rated))

	switch {
	case comfort.valid():
		p.PriceMin, p.PriceMax = comfort.min, comfort.max
	case fallback.valid():
		p.PriceMin, p.PriceMax = fallback.min, fallback.max
	default:
		p.PriceMin, p.PriceMax = core.PriceLevelMin, core.PriceLevelMax
	}

	p.UpdateTime = time.Now()
	return p, nil
}

func (a *Analyzer) lookup(id string) (*core.Restaurant, bool) {
	if a == nil || a.Catalog == nil {
		return nil, false
	}
	return a.Catalog.Restaurant(id)
}

type priceRange struct {
	min, max int
}

func (pr *priceRange) extend(level int) {
	if pr.min == 0 || level < pr.min {
		pr.min = level
	}
	if level > pr.max {
		pr.max = level
	}
}

func (pr *priceRange) valid() bool {
	return pr.min != 0
}

func markSeen(lastSeen map[string]time.Time, key string, at time.Time) {
	if cur, ok := lastSeen[key]; !ok || at.After(cur) {
		lastSeen[key] = at
	}
}

// normalize 把口味标签的原始质量归一化为分布（求和为 1）；空输入返回空 map。
func normalize(mass map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(mass))
	var total float64
	for _, v := range mass {
		total += v
	}
	if total <= 0 {
		return out
	}
	for tag, v := range mass {
		out[tag] = v / total
	}
	return out
}

// rankTags 计算确定性标签顺序：权重降序 → 最近交互序 → 字典序。
func rankTags(weights map[string]float64, lastSeen map[string]time.Time, prefix string) []string {
	rank := make([]string, 0, len(weights))
	for tag := range weights {
		rank = append(rank, tag)
	}
	sort.Slice(rank, func(i, j int) bool {
		wi, wj := weights[rank[i]], weights[rank[j]]
		if wi != wj {
			return wi > wj
		}
		ti, tj := lastSeen[prefix+rank[i]], lastSeen[prefix+rank[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return rank[i] < rank[j]
	})
	return rank
}
