package core

import "time"

// RestaurantSource 标记餐厅记录的来源：用户录入或外部补全。
type RestaurantSource string

const (
	SourceUser     RestaurantSource = "user"     // 用户录入（CSV 导入 / 手动添加）
	SourceEnriched RestaurantSource = "enriched" // 外部服务补全（如地点检索结果）
)

// Location 是餐厅的地理信息。Lat/Lng 为 nil 表示坐标缺失（不报错，打分时降级处理）。
type Location struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address string   `json:"address,omitempty"`
	City    string   `json:"city,omitempty"`
	State   string   `json:"state,omitempty"`
}

// HasCoords 判断坐标是否可用。
func (l Location) HasCoords() bool {
	return l.Lat != nil && l.Lng != nil
}

// Restaurant 是推荐链路中的候选实体。
// 创建后除补全字段外不可变；补全字段只允许填充一次（见 Enrich）。
type Restaurant struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Cuisines []string `json:"cuisines,omitempty"` // 菜系标签
	Vibes    []string `json:"vibes,omitempty"`    // 氛围标签
	// PriceLevel 是价位档次（1-4），0 表示未知。
	PriceLevel int      `json:"price_level,omitempty"`
	Location   Location `json:"location"`
	// Rating 是聚合评分（0-5），nil 表示缺失。
	Rating *float64         `json:"rating,omitempty"`
	Source RestaurantSource `json:"source,omitempty"`

	// 补全字段：由外部检索服务一次性填充
	PlaceID      string   `json:"place_id,omitempty"`
	MenuItems    []string `json:"menu_items,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`

	// 用户标注
	Notes      string `json:"notes,omitempty"`
	Revisit    bool   `json:"revisit,omitempty"`     // 用户标记"愿意再去"
	IsWishlist bool   `json:"is_wishlist,omitempty"` // 想去清单中的餐厅

	UpdateTime time.Time `json:"update_time,omitempty"`
}

// Validate 校验结构必填字段。只有标识缺失才算 InvalidInput，
// 评分/坐标/标签等可选字段缺失由打分侧降级处理。
func (r *Restaurant) Validate() error {
	if r == nil || r.ID == "" {
		return ErrInvalidRestaurant
	}
	return nil
}

// Enrich 填充补全字段。已有 PlaceID 的记录视为已补全，重复调用不生效。
func (r *Restaurant) Enrich(placeID string, rating *float64, menuItems []string, neighborhood string) bool {
	if r.PlaceID != "" {
		return false
	}
	r.PlaceID = placeID
	if r.Rating == nil {
		r.Rating = rating
	}
	if len(r.MenuItems) == 0 {
		r.MenuItems = menuItems
	}
	if r.Neighborhood == "" {
		r.Neighborhood = neighborhood
	}
	r.UpdateTime = time.Now()
	return true
}

// RatingOrZero 返回聚合评分，缺失时为 0（用于排序兜底）。
func (r *Restaurant) RatingOrZero() float64 {
	if r == nil || r.Rating == nil {
		return 0
	}
	return *r.Rating
}
