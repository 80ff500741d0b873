package core

import "time"

// Interaction 是用户与餐厅的一次交互记录（评分 / 到访 / 想去）。
// 每个 (user, restaurant) 只保留一条，重复导入按 upsert 处理；
// 除用户显式修正外不可变。
type Interaction struct {
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	// Rating 是用户评分（1-5），nil 表示未评分。
	Rating   *float64 `json:"rating,omitempty"`
	Visited  bool     `json:"visited,omitempty"`
	Wishlist bool     `json:"wishlist,omitempty"`
	Note     string   `json:"note,omitempty"`
	// Revisit 是"是否愿意再去"，nil 表示未表态。
	Revisit *bool `json:"revisit,omitempty"`
	// CreatedAt 用于画像计算中的时间序 tie-break。
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Rated 判断该交互是否带有效评分。
func (i *Interaction) Rated() bool {
	return i != nil && i.Rating != nil
}

// Validate 校验结构必填字段。
func (i *Interaction) Validate() error {
	if i == nil || i.UserID == "" || i.RestaurantID == "" {
		return ErrInvalidInteraction
	}
	return nil
}
