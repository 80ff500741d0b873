package core

import "github.com/pickyrec/picky/pkg/utils"

// GeoPoint 是请求原点坐标。
type GeoPoint struct {
	Lat float64
	Lng float64
}

// RecommendContext 承载一次推荐请求的用户/位置/会话信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string

	// Profile 是本次请求使用的口味画像（会话模式下为快照）。
	Profile *PreferenceProfile

	// Origin 是位置检索的原点，nil 表示按城市检索或不限位置。
	Origin *GeoPoint
	// RadiusKm 是硬过滤半径（km），仅在 Origin 非空时生效；<=0 时取默认值。
	RadiusKm float64

	// City / State 是城市检索条件（Origin 为空时生效）。
	City  string
	State string

	// Visited 是用户已到访集合，供去重过滤使用。
	Visited []*Restaurant

	// Shown 是会话内已展示过的餐厅 ID，供轮次过滤使用。
	Shown map[string]struct{}

	// Labels 是请求级标签，可驱动 Pipeline 行为（如规则过滤）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（实验开关、调试标记等）。
	Params map[string]any
}

// Validate 校验请求必填字段。
func (rctx *RecommendContext) Validate() error {
	if rctx == nil || rctx.UserID == "" {
		return ErrInvalidContext
	}
	return nil
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// IsShown 判断餐厅是否已在会话中展示过。
func (rctx *RecommendContext) IsShown(id string) bool {
	if rctx == nil || rctx.Shown == nil {
		return false
	}
	_, ok := rctx.Shown[id]
	return ok
}
