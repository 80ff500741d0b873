// Package scorer 提供画像-候选相似度与地理距离的打分实现。
// 打分函数均为纯函数：只读入参，可跨请求、跨候选并发调用。
package scorer

import "github.com/pickyrec/picky/core"

// ProfileScorer 计算画像与候选餐厅的口味相似度（0-1）。
type ProfileScorer interface {
	Score(p *core.PreferenceProfile, r *core.Restaurant) float64
}

// PairScorer 计算两家餐厅的相似度（0-1），用于"找相似"。
type PairScorer interface {
	ScorePair(a, b *core.Restaurant) float64
}

// DistanceScorer 计算原点到候选的距离与归一化近邻分。
type DistanceScorer interface {
	// DistanceKm 返回大圆距离；候选坐标缺失时 ok=false。
	DistanceKm(origin core.GeoPoint, r *core.Restaurant) (km float64, ok bool)

	// Score 把距离归一化为 [0,1]：max(0, 1 - km/radiusKm)。
	Score(km, radiusKm float64) float64
}
