package scorer

import (
	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pkg/geo"
)

// Distance 是地理近邻打分器：大圆距离 + 线性归一化。
// 半径是硬过滤而非软惩罚——到达/超出半径的候选由 RadiusFilter 整体剔除，
// 这里只负责给幸存候选算分。
type Distance struct{}

func NewDistance() *Distance {
	return &Distance{}
}

// DistanceKm 返回原点到候选的大圆距离；候选坐标缺失时 ok=false。
func (d *Distance) DistanceKm(origin core.GeoPoint, r *core.Restaurant) (float64, bool) {
	if r == nil || !r.Location.HasCoords() {
		return 0, false
	}
	return geo.HaversineKm(origin.Lat, origin.Lng, *r.Location.Lat, *r.Location.Lng), true
}

// Score 把距离归一化为 [0,1]：max(0, 1 - km/radiusKm)。
func (d *Distance) Score(km, radiusKm float64) float64 {
	if radiusKm <= 0 {
		return 0
	}
	s := 1 - km/radiusKm
	if s < 0 {
		return 0
	}
	return s
}

var _ DistanceScorer = (*Distance)(nil)
