// Package geo 提供大圆距离计算。
package geo

import "math"

const earthRadiusKm = 6371.0088

// HaversineKm 计算两点间的大圆距离（km），Haversine 公式。
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// WithinKm 判断两点是否在 threshold（km）范围内。
func WithinKm(lat1, lng1, lat2, lng2, threshold float64) bool {
	return HaversineKm(lat1, lng1, lat2, lng2) <= threshold
}
