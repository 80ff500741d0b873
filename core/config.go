package core

// EngineConfig 是推荐引擎相关的配置接口，用于提供默认值。
type EngineConfig interface {
	// DefaultRadiusKm 返回位置检索的默认半径（km）
	DefaultRadiusKm() float64

	// DefaultLimit 返回默认返回条数
	DefaultLimit() int

	// NameMatchThreshold 返回去重的模糊名称匹配阈值（0-100）
	NameMatchThreshold() int

	// SamePlaceDistanceKm 返回判定同一地点的坐标距离阈值（km）
	SamePlaceDistanceKm() float64

	// PairSimilarityFloor 返回"找相似"的最低相似度门槛
	PairSimilarityFloor() float64
}

// DefaultEngineConfig 是默认的引擎配置实现。
type DefaultEngineConfig struct{}

func (c *DefaultEngineConfig) DefaultRadiusKm() float64 {
	return 25
}

func (c *DefaultEngineConfig) DefaultLimit() int {
	return 10
}

func (c *DefaultEngineConfig) NameMatchThreshold() int {
	return 85
}

func (c *DefaultEngineConfig) SamePlaceDistanceKm() float64 {
	return 0.1
}

func (c *DefaultEngineConfig) PairSimilarityFloor() float64 {
	return 0.3
}
