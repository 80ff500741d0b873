package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/explain"
	"github.com/pickyrec/picky/filter"
	"github.com/pickyrec/picky/match"
	"github.com/pickyrec/picky/pipeline"
	"github.com/pickyrec/picky/pkg/conv"
	"github.com/pickyrec/picky/rank"
	"github.com/pickyrec/picky/recall"
	"github.com/pickyrec/picky/rerank"
)

func init() {
	Register("recall.static", buildStaticNode)
	Register("recall.fanout", buildFanoutNode)
	Register("filter", buildFilterNode)
	Register("rank.score", buildScoreNode)
	Register("rerank.topn", buildTopNNode)
	Register("rerank.diversity", buildDiversityNode)
	Register("explain.reason", buildReasonNode)
}

func buildStaticNode(config map[string]interface{}) (pipeline.Node, error) {
	restaurants, err := decodeRestaurants(config["restaurants"])
	if err != nil {
		return nil, err
	}
	return recall.NewStatic(restaurants), nil
}

func buildFanoutNode(config map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := config["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet[string](sourceMap, "type", "")
		switch sourceType {
		case "static":
			restaurants, err := decodeRestaurants(sourceMap["restaurants"])
			if err != nil {
				return nil, err
			}
			sources = append(sources, recall.NewStatic(restaurants))
		case "store", "wishlist":
			// 需要运行期注入 core.Store 实例，配置文件无法表达；
			// 用 Store 承载的召回源请在代码里组装 Fanout
			return nil, fmt.Errorf("source type %q requires a store instance, assemble in code", sourceType)
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{Sources: sources}
	if sec := conv.ConfigGetInt(config, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	fanout.MaxConcurrent = conv.ConfigGetInt(config, "max_concurrent", 0)
	return fanout, nil
}

func buildFilterNode(config map[string]interface{}) (pipeline.Node, error) {
	names := conv.SliceAnyToString(config["filters"])
	if names == nil {
		// 默认组合即引擎的标准过滤链
		names = []string{"shown", "visited", "radius", "city"}
	}

	var filters []filter.Filter
	for _, name := range names {
		switch name {
		case "shown":
			filters = append(filters, filter.NewShownFilter())
		case "visited":
			visited := filter.NewVisitedFilter(match.NewLevenshteinMatcher())
			visited.NameThreshold = conv.ConfigGetInt(config, "name_threshold", visited.NameThreshold)
			visited.SamePlaceKm = conv.ConfigGetFloat64(config, "same_place_km", visited.SamePlaceKm)
			filters = append(filters, visited)
		case "radius":
			radius := filter.NewRadiusFilter(nil)
			radius.DefaultRadiusKm = conv.ConfigGetFloat64(config, "default_radius_km", radius.DefaultRadiusKm)
			filters = append(filters, radius)
		case "city":
			filters = append(filters, filter.NewCityFilter())
		default:
			return nil, fmt.Errorf("unknown filter: %s", name)
		}
	}

	// 规则过滤器：CEL 表达式列表，命中即剔除
	for _, expr := range conv.SliceAnyToString(config["rules"]) {
		filters = append(filters, filter.NewRuleFilter(expr))
	}

	return &filter.Node{Filters: filters}, nil
}

func buildScoreNode(config map[string]interface{}) (pipeline.Node, error) {
	n := rank.NewScoreNode()
	n.Concurrency = conv.ConfigGetInt(config, "concurrency", 0)
	return n, nil
}

func buildTopNNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: conv.ConfigGetInt(config, "n", 0)}, nil
}

func buildDiversityNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.CuisineDiversity{
		MaxPerCuisine: conv.ConfigGetInt(config, "max_per_cuisine", 0),
	}, nil
}

func buildReasonNode(_ map[string]interface{}) (pipeline.Node, error) {
	return explain.NewReasonNode(), nil
}

// decodeRestaurants 把配置里的餐厅列表（YAML/JSON 解析出的 any 树）
// 经 JSON 中转还原为实体，省去逐字段手工取值。
func decodeRestaurants(v interface{}) ([]*core.Restaurant, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode restaurants: %w", err)
	}
	var restaurants []*core.Restaurant
	if err := json.Unmarshal(data, &restaurants); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	return restaurants, nil
}
