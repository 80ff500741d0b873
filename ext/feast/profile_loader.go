// Package feast 从 Feast 特征服务加载用户口味画像。
//
// 离线管道把长期画像物化成在线特征（cuisine_*/vibe_* 权重、价位舒适区、
// 评分统计），本包在请求时按 user_id 取回并还原为 core.PreferenceProfile，
// 免去线上回放全量交互历史。
package feast

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/pickyrec/picky/core"
)

// 特征命名约定：画像物化任务按这些前缀/键名写入特征仓库。
const (
	featureCuisinePrefix = "cuisine_"
	featureVibePrefix    = "vibe_"
	featurePriceMin      = "price_min"
	featurePriceMax      = "price_max"
	featureRatedCount    = "rated_count"
	featureAvgRating     = "avg_rating"
)

// ProfileLoader 按 user_id 从 Feast 在线存储取回画像特征。
type ProfileLoader struct {
	client *feastsdk.GrpcClient

	// Project 是 Feast 项目名。
	Project string

	// EntityKey 是用户实体键名，默认 "user_id"。
	EntityKey string

	// Features 是要取回的特征引用列表（含 cuisine_*/vibe_* 与统计键）。
	Features []string
}

// NewProfileLoader 连接 Feast Feature Server（gRPC，默认端口 6565）。
func NewProfileLoader(host string, port int, project string, features []string) (*ProfileLoader, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast: connect %s:%d: %w", host, port, err)
	}
	return &ProfileLoader{
		client:    client,
		Project:   project,
		EntityKey: "user_id",
		Features:  features,
	}, nil
}

// LoadProfile 取回并还原画像。特征仓库中没有该用户时返回空画像，不报错。
func (l *ProfileLoader) LoadProfile(ctx context.Context, userID string) (*core.PreferenceProfile, error) {
	if userID == "" {
		return nil, core.ErrInvalidContext
	}
	profile := core.NewPreferenceProfile(userID)
	if len(l.Features) == 0 {
		return profile, nil
	}

	entityKey := l.EntityKey
	if entityKey == "" {
		entityKey = "user_id"
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: l.Features,
		Entities: []feastsdk.Row{{entityKey: feastsdk.StrVal(userID)}},
		Project:  l.Project,
	}

	resp, err := l.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast: get online features for %q: %w", userID, err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return profile, nil
	}

	for name, raw := range rows[0] {
		value, ok := asFloat64(raw)
		if !ok {
			continue
		}
		switch {
		case strings.HasPrefix(name, featureCuisinePrefix):
			if tag := strings.TrimPrefix(name, featureCuisinePrefix); tag != "" && value > 0 {
				profile.CuisineWeights[tag] = value
			}
		case strings.HasPrefix(name, featureVibePrefix):
			if tag := strings.TrimPrefix(name, featureVibePrefix); tag != "" && value > 0 {
				profile.VibeWeights[tag] = value
			}
		case name == featurePriceMin:
			profile.PriceMin = clampPrice(int(value))
		case name == featurePriceMax:
			profile.PriceMax = clampPrice(int(value))
		case name == featureRatedCount:
			profile.RatedCount = int(value)
		case name == featureAvgRating:
			profile.AvgRating = value
		}
	}

	if profile.PriceMin > profile.PriceMax {
		profile.PriceMin, profile.PriceMax = profile.PriceMax, profile.PriceMin
	}

	renormalize(profile.CuisineWeights)
	renormalize(profile.VibeWeights)
	profile.CuisineRank = core.RankByWeight(profile.CuisineWeights)
	profile.VibeRank = core.RankByWeight(profile.VibeWeights)
	profile.UpdateTime = time.Now()
	return profile, nil
}

// Close 释放 gRPC 连接。
func (l *ProfileLoader) Close() error {
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}

// asFloat64 从 SDK 返回的特征值提取数值。
// SDK 的 Row 值是 protobuf 包装类型，统一走字符串解析兜底。
func asFloat64(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case int:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		s := fmt.Sprintf("%v", val)
		s = strings.TrimFunc(s, func(r rune) bool {
			return !(r == '-' || r == '.' || (r >= '0' && r <= '9'))
		})
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
		return 0, false
	}
}

func clampPrice(level int) int {
	if level < core.PriceLevelMin {
		return core.PriceLevelMin
	}
	if level > core.PriceLevelMax {
		return core.PriceLevelMax
	}
	return level
}

func renormalize(weights map[string]float64) {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return
	}
	for tag, w := range weights {
		weights[tag] = w / total
	}
}
