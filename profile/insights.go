package profile

import (
	"fmt"

	"github.com/pickyrec/picky/core"
)

// Insights 是画像的人类可读摘要，供 CLI/UI 协作方直接展示。
type Insights struct {
	Personality      string   `json:"personality"`
	TopCuisines      []string `json:"top_cuisines"`
	PreferredVibes   []string `json:"preferred_vibes"`
	PriceComfortZone string   `json:"price_comfort_zone"`
	Adventurousness  string   `json:"adventurousness"`
}

var priceDescriptions = map[int]string{
	1: "Budget-friendly ($)",
	2: "Moderate ($$)",
	3: "Upscale ($$$)",
	4: "Fine dining ($$$$)",
}

// Summarize 从画像生成口味摘要。空画像返回零值摘要而非错误。
func Summarize(p *core.PreferenceProfile) Insights {
	if p == nil || p.Empty() {
		return Insights{
			Personality:      "The Newcomer - Not enough history to tell yet",
			PriceComfortZone: "Unknown",
			Adventurousness:  "Unknown",
		}
	}

	return Insights{
		Personality:      personality(p),
		TopCuisines:      p.TopCuisines(5),
		PreferredVibes:   p.TopVibes(5),
		PriceComfortZone: priceComfortZone(p),
		Adventurousness:  adventurousness(p),
	}
}

func personality(p *core.PreferenceProfile) string {
	switch {
	case p.AvgRating >= 4.0:
		return "The Optimist - Consistently finds the good in every meal"
	case p.AvgRating <= 2.5:
		return "The Critic - Has high standards and isn't easily impressed"
	case p.AvgRating >= 3.0 && p.AvgRating <= 3.8:
		return "The Realist - Balanced perspective with honest assessments"
	default:
		return "The Enthusiast - Generally positive about dining experiences"
	}
}

func priceComfortZone(p *core.PreferenceProfile) string {
	if p.PriceMin == p.PriceMax {
		return priceDescriptions[p.PriceMin]
	}
	return fmt.Sprintf("%s to %s", priceDescriptions[p.PriceMin], priceDescriptions[p.PriceMax])
}

func adventurousness(p *core.PreferenceProfile) string {
	n := len(p.CuisineWeights)
	switch {
	case n >= 10:
		return "Highly adventurous - Seeks diverse cuisines"
	case n >= 6:
		return "Moderately adventurous - Enjoys variety in food"
	case n >= 3:
		return "Somewhat adventurous - Sticks to preferred cuisines but tries new places"
	default:
		return "Creature of habit - Prefers familiar foods and places"
	}
}
