package profile

import (
	"math"
	"testing"

	"github.com/pickyrec/picky/core"
)

func nudgeBaseProfile() *core.PreferenceProfile {
	p := core.NewPreferenceProfile("u1")
	p.CuisineWeights = map[string]float64{"Italian": 0.6, "Mexican": 0.4}
	p.CuisineRank = []string{"Italian", "Mexican"}
	p.VibeWeights = map[string]float64{"Casual": 1.0}
	p.VibeRank = []string{"Casual"}
	return p
}

func italian() *core.Restaurant {
	return &core.Restaurant{ID: "r1", Name: "Trattoria", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}}
}

func mexican() *core.Restaurant {
	return &core.Restaurant{ID: "r2", Name: "Taqueria", Cuisines: []string{"Mexican"}, Vibes: []string{"Casual"}}
}

func TestNudge_LikedBoost(t *testing.T) {
	p := nudgeBaseProfile()
	out := Nudge(p, []*core.Restaurant{italian()}, nil, nil)

	// Italian 0.6+0.1 -> 0.7, renormalized over 1.1
	if got, want := out.CuisineWeights["Italian"], 0.7/1.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("Italian = %v, want %v", got, want)
	}
	if got, want := out.CuisineWeights["Mexican"], 0.4/1.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("Mexican = %v, want %v", got, want)
	}
	// input profile untouched
	if p.CuisineWeights["Italian"] != 0.6 {
		t.Errorf("input profile mutated: %v", p.CuisineWeights)
	}
}

func TestNudge_DislikedFloorsAtZero(t *testing.T) {
	p := core.NewPreferenceProfile("u1")
	p.CuisineWeights = map[string]float64{"Italian": 0.95, "Mexican": 0.05}

	out := Nudge(p, nil, []*core.Restaurant{mexican()}, nil)

	// Mexican 0.05 - 0.1 floors at 0, Italian takes the whole distribution
	if got := out.CuisineWeights["Mexican"]; got != 0 {
		t.Errorf("Mexican = %v, want 0", got)
	}
	if got := out.CuisineWeights["Italian"]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Italian = %v, want 1.0", got)
	}
}

func TestNudge_DislikedUnknownTagIgnored(t *testing.T) {
	p := nudgeBaseProfile()
	out := Nudge(p, nil, []*core.Restaurant{{ID: "rx", Name: "Pho House", Cuisines: []string{"Vietnamese"}}}, nil)

	if _, ok := out.CuisineWeights["Vietnamese"]; ok {
		t.Errorf("disliked unseen tag should not be added: %v", out.CuisineWeights)
	}
	// distribution unchanged
	if got := out.CuisineWeights["Italian"]; math.Abs(got-0.6) > 1e-9 {
		t.Errorf("Italian = %v, want 0.6", got)
	}
}

func TestNudge_ExplicitTags(t *testing.T) {
	t.Run("new tag seeds cuisine dimension at current max", func(t *testing.T) {
		p := nudgeBaseProfile()
		out := Nudge(p, nil, nil, []string{"Thai"})

		// raised to cuisine max (0.6), then renormalized over 0.6+0.4+0.6
		if got, want := out.CuisineWeights["Thai"], 0.6/1.6; math.Abs(got-want) > 1e-9 {
			t.Errorf("Thai = %v, want %v", got, want)
		}
		if out.CuisineRank[0] == "Mexican" {
			t.Errorf("CuisineRank = %v, Thai should rank at top alongside Italian", out.CuisineRank)
		}
	})

	t.Run("tag already in vibe dimension is raised there", func(t *testing.T) {
		p := core.NewPreferenceProfile("u1")
		p.CuisineWeights = map[string]float64{"Italian": 1.0}
		p.VibeWeights = map[string]float64{"Romantic": 0.8, "Casual": 0.2}

		out := Nudge(p, nil, nil, []string{"Casual"})

		if got, want := out.VibeWeights["Casual"], 0.8/1.6; math.Abs(got-want) > 1e-9 {
			t.Errorf("Casual = %v, want %v", got, want)
		}
		if _, ok := out.CuisineWeights["Casual"]; ok {
			t.Errorf("vibe tag leaked into cuisine weights: %v", out.CuisineWeights)
		}
	})

	t.Run("explicit tag on empty profile seeds distribution", func(t *testing.T) {
		out := Nudge(core.NewPreferenceProfile("u1"), nil, nil, []string{"Spicy"})
		if got := out.CuisineWeights["Spicy"]; math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Spicy = %v, want 1.0 (sole tag)", got)
		}
	})
}

func TestNudge_WeightsStayNormalized(t *testing.T) {
	p := nudgeBaseProfile()
	out := Nudge(p, []*core.Restaurant{italian()}, []*core.Restaurant{mexican()}, []string{"Thai"})

	var sum float64
	for _, w := range out.CuisineWeights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("cuisine weights sum = %v, want 1.0", sum)
	}
}
