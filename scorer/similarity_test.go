package scorer

import (
	"math"
	"testing"

	"github.com/pickyrec/picky/core"
)

func simProfile() *core.PreferenceProfile {
	p := core.NewPreferenceProfile("u1")
	p.CuisineWeights = map[string]float64{"Italian": 0.7, "Mexican": 0.3}
	p.VibeWeights = map[string]float64{"Casual": 0.6, "Romantic": 0.4}
	p.PriceMin, p.PriceMax = 2, 3
	return p
}

func TestSimilarity_Score(t *testing.T) {
	s := NewSimilarity()

	tests := []struct {
		name string
		r    *core.Restaurant
		want float64
	}{
		{
			name: "full overlap in comfort zone",
			r:    &core.Restaurant{ID: "r1", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}, PriceLevel: 2},
			want: 0.5*0.7 + 0.3*0.6 + 0.2*1.0,
		},
		{
			name: "no tag overlap",
			r:    &core.Restaurant{ID: "r2", Cuisines: []string{"Thai"}, Vibes: []string{"Upscale"}, PriceLevel: 2},
			want: 0.2 * 1.0,
		},
		{
			name: "one price level outside comfort",
			r:    &core.Restaurant{ID: "r3", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}, PriceLevel: 4},
			want: 0.5*0.7 + 0.3*0.6 + 0.2*0.5,
		},
		{
			name: "unknown price is neutral",
			r:    &core.Restaurant{ID: "r4", Cuisines: []string{"Italian"}, PriceLevel: 0},
			want: 0.5*0.7 + 0.2*0.5,
		},
		{
			name: "duplicate tags counted once",
			r:    &core.Restaurant{ID: "r5", Cuisines: []string{"Italian", "Italian"}, PriceLevel: 2},
			want: 0.5*0.7 + 0.2*1.0,
		},
	}

	p := simProfile()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Score(p, tt.r); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarity_EmptyProfile(t *testing.T) {
	s := NewSimilarity()
	r := &core.Restaurant{ID: "r1", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}, PriceLevel: 2}

	// nil profile: tag overlap 0, price fit 1.0 (no comfort zone to violate)
	if got, want := s.Score(nil, r), 0.2*1.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Score(nil) = %v, want %v", got, want)
	}
}

func TestPriceFit(t *testing.T) {
	p := core.NewPreferenceProfile("u1")
	p.PriceMin, p.PriceMax = 2, 2

	tests := []struct {
		level int
		want  float64
	}{
		{0, 0.5}, // unknown -> neutral
		{2, 1.0}, // inside comfort
		{1, 0.5}, // one level out
		{3, 0.5},
		{4, 0.0}, // two levels out
	}
	for _, tt := range tests {
		if got := PriceFit(p, tt.level); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PriceFit(level=%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSimilarity_ScorePair(t *testing.T) {
	s := NewSimilarity()

	tests := []struct {
		name string
		a, b *core.Restaurant
		want float64
	}{
		{
			name: "identical tag sets",
			a:    &core.Restaurant{ID: "a", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}},
			b:    &core.Restaurant{ID: "b", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}},
			want: 1.0,
		},
		{
			name: "partial cuisine overlap",
			a:    &core.Restaurant{ID: "a", Cuisines: []string{"Italian", "Pizza"}, Vibes: []string{"Casual"}},
			b:    &core.Restaurant{ID: "b", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}},
			want: 0.6*0.5 + 0.4*1.0,
		},
		{
			name: "both dimensions empty counts as identical",
			a:    &core.Restaurant{ID: "a"},
			b:    &core.Restaurant{ID: "b"},
			want: 1.0,
		},
		{
			name: "one side empty scores zero on that dimension",
			a:    &core.Restaurant{ID: "a", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}},
			b:    &core.Restaurant{ID: "b", Vibes: []string{"Casual"}},
			want: 0.4 * 1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ScorePair(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScorePair = %v, want %v", got, tt.want)
			}
		})
	}
}
