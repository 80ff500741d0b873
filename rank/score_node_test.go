package rank

import (
	"context"
	"math"
	"testing"

	"github.com/pickyrec/picky/core"
)

func ptr[T any](v T) *T { return &v }

func rankProfile() *core.PreferenceProfile {
	p := core.NewPreferenceProfile("u1")
	p.CuisineWeights = map[string]float64{"Italian": 0.8, "Mexican": 0.2}
	p.CuisineRank = []string{"Italian", "Mexican"}
	p.VibeWeights = map[string]float64{"Casual": 1.0}
	p.VibeRank = []string{"Casual"}
	p.PriceMin, p.PriceMax = 1, 3
	return p
}

func TestScoreNode_PureSimilarityWithoutOrigin(t *testing.T) {
	n := NewScoreNode()
	rctx := &core.RecommendContext{UserID: "u1", Profile: rankProfile()}

	c := core.NewCandidate(&core.Restaurant{
		ID: "r1", Name: "Trattoria",
		Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}, PriceLevel: 2,
	})

	out, err := n.Process(context.Background(), rctx, []*core.Candidate{c})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := 0.5*0.8 + 0.3*1.0 + 0.2*1.0
	if math.Abs(out[0].Score-want) > 1e-9 {
		t.Errorf("Score = %v, want pure similarity %v", out[0].Score, want)
	}
	if _, ok := out[0].Components[core.ComponentDistance]; ok {
		t.Error("distance component should be absent without origin")
	}
	if got := out[0].Labels["matched_cuisines"].Value; got != "Italian" {
		t.Errorf("matched_cuisines = %q, want Italian", got)
	}
}

func TestScoreNode_CompositeWithOrigin(t *testing.T) {
	n := NewScoreNode()
	rctx := &core.RecommendContext{
		UserID:   "u1",
		Profile:  rankProfile(),
		Origin:   &core.GeoPoint{Lat: 37.8044, Lng: -122.2712},
		RadiusKm: 10,
	}

	km := 5.0
	c := core.NewCandidate(&core.Restaurant{
		ID: "r1", Name: "Trattoria",
		Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}, PriceLevel: 2,
	})
	c.DistanceKm = &km // recorded by the radius filter upstream

	out, err := n.Process(context.Background(), rctx, []*core.Candidate{c})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	sim := 0.5*0.8 + 0.3*1.0 + 0.2*1.0
	dist := 1 - km/10
	want := 0.6*sim + 0.4*dist
	if math.Abs(out[0].Score-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", out[0].Score, want)
	}
	if got := out[0].Components[core.ComponentDistance]; math.Abs(got-dist) > 1e-9 {
		t.Errorf("distance component = %v, want %v", got, dist)
	}
	if got := out[0].Labels["distance_band"].Value; got != "moderate" {
		t.Errorf("distance_band = %q, want moderate", got)
	}
}

func TestScoreNode_DeterministicOrder(t *testing.T) {
	n := NewScoreNode()
	rctx := &core.RecommendContext{UserID: "u1", Profile: rankProfile()}

	// same tags and price -> same score; order falls back to rating, then name
	mk := func(id, name string, rating float64) *core.Candidate {
		return core.NewCandidate(&core.Restaurant{
			ID: id, Name: name,
			Cuisines: []string{"Italian"}, PriceLevel: 2, Rating: ptr(rating),
		})
	}
	in := []*core.Candidate{
		mk("b", "Bella", 4.0),
		mk("c", "Casa", 4.5),
		mk("a", "Amalfi", 4.0),
	}

	out, err := n.Process(context.Background(), rctx, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantOrder := []string{"c", "a", "b"} // rating desc, then name asc
	for i, id := range wantOrder {
		if out[i].ID() != id {
			t.Fatalf("position %d = %s, want %s (full order: %v)", i, out[i].ID(), id, ids(out))
		}
	}
}

func ids(cs []*core.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID()
	}
	return out
}
