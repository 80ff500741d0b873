package scorer

import (
	"math"
	"testing"

	"github.com/pickyrec/picky/core"
)

func ptr[T any](v T) *T { return &v }

func TestDistance_DistanceKm(t *testing.T) {
	d := NewDistance()
	origin := core.GeoPoint{Lat: 37.8044, Lng: -122.2712} // Oakland

	t.Run("known distance", func(t *testing.T) {
		// Oakland -> San Francisco city center, roughly 13 km
		r := &core.Restaurant{
			ID:       "sf",
			Location: core.Location{Lat: ptr(37.7749), Lng: ptr(-122.4194)},
		}
		km, ok := d.DistanceKm(origin, r)
		if !ok {
			t.Fatal("expected coords to be available")
		}
		if km < 12 || km > 15 {
			t.Errorf("DistanceKm = %v, want ~13", km)
		}
	})

	t.Run("same point is zero", func(t *testing.T) {
		r := &core.Restaurant{
			ID:       "here",
			Location: core.Location{Lat: ptr(37.8044), Lng: ptr(-122.2712)},
		}
		km, ok := d.DistanceKm(origin, r)
		if !ok || math.Abs(km) > 1e-6 {
			t.Errorf("DistanceKm = %v ok=%v, want 0 true", km, ok)
		}
	})

	t.Run("missing coords", func(t *testing.T) {
		r := &core.Restaurant{ID: "nowhere"}
		if _, ok := d.DistanceKm(origin, r); ok {
			t.Error("expected ok=false for missing coords")
		}
	})
}

func TestDistance_Score(t *testing.T) {
	d := NewDistance()

	tests := []struct {
		name   string
		km     float64
		radius float64
		want   float64
	}{
		{"at origin", 0, 10, 1.0},
		{"half way", 5, 10, 0.5},
		{"at radius", 10, 10, 0.0},
		{"beyond radius clamps to zero", 15, 10, 0.0},
		{"invalid radius", 5, 0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Score(tt.km, tt.radius); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%v, %v) = %v, want %v", tt.km, tt.radius, got, tt.want)
			}
		})
	}
}
