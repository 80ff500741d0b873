package core

import "testing"

func TestRestaurant_EnrichFillsOnce(t *testing.T) {
	rating := 4.4
	r := &Restaurant{ID: "r1", Name: "Trattoria Bella"}

	if !r.Enrich("place-1", &rating, []string{"carbonara"}, "Temescal") {
		t.Fatal("first Enrich must apply")
	}
	if r.PlaceID != "place-1" || r.RatingOrZero() != 4.4 || r.Neighborhood != "Temescal" {
		t.Errorf("enrichment not applied: %+v", r)
	}
	if len(r.MenuItems) != 1 || r.MenuItems[0] != "carbonara" {
		t.Errorf("MenuItems = %v, want [carbonara]", r.MenuItems)
	}

	// second call is a no-op and must not overwrite anything
	other := 1.0
	if r.Enrich("place-2", &other, []string{"hot dog"}, "Elsewhere") {
		t.Error("second Enrich must report no-op")
	}
	if r.PlaceID != "place-1" {
		t.Errorf("PlaceID = %q, overwritten by second Enrich", r.PlaceID)
	}
	if r.RatingOrZero() != 4.4 {
		t.Errorf("Rating = %v, overwritten by second Enrich", r.RatingOrZero())
	}
	if r.MenuItems[0] != "carbonara" || r.Neighborhood != "Temescal" {
		t.Errorf("enrichment fields overwritten: %+v", r)
	}
}

func TestRestaurant_EnrichKeepsExistingRating(t *testing.T) {
	have, fetched := 3.5, 4.8
	r := &Restaurant{ID: "r1", Name: "Trattoria Bella", Rating: &have}

	if !r.Enrich("place-1", &fetched, nil, "") {
		t.Fatal("Enrich must apply on a record without a PlaceID")
	}
	if r.RatingOrZero() != 3.5 {
		t.Errorf("Rating = %v, user rating must win over the fetched one", r.RatingOrZero())
	}
}
