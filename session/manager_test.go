package session

import (
	"context"
	"testing"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/engine"
	"github.com/pickyrec/picky/store"
)

func ptr[T any](v T) *T { return &v }

func sessionProfile() *core.PreferenceProfile {
	p := core.NewPreferenceProfile("u1")
	p.CuisineWeights = map[string]float64{"Italian": 0.5, "Mexican": 0.5}
	p.CuisineRank = []string{"Italian", "Mexican"}
	p.VibeWeights = map[string]float64{"Casual": 1.0}
	p.VibeRank = []string{"Casual"}
	return p
}

func sessionCatalog() []*core.Restaurant {
	return []*core.Restaurant{
		{ID: "r1", Name: "Trattoria Bella", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}, PriceLevel: 2, Rating: ptr(4.5), Location: core.Location{City: "Oakland"}},
		{ID: "r2", Name: "Pasta Fresca", Cuisines: []string{"Italian"}, Vibes: []string{"Casual"}, PriceLevel: 2, Rating: ptr(4.3), Location: core.Location{City: "Oakland"}},
		{ID: "r3", Name: "Taqueria Sol", Cuisines: []string{"Mexican"}, Vibes: []string{"Casual"}, PriceLevel: 1, Rating: ptr(4.1), Location: core.Location{City: "Oakland"}},
		{ID: "r4", Name: "Cantina Azul", Cuisines: []string{"Mexican"}, Vibes: []string{"Casual"}, PriceLevel: 2, Rating: ptr(4.0), Location: core.Location{City: "Oakland"}},
	}
}

// Start hands back a session that is already usable: ACTIVE, not CREATED,
// so presentation collaborators reading the snapshot see the right state
// before the first round.
func TestManager_StartActivatesSession(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())

	s, err := mgr.Start(context.Background(), "u1", nil, Target{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State != StateActive {
		t.Errorf("state after Start = %q, want %q", s.State, StateActive)
	}

	loaded, err := mgr.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.State != StateActive {
		t.Errorf("persisted state = %q, want %q", loaded.State, StateActive)
	}
}

func TestManager_RoundsDoNotRepeat(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())
	ctx := context.Background()

	s, err := mgr.Start(ctx, "u1", sessionProfile(), Target{City: "Oakland"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// no location on the request: rounds fall back to the session target
	req := &RoundRequest{Restaurants: sessionCatalog(), Limit: 2}

	first, err := mgr.NextRound(ctx, s.ID, req)
	if err != nil {
		t.Fatalf("NextRound: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first round: %d results, want 2", len(first))
	}

	second, err := mgr.NextRound(ctx, s.ID, req)
	if err != nil {
		t.Fatalf("NextRound: %v", err)
	}
	seen := map[string]bool{}
	for _, rec := range first {
		seen[rec.Restaurant.ID] = true
	}
	for _, rec := range second {
		if seen[rec.Restaurant.ID] {
			t.Errorf("round 2 repeated %s", rec.Restaurant.ID)
		}
	}

	// all four shown: third round comes back empty, not an error
	third, err := mgr.NextRound(ctx, s.ID, req)
	if err != nil {
		t.Fatalf("NextRound: %v", err)
	}
	if len(third) != 0 {
		t.Errorf("third round: %d results, want 0", len(third))
	}
}

func TestManager_FeedbackNudgesProfile(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())
	ctx := context.Background()

	s, err := mgr.Start(ctx, "u1", sessionProfile(), Target{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	req := &RoundRequest{Restaurants: sessionCatalog(), City: "Oakland", Limit: 4}
	recs, err := mgr.NextRound(ctx, s.ID, req)
	if err != nil {
		t.Fatalf("NextRound: %v", err)
	}

	var italianID, mexicanID string
	for _, rec := range recs {
		switch rec.Restaurant.Cuisines[0] {
		case "Italian":
			if italianID == "" {
				italianID = rec.Restaurant.ID
			}
		case "Mexican":
			if mexicanID == "" {
				mexicanID = rec.Restaurant.ID
			}
		}
	}

	p, err := mgr.ApplyFeedback(ctx, s.ID, &Feedback{
		Liked:    []string{italianID},
		Disliked: []string{mexicanID},
	})
	if err != nil {
		t.Fatalf("ApplyFeedback: %v", err)
	}

	if p.CuisineWeights["Italian"] <= p.CuisineWeights["Mexican"] {
		t.Errorf("after feedback Italian=%v Mexican=%v, want Italian ahead",
			p.CuisineWeights["Italian"], p.CuisineWeights["Mexican"])
	}
	if p.CuisineRank[0] != "Italian" {
		t.Errorf("CuisineRank = %v, want Italian first", p.CuisineRank)
	}
}

// The same restaurant in both liked and disliked resolves to disliked.
func TestManager_ConflictingFeedbackDislikeWins(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())
	ctx := context.Background()

	s, _ := mgr.Start(ctx, "u1", sessionProfile(), Target{})
	req := &RoundRequest{Restaurants: sessionCatalog(), City: "Oakland", Limit: 4}
	if _, err := mgr.NextRound(ctx, s.ID, req); err != nil {
		t.Fatalf("NextRound: %v", err)
	}

	before := sessionProfile().CuisineWeights["Italian"]
	p, err := mgr.ApplyFeedback(ctx, s.ID, &Feedback{
		Liked:    []string{"r1"},
		Disliked: []string{"r1"},
	})
	if err != nil {
		t.Fatalf("ApplyFeedback: %v", err)
	}

	if p.CuisineWeights["Italian"] >= before {
		t.Errorf("Italian = %v, want decreased from %v (dislike wins)", p.CuisineWeights["Italian"], before)
	}

	got, err := mgr.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, liked := got.Liked["r1"]; liked {
		t.Error("r1 must not be recorded as liked")
	}
	if _, disliked := got.Disliked["r1"]; !disliked {
		t.Error("r1 must be recorded as disliked")
	}
}

func TestManager_ClosedSession(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())
	ctx := context.Background()

	s, _ := mgr.Start(ctx, "u1", nil, Target{})
	if err := mgr.Close(ctx, s.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// closing twice is fine
	if err := mgr.Close(ctx, s.ID); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	req := &RoundRequest{Restaurants: sessionCatalog(), Limit: 2}
	if _, err := mgr.NextRound(ctx, s.ID, req); !core.IsSessionClosed(err) {
		t.Errorf("NextRound after close: %v, want SESSION_CLOSED", err)
	}
	if _, err := mgr.ApplyFeedback(ctx, s.ID, &Feedback{Liked: []string{"r1"}}); !core.IsSessionClosed(err) {
		t.Errorf("ApplyFeedback after close: %v, want SESSION_CLOSED", err)
	}
}

// Closing a session drops its entry from the lock table, so a long-lived
// manager does not accumulate a mutex per session ever seen.
func TestManager_CloseReleasesSessionLock(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())
	ctx := context.Background()

	s, _ := mgr.Start(ctx, "u1", sessionProfile(), Target{City: "Oakland"})
	if _, err := mgr.NextRound(ctx, s.ID, &RoundRequest{Restaurants: sessionCatalog(), Limit: 2}); err != nil {
		t.Fatalf("NextRound: %v", err)
	}

	if err := mgr.Close(ctx, s.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mgr.mu.Lock()
	_, retained := mgr.locks[s.ID]
	mgr.mu.Unlock()
	if retained {
		t.Error("closed session must not retain its lock entry")
	}
}

// Get returns a snapshot copy: mutating it must not leak into the live
// session that concurrent feedback operates on.
func TestManager_GetReturnsSnapshot(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())
	ctx := context.Background()

	s, _ := mgr.Start(ctx, "u1", sessionProfile(), Target{City: "Oakland"})
	if _, err := mgr.NextRound(ctx, s.ID, &RoundRequest{Restaurants: sessionCatalog(), Limit: 2}); err != nil {
		t.Fatalf("NextRound: %v", err)
	}

	snap, err := mgr.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	snap.Liked["rogue"] = struct{}{}
	snap.Shown["rogue"] = struct{}{}
	snap.Profile.CuisineWeights["Thai"] = 1.0

	again, err := mgr.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := again.Liked["rogue"]; ok {
		t.Error("snapshot liked-set mutation leaked into the session")
	}
	if _, ok := again.Shown["rogue"]; ok {
		t.Error("snapshot shown-set mutation leaked into the session")
	}
	if _, ok := again.Profile.CuisineWeights["Thai"]; ok {
		t.Error("snapshot profile mutation leaked into the session")
	}
}

func TestManager_UnknownSession(t *testing.T) {
	mgr := NewManager(engine.NewEngine(), NewMemoryStore())
	_, err := mgr.NextRound(context.Background(), "nope", &RoundRequest{})
	if !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

// Session state survives a KV round-trip: feedback applied through one
// manager instance is visible to rounds issued afterwards.
func TestManager_KVStoreRoundTrip(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	mgr := NewManager(engine.NewEngine(), NewKVStore(kv))
	ctx := context.Background()

	s, err := mgr.Start(ctx, "u1", sessionProfile(), Target{City: "Oakland"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	req := &RoundRequest{Restaurants: sessionCatalog(), Limit: 2}
	first, err := mgr.NextRound(ctx, s.ID, req)
	if err != nil {
		t.Fatalf("NextRound: %v", err)
	}

	loaded, err := mgr.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Rounds != 1 || len(loaded.Shown) != len(first) {
		t.Errorf("loaded session rounds=%d shown=%d, want 1 and %d", loaded.Rounds, len(loaded.Shown), len(first))
	}
	if loaded.State != StateActive {
		t.Errorf("state = %s, want %s", loaded.State, StateActive)
	}
	if loaded.Target.City != "Oakland" {
		t.Errorf("target city = %q, want Oakland", loaded.Target.City)
	}
}
