package recall

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/store"
)

type failingSource struct{}

func (failingSource) Name() string { return "recall.failing" }
func (failingSource) Recall(context.Context, *core.RecommendContext) ([]*core.Candidate, error) {
	return nil, errors.New("backend down")
}

func TestFanout_MergeAndDedup(t *testing.T) {
	a := NewStatic([]*core.Restaurant{
		{ID: "r1", Name: "Trattoria Bella"},
		{ID: "r2", Name: "Pasta Fresca"},
	})
	b := NewStatic([]*core.Restaurant{
		{ID: "r2", Name: "Pasta Fresca"}, // duplicate across sources
		{ID: "r3", Name: "Taqueria Sol"},
	})

	fanout := &Fanout{Sources: []Source{a, b}}
	out, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("got %d candidates, want 3 deduped", len(out))
	}
	wantOrder := []string{"r1", "r2", "r3"}
	for i, id := range wantOrder {
		if out[i].ID() != id {
			t.Errorf("position %d = %s, want %s", i, out[i].ID(), id)
		}
	}
	// every candidate labeled with its recall source
	for _, c := range out {
		if c.Labels["recall_source"].Value == "" {
			t.Errorf("%s: missing recall_source label", c.ID())
		}
	}
}

// A failing source contributes nothing but never breaks the fanout.
func TestFanout_FailingSourceIgnored(t *testing.T) {
	ok := NewStatic([]*core.Restaurant{{ID: "r1", Name: "Trattoria Bella"}})
	fanout := &Fanout{Sources: []Source{failingSource{}, ok}}

	out, err := fanout.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID() != "r1" {
		t.Errorf("got %v, want just r1", out)
	}
}

func TestStoreSource_Recall(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	ctx := context.Background()

	catalog := []*core.Restaurant{
		{ID: "r1", Name: "Trattoria Bella", Cuisines: []string{"Italian"}},
	}
	data, _ := json.Marshal(catalog)
	kv.Set(ctx, "catalog:oakland", data)

	src := NewStoreSource(kv, "catalog:oakland")
	out, err := src.Recall(ctx, &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(out) != 1 || out[0].Restaurant.Name != "Trattoria Bella" {
		t.Errorf("got %+v, want the stored catalog", out)
	}

	// missing key is an empty catalog, not an error
	empty, err := NewStoreSource(kv, "catalog:missing").Recall(ctx, &core.RecommendContext{UserID: "u1"})
	if err != nil || len(empty) != 0 {
		t.Errorf("missing key: got %v, %v; want empty, nil", empty, err)
	}
}

func TestWishlist_Recall(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	ctx := context.Background()

	wishlist := []*core.Restaurant{{ID: "w1", Name: "Osteria Nonna"}}
	data, _ := json.Marshal(wishlist)
	kv.Set(ctx, "wishlist:u1", data)

	src := NewWishlist(kv)
	out, err := src.Recall(ctx, &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d candidates, want 1", len(out))
	}
	if !out[0].Restaurant.IsWishlist {
		t.Error("wishlist recall must flag IsWishlist")
	}
	if out[0].Labels["wishlist"].Value != "true" {
		t.Error("wishlist recall must label candidates")
	}

	// user without a wishlist gets nothing, not an error
	none, err := src.Recall(ctx, &core.RecommendContext{UserID: "u2"})
	if err != nil || len(none) != 0 {
		t.Errorf("no wishlist: got %v, %v; want empty, nil", none, err)
	}
}
