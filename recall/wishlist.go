package recall

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
	"github.com/pickyrec/picky/pkg/utils"
)

// Wishlist 是心愿单召回源：从 Store 读取用户收藏但还没去过的餐厅。
// key 形如 "wishlist:<user_id>"，值为 JSON 数组。召回的候选会打上
// wishlist 标签，引擎据此做心愿单加成。
type Wishlist struct {
	Store core.Store
	// KeyPrefix 默认 "wishlist:"，拼上 rctx.UserID 得到完整 key。
	KeyPrefix string
}

func NewWishlist(store core.Store) *Wishlist {
	return &Wishlist{Store: store, KeyPrefix: "wishlist:"}
}

func (r *Wishlist) Name() string        { return "recall.wishlist" }
func (r *Wishlist) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Wishlist) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。用户没有心愿单时返回空，不报错。
func (r *Wishlist) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Store == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	prefix := r.KeyPrefix
	if prefix == "" {
		prefix = "wishlist:"
	}
	key := prefix + rctx.UserID

	data, err := r.Store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("recall.wishlist: get %q: %w", key, err)
	}

	var restaurants []*core.Restaurant
	if err := json.Unmarshal(data, &restaurants); err != nil {
		return nil, fmt.Errorf("recall.wishlist: decode %q: %w", key, err)
	}

	out := make([]*core.Candidate, 0, len(restaurants))
	for _, rest := range restaurants {
		if rest == nil {
			continue
		}
		rest.IsWishlist = true
		c := core.NewCandidate(rest)
		c.PutLabel("wishlist", utils.Label{Value: "true", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}

var (
	_ Source        = (*Wishlist)(nil)
	_ pipeline.Node = (*Wishlist)(nil)
)
