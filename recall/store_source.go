package recall

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
)

// StoreSource 是存储召回源：从 Store 的指定 key 读取 JSON 数组形式的餐厅目录。
// 目录由离线任务或导入脚本写入（例如 Google Places 同步结果），
// 线上只读，memory / redis 两种 Store 实现均可承载。
type StoreSource struct {
	Store core.Store
	// Key 存储 key，例如 "catalog:oakland" 或 "catalog:all"。
	Key string
}

func NewStoreSource(store core.Store, key string) *StoreSource {
	return &StoreSource{Store: store, Key: key}
}

func (r *StoreSource) Name() string        { return "recall.store" }
func (r *StoreSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *StoreSource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。key 不存在视为空目录，不报错。
func (r *StoreSource) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Store == nil || r.Key == "" {
		return nil, nil
	}

	data, err := r.Store.Get(ctx, r.Key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("recall.store: get %q: %w", r.Key, err)
	}

	var restaurants []*core.Restaurant
	if err := json.Unmarshal(data, &restaurants); err != nil {
		return nil, fmt.Errorf("recall.store: decode %q: %w", r.Key, err)
	}

	out := make([]*core.Candidate, 0, len(restaurants))
	for _, rest := range restaurants {
		if rest == nil {
			continue
		}
		out = append(out, core.NewCandidate(rest))
	}
	return out, nil
}

var (
	_ Source        = (*StoreSource)(nil)
	_ pipeline.Node = (*StoreSource)(nil)
)
