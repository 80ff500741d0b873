package recall

import (
	"context"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
)

// Static 是静态召回源：直接用内存中的餐厅目录作为候选池。
// 适合单测、示例和目录整体不大的场景。
// Static 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Static struct {
	Restaurants []*core.Restaurant
}

func NewStatic(restaurants []*core.Restaurant) *Static {
	return &Static{Restaurants: restaurants}
}

func (r *Static) Name() string        { return "recall.static" }
func (r *Static) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Static) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Static) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Candidate, error) {
	out := make([]*core.Candidate, 0, len(r.Restaurants))
	for _, rest := range r.Restaurants {
		if rest == nil {
			continue
		}
		out = append(out, core.NewCandidate(rest))
	}
	return out, nil
}

var (
	_ Source        = (*Static)(nil)
	_ pipeline.Node = (*Static)(nil)
)
