package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
	"github.com/pickyrec/picky/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 单个源失败只丢弃该源的结果，不中断整体召回。
// 同一餐厅被多个源召回时保留先注册源的候选，标签做合并。
type Fanout struct {
	Sources []Source
	// Timeout 每个召回源的超时时间（0 表示不限制）。
	Timeout time.Duration
	// MaxConcurrent 最大并发数（<=0 表示不限制）。
	MaxConcurrent int
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 按源顺序收集，保证合并结果确定
	results := make([][]*core.Candidate, len(n.Sources))

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		idx, s := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			candidates, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时丢弃该源，不中断其他召回源
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, c := range candidates {
				if c != nil {
					c.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
				}
			}

			mu.Lock()
			results[idx] = candidates
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return mergeFirst(results), nil
}

// mergeFirst 按 ID 去重，保留先注册源召回的候选，后来者只贡献标签。
func mergeFirst(results [][]*core.Candidate) []*core.Candidate {
	seen := make(map[string]*core.Candidate, 64)
	var out []*core.Candidate
	for _, candidates := range results {
		for _, c := range candidates {
			if c == nil || c.ID() == "" {
				continue
			}
			if old, ok := seen[c.ID()]; ok {
				for k, v := range c.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[c.ID()] = c
			out = append(out, c)
		}
	}
	return out
}

var _ pipeline.Node = (*Fanout)(nil)
