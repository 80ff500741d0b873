package rerank

import (
	"context"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pipeline"
)

// CuisineDiversity 是一个简单的多样性 ReRank：限制同一主菜系连续霸榜。
// 每个主菜系（候选的首个菜系标签）最多保留 MaxPerCuisine 个，
// 超出的候选整体后移而不是丢弃，保证截断前排序仍按分数优先。
type CuisineDiversity struct {
	// MaxPerCuisine 每个主菜系保留的候选上限，<=0 时默认 2。
	MaxPerCuisine int
}

func (n *CuisineDiversity) Name() string {
	return "rerank.diversity"
}

func (n *CuisineDiversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *CuisineDiversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	max := n.MaxPerCuisine
	if max <= 0 {
		max = 2
	}

	seen := make(map[string]int, 16)
	out := make([]*core.Candidate, 0, len(candidates))
	var overflow []*core.Candidate

	for _, c := range candidates {
		if c == nil || c.Restaurant == nil {
			continue
		}

		cuisine := ""
		if len(c.Restaurant.Cuisines) > 0 {
			cuisine = c.Restaurant.Cuisines[0]
		}
		if cuisine == "" {
			out = append(out, c)
			continue
		}

		if seen[cuisine] >= max {
			overflow = append(overflow, c)
			continue
		}
		seen[cuisine]++
		out = append(out, c)
	}

	return append(out, overflow...), nil
}
