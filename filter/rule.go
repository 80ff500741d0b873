package filter

import (
	"context"

	"github.com/pickyrec/picky/core"
	"github.com/pickyrec/picky/pkg/dsl"
)

// RuleFilter 是规则过滤器：表达式命中的候选被剔除。
// 表达式用 CEL 语法，例如 `candidate.price_level > 3` 或
// `"FastFood" in candidate.cuisines`。
type RuleFilter struct {
	// Expr 是 CEL 表达式；空表达式不过滤任何候选。
	Expr string
}

func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if f.Expr == "" || c == nil {
		return false, nil
	}
	hit, err := dsl.NewEval(c, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return hit, nil
}

var _ Filter = (*RuleFilter)(nil)
