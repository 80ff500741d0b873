// Package match 提供去重用的模糊名称匹配。
// 匹配算法收敛在 Matcher 接口之后，替换算法不需要改动过滤逻辑。
package match

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Matcher 是名称相似度的窄接口。Ratio 返回 0-100 的相似度分。
type Matcher interface {
	// Ratio 计算两个名称的相似度（0-100），大小写/标点不敏感。
	Ratio(a, b string) int
}

// LevenshteinMatcher 基于归一化编辑距离实现 Matcher。
// ratio = (1 - dist/maxLen) * 100，与 fuzz.ratio 的量纲一致。
type LevenshteinMatcher struct{}

func NewLevenshteinMatcher() *LevenshteinMatcher {
	return &LevenshteinMatcher{}
}

func (m *LevenshteinMatcher) Ratio(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	if na == "" && nb == "" {
		return 100
	}
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	ratio := (1 - float64(dist)/float64(maxLen)) * 100
	if ratio < 0 {
		return 0
	}
	return int(ratio + 0.5)
}

// Normalize 归一化名称：小写、去标点、空白折叠。
// "Joe's Pizza!" 与 "joes pizza" 归一化后相等。
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// 标点直接丢弃
		}
	}
	return strings.TrimSpace(b.String())
}

var _ Matcher = (*LevenshteinMatcher)(nil)
