package sponsors

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// indel prices a substitution as a deletion plus an insertion, which turns the
// Levenshtein distance into the InDel distance used by the ratio.
var indel = levenshtein.NewParams().InsCost(1).DelCost(1).SubCost(2)

// Normalize lower-cases and trims a company name for comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// sortTokens orders whitespace-delimited words alphabetically and joins them with single spaces.
func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio is the exact similarity fraction same/total, with total the combined rune length.
type ratio struct {
	same  int
	total int
}

func indelRatio(a, b string) ratio {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return ratio{}
	}
	return ratio{same: total - levenshtein.Distance(a, b, indel), total: total}
}

// Score returns the ratio on a 0–100 scale, truncated.
func (r ratio) Score() int {
	if r.total == 0 {
		return 100
	}
	return 100 * r.same / r.total
}

func (r ratio) atLeast(threshold int) bool {
	if r.total == 0 {
		return true
	}
	return 100*r.same >= threshold*r.total
}

func (r ratio) greater(o ratio) bool {
	if o.total == 0 {
		return false
	}
	if r.total == 0 {
		return true
	}
	return r.same*o.total > o.same*r.total
}

// TokenSortRatio scores two strings 0–100 after sorting their words, so
// "acme corp ltd" and "ltd acme corp" score 100.
func TokenSortRatio(a, b string) int {
	return indelRatio(sortTokens(a), sortTokens(b)).Score()
}
