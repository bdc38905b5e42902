package sponsors

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/jobs"
)

// Threshold is the minimum token-sort ratio for a company to count as a licensed sponsor.
// Short names stay prone to false positives under edit-distance scoring; the threshold is
// the only guard against them.
const Threshold = 85

// CompanyName is a raw company cell from a job row. Missing marks a null cell.
type CompanyName struct {
	Row     int
	Raw     string
	Missing bool
}

// MatchResult is the verification decision for one row. Sponsor holds the
// register entry that matched, if any.
type MatchResult struct {
	Row      int
	Verified bool
	Score    int
	Sponsor  string
}

// Match is the best register candidate for a name.
type Match struct {
	Sponsor string
	Index   int
	Score   int
}

type candidate struct {
	name   string
	sorted string
}

// BestMatch finds the best-scoring register entry for an already normalized name.
// Equal top scores keep the first entry in register order. It reports false when
// the best score is below Threshold.
func BestMatch(name string, names []string) (Match, bool) {
	return bestMatch(name, prepare(names))
}

func prepare(names []string) []candidate {
	out := make([]candidate, len(names))
	for i, n := range names {
		out[i] = candidate{name: n, sorted: sortTokens(n)}
	}
	return out
}

func bestMatch(name string, candidates []candidate) (Match, bool) {
	query := sortTokens(name)

	best := -1
	var bestRatio ratio
	for i, c := range candidates {
		r := indelRatio(query, c.sorted)
		if best == -1 || r.greater(bestRatio) {
			best, bestRatio = i, r
			if r.same == r.total {
				break
			}
		}
	}

	if best == -1 || !bestRatio.atLeast(Threshold) {
		return Match{}, false
	}
	return Match{Sponsor: candidates[best].name, Index: best, Score: bestRatio.Score()}, true
}

// Matcher verifies company names against the sponsor register.
type Matcher struct {
	logger *zap.Logger
	search func(name string, candidates []candidate) (Match, bool)
}

func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger, search: bestMatch}
}

// Verify returns one result per input name, in input order. Each distinct raw name
// is searched once; missing and blank names are unverified without a search.
func (m *Matcher) Verify(names []CompanyName, register []string) []MatchResult {
	candidates := prepare(register)
	decisions := make(map[string]MatchResult)

	for _, n := range names {
		if n.Missing {
			continue
		}
		if _, ok := decisions[n.Raw]; ok {
			continue
		}

		normalized := Normalize(n.Raw)
		if normalized == "" {
			decisions[n.Raw] = MatchResult{}
			continue
		}

		match, ok := m.search(normalized, candidates)
		if !ok {
			decisions[n.Raw] = MatchResult{}
			continue
		}
		decisions[n.Raw] = MatchResult{Verified: true, Score: match.Score, Sponsor: match.Sponsor}
	}

	results := make([]MatchResult, len(names))
	for i, n := range names {
		var decision MatchResult
		if !n.Missing {
			decision = decisions[n.Raw]
		}
		decision.Row = n.Row
		results[i] = decision
	}

	m.logger.Debug("sponsor verification completed",
		zap.Int("rows", len(names)),
		zap.Int("distinct_names", len(decisions)),
		zap.Int("register_size", len(register)),
	)

	return results
}

// VerifyTable returns a copy of table with verified_sponsor and sponsor_match_score columns.
// A table without a company column verifies nothing.
func (m *Matcher) VerifyTable(table *jobs.Table, register Register) (*jobs.Table, []MatchResult, error) {
	records := table.Records()
	names := make([]CompanyName, len(records))
	for i, r := range records {
		raw, ok := r.Get(jobs.ColumnCompany)
		names[i] = CompanyName{Row: r.Index, Raw: raw, Missing: !ok}
	}

	results := m.Verify(names, register.names)

	verified := make([]string, len(results))
	scores := make([]string, len(results))
	for i, res := range results {
		verified[i] = strconv.FormatBool(res.Verified)
		scores[i] = strconv.Itoa(res.Score)
	}

	out, err := table.WithColumn(jobs.ColumnVerifiedSponsor, verified)
	if err != nil {
		return nil, nil, fmt.Errorf("add verified column: %w", err)
	}
	out, err = out.WithColumn(jobs.ColumnSponsorMatchScore, scores)
	if err != nil {
		return nil, nil, fmt.Errorf("add sponsor score column: %w", err)
	}

	return out, results, nil
}
