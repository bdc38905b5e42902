package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/sponsor-scout/internal/jobs"
)

type verifiedSponsorsFilter struct {
	toggle
}

// NewVerifiedSponsors creates a filter that keeps rows marked as verified sponsors.
func NewVerifiedSponsors() Filter {
	return &verifiedSponsorsFilter{}
}

func (f *verifiedSponsorsFilter) Name() string { return "verified_sponsors" }

func (f *verifiedSponsorsFilter) Validate() error { return nil }

func (f *verifiedSponsorsFilter) Apply(_ context.Context, _ Deps, t *jobs.Table) (*jobs.Table, Step, error) {
	if !t.HasColumn(jobs.ColumnVerifiedSponsor) {
		return nil, Step{}, fmt.Errorf("table has no %s column", jobs.ColumnVerifiedSponsor)
	}

	out := t.Filter(func(r jobs.Record) bool {
		return r.Bool(jobs.ColumnVerifiedSponsor)
	})
	return out, step(t, out), nil
}

func (f *verifiedSponsorsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}

type minimumScoreFilter struct {
	toggle
	minimum int
}

// NewMinimumScore creates a filter that keeps rows whose match_score is at least minimum.
func NewMinimumScore(minimum int) Filter {
	return &minimumScoreFilter{minimum: minimum}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum match score must be between 0 and 100, got %d", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, _ Deps, t *jobs.Table) (*jobs.Table, Step, error) {
	if !t.HasColumn(jobs.ColumnMatchScore) {
		return nil, Step{}, fmt.Errorf("table has no %s column", jobs.ColumnMatchScore)
	}

	out := t.Filter(func(r jobs.Record) bool {
		score, ok := r.Int(jobs.ColumnMatchScore)
		return ok && score >= f.minimum
	})
	return out, step(t, out), nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum": strconv.Itoa(f.minimum)},
	}
}
