package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/jobs"
	"github.com/spigell/sponsor-scout/internal/sponsors"
)

type excludedCompaniesFilter struct {
	toggle
	companies []string
}

// NewExcludedCompanies creates a filter that removes rows whose company, compared
// case-insensitively after trimming, is in companies.
func NewExcludedCompanies(companies []string) Filter {
	normalized := make([]string, 0, len(companies))
	for _, c := range companies {
		if c = sponsors.Normalize(c); c != "" {
			normalized = append(normalized, c)
		}
	}
	return &excludedCompaniesFilter{companies: normalized}
}

func (f *excludedCompaniesFilter) Name() string { return "excluded_companies" }

func (f *excludedCompaniesFilter) Validate() error { return nil }

func (f *excludedCompaniesFilter) Apply(_ context.Context, deps Deps, t *jobs.Table) (*jobs.Table, Step, error) {
	if len(f.companies) == 0 {
		return t, step(t, t), nil
	}

	excluded := make(map[string]struct{}, len(f.companies))
	for _, c := range f.companies {
		excluded[c] = struct{}{}
	}

	var removed []string
	out := t.Filter(func(r jobs.Record) bool {
		company, ok := r.Get(jobs.ColumnCompany)
		if !ok {
			return true
		}
		if _, drop := excluded[sponsors.Normalize(company)]; drop {
			removed = append(removed, company)
			return false
		}
		return true
	})

	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Info("excluding jobs by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Int("excluded_jobs", len(removed)),
			zap.Int("jobs_left", out.Len()),
		)
	}

	return out, step(t, out), nil
}

func (f *excludedCompaniesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
