package filtering

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/sponsor-scout/internal/jobs"
)

type duplicateKeyFilter struct {
	toggle
	column string
}

// NewDuplicateKey creates a filter that keeps the first row for every value of column.
// Rows with a null key are kept.
func NewDuplicateKey(column string) Filter {
	return &duplicateKeyFilter{column: column}
}

func (f *duplicateKeyFilter) Name() string { return "duplicates" }

func (f *duplicateKeyFilter) Validate() error {
	if strings.TrimSpace(f.column) == "" {
		return errors.New("duplicate key column is required")
	}
	return nil
}

func (f *duplicateKeyFilter) Apply(_ context.Context, deps Deps, t *jobs.Table) (*jobs.Table, Step, error) {
	if !t.HasColumn(f.column) {
		if deps.Logger != nil {
			deps.Logger.Warn("duplicate key column is missing, keeping all rows", zap.String("column", f.column))
		}
		return t, step(t, t), nil
	}

	seen := make(map[string]struct{}, t.Len())
	out := t.Filter(func(r jobs.Record) bool {
		key, ok := r.Get(f.column)
		if !ok {
			return true
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})

	return out, step(t, out), nil
}

func (f *duplicateKeyFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"column": f.column},
	}
}
