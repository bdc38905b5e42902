package jobs

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

const (
	ColumnCompany     = "company"
	ColumnDescription = "description"
	ColumnJobURL      = "job_url"
	ColumnTitle       = "title"
	ColumnLocation    = "location"
	ColumnDatePosted  = "date_posted"

	ColumnVerifiedSponsor   = "verified_sponsor"
	ColumnSponsorMatchScore = "sponsor_match_score"
	ColumnMatchScore        = "match_score"
	ColumnReasoning         = "reasoning"
)

// Table is an ordered set of job rows. Cells are strings; an absent key is a null cell.
// Tables are treated as values: every transformation returns a new table.
type Table struct {
	columns []string
	records []Record
}

// Record is a single job row. Index is the row position in the table the record
// was first appended to and survives filtering and sorting.
type Record struct {
	Index  int
	values map[string]string
}

func NewTable(columns []string) *Table {
	return &Table{columns: slices.Clone(columns)}
}

// Append adds a row. Keys that are not table columns are ignored.
func (t *Table) Append(values map[string]string) {
	row := make(map[string]string, len(values))
	for _, col := range t.columns {
		if v, ok := values[col]; ok {
			row[col] = v
		}
	}
	t.records = append(t.records, Record{Index: len(t.records), values: row})
}

func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.columns, name)
}

func (t *Table) Len() int {
	return len(t.records)
}

// Record returns a copy of the row at position i.
func (t *Table) Record(i int) Record {
	return t.records[i].clone()
}

func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r.clone())
	}
	return out
}

func (t *Table) Clone() *Table {
	return &Table{columns: t.Columns(), records: t.Records()}
}

// WithColumn returns a copy of the table with an additional column. values must be
// aligned with the rows. An existing column with the same name is overwritten in the copy.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.records) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.records))
	}

	out := t.Clone()
	if !out.HasColumn(name) {
		out.columns = append(out.columns, name)
	}
	for i := range out.records {
		out.records[i].values[name] = values[i]
	}
	return out, nil
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := &Table{columns: t.Columns()}
	for _, r := range t.records {
		if keep(r) {
			out.records = append(out.records, r.clone())
		}
	}
	return out
}

// SortByIntDesc returns a copy sorted by the integer value of column, highest first.
// Rows whose cell is null or not an integer sort last. The sort is stable.
func (t *Table) SortByIntDesc(column string) *Table {
	out := t.Clone()
	sort.SliceStable(out.records, func(i, j int) bool {
		a, okA := out.records[i].Int(column)
		b, okB := out.records[j].Int(column)
		switch {
		case okA && okB:
			return a > b
		default:
			return okA && !okB
		}
	})
	return out
}

// Get returns the cell value and whether the cell is present.
func (r Record) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

func (r Record) Int(column string) (int, bool) {
	v, ok := r.values[column]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (r Record) Bool(column string) bool {
	v, ok := r.values[column]
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func (r Record) clone() Record {
	values := make(map[string]string, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Record{Index: r.Index, values: values}
}
