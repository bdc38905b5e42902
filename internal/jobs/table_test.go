package jobs

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableWithColumnDoesNotMutateInput(t *testing.T) {
	table := NewTable([]string{ColumnTitle, ColumnDescription})
	table.Append(map[string]string{ColumnTitle: "Engineer", ColumnDescription: "A job"})

	out, err := table.WithColumn(ColumnMatchScore, []string{"50"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if table.HasColumn(ColumnMatchScore) {
		t.Fatalf("input table gained a column")
	}
	if _, ok := table.Record(0).Get(ColumnMatchScore); ok {
		t.Fatalf("input row gained a value")
	}
	if got, _ := out.Record(0).Int(ColumnMatchScore); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	if cols := out.Columns(); cols[len(cols)-1] != ColumnMatchScore {
		t.Fatalf("expected appended column last, got %v", cols)
	}
}

func TestTableWithColumnRejectsMisalignedValues(t *testing.T) {
	table := NewTable([]string{ColumnTitle})
	table.Append(map[string]string{ColumnTitle: "a"})
	table.Append(map[string]string{ColumnTitle: "b"})

	if _, err := table.WithColumn(ColumnMatchScore, []string{"1"}); err == nil {
		t.Fatal("expected error for misaligned values")
	}
}

func TestTableFilterKeepsOriginalIndex(t *testing.T) {
	table := NewTable([]string{ColumnCompany})
	for _, c := range []string{"a", "b", "c"} {
		table.Append(map[string]string{ColumnCompany: c})
	}

	out := table.Filter(func(r Record) bool {
		v, _ := r.Get(ColumnCompany)
		return v != "b"
	})

	if out.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", out.Len())
	}
	if out.Record(1).Index != 2 {
		t.Fatalf("expected original index 2, got %d", out.Record(1).Index)
	}
}

func TestTableSortByIntDesc(t *testing.T) {
	table := NewTable([]string{ColumnTitle, ColumnMatchScore})
	table.Append(map[string]string{ColumnTitle: "low", ColumnMatchScore: "10"})
	table.Append(map[string]string{ColumnTitle: "none"})
	table.Append(map[string]string{ColumnTitle: "high", ColumnMatchScore: "90"})
	table.Append(map[string]string{ColumnTitle: "high-2", ColumnMatchScore: "90"})

	out := table.SortByIntDesc(ColumnMatchScore)

	want := []string{"high", "high-2", "low", "none"}
	for i, title := range want {
		if got, _ := out.Record(i).Get(ColumnTitle); got != title {
			t.Fatalf("row %d: expected %q, got %q", i, title, got)
		}
	}
	if got, _ := table.Record(0).Get(ColumnTitle); got != "low" {
		t.Fatalf("input table was reordered")
	}
}

func TestReadCSVTreatsEmptyCellsAsNull(t *testing.T) {
	input := "\ufefftitle,company,description\nEngineer,,Build things\nAnalyst,Acme,\n"

	table, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !table.HasColumn(ColumnTitle) {
		t.Fatalf("expected BOM to be stripped from header, got %v", table.Columns())
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if _, ok := table.Record(0).Get(ColumnCompany); ok {
		t.Fatalf("expected null company on row 0")
	}
	if _, ok := table.Record(1).Get(ColumnDescription); ok {
		t.Fatalf("expected null description on row 1")
	}
}

func TestWriteCSVRoundTripsColumns(t *testing.T) {
	table := NewTable([]string{ColumnTitle, ColumnReasoning})
	table.Append(map[string]string{ColumnTitle: "Engineer", ColumnReasoning: "Uses {braces}, and commas"})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := back.Record(0).Get(ColumnReasoning); got != "Uses {braces}, and commas" {
		t.Fatalf("unexpected reasoning: %q", got)
	}
}
