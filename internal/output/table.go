package output

import (
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/spigell/sponsor-scout/internal/jobs"
)

// DisplayColumns lead every rendered or exported table, in this order.
var DisplayColumns = []string{
	jobs.ColumnMatchScore,
	jobs.ColumnReasoning,
	jobs.ColumnTitle,
	jobs.ColumnCompany,
	jobs.ColumnLocation,
	jobs.ColumnJobURL,
	jobs.ColumnDatePosted,
}

// wide columns are wrapped in the terminal.
var wide = map[string]int{
	jobs.ColumnReasoning:   60,
	jobs.ColumnDescription: 80,
	jobs.ColumnTitle:       40,
}

// Order puts the present DisplayColumns first and keeps the rest in their original order.
func Order(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range DisplayColumns {
		if slices.Contains(columns, c) {
			out = append(out, c)
		}
	}
	for _, c := range columns {
		if !slices.Contains(DisplayColumns, c) {
			out = append(out, c)
		}
	}
	return out
}

// Summary returns the DisplayColumns present in t.
func Summary(t *jobs.Table) []string {
	cols := t.Columns()
	out := make([]string, 0, len(DisplayColumns))
	for _, c := range DisplayColumns {
		if slices.Contains(cols, c) {
			out = append(out, c)
		}
	}
	return out
}

// RenderTable writes the selected columns of t as a terminal table. A nil columns
// slice renders every column in display order.
func RenderTable(w io.Writer, t *jobs.Table, columns []string) error {
	if columns == nil {
		columns = Order(t.Columns())
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, c := range columns {
		header[i] = c
		if width, ok := wide[c]; ok {
			configs = append(configs, table.ColumnConfig{
				Name:             c,
				WidthMax:         width,
				WidthMaxEnforcer: text.WrapSoft,
			})
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, r := range t.Records() {
		row := make(table.Row, len(columns))
		for i, c := range columns {
			v, _ := r.Get(c)
			row[i] = v
		}
		tw.AppendRow(row)
	}

	tw.AppendFooter(table.Row{fmt.Sprintf("%d jobs", t.Len())})

	_, err := io.WriteString(w, tw.Render()+"\n")
	return err
}
