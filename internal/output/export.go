package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/sponsor-scout/internal/jobs"
)

const sheet = "Jobs"

// numeric columns are stored as numbers in spreadsheets.
var numeric = map[string]bool{
	jobs.ColumnMatchScore:        true,
	jobs.ColumnSponsorMatchScore: true,
}

// WriteFile exports t to path. The format follows the extension: .csv or .xlsx.
func WriteFile(path string, t *jobs.Table) error {
	var write func(io.Writer, *jobs.Table) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		write = WriteCSV
	case ".xlsx":
		write = WriteXLSX
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := write(file, t); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// WriteCSV writes t with its columns in display order.
func WriteCSV(w io.Writer, t *jobs.Table) error {
	return jobs.WriteCSV(w, reorder(t))
}

func reorder(t *jobs.Table) *jobs.Table {
	out := jobs.NewTable(Order(t.Columns()))
	for _, r := range t.Records() {
		values := make(map[string]string)
		for _, c := range t.Columns() {
			if v, ok := r.Get(c); ok {
				values[c] = v
			}
		}
		out.Append(values)
	}
	return out
}

// WriteXLSX writes t as a single-sheet workbook.
func WriteXLSX(w io.Writer, t *jobs.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	columns := Order(t.Columns())
	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, r := range t.Records() {
		for col, c := range columns {
			v, ok := r.Get(c)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)

			var value any = v
			if numeric[c] {
				if n, err := strconv.Atoi(v); err == nil {
					value = n
				}
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	for col, c := range columns {
		width, ok := wide[c]
		if !ok {
			continue
		}
		name, _ := excelize.ColumnNumberToName(col + 1)
		_ = f.SetColWidth(sheet, name, name, float64(width))
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
