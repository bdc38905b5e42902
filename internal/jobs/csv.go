package jobs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSVFile reads a jobs table exported by the job source.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	table, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("reading jobs file %q: %w", path, err)
	}
	return table, nil
}

// ReadCSV reads a header row followed by job rows. Empty cells are read as null.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("jobs table has no header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns = append(columns, h)
	}

	table := NewTable(columns)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", table.Len()+1, err)
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			if i >= len(row) || row[i] == "" {
				continue
			}
			values[col] = row[i]
		}
		table.Append(values)
	}

	return table, nil
}

// WriteCSV writes the table with a header row. Null cells are written empty.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	columns := t.Columns()
	if err := writer.Write(columns); err != nil {
		return err
	}

	for _, r := range t.records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = r.values[col]
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
