package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// RowError records a row that could not be decoded. The reader keeps going
// so one bad row does not sink a whole export.
type RowError struct {
	Line int
	ID   string
	Err  error
}

func (e RowError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("row %d (dataset %s): %v", e.Line, e.ID, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ReadCSV decodes dataset records from r. The first row is the header;
// columns are matched by name, so column order does not matter. Rows with
// malformed embedded JSON are returned as RowErrors alongside the records
// that did decode.
func ReadCSV(r io.Reader) ([]Record, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var (
		records []Record
		rowErrs []RowError
		lineNum = 1
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineNum, Err: err})
			continue
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				fields[name] = row[i]
			}
		}

		rec, err := FromRow(fields)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: lineNum, ID: fields["id"], Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

// ReadCSVFile is ReadCSV over a file path.
func ReadCSVFile(path string) ([]Record, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening dataset CSV: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
