package csvexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoData is returned when there are no rows to export.
var ErrNoData = errors.New("no data found")

// Column maps a record field to the header label written for it.
type Column struct {
	Label     string
	FieldName string
}

// Record is a row that can report the text of any of its fields.
type Record interface {
	FieldValue(field string) string
}

// Write writes a header row of column labels followed by one line per record.
func Write(w io.Writer, columns []Column, records []Record) error {
	if len(records) == 0 {
		return ErrNoData
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	line := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			line[i] = rec.FieldValue(col.FieldName)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Render is Write into a byte slice.
func Render(columns []Column, records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, columns, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns "<title>.csv", or "export.csv" when there is no title.
// Path separators and quotes are replaced so the name is safe in headers and paths.
func Filename(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "export.csv"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\"", "", "\n", " ", "\r", " ")
	return replacer.Replace(title) + ".csv"
}
