// Package importer reads broker trade exports into rows the transaction service can store.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tropicaldog17/capgains/internal/costbasis"
	apperrors "github.com/tropicaldog17/capgains/internal/errors"
)

// DateLayouts are tried in order for the date column.
var DateLayouts = []string{"2006-01-02", "02/01/2006"}

// Row is one parsed data line. Err is set when the line could not be parsed;
// the other fields are then only partially filled.
type Row struct {
	Line          int
	Date          time.Time
	Type          string
	InstrumentKey string
	Units         decimal.Decimal
	Price         decimal.Decimal
	Fee           decimal.Decimal
	Notes         string
	Err           error
}

var columnAliases = map[string]string{
	"date":       "date",
	"type":       "type",
	"instrument": "instrument",
	"stock":      "instrument",
	"symbol":     "instrument",
	"units":      "units",
	"price":      "price",
	"fee":        "fee",
	"notes":      "notes",
}

var requiredColumns = []string{"date", "type", "instrument", "units", "price"}

// ParseCSV reads a header line followed by trade rows. Header names are
// case-insensitive; fee and notes are optional. A missing required column or
// an unreadable stream fails the whole parse, while bad values only mark the
// affected row.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV header: empty input")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("CSV header is missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}
		rows = append(rows, parseRecord(line, record, cols))
	}
	return rows, nil
}

func parseRecord(line int, record []string, cols map[string]int) Row {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{
		Line:          line,
		Type:          field("type"),
		InstrumentKey: strings.ToUpper(field("instrument")),
		Notes:         field("notes"),
		Fee:           decimal.Zero,
	}

	var err error
	if row.Date, err = ParseDate(field("date")); err != nil {
		row.Err = err
		return row
	}
	if row.InstrumentKey == "" {
		row.Err = &apperrors.ErrValidation{Field: "instrument", Message: "is required"}
		return row
	}
	if row.Units, err = costbasis.ParseAmount("units", field("units")); err != nil {
		row.Err = err
		return row
	}
	if row.Price, err = costbasis.ParseAmount("price", field("price")); err != nil {
		row.Err = err
		return row
	}
	if fee := field("fee"); fee != "" {
		if row.Fee, err = costbasis.ParseAmount("fee", fee); err != nil {
			row.Err = err
			return row
		}
	}
	return row
}

// ParseDate accepts any of DateLayouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &apperrors.ErrValidation{Field: "date", Message: "date is required"}
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &apperrors.ErrValidation{Field: "date", Message: fmt.Sprintf("unrecognised date %q (want YYYY-MM-DD or DD/MM/YYYY)", s)}
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
