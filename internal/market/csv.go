package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Column names of the ministry CSV format.
const (
	ColDate       = "Date"
	ColRegion     = "Région"
	ColProduct    = "Produit"
	ColPrice      = "Prix_GNF"
	ColStock      = "Stock_T"
	ColWeeklyNeed = "Besoin_Hebdo"
	ColLat        = "lat"
	ColLon        = "lon"
)

// RequiredColumns must all be present in an uploaded file. Date is optional.
var RequiredColumns = []string{ColProduct, ColRegion, ColPrice, ColStock, ColWeeklyNeed, ColLat, ColLon}

var csvHeader = []string{ColDate, ColRegion, ColProduct, ColPrice, ColStock, ColWeeklyNeed, ColLat, ColLon}

const maxRowErrors = 20

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// RowError describes one cell that could not be converted.
type RowError struct {
	Line   int    `json:"line"`
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// SchemaError is returned when a CSV file does not match the expected layout.
type SchemaError struct {
	Missing   []string   `json:"missingColumns,omitempty"`
	Rows      []RowError `json:"rowErrors,omitempty"`
	Truncated bool       `json:"truncated,omitempty"` // more row errors exist than were collected
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns "+strings.Join(e.Missing, ", "))
	}
	if len(e.Rows) > 0 {
		first := e.Rows[0]
		msg := fmt.Sprintf("%d invalid rows (first: line %d", len(e.Rows), first.Line)
		if first.Column != "" {
			msg += " column " + first.Column
		}
		parts = append(parts, msg+": "+first.Reason+")")
	}
	if len(parts) == 0 {
		return "csv schema: invalid file"
	}
	return "csv schema: " + strings.Join(parts, "; ")
}

func (e *SchemaError) addRow(re RowError) bool {
	if len(e.Rows) >= maxRowErrors {
		e.Truncated = true
		return false
	}
	e.Rows = append(e.Rows, re)
	return true
}

// ParseCSV reads a ministry CSV file into a Table, keeping rows in file order.
// Any layout problem is reported as a *SchemaError; I/O failures are returned as is.
func ParseCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: append([]string(nil), RequiredColumns...)}
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeHeader(name)] = i
	}

	schemaErr := &SchemaError{}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			schemaErr.Missing = append(schemaErr.Missing, col)
		}
	}
	if len(schemaErr.Missing) > 0 {
		return nil, schemaErr
	}
	dateIdx, hasDate := index[ColDate]

	var table Table
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				if !schemaErr.addRow(RowError{Line: perr.Line, Reason: perr.Err.Error()}) {
					break
				}
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) < len(header) {
			if !schemaErr.addRow(RowError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(record)),
			}) {
				break
			}
			continue
		}

		p := rowParser{line: line, record: record, index: index, errs: schemaErr}
		obs := Observation{
			Region:         p.text(ColRegion),
			Product:        p.text(ColProduct),
			PriceGNF:       p.number(ColPrice, positive),
			StockTons:      p.number(ColStock, nonNegative),
			WeeklyNeedTons: p.number(ColWeeklyNeed, nonNegative),
			Lat:            p.number(ColLat, nil),
			Lon:            p.number(ColLon, nil),
		}
		if hasDate {
			obs.Date = p.date(dateIdx)
		}
		if p.failed {
			if schemaErr.Truncated {
				break
			}
			continue
		}
		table = append(table, obs)
	}

	if len(schemaErr.Rows) > 0 {
		return nil, schemaErr
	}
	return table, nil
}

// WriteCSV writes the table in the ministry CSV format accepted by ParseCSV.
func WriteCSV(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range table {
		date := ""
		if !o.Date.IsZero() {
			date = o.Date.Format(time.RFC3339Nano)
		}
		if err := cw.Write([]string{
			date,
			o.Region,
			o.Product,
			formatFloat(o.PriceGNF),
			formatFloat(o.StockTons),
			formatFloat(o.WeeklyNeedTons),
			formatFloat(o.Lat),
			formatFloat(o.Lon),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// normalizeHeader makes header matching tolerant of BOMs, padding and
// decomposed accents (e.g. "Région").
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(s))
}

type numberCheck func(float64) string

func positive(v float64) string {
	if v <= 0 {
		return "must be greater than zero"
	}
	return ""
}

func nonNegative(v float64) string {
	if v < 0 {
		return "must not be negative"
	}
	return ""
}

type rowParser struct {
	line   int
	record []string
	index  map[string]int
	errs   *SchemaError
	failed bool
}

func (p *rowParser) fail(col, value, reason string) {
	p.failed = true
	p.errs.addRow(RowError{Line: p.line, Column: col, Value: value, Reason: reason})
}

func (p *rowParser) text(col string) string {
	v := norm.NFC.String(strings.TrimSpace(p.record[p.index[col]]))
	if v == "" {
		p.fail(col, v, "value is required")
	}
	return v
}

func (p *rowParser) number(col string, check numberCheck) float64 {
	raw := strings.TrimSpace(p.record[p.index[col]])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(col, raw, "not a finite number")
		return 0
	}
	if check != nil {
		if reason := check(v); reason != "" {
			p.fail(col, raw, reason)
		}
	}
	return v
}

func (p *rowParser) date(idx int) time.Time {
	raw := strings.TrimSpace(p.record[idx])
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	p.fail(ColDate, raw, "unrecognised date format")
	return time.Time{}
}
