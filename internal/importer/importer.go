// Package importer migrates an existing khaata kept in a spreadsheet into
// the ledger. Two CSV shapes are recognized by their header row: a customer
// list and a loan list (loans reference customers by name).
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"credikhaata/internal/encoding"
	"credikhaata/internal/ledger"
)

// Kind selects which CSV shape to parse.
type Kind string

const (
	KindCustomers Kind = "customers"
	KindLoans     Kind = "loans"
)

// CustomerRecord is one parsed customer row.
type CustomerRecord struct {
	Name  string
	Email string
	Phone string
}

// LoanRecord is one parsed loan row. The customer is referenced by name and
// resolved against the ledger at apply time.
type LoanRecord struct {
	CustomerName string
	Item         string
	Amount       decimal.Decimal
	Date         time.Time // zero means "today"
	DueDate      time.Time
}

// profile describes one recognizable CSV shape: required and optional
// columns, matched case-insensitively against a header row.
type profile struct {
	kind     Kind
	required []string
	optional []string
}

var profiles = []profile{
	{kind: KindCustomers, required: []string{"name"}, optional: []string{"email", "phone"}},
	{kind: KindLoans, required: []string{"customer", "item", "amount", "due date"}, optional: []string{"date"}},
}

type colIndex map[string]int

// Parser reads khaata CSV exports.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseCustomers parses a customer-list CSV.
func (p *Parser) ParseCustomers(r io.Reader) ([]CustomerRecord, error) {
	cols, rows, err := readRows(r, KindCustomers)
	if err != nil {
		return nil, err
	}

	records := make([]CustomerRecord, 0, len(rows))

	for i, row := range rows {
		rec := CustomerRecord{
			Name:  cell(row, cols, "name"),
			Email: cell(row, cols, "email"),
			Phone: cell(row, cols, "phone"),
		}

		if err := ledger.ValidateCustomerInput(rec.Name, rec.Phone); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

// ParseLoans parses a loan-list CSV.
func (p *Parser) ParseLoans(r io.Reader) ([]LoanRecord, error) {
	cols, rows, err := readRows(r, KindLoans)
	if err != nil {
		return nil, err
	}

	records := make([]LoanRecord, 0, len(rows))

	for i, row := range rows {
		rec := LoanRecord{
			CustomerName: cell(row, cols, "customer"),
			Item:         cell(row, cols, "item"),
		}

		if rec.CustomerName == "" {
			return nil, fmt.Errorf("row %d: %w: customer name is required", i+1, ledger.ErrInvalidInput)
		}

		if err := ledger.ValidateLoanInput(rec.Item); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		rec.Amount, err = ledger.ParseAmount(cell(row, cols, "amount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		rec.DueDate, err = ledger.ParseDate(cell(row, cols, "due date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		if raw := cell(row, cols, "date"); raw != "" {
			rec.Date, err = ledger.ParseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// readRows decodes, splits, and locates the header for the wanted kind,
// returning the column map and the data rows after the header.
func readRows(r io.Reader, kind Kind) (colIndex, [][]string, error) {
	utf8r, err := encoding.UTF8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}

	// Spreadsheet exports in this part of the world often use semicolons.
	if looksSemicolonSeparated(rows) {
		rows, err = reread(rows, ';')
		if err != nil {
			return nil, nil, err
		}
	}

	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, c := range row {
			name := strings.ToLower(strings.TrimSpace(c))
			if name != "" {
				cols[name] = i
			}
		}

		if matchesKind(kind, cols) {
			return cols, rows[rowIdx+1:], nil
		}
	}

	return nil, nil, fmt.Errorf("no %s header found: expected columns %v", kind, requiredCols(kind))
}

func looksSemicolonSeparated(rows [][]string) bool {
	return len(rows) > 0 && len(rows[0]) == 1 && strings.Contains(rows[0][0], ";")
}

func reread(rows [][]string, comma rune) ([][]string, error) {
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, string(comma)))
		sb.WriteByte('\n')
	}

	reader := csv.NewReader(strings.NewReader(sb.String()))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	out, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("re-read csv: %w", err)
	}

	return out, nil
}

func matchesKind(kind Kind, cols colIndex) bool {
	for _, name := range requiredCols(kind) {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func requiredCols(kind Kind) []string {
	for _, p := range profiles {
		if p.kind == kind {
			return p.required
		}
	}

	return nil
}

func cell(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
