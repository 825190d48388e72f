// Package statement renders a customer's full loan and repayment history to
// a downloadable document. The output is markdown: a header block followed by
// a grid table with one row per loan and indented sub-rows for repayments,
// overdue loans marked. It is a pure projection of the ledger's derived
// state.
package statement

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"credikhaata/internal/currency"
	"credikhaata/internal/ledger"
)

const tmplText = `# CrediKhaata Statement: {{.Name}}

- Email: {{.Email}}
- Phone: {{.Phone}}
- Total Outstanding: **{{.Outstanding}}**

| Item | Loan Date | Due Date | Amount | Repaid | Balance | Status |
|------|-----------|----------|--------|--------|---------|--------|
{{- range .Loans}}
| {{.Item}} | {{.Date}} | {{.DueDate}} | {{.Amount}} | {{.Repaid}} | {{.Balance}} | {{.Status}} |
{{- range .Repayments}}
| &nbsp;&nbsp;repayment | {{.Date}} | | | {{.Amount}} | | |
{{- end}}
{{- end}}

_Generated on {{.Generated}}_
`

var tmpl = template.Must(template.New("statement").Parse(tmplText))

type data struct {
	Name        string
	Email       string
	Phone       string
	Outstanding string
	Generated   string
	Loans       []loanRow
}

type loanRow struct {
	Item       string
	Date       string
	DueDate    string
	Amount     string
	Repaid     string
	Balance    string
	Status     string
	Repayments []repaymentRow
}

type repaymentRow struct {
	Date   string
	Amount string
}

// Service renders and exports customer statements.
type Service struct {
	ledger *ledger.Service
	outDir string
	now    func() time.Time
}

func NewService(l *ledger.Service, outDir string) *Service {
	return &Service{ledger: l, outDir: outDir, now: time.Now}
}

// Render returns the statement as markdown.
func (s *Service) Render(customerID uuid.UUID) (string, error) {
	cv, err := s.ledger.CustomerView(customerID)
	if err != nil {
		return "", fmt.Errorf("rendering statement: %w", err)
	}

	d := data{
		Name:        cv.Name,
		Email:       orNA(cv.Email),
		Phone:       orNA(cv.Phone),
		Outstanding: currency.INR(cv.OutstandingBalance),
		Generated:   s.now().Format(time.DateOnly),
	}

	for _, lv := range s.ledger.CustomerLoans(customerID) {
		row := loanRow{
			Item:    lv.Item,
			Date:    lv.Date.Format(time.DateOnly),
			DueDate: lv.DueDate.Format(time.DateOnly),
			Amount:  currency.INR(lv.Amount),
			Repaid:  currency.INR(lv.Repaid),
			Balance: currency.INR(lv.Balance),
			Status:  string(lv.Status),
		}

		if lv.Overdue {
			row.Status = "**" + row.Status + "**"
		}

		for _, r := range lv.Repayments {
			row.Repayments = append(row.Repayments, repaymentRow{
				Date:   r.Date.Format(time.DateOnly),
				Amount: currency.INR(r.Amount),
			})
		}

		d.Loans = append(d.Loans, row)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("executing statement template: %w", err)
	}

	return sb.String(), nil
}

// Export writes the statement to the output directory and returns the path.
func (s *Service) Export(customerID uuid.UUID) (string, error) {
	md, err := s.Render(customerID)
	if err != nil {
		return "", err
	}

	cv, err := s.ledger.CustomerView(customerID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating statement directory: %w", err)
	}

	path := filepath.Join(s.outDir, Filename(cv.Name, s.now()))
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("writing statement: %w", err)
	}

	return path, nil
}

// Filename builds <Name>_statement_<ISODate>.md with the customer name
// sanitized for the filesystem.
func Filename(name string, day time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, name)

	return fmt.Sprintf("%s_statement_%s.md", safe, day.Format(time.DateOnly))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}

	return s
}
