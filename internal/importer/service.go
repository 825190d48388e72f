package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"credikhaata/internal/ledger"
)

// Service parses an uploaded CSV and applies it to the ledger. The file is
// validated row by row before anything is written, so a bad file creates
// nothing.
type Service struct {
	parser *Parser
	ledger *ledger.Service
}

func NewService(l *ledger.Service) *Service {
	return &Service{parser: NewParser(), ledger: l}
}

// Import parses r as the given kind and applies it. It returns the number of
// records created.
func (s *Service) Import(ctx context.Context, kind Kind, r io.Reader) (int, error) {
	switch kind {
	case KindCustomers:
		return s.importCustomers(ctx, r)
	case KindLoans:
		return s.importLoans(ctx, r)
	default:
		return 0, fmt.Errorf("unknown import kind: %s", kind)
	}
}

func (s *Service) importCustomers(ctx context.Context, r io.Reader) (int, error) {
	records, err := s.parser.ParseCustomers(r)
	if err != nil {
		return 0, err
	}

	for _, rec := range records {
		if _, err := s.ledger.AddCustomer(ctx, rec.Name, rec.Email, rec.Phone); err != nil {
			return 0, fmt.Errorf("importing customer %q: %w", rec.Name, err)
		}
	}

	return len(records), nil
}

func (s *Service) importLoans(ctx context.Context, r io.Reader) (int, error) {
	records, err := s.parser.ParseLoans(r)
	if err != nil {
		return 0, err
	}

	// Resolve every customer up front so an unknown name rejects the whole
	// file before any loan is written.
	type resolved struct {
		rec      LoanRecord
		customer ledger.Customer
	}

	loans := make([]resolved, 0, len(records))

	for i, rec := range records {
		c, ok := s.ledger.CustomerByName(rec.CustomerName)
		if !ok {
			return 0, fmt.Errorf("row %d: unknown customer %q: %w", i+1, rec.CustomerName, ledger.ErrNotFound)
		}

		loans = append(loans, resolved{rec: rec, customer: c})
	}

	for _, l := range loans {
		date := l.rec.Date
		if date.IsZero() {
			date = time.Now()
		}

		if _, err := s.ledger.ImportLoan(ctx, l.customer.ID, l.rec.Item, l.rec.Amount, date, l.rec.DueDate); err != nil {
			return 0, fmt.Errorf("importing loan for %q: %w", l.rec.CustomerName, err)
		}
	}

	return len(loans), nil
}
