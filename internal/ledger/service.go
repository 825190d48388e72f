package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"credikhaata/internal/storage"
)

// Service owns the three collections in memory and re-persists the affected
// ones through the storage port after every mutation. Insertion order is
// display order. Derived state (balances, statuses, due dates) is recomputed
// on every read; the collections are small enough that caching would only buy
// invalidation bugs.
//
// The service performs no input validation. Boundaries (TUI forms, HTTP
// handlers, CSV import) run the checks in validate.go before calling in. The
// one exception is the repayment balance invariant, which AddRepayment
// re-checks under the write lock because boundary checks run against a
// snapshot.
type Service struct {
	mu   sync.RWMutex
	port storage.Port
	now  func() time.Time

	customers  []Customer
	loans      []Loan
	repayments []Repayment
}

// New restores the collections from the port. A missing customers key means
// first run: the built-in demo ledger is seeded and persisted.
func New(ctx context.Context, port storage.Port) (*Service, error) {
	s := &Service{port: port, now: time.Now}

	data, ok, err := port.Load(ctx, storage.KeyCustomers)
	if err != nil {
		return nil, fmt.Errorf("loading customers: %w", err)
	}

	if !ok {
		s.customers, s.loans, s.repayments = seed()
		if err := s.persist(ctx, storage.KeyCustomers, storage.KeyLoans, storage.KeyRepayments); err != nil {
			return nil, fmt.Errorf("seeding ledger: %w", err)
		}

		return s, nil
	}

	if err := json.Unmarshal(data, &s.customers); err != nil {
		return nil, fmt.Errorf("decoding customers: %w", err)
	}

	if err := loadCollection(ctx, port, storage.KeyLoans, &s.loans); err != nil {
		return nil, err
	}

	if err := loadCollection(ctx, port, storage.KeyRepayments, &s.repayments); err != nil {
		return nil, err
	}

	return s, nil
}

func loadCollection[T any](ctx context.Context, port storage.Port, key string, dst *[]T) error {
	data, ok, err := port.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("loading %s: %w", key, err)
	}

	if !ok {
		return nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}

	return nil
}

// persist re-serializes the named collections. It is called with the write
// lock held, before the mutation returns, so the next read always observes
// persisted state.
func (s *Service) persist(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		var v any

		switch key {
		case storage.KeyCustomers:
			v = s.customers
		case storage.KeyLoans:
			v = s.loans
		case storage.KeyRepayments:
			v = s.repayments
		}

		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}

		if err := s.port.Save(ctx, key, data); err != nil {
			return fmt.Errorf("persisting %s: %w", key, err)
		}
	}

	return nil
}

// AddCustomer appends a new customer and returns it. Fields are stored
// trimmed so that lookups by name (CustomerByName) always match.
func (s *Service) AddCustomer(ctx context.Context, name, email, phone string) (Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Customer{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	s.customers = append(s.customers, c)

	if err := s.persist(ctx, storage.KeyCustomers); err != nil {
		return Customer{}, err
	}

	return c, nil
}

// AddLoan appends a new loan for the customer. The issue date is now.
func (s *Service) AddLoan(ctx context.Context, customerID uuid.UUID, item string, amount decimal.Decimal, dueDate time.Time) (Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addLoan(ctx, customerID, item, amount, s.now(), dueDate)
}

// ImportLoan appends a loan with an explicit issue date. Only the ledger
// migration uses this; interactive entry always stamps the current time.
func (s *Service) ImportLoan(ctx context.Context, customerID uuid.UUID, item string, amount decimal.Decimal, date, dueDate time.Time) (Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addLoan(ctx, customerID, item, amount, date, dueDate)
}

func (s *Service) addLoan(ctx context.Context, customerID uuid.UUID, item string, amount decimal.Decimal, date, dueDate time.Time) (Loan, error) {
	if _, ok := s.findCustomer(customerID); !ok {
		return Loan{}, fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
	}

	l := Loan{
		ID:         uuid.New(),
		CustomerID: customerID,
		Item:       strings.TrimSpace(item),
		Amount:     amount,
		Date:       date,
		DueDate:    dueDate,
	}
	s.loans = append(s.loans, l)

	if err := s.persist(ctx, storage.KeyLoans); err != nil {
		return Loan{}, err
	}

	return l, nil
}

// AddRepayment appends a repayment against the loan. The balance check runs
// here, under the write lock: callers validate against a snapshot, but two
// concurrent submissions could each see enough balance, so only the check at
// the commit point keeps the balance from going negative.
func (s *Service) AddRepayment(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal, date time.Time) (Repayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.findLoan(loanID)
	if !ok {
		return Repayment{}, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}

	if err := CheckRepayment(amount, s.balance(l)); err != nil {
		return Repayment{}, err
	}

	r := Repayment{
		ID:     uuid.New(),
		LoanID: loanID,
		Amount: amount,
		Date:   date,
	}
	s.repayments = append(s.repayments, r)

	if err := s.persist(ctx, storage.KeyRepayments); err != nil {
		return Repayment{}, err
	}

	return r, nil
}

// DeleteCustomer removes the customer, all their loans, and all repayments of
// those loans. Affected ids are collected first so a partial cascade is never
// observable.
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findCustomer(id); !ok {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}

	doomedLoans := make(map[uuid.UUID]bool)

	for _, l := range s.loans {
		if l.CustomerID == id {
			doomedLoans[l.ID] = true
		}
	}

	s.customers = remove(s.customers, func(c Customer) bool { return c.ID == id })
	s.loans = remove(s.loans, func(l Loan) bool { return doomedLoans[l.ID] })
	s.repayments = remove(s.repayments, func(r Repayment) bool { return doomedLoans[r.LoanID] })

	return s.persist(ctx, storage.KeyCustomers, storage.KeyLoans, storage.KeyRepayments)
}

// DeleteLoan removes the loan and its repayments.
func (s *Service) DeleteLoan(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findLoan(id); !ok {
		return fmt.Errorf("loan %s: %w", id, ErrNotFound)
	}

	s.loans = remove(s.loans, func(l Loan) bool { return l.ID == id })
	s.repayments = remove(s.repayments, func(r Repayment) bool { return r.LoanID == id })

	return s.persist(ctx, storage.KeyLoans, storage.KeyRepayments)
}

// DeleteRepayment removes only that repayment.
func (s *Service) DeleteRepayment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false

	for _, r := range s.repayments {
		if r.ID == id {
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("repayment %s: %w", id, ErrNotFound)
	}

	s.repayments = remove(s.repayments, func(r Repayment) bool { return r.ID == id })

	return s.persist(ctx, storage.KeyRepayments)
}

func remove[T any](list []T, doomed func(T) bool) []T {
	kept := list[:0:0]

	for _, item := range list {
		if !doomed(item) {
			kept = append(kept, item)
		}
	}

	return kept
}

// Customer returns the customer by id.
func (s *Service) Customer(id uuid.UUID) (Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.findCustomer(id)
	if !ok {
		return Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}

	return c, nil
}

// CustomerByName returns the first customer whose name matches exactly,
// ignoring surrounding whitespace. Used by the CSV import to resolve loans.
func (s *Service) CustomerByName(name string) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.TrimSpace(name)

	for _, c := range s.customers {
		if c.Name == name {
			return c, true
		}
	}

	return Customer{}, false
}

// Loan returns the loan by id.
func (s *Service) Loan(id uuid.UUID) (Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.findLoan(id)
	if !ok {
		return Loan{}, fmt.Errorf("loan %s: %w", id, ErrNotFound)
	}

	return l, nil
}

// Balance returns principal minus the sum of the loan's repayments.
func (s *Service) Balance(loanID uuid.UUID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.findLoan(loanID)
	if !ok {
		return decimal.Zero, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}

	return s.balance(l), nil
}

// IsOverdue reports whether the loan has a positive balance and a due date in
// the past.
func (s *Service) IsOverdue(loanID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.findLoan(loanID)
	if !ok {
		return false, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}

	return s.overdue(l), nil
}

// LoanView returns the loan with derived state and its repayment history.
func (s *Service) LoanView(loanID uuid.UUID) (LoanView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.findLoan(loanID)
	if !ok {
		return LoanView{}, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}

	return s.loanView(l), nil
}

// CustomerLoans returns views for the customer's loans in insertion order.
func (s *Service) CustomerLoans(customerID uuid.UUID) []LoanView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var views []LoanView

	for _, l := range s.loans {
		if l.CustomerID == customerID {
			views = append(views, s.loanView(l))
		}
	}

	return views
}

// CustomerView aggregates the customer's loans into outstanding balance, next
// due date, and status.
func (s *Service) CustomerView(id uuid.UUID) (CustomerView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.findCustomer(id)
	if !ok {
		return CustomerView{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}

	return s.customerView(c), nil
}

// AllCustomerViews returns one view per customer, in insertion order.
func (s *Service) AllCustomerViews() []CustomerView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]CustomerView, 0, len(s.customers))
	for _, c := range s.customers {
		views = append(views, s.customerView(c))
	}

	return views
}

// Customers returns a snapshot of the customer collection.
func (s *Service) Customers() []Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Customer(nil), s.customers...)
}

// Loans returns a snapshot of the loan collection.
func (s *Service) Loans() []Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Loan(nil), s.loans...)
}

// Repayments returns a snapshot of the repayment collection.
func (s *Service) Repayments() []Repayment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Repayment(nil), s.repayments...)
}

func (s *Service) findCustomer(id uuid.UUID) (Customer, bool) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}

	return Customer{}, false
}

func (s *Service) findLoan(id uuid.UUID) (Loan, bool) {
	for _, l := range s.loans {
		if l.ID == id {
			return l, true
		}
	}

	return Loan{}, false
}

func (s *Service) balance(l Loan) decimal.Decimal {
	balance := l.Amount

	for _, r := range s.repayments {
		if r.LoanID == l.ID {
			balance = balance.Sub(r.Amount)
		}
	}

	return balance
}

func (s *Service) overdue(l Loan) bool {
	return s.balance(l).IsPositive() && l.DueDate.Before(s.now())
}

func (s *Service) loanView(l Loan) LoanView {
	v := LoanView{Loan: l, Balance: l.Amount}

	for _, r := range s.repayments {
		if r.LoanID == l.ID {
			v.Repayments = append(v.Repayments, r)
			v.Repaid = v.Repaid.Add(r.Amount)
		}
	}

	sort.SliceStable(v.Repayments, func(i, j int) bool {
		return v.Repayments[i].Date.Before(v.Repayments[j].Date)
	})

	v.Balance = l.Amount.Sub(v.Repaid)
	v.Overdue = v.Balance.IsPositive() && l.DueDate.Before(s.now())

	switch {
	case v.Overdue:
		v.Status = StatusOverdue
	case v.Balance.IsPositive():
		v.Status = StatusDue
	default:
		v.Status = StatusPaid
	}

	return v
}

func (s *Service) customerView(c Customer) CustomerView {
	v := CustomerView{Customer: c, Status: StatusPaid}

	for _, l := range s.loans {
		if l.CustomerID != c.ID {
			continue
		}

		balance := s.balance(l)
		if !balance.IsPositive() {
			continue
		}

		v.OutstandingBalance = v.OutstandingBalance.Add(balance)

		if l.DueDate.Before(s.now()) {
			v.Overdue = true
		}

		if v.NextDueDate == nil || l.DueDate.Before(*v.NextDueDate) {
			due := l.DueDate
			v.NextDueDate = &due
		}
	}

	switch {
	case v.Overdue:
		v.Status = StatusOverdue
	case v.OutstandingBalance.IsPositive():
		v.Status = StatusDue
	}

	return v
}
