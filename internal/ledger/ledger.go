package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// Customer is someone the shop extends credit to.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

// Loan is a credit sale: the principal a customer owes as of the issue date.
type Loan struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customerId"`
	Item       string          `json:"item"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	DueDate    time.Time       `json:"dueDate"`
}

// Repayment is a payment applied against one specific loan.
type Repayment struct {
	ID     uuid.UUID       `json:"id"`
	LoanID uuid.UUID       `json:"loanId"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// Status summarizes a customer's or loan's standing.
type Status string

const (
	StatusOverdue Status = "Overdue"
	StatusDue     Status = "Due"
	StatusPaid    Status = "Paid"
)

// LoanView is a loan with its derived state and repayment history.
type LoanView struct {
	Loan
	Repaid     decimal.Decimal
	Balance    decimal.Decimal
	Overdue    bool
	Status     Status
	Repayments []Repayment
}

// CustomerView is a customer with their aggregated loan state.
type CustomerView struct {
	Customer
	OutstandingBalance decimal.Decimal
	NextDueDate        *time.Time
	Status             Status
	Overdue            bool
}
