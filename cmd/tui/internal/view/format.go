package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"credikhaata/internal/currency"
)

// storeCtx bounds a persistence call fired from a view command.
func storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// FormatAmount renders a ledger amount as rupees.
func FormatAmount(d decimal.Decimal) string {
	return currency.INR(d)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatDuePtr formats an optional due date, "-" when absent.
func FormatDuePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}

	return FormatDate(*t)
}
