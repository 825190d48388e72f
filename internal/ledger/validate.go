package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Validation errors are the only error class a user can cause; every input
// boundary runs these checks before calling the service.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrExceedsBalance = errors.New("repayment exceeds balance")
)

// ValidateCustomerInput checks a customer form: name required after
// trimming, phone all-digit when present. Email is free text.
func ValidateCustomerInput(name, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	return ValidatePhone(phone)
}

// ValidatePhone accepts an empty phone or one made only of digits.
func ValidatePhone(phone string) error {
	for _, r := range strings.TrimSpace(phone) {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: phone number should contain only digits", ErrInvalidInput)
		}
	}

	return nil
}

// ValidateLoanInput checks a loan form's item description.
func ValidateLoanInput(item string) error {
	if strings.TrimSpace(item) == "" {
		return fmt.Errorf("%w: item or service is required", ErrInvalidInput)
	}

	return nil
}

// ParseAmount parses a positive decimal amount from form input.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount must be a number", ErrInvalidInput)
	}

	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	return d, nil
}

// ParseDate parses a YYYY-MM-DD form date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be a valid YYYY-MM-DD date", ErrInvalidInput)
	}

	return t, nil
}

// CheckRepayment enforces 0 < amount <= balance. The error names the exact
// remaining balance so the form can surface it.
func CheckRepayment(amount, balance decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: repayment amount must be positive", ErrInvalidInput)
	}

	if amount.GreaterThan(balance) {
		return fmt.Errorf("%w: repayment cannot exceed the remaining balance of %s", ErrExceedsBalance, balance)
	}

	return nil
}
