// Package currency formats ledger amounts for display. The khaata is
// rupee-denominated; amounts are stored as decimals and only converted to a
// money value at the display edge.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR renders an amount as Indian rupees, e.g. ₹1,500.00.
func INR(d decimal.Decimal) string {
	paise := d.Shift(2).Round(0).IntPart()
	return money.New(paise, money.INR).Display()
}
