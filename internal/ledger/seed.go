package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// seed builds the first-run demo ledger: seven customers with a spread of
// paid, due, and overdue loans. Dates are relative to today so the demo keeps
// showing every status.
func seed() ([]Customer, []Loan, []Repayment) {
	customers := []Customer{
		{ID: uuid.New(), Name: "Rajesh Kumar", Email: "rajesh@example.com", Phone: "9876543210"},
		{ID: uuid.New(), Name: "Sunita Sharma", Email: "sunita@example.com", Phone: "9876543211"},
		{ID: uuid.New(), Name: "Amit Patel", Email: "amit@example.com", Phone: "9876543212"},
		{ID: uuid.New(), Name: "Priya Singh", Email: "priya@example.com", Phone: "9876543213"},
		{ID: uuid.New(), Name: "Vikram Rao", Email: "vikram@example.com", Phone: "9876543214"},
		{ID: uuid.New(), Name: "Anjali Gupta", Email: "anjali@example.com", Phone: "9876543215"},
		{ID: uuid.New(), Name: "Sandeep Verma", Email: "sandeep@example.com", Phone: "9876543216"},
	}

	loans := []Loan{
		{ID: uuid.New(), CustomerID: customers[0].ID, Item: "Groceries", Amount: rupees(1500), Date: day(-20), DueDate: day(10)},
		{ID: uuid.New(), CustomerID: customers[0].ID, Item: "Milk Subscription", Amount: rupees(600), Date: day(-5), DueDate: day(25)},
		{ID: uuid.New(), CustomerID: customers[1].ID, Item: "Tailoring Service", Amount: rupees(850), Date: day(-45), DueDate: day(-15)},
		{ID: uuid.New(), CustomerID: customers[2].ID, Item: "Snacks", Amount: rupees(300), Date: day(-2), DueDate: day(15)},
		{ID: uuid.New(), CustomerID: customers[3].ID, Item: "Vegetables", Amount: rupees(700), Date: day(-25), DueDate: day(5)},
		{ID: uuid.New(), CustomerID: customers[3].ID, Item: "Household Items", Amount: rupees(1200), Date: day(-10), DueDate: day(20)},
		{ID: uuid.New(), CustomerID: customers[4].ID, Item: "Electronics Repair", Amount: rupees(2500), Date: day(-60), DueDate: day(-30)},
		{ID: uuid.New(), CustomerID: customers[5].ID, Item: "Stationery", Amount: rupees(450), Date: day(-12), DueDate: day(18)},
		// Sandeep Verma starts with a clean khaata.
	}

	repayments := []Repayment{
		{ID: uuid.New(), LoanID: loans[0].ID, Amount: rupees(500), Date: day(-10)},
		// Vegetables fully paid.
		{ID: uuid.New(), LoanID: loans[4].ID, Amount: rupees(700), Date: day(-5)},
		{ID: uuid.New(), LoanID: loans[6].ID, Amount: rupees(1000), Date: day(-40)},
	}

	return customers, loans, repayments
}

func rupees(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func day(offset int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}
