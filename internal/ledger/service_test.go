package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credikhaata/internal/storage"
)

type memPort struct {
	data map[string][]byte
}

func newMemPort() *memPort {
	return &memPort{data: make(map[string][]byte)}
}

func (p *memPort) Load(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.data[key]
	return v, ok, nil
}

func (p *memPort) Save(_ context.Context, key string, value []byte) error {
	p.data[key] = value
	return nil
}

func (p *memPort) Delete(_ context.Context, key string) error {
	delete(p.data, key)
	return nil
}

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

// emptyService builds a service with no seed data and a fixed clock.
func emptyService(t *testing.T) (*Service, *memPort) {
	t.Helper()

	port := newMemPort()
	port.data[storage.KeyCustomers] = []byte("[]")

	svc, err := New(context.Background(), port)
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow }

	return svc, port
}

func rupeesOf(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestNew_SeedsOnFirstRun(t *testing.T) {
	port := newMemPort()

	svc, err := New(context.Background(), port)
	require.NoError(t, err)

	customers := svc.Customers()
	assert.Len(t, customers, 7)
	assert.NotEmpty(t, svc.Loans())

	// The seed is persisted immediately so a second start does not reseed.
	assert.Contains(t, port.data, storage.KeyCustomers)
	assert.Contains(t, port.data, storage.KeyLoans)
	assert.Contains(t, port.data, storage.KeyRepayments)

	again, err := New(context.Background(), port)
	require.NoError(t, err)
	assert.Equal(t, customers, again.Customers())
}

func TestService_BalanceAndOverdue(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Rajesh Kumar", "", "9876543210")
	require.NoError(t, err)

	loan, err := svc.AddLoan(ctx, c.ID, "Groceries", rupeesOf(1000), testNow.AddDate(0, 0, -1))
	require.NoError(t, err)

	_, err = svc.AddRepayment(ctx, loan.ID, rupeesOf(400), testNow)
	require.NoError(t, err)

	balance, err := svc.Balance(loan.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(rupeesOf(600)), "balance = %s", balance)

	overdue, err := svc.IsOverdue(loan.ID)
	require.NoError(t, err)
	assert.True(t, overdue)

	view, err := svc.LoanView(loan.ID)
	require.NoError(t, err)
	assert.True(t, view.Repaid.Equal(rupeesOf(400)))
	assert.Equal(t, StatusOverdue, view.Status)
	assert.Len(t, view.Repayments, 1)
}

func TestService_LoanStatus(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Priya Sharma", "", "")
	require.NoError(t, err)

	t.Run("DueWhenUnpaidAndNotPastDue", func(t *testing.T) {
		loan, err := svc.AddLoan(ctx, c.ID, "Medicines", rupeesOf(250), testNow.AddDate(0, 0, 7))
		require.NoError(t, err)

		view, err := svc.LoanView(loan.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusDue, view.Status)
		assert.False(t, view.Overdue)
	})

	t.Run("PaidEvenWhenPastDue", func(t *testing.T) {
		loan, err := svc.AddLoan(ctx, c.ID, "Vegetables", rupeesOf(150), testNow.AddDate(0, 0, -10))
		require.NoError(t, err)

		_, err = svc.AddRepayment(ctx, loan.ID, rupeesOf(150), testNow.AddDate(0, 0, -12))
		require.NoError(t, err)

		view, err := svc.LoanView(loan.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, view.Status)
		assert.False(t, view.Overdue)
		assert.True(t, view.Balance.IsZero())
	})
}

func TestService_AddCustomerTrimsInput(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "  Rajesh Kumar ", " rajesh@example.com ", " 9876543210 ")
	require.NoError(t, err)

	assert.Equal(t, "Rajesh Kumar", c.Name)
	assert.Equal(t, "rajesh@example.com", c.Email)
	assert.Equal(t, "9876543210", c.Phone)

	// A stored untrimmed name would never resolve during CSV import.
	got, ok := svc.CustomerByName("Rajesh Kumar")
	require.True(t, ok)
	assert.Equal(t, c.ID, got.ID)

	loan, err := svc.AddLoan(ctx, c.ID, "  Groceries ", rupeesOf(100), testNow)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", loan.Item)
}

func TestService_AddRepaymentEnforcesBalance(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Rajesh Kumar", "", "")
	require.NoError(t, err)
	loan, err := svc.AddLoan(ctx, c.ID, "Groceries", rupeesOf(600), testNow.AddDate(0, 0, 7))
	require.NoError(t, err)

	_, err = svc.AddRepayment(ctx, loan.ID, rupeesOf(700), testNow)
	assert.ErrorIs(t, err, ErrExceedsBalance)

	// Two full repayments submitted against the same balance snapshot:
	// the first settles the loan, the second must be rejected instead of
	// driving the balance negative.
	_, err = svc.AddRepayment(ctx, loan.ID, rupeesOf(600), testNow)
	require.NoError(t, err)

	_, err = svc.AddRepayment(ctx, loan.ID, rupeesOf(600), testNow)
	assert.ErrorIs(t, err, ErrExceedsBalance)

	balance, err := svc.Balance(loan.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "balance = %s", balance)
	assert.Len(t, svc.Repayments(), 1)

	_, err = svc.AddRepayment(ctx, loan.ID, decimal.Zero, testNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_AddLoanUnknownCustomer(t *testing.T) {
	svc, _ := emptyService(t)

	_, err := svc.AddLoan(context.Background(), uuid.New(), "Groceries", rupeesOf(100), testNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteCustomerCascades(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	doomed, err := svc.AddCustomer(ctx, "Amit Patel", "", "")
	require.NoError(t, err)
	kept, err := svc.AddCustomer(ctx, "Sunita Devi", "", "")
	require.NoError(t, err)

	doomedLoan, err := svc.AddLoan(ctx, doomed.ID, "Rice", rupeesOf(500), testNow)
	require.NoError(t, err)
	keptLoan, err := svc.AddLoan(ctx, kept.ID, "Oil", rupeesOf(300), testNow)
	require.NoError(t, err)

	_, err = svc.AddRepayment(ctx, doomedLoan.ID, rupeesOf(100), testNow)
	require.NoError(t, err)
	keptRepayment, err := svc.AddRepayment(ctx, keptLoan.ID, rupeesOf(50), testNow)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, doomed.ID))

	_, err = svc.Customer(doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Loan(doomedLoan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The other customer's ledger is untouched.
	assert.Len(t, svc.Customers(), 1)
	assert.Len(t, svc.Loans(), 1)
	require.Len(t, svc.Repayments(), 1)
	assert.Equal(t, keptRepayment.ID, svc.Repayments()[0].ID)
}

func TestService_DeleteLoanCascades(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Vikram Singh", "", "")
	require.NoError(t, err)

	loan, err := svc.AddLoan(ctx, c.ID, "Cement", rupeesOf(2000), testNow)
	require.NoError(t, err)
	_, err = svc.AddRepayment(ctx, loan.ID, rupeesOf(500), testNow)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLoan(ctx, loan.ID))

	assert.Empty(t, svc.Loans())
	assert.Empty(t, svc.Repayments())

	// The customer stays.
	_, err = svc.Customer(c.ID)
	assert.NoError(t, err)
}

func TestService_DeleteRepaymentRestoresBalance(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Meena Kumari", "", "")
	require.NoError(t, err)
	loan, err := svc.AddLoan(ctx, c.ID, "Sarees", rupeesOf(800), testNow.AddDate(0, 0, 5))
	require.NoError(t, err)
	rp, err := svc.AddRepayment(ctx, loan.ID, rupeesOf(300), testNow)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRepayment(ctx, rp.ID))

	balance, err := svc.Balance(loan.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(rupeesOf(800)))

	err = svc.DeleteRepayment(ctx, rp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CustomerViewAggregation(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Sandeep Verma", "", "")
	require.NoError(t, err)

	t.Run("NoLoansMeansPaid", func(t *testing.T) {
		view, err := svc.CustomerView(c.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, view.Status)
		assert.True(t, view.OutstandingBalance.IsZero())
		assert.Nil(t, view.NextDueDate)
	})

	nearDue := testNow.AddDate(0, 0, 3)
	farDue := testNow.AddDate(0, 0, 30)
	paidDue := testNow.AddDate(0, 0, 1)

	_, err = svc.AddLoan(ctx, c.ID, "Paint", rupeesOf(1200), farDue)
	require.NoError(t, err)
	_, err = svc.AddLoan(ctx, c.ID, "Brushes", rupeesOf(200), nearDue)
	require.NoError(t, err)

	// A fully repaid loan contributes nothing, not even its due date.
	paidLoan, err := svc.AddLoan(ctx, c.ID, "Ladder", rupeesOf(900), paidDue)
	require.NoError(t, err)
	_, err = svc.AddRepayment(ctx, paidLoan.ID, rupeesOf(900), testNow)
	require.NoError(t, err)

	view, err := svc.CustomerView(c.ID)
	require.NoError(t, err)
	assert.True(t, view.OutstandingBalance.Equal(rupeesOf(1400)), "outstanding = %s", view.OutstandingBalance)
	require.NotNil(t, view.NextDueDate)
	assert.True(t, view.NextDueDate.Equal(nearDue))
	assert.Equal(t, StatusDue, view.Status)

	t.Run("OverdueWinsOverDue", func(t *testing.T) {
		_, err := svc.AddLoan(ctx, c.ID, "Thinner", rupeesOf(100), testNow.AddDate(0, 0, -2))
		require.NoError(t, err)

		view, err := svc.CustomerView(c.ID)
		require.NoError(t, err)
		assert.True(t, view.Overdue)
		assert.Equal(t, StatusOverdue, view.Status)
	})
}

func TestService_PersistAcrossRestart(t *testing.T) {
	svc, port := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Rahul Mehta", "rahul@example.com", "9000000001")
	require.NoError(t, err)
	loan, err := svc.AddLoan(ctx, c.ID, "Fertilizer", rupeesOf(750), testNow.AddDate(0, 0, 14))
	require.NoError(t, err)
	_, err = svc.AddRepayment(ctx, loan.ID, rupeesOf(250), testNow)
	require.NoError(t, err)

	restarted, err := New(ctx, port)
	require.NoError(t, err)
	restarted.now = func() time.Time { return testNow }

	got, err := restarted.Customer(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rahul Mehta", got.Name)

	balance, err := restarted.Balance(loan.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(rupeesOf(500)))
}

func TestService_ImportLoanKeepsGivenDate(t *testing.T) {
	svc, _ := emptyService(t)
	ctx := context.Background()

	c, err := svc.AddCustomer(ctx, "Anita Desai", "", "")
	require.NoError(t, err)

	issued := testNow.AddDate(0, -2, 0)
	loan, err := svc.ImportLoan(ctx, c.ID, "Seeds", rupeesOf(600), issued, issued.AddDate(0, 1, 0))
	require.NoError(t, err)

	assert.True(t, loan.Date.Equal(issued))
}
