package loan_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credikhaata/internal/http/loan"
	"credikhaata/internal/ledger"
	"credikhaata/internal/storage/file"
)

func setup(t *testing.T) (*chi.Mux, *ledger.Service) {
	t.Helper()

	port, err := file.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, port.Save(ctx, "customers", []byte("[]")))

	l, err := ledger.New(ctx, port)
	require.NoError(t, err)

	h := loan.NewHandler(l)

	router := chi.NewRouter()
	router.Route("/loans", h.Routes)
	router.Route("/repayments", h.RepaymentRoutes)

	return router, l
}

func TestHandler_Create(t *testing.T) {
	router, l := setup(t)

	c, err := l.AddCustomer(context.Background(), "Rajesh Kumar", "", "")
	require.NoError(t, err)

	dueDate := time.Now().AddDate(0, 0, 30).Format(time.DateOnly)
	body := `{"customerId":"` + c.ID.String() + `","item":"Groceries","amount":"1000","dueDate":"` + dueDate + `"}`
	req := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID      uuid.UUID `json:"id"`
		Balance string    `json:"balance"`
		Status  string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1000", resp.Balance)
	assert.Equal(t, "Due", resp.Status)
}

func TestHandler_CreateRepayment(t *testing.T) {
	router, l := setup(t)
	ctx := context.Background()

	c, err := l.AddCustomer(ctx, "Sunita Devi", "", "")
	require.NoError(t, err)
	ln, err := l.AddLoan(ctx, c.ID, "Oil", decimal.NewFromInt(600), time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/loans/"+ln.ID.String()+"/repayments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("OverBalanceConflicts", func(t *testing.T) {
		rec := post(`{"amount":"700","date":"2026-08-01"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "600")
		assert.Empty(t, l.Repayments())
	})

	t.Run("ExactBalanceSettles", func(t *testing.T) {
		rec := post(`{"amount":"600","date":"2026-08-01"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		balance, err := l.Balance(ln.ID)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("SecondFullRepaymentConflicts", func(t *testing.T) {
		rec := post(`{"amount":"600","date":"2026-08-02"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Len(t, l.Repayments(), 1)
	})

	t.Run("ZeroAmountRejected", func(t *testing.T) {
		rec := post(`{"amount":"0","date":"2026-08-01"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownLoan", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/loans/"+uuid.NewString()+"/repayments",
			strings.NewReader(`{"amount":"100","date":"2026-08-01"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
