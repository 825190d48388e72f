package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	khaataHttp "credikhaata/internal/http"
	authHandler "credikhaata/internal/http/auth"
	customerHandler "credikhaata/internal/http/customer"
	importHandler "credikhaata/internal/http/importcsv"
	loanHandler "credikhaata/internal/http/loan"
	statementHandler "credikhaata/internal/http/statement"
	"credikhaata/internal/importer"
	"credikhaata/internal/ledger"
	"credikhaata/internal/session"
	"credikhaata/internal/statement"
	"credikhaata/internal/storage/file"
)

func setupRouter(t *testing.T) (http.Handler, *session.Guard) {
	t.Helper()

	port, err := file.New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, port.Save(ctx, "customers", []byte("[]")))

	ledgerService, err := ledger.New(ctx, port)
	require.NoError(t, err)

	guard := session.New(ctx, port, session.Credentials{Email: "shopkeeper@test.com", Password: "password"}, "test-secret")
	statementService := statement.NewService(ledgerService, t.TempDir())
	importService := importer.NewService(ledgerService)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := khaataHttp.New(
		authHandler.NewHandler(guard),
		customerHandler.NewHandler(ledgerService),
		loanHandler.NewHandler(ledgerService),
		statementHandler.NewHandler(ledgerService, statementService),
		importHandler.NewHandler(importService),
		guard.Middleware(logger),
	)

	return router, guard
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CustomersRequireJSONContentType(t *testing.T) {
	router, guard := setupRouter(t)

	token, err := guard.MintToken()
	require.NoError(t, err)

	body := `{"name":"Rajesh Kumar"}`

	t.Run("PlainTextRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("JSONAccepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestRouter_LoginIssuesToken(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"shopkeeper@test.com","password":"password"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"shopkeeper@test.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()

	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
