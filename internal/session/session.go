// Package session gates access to the ledger. One fixed credential pair, a
// persisted marker for the TUI, and HS256 bearer tokens for the API.
// Deliberately a placeholder model for a single-user local tool: no hashing,
// no expiry on the marker.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"credikhaata/internal/storage"
)

const tokenTTL = 24 * time.Hour

// Credentials is the single accepted login.
type Credentials struct {
	Email    string
	Password string
}

type Guard struct {
	port          storage.Port
	creds         Credentials
	secret        []byte
	authenticated bool
}

// New restores the authenticated flag from the port: true only when the
// persisted marker is exactly "true".
func New(ctx context.Context, port storage.Port, creds Credentials, jwtSecret string) *Guard {
	g := &Guard{port: port, creds: creds, secret: []byte(jwtSecret)}

	marker, ok, err := port.Load(ctx, storage.KeyAuthenticated)
	if err == nil && ok && string(marker) == "true" {
		g.authenticated = true
	}

	return g
}

func (g *Guard) Authenticated() bool {
	return g.authenticated
}

// Login succeeds only for the fixed credential pair. On success the marker is
// persisted; on failure nothing changes and the caller learns only that the
// pair was wrong, not which half.
func (g *Guard) Login(ctx context.Context, email, password string) bool {
	if email != g.creds.Email || password != g.creds.Password {
		return false
	}

	g.authenticated = true

	// Persistence is best effort: a write failure costs a re-login after
	// restart, nothing more.
	_ = g.port.Save(ctx, storage.KeyAuthenticated, []byte("true"))

	return true
}

// Logout clears the flag and removes the marker.
func (g *Guard) Logout(ctx context.Context) {
	g.authenticated = false
	_ = g.port.Delete(ctx, storage.KeyAuthenticated)
}

// MintToken issues a bearer token for the API surface.
func (g *Guard) MintToken() (string, error) {
	claims := jwt.MapClaims{
		"sub": g.creds.Email,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

// Middleware rejects requests without a valid bearer token.
func (g *Guard) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.validBearer(r, logger) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) validBearer(r *http.Request, logger *slog.Logger) bool {
	header := r.Header.Get("Authorization")
	if header == "" {
		return false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return g.secret, nil
	})
	if err != nil || !token.Valid {
		logger.Warn("rejected bearer token", "error", err)
		return false
	}

	return true
}
