// Package storage defines the persistence port the rest of the app writes
// through. State is a handful of string-keyed blobs, mirroring the key-value
// layout the ledger has always used.
package storage

import "context"

// Storage keys. Each collection key holds a serialized ordered list; the
// session and theme keys hold small markers.
const (
	KeyCustomers     = "customers"
	KeyLoans         = "loans"
	KeyRepayments    = "repayments"
	KeyAuthenticated = "isAuthenticated"
	KeyTheme         = "theme"
)

//go:generate mockgen -source=storage.go -destination=port_mock.go -package=storage
type Port interface {
	// Load returns the stored value for key. The boolean reports whether the
	// key exists; a missing key is not an error.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
