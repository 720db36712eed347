// Package store defines the interface for database implementations of the account list used by the wallet and
// runner commands.
package store

import (
	"errors"
)

// DB defines required methods for the account store
type DB interface {
	// SaveAccounts appends accounts to the store. Accounts already present (same address) are kept once.
	SaveAccounts([]Account) error
	// LoadAccounts returns all accounts in the order they were saved.
	LoadAccounts() ([]Account, error)
	// Close releases the connection or file handle.
	Close() error
}

// Errors returned
var (
	ErrDataNotFound = errors.New("data was not found in store")
	ErrBadFormat    = errors.New("account list has an unknown format")
)
