// Package storage persists one UserLedgerState per username.
//
// Loading a username that has never been saved returns the default state
// (zero base income, no transactions, reminders or goals) and no error.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"moneymanager/internal/core"
)

var (
	ErrInvalidUsername = errors.New("invalid username")
)

// Store loads and saves whole ledger states. Save replaces everything
// previously stored for the user.
type Store interface {
	Load(ctx context.Context, username string) (core.UserLedgerState, error)
	Save(ctx context.Context, username string, state core.UserLedgerState) error
}

// UserLister is implemented by stores that can enumerate their users.
type UserLister interface {
	Users(ctx context.Context) ([]string, error)
}

// ValidateUsername rejects names that cannot be used as a storage key.
// Usernames end up in file paths, so separators, dot segments and control
// characters are refused.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	if username == "." || username == ".." || strings.ContainsAny(username, `/\`) ||
		strings.ContainsFunc(username, unicode.IsControl) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return nil
}
