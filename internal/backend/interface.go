package backend

import (
	"context"

	"moneymanager/internal/auth"
	"moneymanager/internal/storage"
)

// Store is a ledger store that can also enumerate its users. Every store
// this package builds satisfies it.
type Store interface {
	storage.Store
	storage.UserLister
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult is a ready storage and auth pair.
type BackendResult struct {
	Store    Store
	Provider auth.Provider
	Cleanup  CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// jsonfile
	DataDirectory string

	// sqlite
	SQLiteDBPath string

	// UsersFile holds the bcrypt hashes. Empty keeps accounts in memory.
	UsersFile string
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	JSONFileBackend BackendType = "jsonfile"
	SQLiteBackend   BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, JSONFileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
