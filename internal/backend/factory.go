package backend

import (
	"context"
	"fmt"
	"log/slog"

	"moneymanager/internal/auth"
	"moneymanager/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger.With("component", "backend")}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	provider, err := f.createProvider(config)
	if err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, config)
	case JSONFileBackend:
		result, err = f.createJSONFileBackend(ctx, config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}
	result.Provider = provider
	return result, nil
}

func (f *DefaultFactory) createProvider(config Config) (auth.Provider, error) {
	if config.UsersFile == "" {
		f.logger.Warn("No users file configured, accounts will not survive a restart")
		return auth.NewMemoryProvider(), nil
	}
	p, err := auth.NewFileProvider(config.UsersFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize users file: %w", err)
	}
	return p, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &BackendResult{Store: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createJSONFileBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := storage.NewJSONFileStore(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JSON file store: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized JSON file backend", "data_directory", config.DataDirectory)
	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*BackendResult, error) {
	f.logger.InfoContext(ctx, "Initialized memory backend, data is lost on exit")
	return &BackendResult{Store: storage.NewMemoryStore()}, nil
}
