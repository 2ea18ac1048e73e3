package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"moneymanager/internal/core"
)

// JSONFileStore writes one <username>_data.json document per user under dir.
type JSONFileStore struct {
	dir string
}

func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONFileStore{dir: dir}, nil
}

func (s *JSONFileStore) path(username string) string {
	return filepath.Join(s.dir, username+"_data.json")
}

func (s *JSONFileStore) Load(ctx context.Context, username string) (core.UserLedgerState, error) {
	if err := ValidateUsername(username); err != nil {
		return core.UserLedgerState{}, err
	}
	data, err := os.ReadFile(s.path(username))
	if errors.Is(err, fs.ErrNotExist) {
		return core.UserLedgerState{}, nil
	}
	if err != nil {
		return core.UserLedgerState{}, fmt.Errorf("read state for %s: %w", username, err)
	}

	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.UserLedgerState{}, fmt.Errorf("decode state for %s: %w", username, err)
	}
	state, err := fromRecord(rec)
	if err != nil {
		return core.UserLedgerState{}, fmt.Errorf("decode state for %s: %w", username, err)
	}
	slog.DebugContext(ctx, "Loaded ledger state", "username", username, "transactions", len(state.Transactions))
	return state, nil
}

// Save writes to a temporary file in the same directory and renames it
// over the previous document.
func (s *JSONFileStore) Save(ctx context.Context, username string, state core.UserLedgerState) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	data, err := json.MarshalIndent(toRecord(state), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state for %s: %w", username, err)
	}

	tmp, err := os.CreateTemp(s.dir, username+"_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state for %s: %w", username, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(username)); err != nil {
		return fmt.Errorf("replace state for %s: %w", username, err)
	}
	slog.DebugContext(ctx, "Saved ledger state", "username", username, "transactions", len(state.Transactions))
	return nil
}

// Users lists the users that have a data file, sorted by name.
func (s *JSONFileStore) Users(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*_data.json"))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(filepath.Base(m), "_data.json"))
	}
	slices.Sort(out)
	return out, nil
}
