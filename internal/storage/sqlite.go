package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"moneymanager/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps each user's state in four tables. Amounts are stored
// as decimal text so no precision is lost. List order is kept in a
// position column.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY on concurrent saves.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, username string) (core.UserLedgerState, error) {
	if err := ValidateUsername(username); err != nil {
		return core.UserLedgerState{}, err
	}

	var state core.UserLedgerState
	var base string
	err := s.db.QueryRowContext(ctx, `SELECT base_income FROM ledgers WHERE username = ?`, username).Scan(&base)
	if err == sql.ErrNoRows {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("load ledger %s: %w", username, err)
	}
	if state.BaseIncome, err = parseStoredMoney(base); err != nil {
		return core.UserLedgerState{}, err
	}

	if state.Transactions, err = s.loadTransactions(ctx, username); err != nil {
		return core.UserLedgerState{}, err
	}
	if state.Reminders, err = s.loadReminders(ctx, username); err != nil {
		return core.UserLedgerState{}, err
	}
	if state.Goals, err = s.loadGoals(ctx, username); err != nil {
		return core.UserLedgerState{}, err
	}
	return state, nil
}

func (s *SQLiteStore) loadTransactions(ctx context.Context, username string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, category, amount, description, kind
		FROM transactions WHERE username = ? ORDER BY position`, username)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var day, cat, amount, desc, kind string
		if err := rows.Scan(&day, &cat, &amount, &desc, &kind); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx := core.Transaction{Category: core.Category(cat), Description: desc, Kind: core.Kind(kind)}
		if tx.Date, err = core.ParseDate(day); err != nil {
			return nil, err
		}
		if tx.Amount, err = parseStoredMoney(amount); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadReminders(ctx context.Context, username string) ([]core.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT due_date, note, amount, completed
		FROM reminders WHERE username = ? ORDER BY position`, username)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var out []core.Reminder
	for rows.Next() {
		var due, note, amount string
		var completed bool
		if err := rows.Scan(&due, &note, &amount, &completed); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r := core.Reminder{Note: note, Completed: completed}
		if r.DueDate, err = core.ParseDate(due); err != nil {
			return nil, err
		}
		if r.Amount, err = parseStoredMoney(amount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadGoals(ctx context.Context, username string) ([]core.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target_amount, target_date, current_amount
		FROM savings_goals WHERE username = ? ORDER BY position`, username)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var id, name, target, date, current string
		if err := rows.Scan(&id, &name, &target, &date, &current); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g := core.SavingsGoal{ID: id, Name: name}
		if g.TargetAmount, err = parseStoredMoney(target); err != nil {
			return nil, err
		}
		if g.CurrentAmount, err = parseStoredMoney(current); err != nil {
			return nil, err
		}
		if g.TargetDate, err = core.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Save replaces the user's rows inside a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, username string, state core.UserLedgerState) (err error) {
	if err := ValidateUsername(username); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "Failed to rollback ledger save", "username", username, "error", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO ledgers (username, base_income, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username) DO UPDATE SET base_income = excluded.base_income, updated_at = CURRENT_TIMESTAMP`,
		username, state.BaseIncome.Decimal().String()); err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}
	for _, table := range []string{"transactions", "reminders", "savings_goals"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE username = ?`, username); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, t := range state.Transactions {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (username, position, day, category, amount, description, kind)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			username, i, t.Date.String(), string(t.Category), t.Amount.Decimal().String(), t.Description, string(t.Kind)); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}
	for i, r := range state.Reminders {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO reminders (username, position, due_date, note, amount, completed)
			VALUES (?, ?, ?, ?, ?, ?)`,
			username, i, r.DueDate.String(), r.Note, r.Amount.Decimal().String(), r.Completed); err != nil {
			return fmt.Errorf("insert reminder %d: %w", i, err)
		}
	}
	for i, g := range state.Goals {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO savings_goals (username, position, id, name, target_amount, target_date, current_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			username, i, g.ID, g.Name, g.TargetAmount.Decimal().String(), g.TargetDate.String(), g.CurrentAmount.Decimal().String()); err != nil {
			return fmt.Errorf("insert goal %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger save: %w", err)
	}
	slog.DebugContext(ctx, "Ledger saved to SQLite", "username", username, "transactions", len(state.Transactions))
	return nil
}

// Users lists every username with a stored ledger.
func (s *SQLiteStore) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username FROM ledgers ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func parseStoredMoney(s string) (core.Money, error) {
	var m core.Money
	if err := m.UnmarshalJSON([]byte(s)); err != nil {
		return core.Money{}, fmt.Errorf("stored amount %q: %w", s, err)
	}
	return m, nil
}
