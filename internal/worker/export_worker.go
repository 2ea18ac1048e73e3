// Package worker turns ledger change events into exported reports.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneymanager/internal/amqp"
	"moneymanager/internal/core"
	"moneymanager/internal/ledger"
	"moneymanager/internal/report"
	"moneymanager/internal/sheets"
	"moneymanager/internal/storage"
)

// ExportWorker rebuilds a user's report from the store and hands it to an
// exporter. Messages only name the user; the store is the source of truth,
// so duplicate or out-of-order events converge on the latest state.
type ExportWorker struct {
	store    storage.Store
	exporter sheets.ReportExporter
	now      func() time.Time
}

func NewExportWorker(store storage.Store, exporter sheets.ReportExporter) *ExportWorker {
	return &ExportWorker{store: store, exporter: exporter, now: time.Now}
}

// HandleLedgerChanged exports the report of the user named in msg.
func (w *ExportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"component", "worker",
		"username", msg.Username,
		"operation", msg.Operation,
		"timestamp", msg.Timestamp)

	return w.ExportUser(ctx, msg.Username)
}

// ExportUser exports one user's report as of today.
func (w *ExportWorker) ExportUser(ctx context.Context, username string) error {
	state, err := w.store.Load(ctx, username)
	if err != nil {
		return fmt.Errorf("load ledger for %s: %w", username, err)
	}

	snap := report.Assemble(state, core.DateOf(w.now()))
	if err := w.exporter.ExportReport(ctx, username, snap, ledger.New(&state).Transactions()); err != nil {
		return fmt.Errorf("export report for %s: %w", username, err)
	}
	return nil
}

// ExportAll exports every known user. It keeps going after a failure and
// returns all failures joined.
func (w *ExportWorker) ExportAll(ctx context.Context, lister storage.UserLister) error {
	users, err := lister.Users(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var errs []error
	exported := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.ExportUser(ctx, u); err != nil {
			slog.ErrorContext(ctx, "Failed to export report", "component", "worker", "username", u, "error", err)
			errs = append(errs, err)
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Full export completed",
		"component", "worker",
		"total", len(users),
		"exported", exported,
		"errors", len(errs))
	return errors.Join(errs...)
}
