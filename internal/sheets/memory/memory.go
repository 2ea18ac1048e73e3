// Package memory keeps exported reports in process memory. It backs dry
// runs of the export worker and tests.
package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"moneymanager/internal/core"
	"moneymanager/internal/report"
	ports "moneymanager/internal/sheets"
)

// Export is one stored report.
type Export struct {
	Snapshot     report.Snapshot
	Transactions []core.Transaction
}

type Exporter struct {
	mu      sync.Mutex
	exports map[string]Export
	count   int
}

var _ ports.ReportExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{exports: make(map[string]Export)}
}

func (e *Exporter) ExportReport(ctx context.Context, username string, snap report.Snapshot, txs []core.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exports[username] = Export{Snapshot: snap.Clone(), Transactions: slices.Clone(txs)}
	e.count++
	slog.DebugContext(ctx, "Report kept in memory", "component", "sheets", "username", username, "transactions", len(txs))
	return nil
}

// Get returns the last export for username.
func (e *Exporter) Get(username string) (Export, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ex, ok := e.exports[username]
	return ex, ok
}

// Count is the number of exports performed, including replacements.
func (e *Exporter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}
