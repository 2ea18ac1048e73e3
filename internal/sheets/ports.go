// Package sheets defines where report snapshots are exported to.
package sheets

import (
	"context"

	"moneymanager/internal/core"
	"moneymanager/internal/report"
)

// ReportExporter publishes a user's report. Each export replaces the
// previous one for that user.
type ReportExporter interface {
	ExportReport(ctx context.Context, username string, snap report.Snapshot, txs []core.Transaction) error
}
