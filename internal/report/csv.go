package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"moneymanager/internal/core"
)

// Renderer writes a snapshot and its transactions as a document.
type Renderer interface {
	Render(w io.Writer, snap Snapshot, txs []core.Transaction) error
	ContentType() string
}

// CSVRenderer writes a summary block followed by one row per transaction.
// The transaction rows keep entry order.
type CSVRenderer struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

var transactionHeader = []string{"Date", "Type", "Category", "Amount", "Description"}

func (r CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (r CSVRenderer) Render(w io.Writer, snap Snapshot, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if r.Comma != 0 {
		cw.Comma = r.Comma
	}

	summary := [][]string{
		{"Report as of", snap.AsOf.String()},
		{"Total Income", snap.Totals.Income.String()},
		{"Total Expenses", snap.Totals.Expenses.String()},
		{"Remaining Balance", snap.Totals.Balance.String()},
		{"Savings Rate", fmt.Sprintf("%.2f%%", snap.SavingsRate)},
		{},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, tx := range txs {
		line := NewTransactionLine(tx)
		row := []string{
			line.Date.String(),
			string(line.Type),
			string(line.Category),
			line.Amount.String(),
			line.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write transaction %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
