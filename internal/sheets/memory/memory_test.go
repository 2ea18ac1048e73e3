package memory

import (
	"context"
	"testing"

	"moneymanager/internal/core"
	"moneymanager/internal/report"
)

func TestExporterReplacesPerUser(t *testing.T) {
	e := New()
	ctx := context.Background()
	txs := []core.Transaction{{Date: core.NewDate(2024, 1, 1), Category: core.Food, Amount: core.MoneyFromInt(1), Kind: core.Expense}}

	if err := e.ExportReport(ctx, "alice", report.Snapshot{TransactionCount: 1}, txs); err != nil {
		t.Fatalf("export: %v", err)
	}
	txs[0].Description = "mutated"
	if err := e.ExportReport(ctx, "alice", report.Snapshot{TransactionCount: 2}, nil); err != nil {
		t.Fatalf("export: %v", err)
	}

	got, ok := e.Get("alice")
	if !ok || got.Snapshot.TransactionCount != 2 || len(got.Transactions) != 0 {
		t.Fatalf("unexpected export %+v", got)
	}
	if e.Count() != 2 {
		t.Errorf("Count() = %d, want 2", e.Count())
	}
	if _, ok := e.Get("bob"); ok {
		t.Error("bob was never exported")
	}
}
