package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneymanager/internal/amqp"
	"moneymanager/internal/core"
	"moneymanager/internal/report"
	"moneymanager/internal/sheets/memory"
	"moneymanager/internal/storage"
)

type failingExporter struct{ fail string }

func (f failingExporter) ExportReport(_ context.Context, username string, _ report.Snapshot, _ []core.Transaction) error {
	if username == f.fail {
		return errors.New("quota exceeded")
	}
	return nil
}

func seed(t *testing.T, store *storage.MemoryStore, username string, amount int64) {
	t.Helper()
	state := core.UserLedgerState{
		BaseIncome: core.MoneyFromInt(1000),
		Transactions: []core.Transaction{
			{Date: core.NewDate(2024, 3, 1), Category: core.Food, Amount: core.MoneyFromInt(amount), Kind: core.Expense},
		},
	}
	require.NoError(t, store.Save(context.Background(), username, state))
}

func newWorker(store storage.Store, exporter *memory.Exporter) *ExportWorker {
	w := NewExportWorker(store, exporter)
	w.now = func() time.Time { return time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC) }
	return w
}

func TestHandleLedgerChanged(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, "alice", 40)
	exporter := memory.New()
	w := newWorker(store, exporter)

	err := w.HandleLedgerChanged(context.Background(), amqp.NewLedgerChangedMessage("alice", "add_transaction"))
	require.NoError(t, err)

	got, ok := exporter.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", got.Snapshot.AsOf.String())
	assert.Equal(t, "960.00", got.Snapshot.Totals.Balance.String())
	assert.Len(t, got.Transactions, 1)
}

func TestHandleLedgerChangedUnknownUserExportsDefault(t *testing.T) {
	exporter := memory.New()
	w := newWorker(storage.NewMemoryStore(), exporter)

	require.NoError(t, w.HandleLedgerChanged(context.Background(), amqp.NewLedgerChangedMessage("ghost", "login")))
	got, ok := exporter.Get("ghost")
	require.True(t, ok)
	assert.Equal(t, 0, got.Snapshot.TransactionCount)
}

func TestExportUserRejectsInvalidName(t *testing.T) {
	w := newWorker(storage.NewMemoryStore(), memory.New())
	err := w.ExportUser(context.Background(), "../etc")
	assert.ErrorIs(t, err, storage.ErrInvalidUsername)
}

func TestExportAll(t *testing.T) {
	store := storage.NewMemoryStore()
	seed(t, store, "alice", 1)
	seed(t, store, "bob", 2)

	t.Run("exports every user", func(t *testing.T) {
		exporter := memory.New()
		require.NoError(t, newWorker(store, exporter).ExportAll(context.Background(), store))
		assert.Equal(t, 2, exporter.Count())
	})

	t.Run("continues after a failure", func(t *testing.T) {
		w := NewExportWorker(store, failingExporter{fail: "alice"})
		err := w.ExportAll(context.Background(), store)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alice")
		assert.NotContains(t, err.Error(), "bob")
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exporter := memory.New()
		err := newWorker(store, exporter).ExportAll(ctx, store)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, exporter.Count())
	})
}
