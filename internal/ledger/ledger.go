// Package ledger derives income and expense totals from a user's transactions.
//
// A Ledger is a view over a *core.UserLedgerState: mutations edit the state
// in place, derivations read it. Every mutation validates first and leaves
// the state untouched on error.
package ledger

import (
	"sort"

	"moneymanager/internal/core"
)

type Ledger struct {
	state *core.UserLedgerState
}

// New returns a Ledger operating on state. A nil state is treated as empty.
func New(state *core.UserLedgerState) *Ledger {
	if state == nil {
		state = &core.UserLedgerState{}
	}
	return &Ledger{state: state}
}

// Transactions returns a copy of the transactions in entry order.
func (l *Ledger) Transactions() []core.Transaction {
	return append([]core.Transaction(nil), l.state.Transactions...)
}

func (l *Ledger) Len() int { return len(l.state.Transactions) }

func (l *Ledger) BaseIncome() core.Money { return l.state.BaseIncome }

// SetBaseIncome overwrites the monthly income baseline.
func (l *Ledger) SetBaseIncome(m core.Money) error {
	if m.IsNegative() {
		return core.ErrNegativeAmount
	}
	l.state.BaseIncome = m
	return nil
}

// Add appends a transaction and returns its position.
func (l *Ledger) Add(tx core.Transaction) (int, error) {
	if err := tx.Validate(); err != nil {
		return -1, err
	}
	l.state.Transactions = append(l.state.Transactions, tx)
	return len(l.state.Transactions) - 1, nil
}

// Edit replaces every field of the transaction at index i.
func (l *Ledger) Edit(i int, tx core.Transaction) error {
	if !l.inRange(i) {
		return core.ErrIndexOutOfRange
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	l.state.Transactions[i] = tx
	return nil
}

// Delete removes the transaction at index i; later indices shift down by one.
func (l *Ledger) Delete(i int) (core.Transaction, error) {
	if !l.inRange(i) {
		return core.Transaction{}, core.ErrIndexOutOfRange
	}
	removed := l.state.Transactions[i]
	l.state.Transactions = append(l.state.Transactions[:i:i], l.state.Transactions[i+1:]...)
	return removed, nil
}

func (l *Ledger) inRange(i int) bool {
	return i >= 0 && i < len(l.state.Transactions)
}

func (l *Ledger) sum(kind core.Kind) core.Money {
	total := core.Zero
	for _, tx := range l.state.Transactions {
		if tx.Kind == kind {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

func (l *Ledger) TotalExpenses() core.Money { return l.sum(core.Expense) }

func (l *Ledger) TotalAdditionalIncome() core.Money { return l.sum(core.AdditionalIncome) }

// TotalIncome is the base income plus all additional income.
func (l *Ledger) TotalIncome() core.Money {
	return l.state.BaseIncome.Add(l.TotalAdditionalIncome())
}

// RemainingBalance is income minus expenses. It may be negative.
func (l *Ledger) RemainingBalance() core.Money {
	return l.TotalIncome().Sub(l.TotalExpenses())
}

// CategoryDistribution maps each category to its expense total.
// Categories without expenses are absent.
func (l *Ledger) CategoryDistribution() map[core.Category]core.Money {
	out := make(map[core.Category]core.Money)
	for _, tx := range l.state.Transactions {
		if tx.Kind != core.Expense {
			continue
		}
		out[tx.Category] = out[tx.Category].Add(tx.Amount)
	}
	return out
}

// SortedDistribution is CategoryDistribution ordered by core.Categories().
func (l *Ledger) SortedDistribution() []core.CategoryAmount {
	dist := l.CategoryDistribution()
	out := make([]core.CategoryAmount, 0, len(dist))
	for _, c := range core.Categories() {
		if amount, ok := dist[c]; ok {
			out = append(out, core.CategoryAmount{Category: c, Amount: amount})
		}
	}
	return out
}

// MonthlyTrend returns one entry per month that has transactions, in
// ascending order. A month with only one kind reports zero for the other.
func (l *Ledger) MonthlyTrend() []core.MonthTrend {
	byMonth := make(map[string]*core.MonthTrend)
	for _, tx := range l.state.Transactions {
		key := tx.Date.MonthKey()
		mt, ok := byMonth[key]
		if !ok {
			mt = &core.MonthTrend{Month: key}
			byMonth[key] = mt
		}
		switch tx.Kind {
		case core.Expense:
			mt.Expenses = mt.Expenses.Add(tx.Amount)
		case core.AdditionalIncome:
			mt.Income = mt.Income.Add(tx.Amount)
		}
	}

	out := make([]core.MonthTrend, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	// YYYY-MM sorts lexically in chronological order.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
