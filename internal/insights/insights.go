// Package insights derives spending highlights from a ledger.
package insights

import (
	"slices"

	"github.com/shopspring/decimal"

	"moneymanager/internal/core"
	"moneymanager/internal/ledger"
)

// DefaultTopN is the number of expenses shown by default.
const DefaultTopN = 3

type Engine struct {
	ledger *ledger.Ledger
}

func New(l *ledger.Ledger) *Engine {
	return &Engine{ledger: l}
}

// TopExpenses returns up to n expense transactions, largest amount first.
// Equal amounts keep their entry order. n < 0 is treated as 0.
func (e *Engine) TopExpenses(n int) []core.Transaction {
	if n <= 0 {
		return []core.Transaction{}
	}
	var expenses []core.Transaction
	for _, tx := range e.ledger.Transactions() {
		if tx.Kind == core.Expense {
			expenses = append(expenses, tx)
		}
	}
	slices.SortStableFunc(expenses, func(a, b core.Transaction) int {
		return b.Amount.Cmp(a.Amount)
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	if expenses == nil {
		return []core.Transaction{}
	}
	return expenses
}

// SavingsRate is the share of total income left after expenses, as a
// percentage. It is 0 when there is no income and negative when spending
// exceeds income.
func (e *Engine) SavingsRate() decimal.Decimal {
	income := e.ledger.TotalIncome()
	if !income.IsPositive() {
		return decimal.Zero
	}
	return e.ledger.RemainingBalance().Ratio(income).Mul(decimal.NewFromInt(100))
}
