// Package report assembles an immutable, display-ready view of a user's
// ledger, goals and reminders, and renders it into documents.
//
// Renderers receive a Snapshot plus the raw transactions; they never read
// a UserLedgerState directly.
package report

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"moneymanager/internal/core"
	"moneymanager/internal/goals"
	"moneymanager/internal/insights"
	"moneymanager/internal/ledger"
	"moneymanager/internal/reminders"
)

type (
	Totals struct {
		Income   core.Money `json:"income"`
		Expenses core.Money `json:"expenses"`
		Balance  core.Money `json:"balance"`
		Savings  core.Money `json:"savings"`
	}

	CategoryLine struct {
		Category core.Category `json:"category"`
		Amount   core.Money    `json:"amount"`
	}

	TrendLine struct {
		Month    string     `json:"month"`
		Expenses core.Money `json:"expenses"`
		Income   core.Money `json:"income"`
	}

	TransactionLine struct {
		Date        core.Date     `json:"date"`
		Category    core.Category `json:"category"`
		Amount      core.Money    `json:"amount"`
		Description string        `json:"description"`
		Type        core.Kind     `json:"type"`
	}

	GoalLine struct {
		Name      string     `json:"name"`
		Target    core.Money `json:"target"`
		Saved     core.Money `json:"saved"`
		Remaining core.Money `json:"remaining"`
		// Progress is truncated, so 1.0 means the goal is funded.
		Progress  float64    `json:"progress"`
		DueDate   core.Date  `json:"due_date"`
		// Daily and Monthly are set only while the goal is underfunded
		// and its due date is after the snapshot date.
		DaysLeft int         `json:"days_left,omitempty"`
		Daily    *core.Money `json:"daily,omitempty"`
		Monthly  *core.Money `json:"monthly,omitempty"`
	}

	ReminderLine struct {
		DueDate core.Date  `json:"due_date"`
		Note    string     `json:"note"`
		Amount  core.Money `json:"amount"`
	}

	// Snapshot is the fully computed state at one instant. Every amount is
	// rounded to two decimal places.
	Snapshot struct {
		AsOf                 core.Date         `json:"as_of"`
		Totals               Totals            `json:"totals"`
		CategoryDistribution []CategoryLine    `json:"category_distribution"`
		MonthlyTrend         []TrendLine       `json:"monthly_trend"`
		TopExpenses          []TransactionLine `json:"top_expenses"`
		SavingsRate          float64           `json:"savings_rate"`
		Goals                []GoalLine        `json:"goals"`
		Reminders            []ReminderLine    `json:"reminders"`
		TransactionCount     int               `json:"transaction_count"`
	}
)

// Assemble computes a Snapshot of state as of the given day. state is only
// read; the snapshot shares no memory with it.
func Assemble(state core.UserLedgerState, asOf core.Date) Snapshot {
	st := state.Clone()
	l := ledger.New(&st)
	ins := insights.New(l)

	balance := l.RemainingBalance().Round2()
	snap := Snapshot{
		AsOf: asOf,
		Totals: Totals{
			Income:   l.TotalIncome().Round2(),
			Expenses: l.TotalExpenses().Round2(),
			Balance:  balance,
			Savings:  balance,
		},
		CategoryDistribution: []CategoryLine{},
		MonthlyTrend:         []TrendLine{},
		TopExpenses:          []TransactionLine{},
		SavingsRate:          round2(ins.SavingsRate().InexactFloat64()),
		Goals:                []GoalLine{},
		Reminders:            []ReminderLine{},
		TransactionCount:     l.Len(),
	}

	for _, ca := range l.SortedDistribution() {
		snap.CategoryDistribution = append(snap.CategoryDistribution, CategoryLine{
			Category: ca.Category,
			Amount:   ca.Amount.Round2(),
		})
	}
	for _, mt := range l.MonthlyTrend() {
		snap.MonthlyTrend = append(snap.MonthlyTrend, TrendLine{
			Month:    mt.Month,
			Expenses: mt.Expenses.Round2(),
			Income:   mt.Income.Round2(),
		})
	}
	for _, tx := range ins.TopExpenses(insights.DefaultTopN) {
		snap.TopExpenses = append(snap.TopExpenses, NewTransactionLine(tx))
	}
	for _, g := range goals.New(&st).All() {
		snap.Goals = append(snap.Goals, newGoalLine(g, asOf))
	}
	for r := range reminders.New(&st).Upcoming() {
		snap.Reminders = append(snap.Reminders, ReminderLine{
			DueDate: r.DueDate,
			Note:    r.Note,
			Amount:  r.Amount.Round2(),
		})
	}
	return snap
}

// NewTransactionLine converts a transaction to its rounded display form.
func NewTransactionLine(tx core.Transaction) TransactionLine {
	return TransactionLine{
		Date:        tx.Date,
		Category:    tx.Category,
		Amount:      tx.Amount.Round2(),
		Description: tx.Description,
		Type:        tx.Kind,
	}
}

func newGoalLine(g core.SavingsGoal, asOf core.Date) GoalLine {
	line := GoalLine{
		Name:      g.Name,
		Target:    g.TargetAmount.Round2(),
		Saved:     g.CurrentAmount.Round2(),
		Remaining: goals.Remaining(g).Round2(),
		Progress:  floor2(goals.Progress(g)),
		DueDate:   g.TargetDate,
	}
	if c, ok := goals.RequiredContribution(g, asOf); ok {
		daily, monthly := c.Daily.Round2(), c.Monthly.Round2()
		line.DaysLeft = c.DaysLeft
		line.Daily = &daily
		line.Monthly = &monthly
	}
	return line
}

// Clone returns a copy whose slices can be modified freely.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.CategoryDistribution = slices.Clone(s.CategoryDistribution)
	c.MonthlyTrend = slices.Clone(s.MonthlyTrend)
	c.TopExpenses = slices.Clone(s.TopExpenses)
	c.Goals = slices.Clone(s.Goals)
	c.Reminders = slices.Clone(s.Reminders)
	return c
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func floor2(f float64) float64 {
	return decimal.NewFromFloat(f).Truncate(2).InexactFloat64()
}
