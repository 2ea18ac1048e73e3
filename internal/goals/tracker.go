// Package goals tracks savings goals and the contributions toward them.
package goals

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneymanager/internal/core"
)

// DaysPerMonth is the flat month length used for monthly contribution
// rates. It is not calendar accurate.
const DaysPerMonth = 30

// Contribution is the saving rate needed to reach a goal on time.
type Contribution struct {
	DaysLeft int
	Daily    core.Money
	Monthly  core.Money
}

// Tracker is a view over the goals of a *core.UserLedgerState.
type Tracker struct {
	state *core.UserLedgerState
	newID func() string
}

func New(state *core.UserLedgerState) *Tracker {
	if state == nil {
		state = &core.UserLedgerState{}
	}
	return &Tracker{state: state, newID: uuid.NewString}
}

// All returns a copy of every goal in insertion order.
func (t *Tracker) All() []core.SavingsGoal {
	return append([]core.SavingsGoal(nil), t.state.Goals...)
}

// Add appends a goal with nothing saved yet. Duplicate names are allowed.
func (t *Tracker) Add(name string, target core.Money, targetDate core.Date) (core.SavingsGoal, error) {
	g := core.SavingsGoal{
		ID:           t.newID(),
		Name:         strings.TrimSpace(name),
		TargetAmount: target,
		TargetDate:   targetDate,
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	t.state.Goals = append(t.state.Goals, g)
	return g, nil
}

// Contribute adds amount to the first goal named name. It reports false,
// leaving every goal unchanged, when no goal matches or amount is negative.
func (t *Tracker) Contribute(name string, amount core.Money) bool {
	if amount.IsNegative() {
		return false
	}
	name = strings.TrimSpace(name)
	for i := range t.state.Goals {
		if t.state.Goals[i].Name == name {
			t.state.Goals[i].CurrentAmount = t.state.Goals[i].CurrentAmount.Add(amount)
			return true
		}
	}
	return false
}

// Progress is the saved fraction clamped to [0, 1]; 0 when the target is zero.
func Progress(g core.SavingsGoal) float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	ratio := g.CurrentAmount.Ratio(g.TargetAmount)
	if ratio.GreaterThan(decimal.NewFromInt(1)) {
		return 1
	}
	if ratio.IsNegative() {
		return 0
	}
	return ratio.InexactFloat64()
}

// Remaining is target minus saved. Over-funded goals go negative.
func Remaining(g core.SavingsGoal) core.Money {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// RequiredContribution returns the daily and monthly saving needed to reach
// the goal by its target date. ok is false when the goal is already funded
// or the target date is not after asOf.
func RequiredContribution(g core.SavingsGoal, asOf core.Date) (c Contribution, ok bool) {
	remaining := Remaining(g)
	if !remaining.IsPositive() {
		return Contribution{}, false
	}
	days := asOf.DaysUntil(g.TargetDate)
	if days <= 0 {
		return Contribution{}, false
	}
	daily := remaining.DivInt(int64(days))
	return Contribution{
		DaysLeft: days,
		Daily:    daily,
		Monthly:  daily.MulInt(DaysPerMonth),
	}, true
}
