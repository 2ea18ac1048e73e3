// Package reminders tracks bill reminders for a user.
package reminders

import (
	"iter"
	"slices"

	"moneymanager/internal/core"
)

// Tracker is a view over the reminders of a *core.UserLedgerState.
type Tracker struct {
	state *core.UserLedgerState
}

func New(state *core.UserLedgerState) *Tracker {
	if state == nil {
		state = &core.UserLedgerState{}
	}
	return &Tracker{state: state}
}

// All returns a copy of every reminder in insertion order.
func (t *Tracker) All() []core.Reminder {
	return append([]core.Reminder(nil), t.state.Reminders...)
}

// Add appends a pending reminder and returns its position.
func (t *Tracker) Add(due core.Date, note string, amount core.Money) (int, error) {
	r := core.Reminder{DueDate: due, Note: note, Amount: amount}
	if err := r.Validate(); err != nil {
		return -1, err
	}
	t.state.Reminders = append(t.state.Reminders, r)
	return len(t.state.Reminders) - 1, nil
}

// Complete marks the reminder at i as done. Completing twice is a no-op.
func (t *Tracker) Complete(i int) error {
	if !t.inRange(i) {
		return core.ErrIndexOutOfRange
	}
	t.state.Reminders[i].Completed = true
	return nil
}

// Delete removes the reminder at i; later indices shift down by one.
func (t *Tracker) Delete(i int) error {
	if !t.inRange(i) {
		return core.ErrIndexOutOfRange
	}
	t.state.Reminders = append(t.state.Reminders[:i:i], t.state.Reminders[i+1:]...)
	return nil
}

func (t *Tracker) inRange(i int) bool {
	return i >= 0 && i < len(t.state.Reminders)
}

// Upcoming yields pending reminders by ascending due date, keeping
// insertion order for equal dates. The order is computed on every
// iteration, so the sequence always reflects the current state.
func (t *Tracker) Upcoming() iter.Seq[core.Reminder] {
	return func(yield func(core.Reminder) bool) {
		pending := make([]core.Reminder, 0, len(t.state.Reminders))
		for _, r := range t.state.Reminders {
			if !r.Completed {
				pending = append(pending, r)
			}
		}
		slices.SortStableFunc(pending, func(a, b core.Reminder) int {
			return a.DueDate.Compare(b.DueDate.Time)
		})
		for _, r := range pending {
			if !yield(r) {
				return
			}
		}
	}
}
