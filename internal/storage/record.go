package storage

import (
	"moneymanager/internal/core"
)

// Persisted JSON shape. "expenses" and "income" are the keys written by the
// first version of the app and are read when the newer keys are absent.
type (
	stateRecord struct {
		BaseIncome   *core.Money         `json:"base_income,omitempty"`
		Transactions []transactionRecord `json:"transactions"`
		Reminders    []reminderRecord    `json:"reminders"`
		Goals        []goalRecord        `json:"savings_goals"`

		LegacyIncome   *core.Money         `json:"income,omitempty"`
		LegacyExpenses []transactionRecord `json:"expenses,omitempty"`
	}

	transactionRecord struct {
		Date        core.Date  `json:"date"`
		Category    string     `json:"category"`
		Amount      core.Money `json:"amount"`
		Description string     `json:"description"`
		Type        string     `json:"type"`
	}

	reminderRecord struct {
		Date      core.Date  `json:"date"`
		Note      string     `json:"note"`
		Amount    core.Money `json:"amount"`
		Completed bool       `json:"completed"`
	}

	goalRecord struct {
		ID            string     `json:"id,omitempty"`
		Name          string     `json:"name"`
		TargetAmount  core.Money `json:"target_amount"`
		TargetDate    core.Date  `json:"target_date"`
		CurrentAmount core.Money `json:"current_amount"`
	}
)

func toRecord(s core.UserLedgerState) stateRecord {
	base := s.BaseIncome
	rec := stateRecord{
		BaseIncome:   &base,
		Transactions: make([]transactionRecord, 0, len(s.Transactions)),
		Reminders:    make([]reminderRecord, 0, len(s.Reminders)),
		Goals:        make([]goalRecord, 0, len(s.Goals)),
	}
	for _, t := range s.Transactions {
		rec.Transactions = append(rec.Transactions, transactionRecord{
			Date:        t.Date,
			Category:    string(t.Category),
			Amount:      t.Amount,
			Description: t.Description,
			Type:        string(t.Kind),
		})
	}
	for _, r := range s.Reminders {
		rec.Reminders = append(rec.Reminders, reminderRecord{
			Date:      r.DueDate,
			Note:      r.Note,
			Amount:    r.Amount,
			Completed: r.Completed,
		})
	}
	for _, g := range s.Goals {
		rec.Goals = append(rec.Goals, goalRecord(g))
	}
	return rec
}

func fromRecord(rec stateRecord) (core.UserLedgerState, error) {
	var s core.UserLedgerState
	switch {
	case rec.BaseIncome != nil:
		s.BaseIncome = *rec.BaseIncome
	case rec.LegacyIncome != nil:
		s.BaseIncome = *rec.LegacyIncome
	}

	txs := rec.Transactions
	if txs == nil {
		txs = rec.LegacyExpenses
	}
	for _, t := range txs {
		cat, err := core.ParseCategory(t.Category)
		if err != nil {
			return core.UserLedgerState{}, err
		}
		kind := core.Expense
		if t.Type != "" {
			if kind, err = core.ParseKind(t.Type); err != nil {
				return core.UserLedgerState{}, err
			}
		}
		s.Transactions = append(s.Transactions, core.Transaction{
			Date:        t.Date,
			Category:    cat,
			Amount:      t.Amount,
			Description: t.Description,
			Kind:        kind,
		})
	}
	for _, r := range rec.Reminders {
		s.Reminders = append(s.Reminders, core.Reminder{
			DueDate:   r.Date,
			Note:      r.Note,
			Amount:    r.Amount,
			Completed: r.Completed,
		})
	}
	for _, g := range rec.Goals {
		s.Goals = append(s.Goals, core.SavingsGoal(g))
	}
	return s, nil
}
