package google

import (
	"testing"

	"moneymanager/internal/core"
	"moneymanager/internal/report"
)

func TestSheetTitleAndQuote(t *testing.T) {
	if got := sheetTitle("Report", "alice"); got != "Report alice" {
		t.Errorf("sheetTitle() = %q", got)
	}
	if got := quoteSheet("Report o'neil"); got != "'Report o''neil'" {
		t.Errorf("quoteSheet() = %q", got)
	}
}

func TestBuildRows(t *testing.T) {
	state := core.UserLedgerState{
		BaseIncome: core.MoneyFromInt(1000),
		Transactions: []core.Transaction{
			{Date: core.NewDate(2024, 1, 5), Category: core.Food, Amount: core.MustParseMoney("12.345"), Kind: core.Expense, Description: "lunch"},
		},
		Reminders: []core.Reminder{{DueDate: core.NewDate(2024, 2, 1), Note: "rent", Amount: core.MoneyFromInt(500)}},
		Goals: []core.SavingsGoal{
			{Name: "Bike", TargetAmount: core.MoneyFromInt(300), TargetDate: core.NewDate(2024, 1, 20), CurrentAmount: core.MoneyFromInt(150)},
		},
	}
	snap := report.Assemble(state, core.NewDate(2024, 1, 10))
	rows := buildRows(snap, state.Transactions)

	find := func(label string) int {
		for i, r := range rows {
			if len(r) > 0 && r[0] == label {
				return i
			}
		}
		t.Fatalf("row %q missing", label)
		return -1
	}

	if rows[0][1] != "2024-01-10" {
		t.Errorf("as of = %v", rows[0][1])
	}
	if rows[2][1] != 12.35 {
		t.Errorf("total expenses = %v, want 12.35", rows[2][1])
	}

	cat := find("Category")
	if rows[cat+1][0] != "Food" || rows[cat+1][1] != 12.35 {
		t.Errorf("category row = %v", rows[cat+1])
	}

	goal := find("Goal")
	bike := rows[goal+1]
	// 150 over 10 days
	if bike[0] != "Bike" || bike[3] != 0.5 || bike[5] != 15.0 || bike[6] != 450.0 {
		t.Errorf("goal row = %v", bike)
	}

	tx := find("Date")
	if len(rows) != tx+2 {
		t.Fatalf("expected one transaction row, got %d", len(rows)-tx-1)
	}
	if got := rows[tx+1]; got[1] != "Expense" || got[4] != "lunch" {
		t.Errorf("transaction row = %v", got)
	}
}
