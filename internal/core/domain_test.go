package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	a := NewDate(2024, 2, 27)
	b := NewDate(2024, 3, 2)
	if got := a.DaysUntil(b); got != 4 {
		t.Fatalf("DaysUntil = %d, want 4 (leap year)", got)
	}
	if got := b.DaysUntil(a); got != -4 {
		t.Fatalf("DaysUntil = %d, want -4", got)
	}
	if b.MonthKey() != "2024-03" {
		t.Fatalf("MonthKey = %s", b.MonthKey())
	}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("Before ordering wrong")
	}
}

func TestDateJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2024, 1, 5))
	if err != nil || string(data) != `"2024-01-05"` {
		t.Fatalf("marshal = %s, %v", data, err)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-01-10T00:00:00"`), &d); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if d.String() != "2024-01-10" {
		t.Fatalf("unexpected date %s", d)
	}
	for _, in := range []string{`"2024-01-10T09:30:00Z"`, `"2024-01-10 23:59:59"`, `"2024-01-10T00:00:00.000+01:00"`} {
		if err := json.Unmarshal([]byte(in), &d); err != nil || d.String() != "2024-01-10" {
			t.Fatalf("unmarshal %s = %s, %v", in, d, err)
		}
	}
	for _, in := range []string{`"10/01/2024"`, `"2024-01-05garbage"`, `"2024-01-05T"`} {
		if err := json.Unmarshal([]byte(in), &d); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("unmarshal %s: expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestParseCategoryAndKind(t *testing.T) {
	if c, err := ParseCategory("food"); err != nil || c != Food {
		t.Fatalf("ParseCategory(food) = %q, %v", c, err)
	}
	if _, err := ParseCategory("Groceries"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if k, err := ParseKind("Additional Income"); err != nil || k != AdditionalIncome {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("refund"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if len(Categories()) != 10 {
		t.Fatalf("expected 10 categories")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:     NewDate(2025, 1, 1),
		Category: Food,
		Amount:   MoneyFromInt(0),
		Kind:     Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Date: Date{}, Category: Food, Amount: MoneyFromInt(1), Kind: Expense},
		{Date: NewDate(2025, 1, 1), Category: "Groceries", Amount: MoneyFromInt(1), Kind: Expense},
		{Date: NewDate(2025, 1, 1), Category: Food, Amount: MoneyFromInt(1), Kind: "Refund"},
		{Date: NewDate(2025, 1, 1), Category: Food, Amount: MoneyFromInt(-1), Kind: Expense},
	}
	for i, tx := range bads {
		if err := tx.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d expected invalid input, got %v", i, err)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	g := SavingsGoal{Name: " ", TargetAmount: MoneyFromInt(10), TargetDate: NewDate(2025, 1, 1)}
	if err := g.Validate(); !errors.Is(err, ErrEmptyGoalName) {
		t.Fatalf("expected ErrEmptyGoalName, got %v", err)
	}
	g.Name = "Car"
	g.TargetAmount = Zero
	if err := g.Validate(); err != nil {
		t.Fatalf("zero target must be tolerated, got %v", err)
	}
}

func TestStateClone(t *testing.T) {
	s := UserLedgerState{Transactions: []Transaction{{Description: "a"}}}
	c := s.Clone()
	c.Transactions[0].Description = "b"
	if s.Transactions[0].Description != "a" {
		t.Fatalf("clone aliases the original")
	}
}
