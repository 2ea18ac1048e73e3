package insights

import (
	"testing"

	"moneymanager/internal/core"
	"moneymanager/internal/ledger"
)

func state(base string, txs ...core.Transaction) *core.UserLedgerState {
	return &core.UserLedgerState{BaseIncome: core.MustParseMoney(base), Transactions: txs}
}

func expense(desc, amount string) core.Transaction {
	return core.Transaction{Date: core.NewDate(2024, 1, 1), Category: core.Food, Amount: core.MustParseMoney(amount), Description: desc, Kind: core.Expense}
}

func income(desc, amount string) core.Transaction {
	return core.Transaction{Date: core.NewDate(2024, 1, 1), Category: core.Salary, Amount: core.MustParseMoney(amount), Description: desc, Kind: core.AdditionalIncome}
}

func descriptions(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Description
	}
	return out
}

func TestTopExpenses(t *testing.T) {
	tests := []struct {
		name  string
		state *core.UserLedgerState
		n     int
		want  []string
	}{
		{
			name:  "fewer expenses than n",
			state: state("0", expense("small", "5"), income("bonus", "900"), expense("big", "50")),
			n:     3,
			want:  []string{"big", "small"},
		},
		{
			name:  "ties keep entry order",
			state: state("0", expense("a", "10"), expense("b", "20"), expense("c", "10"), expense("d", "1")),
			n:     3,
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "zero n",
			state: state("0", expense("a", "10")),
			n:     0,
			want:  []string{},
		},
		{
			name:  "negative n",
			state: state("0", expense("a", "10")),
			n:     -2,
			want:  []string{},
		},
		{
			name:  "no expenses",
			state: state("100", income("x", "1")),
			n:     3,
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := descriptions(New(ledger.New(tt.state)).TopExpenses(tt.n))
			if len(got) != len(tt.want) {
				t.Fatalf("TopExpenses() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("TopExpenses() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name  string
		state *core.UserLedgerState
		want  string
	}{
		{"no income", state("0", expense("a", "10")), "0"},
		{"empty", state("0"), "0"},
		{"quarter spent", state("1000", expense("a", "250")), "75"},
		{"with extra income", state("30000", expense("a", "500"), income("b", "20000")), "99"},
		{"overspent", state("100", expense("a", "150")), "-50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(ledger.New(tt.state)).SavingsRate()
			if got.String() != tt.want {
				t.Errorf("SavingsRate() = %s, want %s", got, tt.want)
			}
		})
	}
}
