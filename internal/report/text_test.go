package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneymanager/internal/core"
)

func TestTextRenderer(t *testing.T) {
	state := sampleState()
	snap := Assemble(state, core.NewDate(2024, 2, 1))

	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, snap, state.Transactions))

	var lines [][]string
	for _, l := range strings.Split(buf.String(), "\n") {
		lines = append(lines, strings.Fields(l))
	}
	assert.Contains(t, lines, []string{"Report", "as", "of", "2024-02-01"})
	assert.Contains(t, lines, []string{"Total", "income", "50000.00"})
	assert.Contains(t, lines, []string{"Savings", "rate", "96.60%"})
	assert.Contains(t, lines, []string{"Transactions", "3"})
	assert.Contains(t, lines, []string{"Rent", "1200.46"})
	assert.Contains(t, lines, []string{"Trip", "400.00", "/", "1000.00", "40%", "60.00/day,", "1800.00/month", "until", "2024-02-11"})
	assert.Contains(t, lines, []string{"Laptop", "12000.00", "/", "10000.00", "100%", "reached"})
	assert.Contains(t, lines, []string{"2024-02-10", "phone", "20.00"})
	assert.NotContains(t, buf.String(), "power")
}

func TestTextRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	snap := Assemble(core.UserLedgerState{}, core.NewDate(2024, 1, 1))
	require.NoError(t, TextRenderer{}.Render(&buf, snap, nil))

	out := buf.String()
	assert.Contains(t, out, "Savings rate")
	assert.NotContains(t, out, "Spending by category")
	assert.NotContains(t, out, "Savings goals")
}

func TestTextRendererNearlyFundedGoal(t *testing.T) {
	state := core.UserLedgerState{Goals: []core.SavingsGoal{
		{Name: "Almost", TargetAmount: core.MoneyFromInt(1000), CurrentAmount: core.MoneyFromInt(996), TargetDate: core.NewDate(2024, 2, 11)},
	}}
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, Assemble(state, core.NewDate(2024, 2, 1)), nil))

	var goal []string
	for _, l := range strings.Split(buf.String(), "\n") {
		if f := strings.Fields(l); len(f) > 0 && f[0] == "Almost" {
			goal = f
		}
	}
	require.GreaterOrEqual(t, len(goal), 6, buf.String())
	assert.Equal(t, "99%", goal[4])
	assert.Equal(t, "0.40/day,", goal[5])
}

func TestGoalStatusPastDue(t *testing.T) {
	g := GoalLine{Remaining: core.MoneyFromInt(5)}
	assert.Equal(t, "past due", goalStatus(g))
}
