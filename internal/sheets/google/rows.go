package google

import (
	"strings"

	"moneymanager/internal/core"
	"moneymanager/internal/report"
)

// sheetTitle is the tab name for a user's report.
func sheetTitle(prefix, username string) string {
	return prefix + " " + username
}

// quoteSheet quotes a tab name for A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func money(m core.Money) float64 {
	return m.Round2().Float64()
}

// buildRows lays the report out as sections separated by blank rows:
// summary, categories, monthly trend, goals, reminders, transactions.
func buildRows(snap report.Snapshot, txs []core.Transaction) [][]interface{} {
	rows := [][]interface{}{
		{"Report as of", snap.AsOf.String()},
		{"Total Income", money(snap.Totals.Income)},
		{"Total Expenses", money(snap.Totals.Expenses)},
		{"Remaining Balance", money(snap.Totals.Balance)},
		{"Savings Rate %", snap.SavingsRate},
		{},
		{"Category", "Amount"},
	}
	for _, c := range snap.CategoryDistribution {
		rows = append(rows, []interface{}{string(c.Category), money(c.Amount)})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Month", "Expenses", "Income"})
	for _, m := range snap.MonthlyTrend {
		rows = append(rows, []interface{}{m.Month, money(m.Expenses), money(m.Income)})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Goal", "Target", "Saved", "Progress", "Due", "Daily", "Monthly"})
	for _, g := range snap.Goals {
		daily, monthly := interface{}(""), interface{}("")
		if g.Daily != nil {
			daily = money(*g.Daily)
		}
		if g.Monthly != nil {
			monthly = money(*g.Monthly)
		}
		rows = append(rows, []interface{}{g.Name, money(g.Target), money(g.Saved), g.Progress, g.DueDate.String(), daily, monthly})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Reminder", "Due", "Amount"})
	for _, r := range snap.Reminders {
		rows = append(rows, []interface{}{r.Note, r.DueDate.String(), money(r.Amount)})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Date", "Type", "Category", "Amount", "Description"})
	for _, tx := range txs {
		rows = append(rows, []interface{}{tx.Date.String(), string(tx.Kind), string(tx.Category), money(tx.Amount), tx.Description})
	}
	return rows
}
