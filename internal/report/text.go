package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"moneymanager/internal/core"
)

// TextRenderer writes a plain-text summary for terminals.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Render(w io.Writer, snap Snapshot, txs []core.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := func(format string, args ...any) {
		fmt.Fprintf(tw, format, args...)
	}

	p("Report as of %s\n\n", snap.AsOf)
	p("Total income\t%s\n", snap.Totals.Income)
	p("Total expenses\t%s\n", snap.Totals.Expenses)
	p("Remaining balance\t%s\n", snap.Totals.Balance)
	p("Savings rate\t%.2f%%\n", snap.SavingsRate)
	p("Transactions\t%d\n", len(txs))

	if len(snap.CategoryDistribution) > 0 {
		p("\nSpending by category\n")
		for _, c := range snap.CategoryDistribution {
			p("  %s\t%s\n", c.Category, c.Amount)
		}
	}

	if len(snap.TopExpenses) > 0 {
		p("\nTop expenses\n")
		for _, tx := range snap.TopExpenses {
			p("  %s\t%s\t%s\t%s\n", tx.Date, tx.Category, tx.Amount, tx.Description)
		}
	}

	if len(snap.Goals) > 0 {
		p("\nSavings goals\n")
		for _, g := range snap.Goals {
			p("  %s\t%s / %s\t%.0f%%\t%s\n", g.Name, g.Saved, g.Target, g.Progress*100, goalStatus(g))
		}
	}

	if len(snap.Reminders) > 0 {
		p("\nUpcoming reminders\n")
		for _, r := range snap.Reminders {
			p("  %s\t%s\t%s\n", r.DueDate, r.Note, r.Amount)
		}
	}
	return tw.Flush()
}

func goalStatus(g GoalLine) string {
	switch {
	case !g.Remaining.IsPositive():
		return "reached"
	case g.Daily != nil:
		return fmt.Sprintf("%s/day, %s/month until %s", g.Daily, g.Monthly, g.DueDate)
	default:
		return "past due"
	}
}
