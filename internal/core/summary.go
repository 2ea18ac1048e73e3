package core

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// MonthTrend is the per-month split between spending and extra income.
// Month is in YYYY-MM form.
type MonthTrend struct {
	Month    string
	Expenses Money
	Income   Money
}
