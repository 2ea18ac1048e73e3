package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Rent           Category = "Rent"
	Bills          Category = "Bills"
	Entertainment  Category = "Entertainment"
	Shopping       Category = "Shopping"
	Healthcare     Category = "Healthcare"
	Education      Category = "Education"
	Salary         Category = "Salary"
	Other          Category = "Other"
)

const (
	Expense          Kind = "Expense"
	AdditionalIncome Kind = "Additional Income"
)

// DateLayout is the wire format of a calendar day.
const DateLayout = "2006-01-02"

type (
	Category string

	// Kind tells whether a transaction is spending or extra income.
	Kind string

	// Date is a calendar day in UTC with no time component.
	Date struct {
		time.Time
	}

	Transaction struct {
		Date        Date
		Category    Category
		Amount      Money
		Description string
		Kind        Kind
	}

	// Reminder is a bill reminder. Completed reminders never revert.
	Reminder struct {
		DueDate   Date
		Note      string
		Amount    Money
		Completed bool
	}

	// SavingsGoal tracks money set aside toward a target. Name is the
	// lookup key for contributions; ID is informational.
	SavingsGoal struct {
		ID            string
		Name          string
		TargetAmount  Money
		TargetDate    Date
		CurrentAmount Money
	}

	// UserLedgerState is everything persisted for one user. The zero value
	// is the default state of a user with no record.
	UserLedgerState struct {
		BaseIncome   Money
		Transactions []Transaction
		Reminders    []Reminder
		Goals        []SavingsGoal
	}
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidInput    = errors.New("invalid input")

	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrNegativeAmount  = fmt.Errorf("%w: negative amount", ErrInvalidInput)
	ErrInvalidCategory = fmt.Errorf("%w: unknown category", ErrInvalidInput)
	ErrInvalidKind     = fmt.Errorf("%w: unknown transaction type", ErrInvalidInput)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrEmptyGoalName   = fmt.Errorf("%w: empty goal name", ErrInvalidInput)
)

var categories = []Category{
	Food, Transportation, Rent, Bills, Entertainment,
	Shopping, Healthcare, Education, Salary, Other,
}

// Categories returns every category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseKind accepts the wire names "Expense" and "Additional Income".
// "income" and "additional_income" are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense":
		return Expense, nil
	case "additional income", "additional_income", "income":
		return AdditionalIncome, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) Valid() bool {
	return k == Expense || k == AdditionalIncome
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM form used to bucket trends.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// DaysUntil returns the number of calendar days from d to other.
// It is negative when other is earlier than d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// Before reports whether d is an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		// Older files stored full datetimes.
		for _, layout := range timestampLayouts {
			if t, terr := time.Parse(layout, s); terr == nil {
				*d = DateOf(t)
				return nil
			}
		}
		return err
	}
	*d = parsed
	return nil
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (r Reminder) Validate() error {
	if err := r.DueDate.Validate(); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if err := g.TargetDate.Validate(); err != nil {
		return err
	}
	if g.TargetAmount.IsNegative() || g.CurrentAmount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (s UserLedgerState) Clone() UserLedgerState {
	return UserLedgerState{
		BaseIncome:   s.BaseIncome,
		Transactions: append([]Transaction(nil), s.Transactions...),
		Reminders:    append([]Reminder(nil), s.Reminders...),
		Goals:        append([]SavingsGoal(nil), s.Goals...),
	}
}
