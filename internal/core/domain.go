package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date layout used everywhere a date is
// rendered or parsed.
const DateLayout = "2006-01-02"

// AllCategories is the category filter value that matches every record.
const AllCategories = "All Categories"

const (
	Groceries      = "Groceries"
	Transportation = "Transportation"
	Entertainment  = "Entertainment"
	Other          = "Other"
)

// Categories is the set offered to users. The data model does not enforce it.
var Categories = []string{Groceries, Transportation, Entertainment, Other}

type (
	// Date is a calendar date without time of day, stored at UTC midnight.
	Date struct {
		time.Time
	}

	Expense struct {
		Description string
		Amount      decimal.Decimal
		Category    string
		Date        Date
	}

	// Filter selects the records a total is computed over. The zero value
	// selects everything.
	Filter struct {
		Category string
		Date     Date
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// IsEmpty returns true if the date is unset.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Equal reports whether both dates name the same calendar day.
func (d Date) Equal(o Date) bool {
	y1, m1, d1 := d.Time.Date()
	y2, m2, d2 := o.Time.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks the fields a user must supply when adding an expense.
// Records read back from storage are not validated.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}

// Equal compares all four fields, amounts by numeric value.
func (e Expense) Equal(o Expense) bool {
	return e.Description == o.Description &&
		e.Amount.Equal(o.Amount) &&
		e.Category == o.Category &&
		e.Date.Equal(o.Date)
}

// Normalize maps an empty category to AllCategories.
func (f Filter) Normalize() Filter {
	if f.Category == "" {
		f.Category = AllCategories
	}
	return f
}

// Matches reports whether e is selected by the filter. Category matching is
// exact and case-sensitive; the date, when set, must be equal.
func (f Filter) Matches(e Expense) bool {
	f = f.Normalize()
	if f.Category != AllCategories && e.Category != f.Category {
		return false
	}
	if !f.Date.IsEmpty() && !e.Date.Equal(f.Date) {
		return false
	}
	return true
}

// Key identifies the filter for caching.
func (f Filter) Key() string {
	f = f.Normalize()
	if f.Date.IsEmpty() {
		return f.Category + "|"
	}
	return f.Category + "|" + f.Date.String()
}
