package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodNone    Mood = ""
)

// IncomeCategory is the fixed category every income transaction carries.
const IncomeCategory = "income"

// FallbackCategory is used for expenses whose category is unknown.
const FallbackCategory = "other"

type (
	Kind string

	// Mood is an optional subjective tag on an expense.
	Mood string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is immutable once created; deletion is the only mutation.
	// Amount is signed by convention (expenses negative, incomes positive) but
	// every aggregation works on Magnitude so the sign is never load-bearing.
	Transaction struct {
		ID         int64
		Kind       Kind
		Amount     Money
		Category   string
		Mood       Mood
		OccurredOn string // free-form human date string, see ParseWhen
		Note       string
	}

	// GoalConfig is the user's savings target for a rolling goal window.
	GoalConfig struct {
		Target     Money
		PeriodDays int
		StartDate  Date
	}
)

// BaselineCategories are always present and cannot be removed or renamed.
var BaselineCategories = []string{"shopping", "food", "transport", "entertainment"}

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrInvalidMood       = errors.New("invalid mood")
	ErrInvalidPeriod     = errors.New("invalid goal period")
	ErrInvalidTarget     = errors.New("goal target must be positive")
	ErrEmptyCategory     = errors.New("empty category name")
	ErrBaselineCategory  = errors.New("baseline categories cannot be changed")
	ErrLastCategory      = errors.New("cannot remove the last category")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrUnknownCategory   = errors.New("unknown category")
)

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// After reports whether d is strictly after other (day granularity).
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Before reports whether d is strictly before other (day granularity).
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NormalizeCategory applies the single load-boundary normalization for
// category names: trimmed, lowercased. Persisted data from older app versions
// may carry mixed case or padding.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsBaselineCategory reports whether name is one of the fixed categories.
func IsBaselineCategory(name string) bool {
	name = NormalizeCategory(name)
	for _, b := range BaselineCategories {
		if name == b {
			return true
		}
	}
	return false
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (m Mood) Validate() error {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodNone:
		return nil
	}
	return ErrInvalidMood
}

// Magnitude returns the unsigned value of the transaction amount. All
// aggregation paths go through here so no two of them can disagree on sign
// interpretation.
func (t Transaction) Magnitude() Money {
	if t.Amount.Cents < 0 {
		return Money{Cents: -t.Amount.Cents}
	}
	return t.Amount
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Mood.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Note) > 500 {
		return errors.New("note too long (max 500 characters)")
	}
	return nil
}

// GoalPeriods are the allowed goal window lengths in days.
var GoalPeriods = []int{7, 14, 21, 30}

// DefaultGoalConfig is the first-use configuration: target 5000.00 over a
// 30 day window starting today.
func DefaultGoalConfig(today Date) GoalConfig {
	return GoalConfig{
		Target:     Money{Cents: 500000},
		PeriodDays: 30,
		StartDate:  today,
	}
}

func (g GoalConfig) Validate() error {
	if g.Target.Cents <= 0 {
		return ErrInvalidTarget
	}
	valid := false
	for _, p := range GoalPeriods {
		if g.PeriodDays == p {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidPeriod
	}
	if g.StartDate.IsZero() {
		return errors.New("start date cannot be zero")
	}
	return nil
}
