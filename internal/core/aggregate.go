package core

import (
	"math"
	"sort"
	"time"
)

type (
	// Summary is the all-time aggregation against the goal configuration.
	Summary struct {
		TotalIncome        Money
		TotalExpense       Money
		Balance            Money // income minus expense magnitudes
		Remaining          Money // max(0, target - totalExpense)
		SpendingPercentage int   // round(100 * totalExpense / target), not clamped
		DailyGoal          Money
		Window             Window
	}

	CategoryTotal struct {
		Name   string
		Amount Money
	}

	// MoodStat aggregates expense magnitudes for one mood. Percentages are
	// relative to the mood-tagged subset only.
	MoodStat struct {
		Mood          Mood
		Amount        Money
		Count         int
		AmountPercent int
		CountPercent  int
	}

	// MonthBucket is the derived per-month expense total. Never persisted,
	// recomputed on demand from the full transaction set.
	MonthBucket struct {
		Year  int
		Month time.Month
		Total Money
	}
)

// Summarize folds the full transaction set into the headline figures. Pure:
// calling it twice with the same inputs yields identical results.
func Summarize(txs []Transaction, goal GoalConfig) Summary {
	var income, expense int64
	for _, t := range txs {
		switch t.Kind {
		case Income:
			income += t.Magnitude().Cents
		case Expense:
			expense += t.Magnitude().Cents
		}
	}

	s := Summary{
		TotalIncome:  Money{Cents: income},
		TotalExpense: Money{Cents: expense},
		Balance:      Money{Cents: income - expense},
		DailyGoal:    goal.DailyGoal(),
		Window:       goal.Window(),
	}
	if goal.Target.Cents > 0 {
		s.SpendingPercentage = int(math.Round(100 * float64(expense) / float64(goal.Target.Cents)))
	}
	if remaining := goal.Target.Cents - expense; remaining > 0 {
		s.Remaining = Money{Cents: remaining}
	}
	return s
}

// CategoryTotals groups expense magnitudes by category across all history,
// including records with unparsable dates. Sorted by amount descending, then
// name, so output is deterministic.
func CategoryTotals(txs []Transaction) []CategoryTotal {
	byName := make(map[string]int64)
	for _, t := range txs {
		if t.Kind != Expense {
			continue
		}
		byName[NormalizeCategory(t.Category)] += t.Magnitude().Cents
	}
	return sortedCategoryTotals(byName)
}

// CategoryTotalsForMonth is CategoryTotals filtered to expenses whose parsed
// date falls in the selected month. Unparsable dates are excluded here.
func CategoryTotalsForMonth(txs []Transaction, today Date, year int, month time.Month) []CategoryTotal {
	byName := make(map[string]int64)
	for _, t := range txs {
		if t.Kind != Expense {
			continue
		}
		d, ok := ParseWhen(t.OccurredOn, today)
		if !ok || d.Year() != year || d.Month() != month {
			continue
		}
		byName[NormalizeCategory(t.Category)] += t.Magnitude().Cents
	}
	return sortedCategoryTotals(byName)
}

func sortedCategoryTotals(byName map[string]int64) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(byName))
	for name, cents := range byName {
		out = append(out, CategoryTotal{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MoodTotals groups expense magnitudes and counts by mood. Un-tagged
// expenses are excluded from both denominators.
func MoodTotals(txs []Transaction) []MoodStat {
	byMood := make(map[Mood]*MoodStat)
	var totalCents int64
	var totalCount int
	for _, t := range txs {
		if t.Kind != Expense || t.Mood == MoodNone {
			continue
		}
		st, ok := byMood[t.Mood]
		if !ok {
			st = &MoodStat{Mood: t.Mood}
			byMood[t.Mood] = st
		}
		st.Amount.Cents += t.Magnitude().Cents
		st.Count++
		totalCents += t.Magnitude().Cents
		totalCount++
	}

	out := make([]MoodStat, 0, len(byMood))
	for _, mood := range []Mood{MoodHappy, MoodNeutral, MoodSad} {
		st, ok := byMood[mood]
		if !ok {
			continue
		}
		if totalCents > 0 {
			st.AmountPercent = int(math.Round(100 * float64(st.Amount.Cents) / float64(totalCents)))
		}
		if totalCount > 0 {
			st.CountPercent = int(math.Round(100 * float64(st.Count) / float64(totalCount)))
		}
		out = append(out, *st)
	}
	return out
}

// DayTotals groups expense magnitudes by day-of-month within the displayed
// month. Records whose date does not resolve, or resolves outside the month,
// contribute nothing.
func DayTotals(txs []Transaction, today Date, year int, month time.Month) map[int]Money {
	out := make(map[int]Money)
	for _, t := range txs {
		if t.Kind != Expense {
			continue
		}
		d, ok := ParseWhen(t.OccurredOn, today)
		if !ok || d.Year() != year || d.Month() != month {
			continue
		}
		out[d.Day()] = out[d.Day()].Add(t.Magnitude())
	}
	return out
}

// MonthTotals groups expense magnitudes by (year, month) across the entire
// history, sorted chronologically. Feeds the month selector and the monthly
// total display.
func MonthTotals(txs []Transaction, today Date) []MonthBucket {
	type key struct {
		year  int
		month time.Month
	}
	byMonth := make(map[key]int64)
	for _, t := range txs {
		if t.Kind != Expense {
			continue
		}
		d, ok := ParseWhen(t.OccurredOn, today)
		if !ok {
			continue
		}
		byMonth[key{d.Year(), d.Month()}] += t.Magnitude().Cents
	}

	out := make([]MonthBucket, 0, len(byMonth))
	for k, cents := range byMonth {
		out = append(out, MonthBucket{Year: k.year, Month: k.month, Total: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
