package core

import (
	"math"
	"time"
)

type (
	// Window is the inclusive goal date range [Start, End].
	Window struct {
		Start Date
		End   Date
	}

	// MonthGrid describes the calendar layout of a displayed month.
	MonthGrid struct {
		Year   int
		Month  time.Month
		Days   int
		Offset int // weekday of day 1, 0 = Sunday
	}
)

// Window returns the goal window [startDate, startDate+periodDays-1].
func (g GoalConfig) Window() Window {
	return Window{
		Start: g.StartDate,
		End:   g.StartDate.AddDays(g.PeriodDays - 1),
	}
}

// DailyGoal is the per-day spending threshold, round(target / periodDays).
func (g GoalConfig) DailyGoal() Money {
	if g.PeriodDays <= 0 {
		return Money{}
	}
	return Money{Cents: int64(math.Round(float64(g.Target.Cents) / float64(g.PeriodDays)))}
}

// Contains reports whether d falls inside the window, boundaries included.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// GridFor resolves the calendar grid for a displayed month.
func GridFor(year int, month time.Month) MonthGrid {
	first := NewDate(year, month, 1)
	return MonthGrid{
		Year:   year,
		Month:  month,
		Days:   DaysInMonth(year, month),
		Offset: int(first.Weekday()),
	}
}

// PrevMonth steps the displayed month back, wrapping the year boundary.
// Navigation is independent of the goal window.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps the displayed month forward, wrapping the year boundary.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
