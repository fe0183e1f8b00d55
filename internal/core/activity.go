package core

const (
	StatusFuture   DayStatus = "future"
	StatusExceeded DayStatus = "exceeded"
	StatusGood     DayStatus = "good"
	StatusInactive DayStatus = "inactive"
)

// DayStatus classifies one day of the displayed month for the activity
// calendar.
type DayStatus string

// ClassifyDays assigns a status to every day of the grid. The goal window
// strictly gates evaluation: days outside it are inactive even when money
// was spent. Spending exactly equal to the daily goal stays good; only a
// strictly greater total marks a day exceeded. Zero-spending days in the
// window are good, absence of spending is never penalized.
func ClassifyDays(grid MonthGrid, spending map[int]Money, w Window, dailyGoal Money, today Date) map[int]DayStatus {
	out := make(map[int]DayStatus, grid.Days)
	for day := 1; day <= grid.Days; day++ {
		d := NewDate(grid.Year, grid.Month, day)
		switch {
		case !w.Contains(d):
			out[day] = StatusInactive
		case d.After(today):
			out[day] = StatusFuture
		case spending[day].Cents > dailyGoal.Cents:
			out[day] = StatusExceeded
		default:
			out[day] = StatusGood
		}
	}
	return out
}
