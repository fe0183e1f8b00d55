package http

import (
	"net/http"
	"strconv"

	"catty/internal/core"
)

type categoryTotalJSON struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type summaryResponse struct {
	Year               int                 `json:"year"`
	Month              int                 `json:"month"`
	TotalIncome        string              `json:"totalIncome"`
	TotalExpense       string              `json:"totalExpense"`
	Balance            string              `json:"balance"`
	Remaining          string              `json:"remaining"`
	SpendingPercentage int                 `json:"spendingPercentage"`
	ProgressColor      string              `json:"progressColor"`
	DailyGoal          string              `json:"dailyGoal"`
	WindowStart        string              `json:"windowStart"`
	WindowEnd          string              `json:"windowEnd"`
	Categories         []categoryTotalJSON `json:"categories"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, month := monthParams(r, now)

	key := cacheKey(year, month)
	if cached, found := s.summaryCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	today := core.DateOf(now)
	cfg := s.settings.Current(today)
	summary := core.Summarize(txs, cfg)
	color := core.ProgressColor(summary.SpendingPercentage)

	resp := summaryResponse{
		Year:               year,
		Month:              int(month),
		TotalIncome:        summary.TotalIncome.String(),
		TotalExpense:       summary.TotalExpense.String(),
		Balance:            summary.Balance.String(),
		Remaining:          summary.Remaining.String(),
		SpendingPercentage: summary.SpendingPercentage,
		ProgressColor:      color.Hex(),
		DailyGoal:          summary.DailyGoal.String(),
		WindowStart:        summary.Window.Start.Format("2006-01-02"),
		WindowEnd:          summary.Window.End.Format("2006-01-02"),
		Categories:         toCategoryTotalsJSON(core.CategoryTotalsForMonth(txs, today, year, month)),
	}

	s.summaryCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func toCategoryTotalsJSON(totals []core.CategoryTotal) []categoryTotalJSON {
	out := make([]categoryTotalJSON, 0, len(totals))
	for _, ct := range totals {
		out = append(out, categoryTotalJSON{Name: ct.Name, Amount: ct.Amount.String()})
	}
	return out
}

type dayJSON struct {
	Day      int    `json:"day"`
	Status   string `json:"status"`
	Spending string `json:"spending,omitempty"`
}

type activityResponse struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Offset    int       `json:"offset"`
	Days      []dayJSON `json:"days"`
	PrevYear  int       `json:"prevYear"`
	PrevMonth int       `json:"prevMonth"`
	NextYear  int       `json:"nextYear"`
	NextMonth int       `json:"nextMonth"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, month := monthParams(r, now)

	key := cacheKey(year, month)
	if cached, found := s.activityCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	today := core.DateOf(now)
	cfg := s.settings.Current(today)
	grid := core.GridFor(year, month)
	spending := core.DayTotals(txs, today, year, month)
	statuses := core.ClassifyDays(grid, spending, cfg.Window(), cfg.DailyGoal(), today)

	days := make([]dayJSON, 0, grid.Days)
	for day := 1; day <= grid.Days; day++ {
		d := dayJSON{Day: day, Status: string(statuses[day])}
		if spent, ok := spending[day]; ok {
			d.Spending = spent.String()
		}
		days = append(days, d)
	}

	prevYear, prevMonth := core.PrevMonth(year, month)
	nextYear, nextMonth := core.NextMonth(year, month)
	resp := activityResponse{
		Year:      year,
		Month:     int(month),
		Offset:    grid.Offset,
		Days:      days,
		PrevYear:  prevYear,
		PrevMonth: int(prevMonth),
		NextYear:  nextYear,
		NextMonth: int(nextMonth),
	}

	s.activityCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

type monthBucketJSON struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
	Total string `json:"total"`
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	buckets := core.MonthTotals(txs, s.today())
	out := make([]monthBucketJSON, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, monthBucketJSON{
			Year:  b.Year,
			Month: int(b.Month),
			Label: b.Month.String() + " " + strconv.Itoa(b.Year),
			Total: b.Total.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": out})
}

type moodStatJSON struct {
	Mood          string `json:"mood"`
	Amount        string `json:"amount"`
	Count         int    `json:"count"`
	AmountPercent int    `json:"amountPercent"`
	CountPercent  int    `json:"countPercent"`
}

func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	stats := core.MoodTotals(txs)
	out := make([]moodStatJSON, 0, len(stats))
	for _, st := range stats {
		out = append(out, moodStatJSON{
			Mood:          string(st.Mood),
			Amount:        st.Amount.String(),
			Count:         st.Count,
			AmountPercent: st.AmountPercent,
			CountPercent:  st.CountPercent,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"moods": out})
}
