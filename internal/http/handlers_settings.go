package http

import (
	"errors"
	"net/http"
	"time"

	"catty/internal/core"
	"catty/internal/services"
)

type settingsJSON struct {
	Target     string `json:"target"`
	PeriodDays int    `json:"periodDays"`
	StartDate  string `json:"startDate"`
}

func toSettingsJSON(cfg core.GoalConfig) settingsJSON {
	return settingsJSON{
		Target:     cfg.Target.String(),
		PeriodDays: cfg.PeriodDays,
		StartDate:  cfg.StartDate.Format("2006-01-02"),
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsJSON(s.settings.Current(s.today())))
}

type putSettingsRequest struct {
	Target     string `json:"target"`
	PeriodDays int    `json:"periodDays"`
	StartDate  string `json:"startDate"`
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req putSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(sanitizeInput(req.Target))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid target")
		return
	}

	start := s.today()
	if v := sanitizeInput(req.StartDate); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid start date")
			return
		}
		start = core.DateOf(parsed)
	}

	cfg := core.GoalConfig{
		Target:     core.Money{Cents: cents},
		PeriodDays: req.PeriodDays,
		StartDate:  start,
	}
	if err := s.settings.Save(r.Context(), cfg); err != nil {
		switch {
		case errors.Is(err, services.ErrSettingsLoading):
			writeError(w, http.StatusConflict, "settings are still loading, retry shortly")
		case errors.Is(err, core.ErrInvalidTarget), errors.Is(err, core.ErrInvalidPeriod):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to save settings")
		}
		return
	}

	s.invalidateAllDerived()
	writeJSON(w, http.StatusOK, toSettingsJSON(cfg))
}
