package http

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"catty/internal/core"
	"catty/internal/services"
)

type transactionJSON struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	Category   string `json:"category"`
	Mood       string `json:"mood,omitempty"`
	OccurredOn string `json:"occurredOn"`
	Note       string `json:"note,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:         t.ID,
		Kind:       string(t.Kind),
		Amount:     t.Amount.String(),
		Category:   t.Category,
		Mood:       string(t.Mood),
		OccurredOn: t.OccurredOn,
		Note:       t.Note,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

type createTransactionRequest struct {
	Kind       string `json:"kind"`
	Amount     string `json:"amount"`
	Category   string `json:"category"`
	Mood       string `json:"mood"`
	OccurredOn string `json:"occurredOn"`
	Note       string `json:"note"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cents, err := core.ParseDecimalToCents(sanitizeInput(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	t, err := s.transactions.Create(r.Context(), services.CreateInput{
		Kind:           core.Kind(sanitizeInput(req.Kind)),
		MagnitudeCents: cents,
		Category:       sanitizeInput(req.Category),
		Mood:           core.Mood(sanitizeInput(req.Mood)),
		OccurredOn:     sanitizeInput(req.OccurredOn),
		Note:           sanitizeInput(req.Note),
	})
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateAllDerived()
	writeJSON(w, http.StatusCreated, toTransactionJSON(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateAllDerived()
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidKind,
		core.ErrInvalidMood,
		core.ErrEmptyCategory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
