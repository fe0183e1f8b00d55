package http

import (
	"errors"
	"net/http"

	"catty/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.categories.Add(r.Context(), req.Name); err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": core.NormalizeCategory(req.Name)})
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Remove(r.Context(), r.PathValue("name")); err != nil {
		writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renameCategoryRequest struct {
	NewName string `json:"newName"`
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	oldName := r.PathValue("name")
	if err := s.categories.Rename(r.Context(), oldName, req.NewName); err != nil {
		writeCategoryError(w, err)
		return
	}

	// Renames relabel transactions, so per-category analytics change too.
	s.invalidateAllDerived()
	writeJSON(w, http.StatusOK, map[string]any{"name": core.NormalizeCategory(req.NewName)})
}

func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyCategory):
		writeError(w, http.StatusUnprocessableEntity, "category name cannot be empty")
	case errors.Is(err, core.ErrDuplicateCategory):
		writeError(w, http.StatusConflict, "category already exists")
	case errors.Is(err, core.ErrBaselineCategory):
		writeError(w, http.StatusConflict, "baseline categories cannot be changed")
	case errors.Is(err, core.ErrLastCategory):
		writeError(w, http.StatusConflict, "cannot remove the last category")
	case errors.Is(err, core.ErrUnknownCategory):
		writeError(w, http.StatusNotFound, "category not found")
	default:
		writeError(w, http.StatusInternalServerError, "category operation failed")
	}
}
