package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"catty/internal/core"
)

// categoryStore is the slice of the repository the service needs.
type categoryStore interface {
	ListCategories(ctx context.Context) ([]string, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
	CountCategories(ctx context.Context) (int64, error)
	AddCategory(ctx context.Context, name string) error
	RemoveCategory(ctx context.Context, name string) error
	RenameCategory(ctx context.Context, oldName, newName string) (int64, error)
}

// CategoryService enforces the category set rules: the baseline subset is
// immutable, the set never becomes empty, names stay unique. All mutations
// are rejected whole at this boundary; nothing partial ever reaches storage.
type CategoryService struct {
	store categoryStore
}

func NewCategoryService(store categoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

func (s *CategoryService) Add(ctx context.Context, name string) error {
	name = core.NormalizeCategory(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	if name == core.IncomeCategory {
		// "income" is reserved for income transactions.
		return core.ErrDuplicateCategory
	}

	exists, err := s.store.CategoryExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if exists {
		return core.ErrDuplicateCategory
	}

	if err := s.store.AddCategory(ctx, name); err != nil {
		return fmt.Errorf("add category: %w", err)
	}

	slog.InfoContext(ctx, "Category added", "name", name)
	return nil
}

func (s *CategoryService) Remove(ctx context.Context, name string) error {
	name = core.NormalizeCategory(name)
	if core.IsBaselineCategory(name) {
		return core.ErrBaselineCategory
	}

	count, err := s.store.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count <= 1 {
		return core.ErrLastCategory
	}

	if err := s.store.RemoveCategory(ctx, name); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category removed", "name", name)
	return nil
}

// Rename relabels every transaction tagged with the old name in the same
// storage transaction as the rename itself.
func (s *CategoryService) Rename(ctx context.Context, oldName, newName string) error {
	oldName = core.NormalizeCategory(oldName)
	newName = core.NormalizeCategory(newName)

	if core.IsBaselineCategory(oldName) {
		return core.ErrBaselineCategory
	}
	if newName == "" {
		return core.ErrEmptyCategory
	}
	if strings.EqualFold(oldName, newName) {
		return core.ErrDuplicateCategory
	}
	if newName == core.IncomeCategory {
		return core.ErrDuplicateCategory
	}

	exists, err := s.store.CategoryExists(ctx, newName)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if exists {
		return core.ErrDuplicateCategory
	}

	relabeled, err := s.store.RenameCategory(ctx, oldName, newName)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category renamed",
		"old", oldName,
		"new", newName,
		"relabeled_transactions", relabeled)
	return nil
}
