package services

import (
	"context"
	"errors"
	"testing"

	"catty/internal/core"
)

func newCategoryService(t *testing.T) (*CategoryService, *TransactionService) {
	t.Helper()
	repo := newTestStorage(t)
	return NewCategoryService(repo), NewTransactionService(repo, &fakePublisher{})
}

func TestCategoryAddRules(t *testing.T) {
	svc, _ := newCategoryService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, "  Coffee  "); err != nil {
		t.Fatalf("add: %v", err)
	}
	cats, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, c := range cats {
		if c == "coffee" {
			found = true
		}
	}
	if !found {
		t.Errorf("categories after add = %v, want coffee present", cats)
	}

	cases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "   ", core.ErrEmptyCategory},
		{"duplicate", "Coffee", core.ErrDuplicateCategory},
		{"duplicate baseline", "FOOD", core.ErrDuplicateCategory},
		{"reserved income", "income", core.ErrDuplicateCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Add(ctx, tc.input); !errors.Is(err, tc.wantErr) {
				t.Errorf("Add(%q) = %v, want %v", tc.input, err, tc.wantErr)
			}
		})
	}
}

func TestCategoryRemoveRules(t *testing.T) {
	svc, _ := newCategoryService(t)
	ctx := context.Background()

	if err := svc.Remove(ctx, "food"); !errors.Is(err, core.ErrBaselineCategory) {
		t.Errorf("remove baseline = %v, want ErrBaselineCategory", err)
	}
	if err := svc.Remove(ctx, "coffee"); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("remove unknown = %v, want ErrUnknownCategory", err)
	}

	if err := svc.Add(ctx, "coffee"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(ctx, "coffee"); err != nil {
		t.Fatalf("remove custom: %v", err)
	}
}

// soleCategoryStore simulates a set whittled down to a single custom entry,
// a state the SQLite repository cannot reach while baseline rows exist.
type soleCategoryStore struct {
	removed []string
}

func (s *soleCategoryStore) ListCategories(context.Context) ([]string, error) {
	return []string{"misc"}, nil
}
func (s *soleCategoryStore) CategoryExists(context.Context, string) (bool, error) {
	return true, nil
}
func (s *soleCategoryStore) CountCategories(context.Context) (int64, error) { return 1, nil }
func (s *soleCategoryStore) AddCategory(context.Context, string) error      { return nil }
func (s *soleCategoryStore) RemoveCategory(_ context.Context, name string) error {
	s.removed = append(s.removed, name)
	return nil
}
func (s *soleCategoryStore) RenameCategory(context.Context, string, string) (int64, error) {
	return 0, nil
}

func TestCategoryRemoveLastEntry(t *testing.T) {
	store := &soleCategoryStore{}
	svc := NewCategoryService(store)

	if err := svc.Remove(context.Background(), "misc"); !errors.Is(err, core.ErrLastCategory) {
		t.Fatalf("remove sole category = %v, want ErrLastCategory", err)
	}
	if len(store.removed) != 0 {
		t.Errorf("store mutated removing sole category: %v", store.removed)
	}
}

func TestCategoryRenameRelabelsTransactions(t *testing.T) {
	svc, txSvc := newCategoryService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, "coffee"); err != nil {
		t.Fatalf("add: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := txSvc.Create(ctx, CreateInput{
			Kind:           core.Expense,
			MagnitudeCents: 450,
			Category:       "coffee",
			OccurredOn:     "Nov 4",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := svc.Rename(ctx, "coffee", "caffeine"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	txs, err := txSvc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, tx := range txs {
		if tx.Category != "caffeine" {
			t.Errorf("transaction %d category = %q, want caffeine", tx.ID, tx.Category)
		}
	}
}

func TestCategoryRenameRules(t *testing.T) {
	svc, _ := newCategoryService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, "coffee"); err != nil {
		t.Fatalf("add: %v", err)
	}

	cases := []struct {
		name     string
		from, to string
		wantErr  error
	}{
		{"baseline source", "food", "meals", core.ErrBaselineCategory},
		{"empty target", "coffee", "  ", core.ErrEmptyCategory},
		{"same name", "coffee", "COFFEE", core.ErrDuplicateCategory},
		{"reserved income", "coffee", "income", core.ErrDuplicateCategory},
		{"existing target", "coffee", "food", core.ErrDuplicateCategory},
		{"unknown source", "tea", "chai", core.ErrUnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Rename(ctx, tc.from, tc.to); !errors.Is(err, tc.wantErr) {
				t.Errorf("Rename(%q, %q) = %v, want %v", tc.from, tc.to, err, tc.wantErr)
			}
		})
	}
}
