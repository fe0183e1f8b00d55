package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"catty/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "catty.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AppendTransaction(ctx, core.Transaction{
		Kind:       core.Expense,
		Amount:     core.Money{Cents: -4000},
		Category:   "Shopping",
		Mood:       core.MoodHappy,
		OccurredOn: "Nov 4",
		Note:       "sneakers",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != "shopping" {
		t.Errorf("category not normalized on load: %q", got.Category)
	}
	if got.Amount.Cents != -4000 || got.Mood != core.MoodHappy || got.OccurredOn != "Nov 4" {
		t.Errorf("unexpected row: %+v", got)
	}

	if err := repo.SoftDeleteTransaction(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("deleted row still readable: %v", err)
	}
	if err := repo.SoftDeleteTransaction(ctx, id); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("double delete: %v, want ErrNoRows", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("deleted transaction still listed: %+v", txs)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AppendTransaction(ctx, core.Transaction{
		Kind: core.Expense, Amount: core.Money{Cents: -100}, Category: "food",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Fatalf("pending = %+v, want one row with id %d", pending, id)
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("pending after sync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("synced transaction still pending: %+v", pending)
	}
}

func TestCategorySeedAndMutations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	names, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	want := []string{"shopping", "food", "transport", "entertainment"}
	if len(names) != len(want) {
		t.Fatalf("seeded categories = %v", names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("category[%d] = %q, want %q", i, names[i], n)
		}
	}

	if err := repo.AddCategory(ctx, "Subscriptions"); err != nil {
		t.Fatalf("add: %v", err)
	}
	ok, err := repo.CategoryExists(ctx, "subscriptions")
	if err != nil || !ok {
		t.Fatalf("added category missing: %v %v", ok, err)
	}

	// Baseline rows carry baseline=1 and are untouchable at the SQL level too.
	if err := repo.RemoveCategory(ctx, "shopping"); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("baseline delete: %v, want ErrUnknownCategory", err)
	}
}

func TestRenameCategoryRelabelsAtomically(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.AddCategory(ctx, "subscriptions"); err != nil {
		t.Fatalf("add: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := repo.AppendTransaction(ctx, core.Transaction{
			Kind: core.Expense, Amount: core.Money{Cents: -500}, Category: "subscriptions",
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	relabeled, err := repo.RenameCategory(ctx, "subscriptions", "subs")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if relabeled != 3 {
		t.Errorf("relabeled = %d, want 3", relabeled)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, tx := range txs {
		if tx.Category != "subs" {
			t.Errorf("transaction %d still tagged %q", tx.ID, tx.Category)
		}
	}

	ok, _ := repo.CategoryExists(ctx, "subscriptions")
	if ok {
		t.Error("old category name survived the rename")
	}

	// Renaming a baseline category never succeeds.
	if _, err := repo.RenameCategory(ctx, "shopping", "buying"); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("baseline rename: %v, want ErrUnknownCategory", err)
	}
}

func TestGoalConfigRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, found, err := repo.LoadGoalConfig(ctx); err != nil || found {
		t.Fatalf("fresh database should have no settings: found=%v err=%v", found, err)
	}

	saved := core.GoalConfig{
		Target:     core.Money{Cents: 250000},
		PeriodDays: 14,
		StartDate:  core.NewDate(2024, time.November, 1),
	}
	if err := repo.SaveGoalConfig(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := repo.LoadGoalConfig(ctx)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if got.Target != saved.Target || got.PeriodDays != saved.PeriodDays || !got.StartDate.Equal(saved.StartDate) {
		t.Errorf("loaded %+v, want %+v", got, saved)
	}

	// Second save overwrites, never duplicates.
	saved.Target = core.Money{Cents: 300000}
	if err := repo.SaveGoalConfig(ctx, saved); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, _, _ = repo.LoadGoalConfig(ctx)
	if got.Target.Cents != 300000 {
		t.Errorf("target after resave = %d", got.Target.Cents)
	}
}
