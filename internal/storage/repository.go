package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"catty/internal/core"

	_ "modernc.org/sqlite"
)

const startDateLayout = "2006-01-02"

// SQLiteRepository is the store of record for transactions, categories and
// the goal configuration.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendTransaction persists a transaction and returns its id.
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Kind:        string(t.Kind),
		AmountCents: t.Amount.Cents,
		Category:    core.NormalizeCategory(t.Category),
		Mood:        string(t.Mood),
		OccurredOn:  t.OccurredOn,
		Note:        t.Note,
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return id, nil
}

// ListTransactions returns all live transactions, newest id first. Ordering
// is a storage convenience only; consumers sort as needed.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = rowToTransaction(row)
	}
	return out, nil
}

// GetTransaction returns one live transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return rowToTransaction(row), nil
}

// SoftDeleteTransaction marks a transaction deleted. Deleted rows leave all
// aggregates immediately.
func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, id int64) error {
	n, err := r.queries.SoftDeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("soft delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	slog.InfoContext(ctx, "Transaction soft deleted", "id", id)
	return nil
}

// rowToTransaction applies the load-boundary normalization: category names
// are lowercased, malformed moods from older app versions degrade to none.
func rowToTransaction(row TransactionRow) core.Transaction {
	mood := core.Mood(row.Mood)
	if mood.Validate() != nil {
		mood = core.MoodNone
	}
	return core.Transaction{
		ID:         row.ID,
		Kind:       core.Kind(row.Kind),
		Amount:     core.Money{Cents: row.AmountCents},
		Category:   core.NormalizeCategory(row.Category),
		Mood:       mood,
		OccurredOn: row.OccurredOn,
		Note:       row.Note,
	}
}

// PendingSyncTransaction is the minimal row needed to drive backup export.
type PendingSyncTransaction struct {
	ID        int64
	CreatedAt time.Time
}

// GetPendingSyncTransactions returns transactions not yet mirrored to the
// backup export target.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.queries.GetPendingSyncTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}

	out := make([]PendingSyncTransaction, len(rows))
	for i, row := range rows {
		out[i] = PendingSyncTransaction{ID: row.ID, CreatedAt: row.CreatedAt}
	}
	return out, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// ListCategories returns the ordered category set, normalized at the load
// boundary so schema drift in old rows never reaches consumers.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		n := core.NormalizeCategory(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

func (r *SQLiteRepository) CategoryExists(ctx context.Context, name string) (bool, error) {
	ok, err := r.queries.CategoryExists(ctx, core.NormalizeCategory(name))
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return ok, nil
}

func (r *SQLiteRepository) CountCategories(ctx context.Context) (int64, error) {
	n, err := r.queries.CountCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, name string) error {
	if err := r.queries.InsertCategory(ctx, core.NormalizeCategory(name)); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveCategory(ctx context.Context, name string) error {
	n, err := r.queries.DeleteCategory(ctx, core.NormalizeCategory(name))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return core.ErrUnknownCategory
	}
	return nil
}

// RenameCategory renames a custom category and relabels every live
// transaction tagged with the old name in the same database transaction.
// Either both happen or neither does.
func (r *SQLiteRepository) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	oldName = core.NormalizeCategory(oldName)
	newName = core.NormalizeCategory(newName)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rename transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	renamed, err := qtx.RenameCategory(ctx, oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("rename category: %w", err)
	}
	if renamed == 0 {
		return 0, core.ErrUnknownCategory
	}

	relabeled, err := qtx.RelabelTransactions(ctx, oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("relabel transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rename: %w", err)
	}

	slog.InfoContext(ctx, "Category renamed",
		"old", oldName,
		"new", newName,
		"relabeled", relabeled)

	return relabeled, nil
}

// LoadGoalConfig returns the persisted goal configuration. The second return
// is false when nothing has been saved yet.
func (r *SQLiteRepository) LoadGoalConfig(ctx context.Context) (core.GoalConfig, bool, error) {
	row, err := r.queries.GetSettings(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.GoalConfig{}, false, nil
	}
	if err != nil {
		return core.GoalConfig{}, false, fmt.Errorf("get settings: %w", err)
	}

	start, err := time.Parse(startDateLayout, row.StartDate)
	if err != nil {
		return core.GoalConfig{}, false, fmt.Errorf("parse settings start date %q: %w", row.StartDate, err)
	}

	return core.GoalConfig{
		Target:     core.Money{Cents: row.TargetCents},
		PeriodDays: int(row.PeriodDays),
		StartDate:  core.DateOf(start),
	}, true, nil
}

func (r *SQLiteRepository) SaveGoalConfig(ctx context.Context, g core.GoalConfig) error {
	if err := r.queries.UpsertSettings(ctx, SettingsRow{
		TargetCents: g.Target.Cents,
		PeriodDays:  int64(g.PeriodDays),
		StartDate:   g.StartDate.Format(startDateLayout),
	}); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	slog.InfoContext(ctx, "Goal configuration saved",
		"target_cents", g.Target.Cents,
		"period_days", g.PeriodDays,
		"start_date", g.StartDate.Format(startDateLayout))

	return nil
}
