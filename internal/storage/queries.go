package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries is the low-level SQL layer. Repository methods own transaction
// boundaries; Queries methods run against whatever DBTX they are given.
type Queries struct {
	db DBTX
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type TransactionRow struct {
	ID          int64
	Kind        string
	AmountCents int64
	Category    string
	Mood        string
	OccurredOn  string
	Note        string
	CreatedAt   time.Time
}

type CreateTransactionParams struct {
	Kind        string
	AmountCents int64
	Category    string
	Mood        string
	OccurredOn  string
	Note        string
}

func (q *Queries) CreateTransaction(ctx context.Context, p CreateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions (kind, amount_cents, category, mood, occurred_on, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Kind, p.AmountCents, p.Category, p.Mood, p.OccurredOn, p.Note)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetTransaction(ctx context.Context, id int64) (TransactionRow, error) {
	var row TransactionRow
	err := q.db.QueryRowContext(ctx, `
		SELECT id, kind, amount_cents, category, mood, occurred_on, note, created_at
		FROM transactions
		WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&row.ID, &row.Kind, &row.AmountCents, &row.Category, &row.Mood, &row.OccurredOn, &row.Note, &row.CreatedAt)
	return row, err
}

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, kind, amount_cents, category, mood, occurred_on, note, created_at
		FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var row TransactionRow
		if err := rows.Scan(&row.ID, &row.Kind, &row.AmountCents, &row.Category, &row.Mood, &row.OccurredOn, &row.Note, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (q *Queries) SoftDeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) RelabelTransactions(ctx context.Context, oldCategory, newCategory string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE transactions SET category = ?
		WHERE category = ? AND deleted_at IS NULL`, newCategory, oldCategory)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type PendingSyncRow struct {
	ID        int64
	CreatedAt time.Time
}

func (q *Queries) GetPendingSyncTransactions(ctx context.Context, limit int64) ([]PendingSyncRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, created_at FROM transactions
		WHERE sync_status = 'pending' AND deleted_at IS NULL
		ORDER BY id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PendingSyncRow
	for rows.Next() {
		var row PendingSyncRow
		if err := rows.Scan(&row.ID, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (q *Queries) MarkTransactionSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE transactions
		SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id)
	return err
}

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'error'
		WHERE id = ?`, id)
	return err
}

func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT name FROM categories ORDER BY position ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}

func (q *Queries) CategoryExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

func (q *Queries) InsertCategory(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (name, position)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM categories))`, name)
	return err
}

func (q *Queries) DeleteCategory(ctx context.Context, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		DELETE FROM categories WHERE name = ? AND baseline = 0`, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE categories SET name = ? WHERE name = ? AND baseline = 0`, newName, oldName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type SettingsRow struct {
	TargetCents int64
	PeriodDays  int64
	StartDate   string
}

func (q *Queries) GetSettings(ctx context.Context) (SettingsRow, error) {
	var row SettingsRow
	err := q.db.QueryRowContext(ctx, `
		SELECT target_cents, period_days, start_date FROM settings WHERE id = 1`).
		Scan(&row.TargetCents, &row.PeriodDays, &row.StartDate)
	return row, err
}

func (q *Queries) UpsertSettings(ctx context.Context, p SettingsRow) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO settings (id, target_cents, period_days, start_date, updated_at)
		VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			target_cents = excluded.target_cents,
			period_days = excluded.period_days,
			start_date = excluded.start_date,
			updated_at = CURRENT_TIMESTAMP`,
		p.TargetCents, p.PeriodDays, p.StartDate)
	return err
}
