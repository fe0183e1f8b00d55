// Package worker mirrors locally saved transactions to the configured export
// target. Sync events arrive over AMQP; a periodic pending scan covers lost
// messages and broker downtime.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"catty/internal/amqp"
	"catty/internal/sheets"
	"catty/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	exporter  sheets.Exporter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, exporter sheets.Exporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage exports a single transaction announced over AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.Message) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	t, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Deleted between publish and consume. Ack and move on, or the
		// broker redelivers forever; the delete event covers the export
		// side.
		slog.InfoContext(ctx, "Transaction gone before sync, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return err
	}

	return w.export(ctx, t.ID, func() error {
		return w.exporter.AppendTransaction(ctx, t)
	})
}

// HandleDeleteMessage removes a transaction from the export target.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.Message) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if err := w.exporter.RemoveTransaction(ctx, msg.ID); err != nil {
		return fmt.Errorf("remove transaction %d from export target: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Transaction removed from export target", "id", msg.ID)
	return nil
}

// ProcessPendingTransactions exports rows still marked pending. This is the
// backstop for sync events lost to broker or worker downtime.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains the pending backlog once at worker startup, with a
// larger batch than the periodic scan uses.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	synced := 0
	for _, p := range pending {
		t, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending transaction",
				"id", p.ID, "error", err)
			if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error",
					"id", p.ID, "error", markErr)
			}
			continue
		}

		if err := w.export(ctx, t.ID, func() error {
			return w.exporter.AppendTransaction(ctx, t)
		}); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction",
				"id", p.ID, "error", err)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Pending scan complete",
		"total", len(pending), "synced", synced)
	return nil
}

// export runs fn and records the outcome in sync bookkeeping. A failed mark
// after a successful export is logged but not returned: the export happened.
func (w *SyncWorker) export(ctx context.Context, id int64, fn func() error) error {
	if err := fn(); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("export transaction %d: %w", id, err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark transaction synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Transaction exported", "id", id)
	return nil
}
