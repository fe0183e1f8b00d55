package services

import (
	"context"
	"fmt"
	"log/slog"

	"catty/internal/core"
	"catty/internal/storage"
)

// eventPublisher is the slice of the AMQP client the service needs.
type eventPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
	PublishTransactionDelete(ctx context.Context, id int64) error
}

// TransactionService orchestrates transaction writes: SQLite first, then a
// fire-and-forget sync event for the backup worker. A failed publish never
// fails the request; the worker's pending scan picks the row up later.
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher eventPublisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher eventPublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateInput is what the API hands the service: magnitude plus kind, the
// sign convention is applied here and nowhere else.
type CreateInput struct {
	Kind           core.Kind
	MagnitudeCents int64
	Category       string
	Mood           core.Mood
	OccurredOn     string
	Note           string
}

// Create validates, signs and persists a transaction.
func (s *TransactionService) Create(ctx context.Context, in CreateInput) (core.Transaction, error) {
	if in.MagnitudeCents <= 0 {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	amount := core.Money{Cents: in.MagnitudeCents}
	category := core.NormalizeCategory(in.Category)
	mood := in.Mood
	switch in.Kind {
	case core.Expense:
		// Expenses are stored negative by convention.
		amount.Cents = -amount.Cents
		if category == "" {
			category = core.FallbackCategory
		}
	case core.Income:
		// Income is always tagged "income" and carries no mood.
		category = core.IncomeCategory
		mood = core.MoodNone
	}

	t := core.Transaction{
		Kind:       in.Kind,
		Amount:     amount,
		Category:   category,
		Mood:       mood,
		OccurredOn: in.OccurredOn,
		Note:       in.Note,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.storage.AppendTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	t.ID = id

	if err := s.publishSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync event",
			"id", id, "error", err)
		// Transaction is saved locally, the pending scan will catch up.
	}

	return t, nil
}

// Delete soft deletes a transaction and announces the delete.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.SoftDeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete event",
				"id", id, "error", err)
		}
	}

	return nil
}

// List returns all live transactions.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

func (s *TransactionService) publishSync(ctx context.Context, id int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping sync event")
		return nil
	}
	return s.publisher.PublishTransactionSync(ctx, id)
}

// Close closes the underlying storage.
func (s *TransactionService) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
