// Package sheets defines the ports for the backup export target. The store
// of record is always SQLite; the spreadsheet is an eventually consistent
// mirror fed by the worker.
package sheets

import (
	"context"

	"catty/internal/core"
)

type (
	// TransactionAppender mirrors a newly created transaction.
	TransactionAppender interface {
		AppendTransaction(ctx context.Context, t core.Transaction) error
	}

	// TransactionRemover drops a mirrored transaction after a local delete.
	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, id int64) error
	}

	// Exporter is the full backup target surface the worker drives.
	Exporter interface {
		TransactionAppender
		TransactionRemover
	}
)
