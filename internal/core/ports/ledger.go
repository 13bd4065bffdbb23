package ports

import (
	"context"

	"go.trai.ch/artisan/internal/core/domain"
)

// HistoryLedger is the bounded, newest-first record of generation tasks.
// It is best-effort: persistence failures are logged, never returned.
//
//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks
type HistoryLedger interface {
	// Append prepends record and drops the oldest entries beyond capacity.
	Append(ctx context.Context, record domain.TaskRecord)

	// Upsert replaces the record with the same task id in place, or appends it.
	Upsert(ctx context.Context, record domain.TaskRecord)

	// FindByID returns the first record with the given task id.
	FindByID(ctx context.Context, taskID string) (domain.TaskRecord, bool)

	// All returns every record, newest first.
	All(ctx context.Context) []domain.TaskRecord
}
