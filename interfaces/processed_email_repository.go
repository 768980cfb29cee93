package interfaces

import (
	"context"

	"github.com/pawtrail/mailroom/internal/models"
)

type ProcessedEmailRepository interface {
	// Create inserts the pending audit row. Returns ErrAlreadyProcessed when the
	// message key was seen before (unique index), which is the idempotency guard.
	Create(ctx context.Context, record *models.ProcessedEmailRecord) (string, error)
	GetByMessageKey(ctx context.Context, messageKey string) (*models.ProcessedEmailRecord, error)
	MarkCompleted(ctx context.Context, id string, success bool, recordIDs []string, documentTypes []string) error
	MarkFailed(ctx context.Context, id string, errorMessage string) error
	// FailStalePending flips rows stuck in pending longer than maxAgeMinutes to
	// failed. Used by the maintenance cron.
	FailStalePending(ctx context.Context, maxAgeMinutes int) (int64, error)
}
