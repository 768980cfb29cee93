package interfaces

import (
	"context"
	"time"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
)

type MessageThreadRepository interface {
	Create(ctx context.Context, thread *models.MessageThread) (string, error)
	GetByID(ctx context.Context, id string) (*models.MessageThread, error)
	// GetByPetAndCounterparty returns nil without error when no thread exists yet.
	GetByPetAndCounterparty(ctx context.Context, petID string, counterparty string) (*models.MessageThread, error)
	ListByPet(ctx context.Context, petID string) ([]*models.MessageThread, error)
	// RecordNewMessage bumps message count, last message time and updated_at.
	RecordNewMessage(ctx context.Context, threadID string, messageTime time.Time) error
	SoftDelete(ctx context.Context, threadID string, actorUserID string) error
	Restore(ctx context.Context, threadID string, actorUserID string) error
}

type ThreadMessageRepository interface {
	Create(ctx context.Context, message *models.ThreadMessage) (string, error)
	ListByThread(ctx context.Context, threadID string) ([]*models.ThreadMessage, error)
	CountInboundSince(ctx context.Context, threadID string, since *time.Time) (int64, error)
}

type ThreadReadStatusRepository interface {
	Get(ctx context.Context, userID string, threadID string) (*models.ThreadReadStatus, error)
	MarkRead(ctx context.Context, userID string, threadID string, readAt time.Time) error
}

type ThreadDeleteAuditRepository interface {
	Append(ctx context.Context, threadID string, action enum.ThreadAuditAction, actorUserID string) error
	ListByThread(ctx context.Context, threadID string) ([]*models.ThreadDeleteAudit, error)
	// PurgeOlderThan removes audit rows past the retention window. Used by the
	// maintenance cron.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
