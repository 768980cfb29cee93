package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
)

type threadMessageRepository struct {
	db *gorm.DB
}

// NewThreadMessageRepository creates a new thread message repository
func NewThreadMessageRepository(db *gorm.DB) interfaces.ThreadMessageRepository {
	return &threadMessageRepository{
		db: db,
	}
}

func (r *threadMessageRepository) Create(ctx context.Context, message *models.ThreadMessage) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadMessageRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if message == nil {
		err := errors.New("message cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}
	if message.ThreadID == "" || message.Direction == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return "", ErrInvalidInput
	}
	span.SetTag("thread_id", message.ThreadID)

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	return message.ID, nil
}

func (r *threadMessageRepository) ListByThread(ctx context.Context, threadID string) ([]*models.ThreadMessage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadMessageRepository.ListByThread")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	var messages []*models.ThreadMessage
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("sent_at ASC NULLS LAST, created_at ASC").
		Find(&messages).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return messages, nil
}

func (r *threadMessageRepository) CountInboundSince(ctx context.Context, threadID string, since *time.Time) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadMessageRepository.CountInboundSince")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	query := r.db.WithContext(ctx).
		Model(&models.ThreadMessage{}).
		Where("thread_id = ? AND direction = ?", threadID, enum.MessageInbound)
	if since != nil {
		query = query.Where("sent_at > ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		tracing.TraceErr(span, err)
		return 0, err
	}

	return count, nil
}
