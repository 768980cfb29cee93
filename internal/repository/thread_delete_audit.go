package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
)

type threadDeleteAuditRepository struct {
	db *gorm.DB
}

// NewThreadDeleteAuditRepository creates a new thread delete audit repository
func NewThreadDeleteAuditRepository(db *gorm.DB) interfaces.ThreadDeleteAuditRepository {
	return &threadDeleteAuditRepository{
		db: db,
	}
}

func (r *threadDeleteAuditRepository) Append(ctx context.Context, threadID string, action enum.ThreadAuditAction, actorUserID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadDeleteAuditRepository.Append")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)
	span.SetTag("action", string(action))

	if threadID == "" || action == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return ErrInvalidInput
	}

	entry := models.ThreadDeleteAudit{
		ThreadID:    threadID,
		Action:      action,
		ActorUserID: actorUserID,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (r *threadDeleteAuditRepository) ListByThread(ctx context.Context, threadID string) ([]*models.ThreadDeleteAudit, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadDeleteAuditRepository.ListByThread")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	var entries []*models.ThreadDeleteAudit
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return entries, nil
}

func (r *threadDeleteAuditRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadDeleteAuditRepository.PurgeOlderThan")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ThreadDeleteAudit{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
