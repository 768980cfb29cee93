package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

type threadReadStatusRepository struct {
	db *gorm.DB
}

// NewThreadReadStatusRepository creates a new thread read status repository
func NewThreadReadStatusRepository(db *gorm.DB) interfaces.ThreadReadStatusRepository {
	return &threadReadStatusRepository{
		db: db,
	}
}

func (r *threadReadStatusRepository) Get(ctx context.Context, userID string, threadID string) (*models.ThreadReadStatus, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadReadStatusRepository.Get")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	if userID == "" || threadID == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return nil, ErrInvalidInput
	}

	var status models.ThreadReadStatus
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &status, nil
}

// MarkRead upserts the (user, thread) marker. The timestamp only moves forward.
func (r *threadReadStatusRepository) MarkRead(ctx context.Context, userID string, threadID string, readAt time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "threadReadStatusRepository.MarkRead")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	if userID == "" || threadID == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return ErrInvalidInput
	}

	status := models.ThreadReadStatus{
		UserID:     userID,
		ThreadID:   threadID,
		LastReadAt: readAt,
		UpdatedAt:  utils.Now(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "thread_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_read_at": gorm.Expr("GREATEST(thread_read_status.last_read_at, EXCLUDED.last_read_at)"),
				"updated_at":   utils.Now(),
			}),
		}).
		Create(&status).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
