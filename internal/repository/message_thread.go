package repository

import (
	"context"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

type messageThreadRepository struct {
	db *gorm.DB
}

// NewMessageThreadRepository creates a new message thread repository
func NewMessageThreadRepository(db *gorm.DB) interfaces.MessageThreadRepository {
	return &messageThreadRepository{
		db: db,
	}
}

func (r *messageThreadRepository) Create(ctx context.Context, thread *models.MessageThread) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageThreadRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if thread == nil {
		err := errors.New("thread cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}
	if thread.PetID == "" || thread.CounterpartyAddress == "" || thread.ReplyAddress == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return "", ErrInvalidInput
	}
	thread.CounterpartyAddress = strings.ToLower(strings.TrimSpace(thread.CounterpartyAddress))
	thread.ReplyAddress = strings.ToLower(strings.TrimSpace(thread.ReplyAddress))
	span.SetTag("pet_id", thread.PetID)

	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the race with a concurrent upsert for the same pair
			return "", ErrDuplicateRecord
		}
		tracing.TraceErr(span, err)
		return "", err
	}

	return thread.ID, nil
}

func (r *messageThreadRepository) GetByID(ctx context.Context, id string) (*models.MessageThread, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageThreadRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", id)

	if id == "" {
		err := errors.New("thread ID cannot be empty")
		tracing.TraceErr(span, err)
		return nil, err
	}

	// Unscoped so soft-deleted threads stay reachable for restore.
	var thread models.MessageThread
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &thread, nil
}

func (r *messageThreadRepository) GetByPetAndCounterparty(ctx context.Context, petID string, counterparty string) (*models.MessageThread, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageThreadRepository.GetByPetAndCounterparty")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	counterparty = strings.ToLower(strings.TrimSpace(counterparty))
	if petID == "" || counterparty == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return nil, ErrInvalidInput
	}

	// Deleted threads are matched too: a new inbound message from the same
	// counterparty reuses the thread instead of colliding on the unique pair.
	var thread models.MessageThread
	err := r.db.WithContext(ctx).Unscoped().
		Where("pet_id = ? AND counterparty_address = ?", petID, counterparty).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &thread, nil
}

func (r *messageThreadRepository) ListByPet(ctx context.Context, petID string) ([]*models.MessageThread, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageThreadRepository.ListByPet")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	var threads []*models.MessageThread
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("last_message_at DESC NULLS LAST").
		Find(&threads).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return threads, nil
}

func (r *messageThreadRepository) RecordNewMessage(ctx context.Context, threadID string, messageTime time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageThreadRepository.RecordNewMessage")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	if threadID == "" {
		err := errors.New("thread ID cannot be empty")
		tracing.TraceErr(span, err)
		return err
	}

	result := r.db.WithContext(ctx).Unscoped().
		Model(&models.MessageThread{}).
		Where("id = ?", threadID).
		Updates(map[string]interface{}{
			"message_count":   gorm.Expr("message_count + 1"),
			"last_message_at": messageTime,
			"updated_at":      utils.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		tracing.TraceErr(span, ErrThreadNotFound)
		return ErrThreadNotFound
	}

	return nil
}

func (r *messageThreadRepository) SoftDelete(ctx context.Context, threadID string, actorUserID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageThreadRepository.SoftDelete")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	result := r.db.WithContext(ctx).
		Where("id = ?", threadID).
		Delete(&models.MessageThread{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		tracing.TraceErr(span, ErrThreadNotFound)
		return ErrThreadNotFound
	}

	return nil
}

func (r *messageThreadRepository) Restore(ctx context.Context, threadID string, actorUserID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageThreadRepository.Restore")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("thread_id", threadID)

	result := r.db.WithContext(ctx).Unscoped().
		Model(&models.MessageThread{}).
		Where("id = ? AND deleted_at IS NOT NULL", threadID).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"updated_at": utils.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		tracing.TraceErr(span, ErrThreadNotFound)
		return ErrThreadNotFound
	}

	return nil
}
