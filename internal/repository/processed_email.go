package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

type processedEmailRepository struct {
	db *gorm.DB
}

// NewProcessedEmailRepository creates a new processed email repository
func NewProcessedEmailRepository(db *gorm.DB) interfaces.ProcessedEmailRepository {
	return &processedEmailRepository{
		db: db,
	}
}

func (r *processedEmailRepository) Create(ctx context.Context, record *models.ProcessedEmailRecord) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if record == nil {
		err := errors.New("record cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}
	if record.MessageKey == "" {
		err := errors.New("message key cannot be empty")
		tracing.TraceErr(span, err)
		return "", err
	}
	span.SetTag("message_key", record.MessageKey)

	if record.Status == "" {
		record.Status = enum.ProcessingPending
	}

	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if isUniqueViolation(err) {
			// Concurrent redelivery of the same message key
			return "", ErrAlreadyProcessed
		}
		tracing.TraceErr(span, err)
		return "", err
	}

	return record.ID, nil
}

func (r *processedEmailRepository) GetByMessageKey(ctx context.Context, messageKey string) (*models.ProcessedEmailRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.GetByMessageKey")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("message_key", messageKey)

	if messageKey == "" {
		err := errors.New("message key cannot be empty")
		tracing.TraceErr(span, err)
		return nil, err
	}

	var record models.ProcessedEmailRecord
	err := r.db.WithContext(ctx).Where("message_key = ?", messageKey).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &record, nil
}

func (r *processedEmailRepository) MarkCompleted(ctx context.Context, id string, success bool, recordIDs []string, documentTypes []string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.MarkCompleted")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("record_id", id)

	return r.markTerminal(ctx, span, id, map[string]interface{}{
		"status":          enum.ProcessingCompleted,
		"success":         success,
		"records_created": len(recordIDs),
		"record_ids":      pq.StringArray(recordIDs),
		"document_types":  pq.StringArray(documentTypes),
		"completed_at":    utils.Now(),
	})
}

func (r *processedEmailRepository) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.MarkFailed")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("record_id", id)

	return r.markTerminal(ctx, span, id, map[string]interface{}{
		"status":        enum.ProcessingFailed,
		"success":       false,
		"error_message": errorMessage,
		"completed_at":  utils.Now(),
	})
}

// markTerminal only moves rows out of pending, so a record reaches a terminal
// state exactly once.
func (r *processedEmailRepository) markTerminal(ctx context.Context, span opentracing.Span, id string, updates map[string]interface{}) error {
	if id == "" {
		err := errors.New("record ID cannot be empty")
		tracing.TraceErr(span, err)
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.ProcessedEmailRecord{}).
		Where("id = ? AND status = ?", id, enum.ProcessingPending).
		Updates(updates)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		err := fmt.Errorf("processed email %s is not pending", id)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (r *processedEmailRepository) FailStalePending(ctx context.Context, maxAgeMinutes int) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedEmailRepository.FailStalePending")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	cutoff := utils.Now().Add(-time.Duration(maxAgeMinutes) * time.Minute)

	result := r.db.WithContext(ctx).
		Model(&models.ProcessedEmailRecord{}).
		Where("status = ? AND created_at < ?", enum.ProcessingPending, cutoff).
		Updates(map[string]interface{}{
			"status":        enum.ProcessingFailed,
			"success":       false,
			"error_message": "processing did not finish within the allowed window",
			"completed_at":  utils.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// isUniqueViolation detects a unique constraint error from postgres.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
