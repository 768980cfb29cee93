package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
)

type labResultRepository struct {
	db *gorm.DB
}

// NewLabResultRepository creates a new lab result repository
func NewLabResultRepository(db *gorm.DB) interfaces.LabResultRepository {
	return &labResultRepository{
		db: db,
	}
}

func (r *labResultRepository) Create(ctx context.Context, record *models.LabResultRecord) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "labResultRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if record == nil {
		err := errors.New("record cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}
	if record.PetID == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return "", ErrInvalidInput
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateRecord
		}
		tracing.TraceErr(span, err)
		return "", err
	}

	return record.ID, nil
}

func (r *labResultRepository) ListByPet(ctx context.Context, petID string) ([]*models.LabResultRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "labResultRepository.ListByPet")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	var records []*models.LabResultRecord
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("test_date DESC NULLS LAST, created_at DESC").
		Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return records, nil
}

func (r *labResultRepository) FindMatching(ctx context.Context, petID string, testType string, testDate *time.Time, labName string) (*models.LabResultRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "labResultRepository.FindMatching")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	if petID == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return nil, ErrInvalidInput
	}

	// Normalization is Go-side; fetch the pet's results and compare in memory.
	// Lab histories per pet are small.
	var records []*models.LabResultRecord
	err := r.db.WithContext(ctx).Where("pet_id = ?", petID).Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	for _, existing := range records {
		if LabResultMatches(existing, testType, testDate, labName) {
			return existing, nil
		}
	}

	return nil, nil
}
