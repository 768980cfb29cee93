package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
)

type clinicalExamRepository struct {
	db *gorm.DB
}

// NewClinicalExamRepository creates a new clinical exam repository
func NewClinicalExamRepository(db *gorm.DB) interfaces.ClinicalExamRepository {
	return &clinicalExamRepository{
		db: db,
	}
}

func (r *clinicalExamRepository) Create(ctx context.Context, record *models.ClinicalExamRecord) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "clinicalExamRepository.Create")
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

func (r *clinicalExamRepository) ListByPet(ctx context.Context, petID string) ([]*models.ClinicalExamRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "clinicalExamRepository.ListByPet")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	var records []*models.ClinicalExamRecord
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("exam_date DESC NULLS LAST, created_at DESC").
		Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return records, nil
}
