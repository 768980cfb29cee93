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

type medicationRepository struct {
	db *gorm.DB
}

// NewMedicationRepository creates a new medication repository
func NewMedicationRepository(db *gorm.DB) interfaces.MedicationRepository {
	return &medicationRepository{
		db: db,
	}
}

func (r *medicationRepository) Create(ctx context.Context, record *models.MedicationRecord) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "medicationRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if record == nil {
		err := errors.New("record cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}
	if record.PetID == "" || record.Name == "" {
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

func (r *medicationRepository) ListByPet(ctx context.Context, petID string) ([]*models.MedicationRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "medicationRepository.ListByPet")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	var records []*models.MedicationRecord
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("start_date DESC NULLS LAST, created_at DESC").
		Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return records, nil
}

func (r *medicationRepository) FindMatching(ctx context.Context, petID string, name string, startDate *time.Time) (*models.MedicationRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "medicationRepository.FindMatching")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	if petID == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return nil, ErrInvalidInput
	}

	var records []*models.MedicationRecord
	err := r.db.WithContext(ctx).Where("pet_id = ?", petID).Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	for _, existing := range records {
		if MedicationMatches(existing, name, startDate) {
			return existing, nil
		}
	}

	return nil, nil
}
