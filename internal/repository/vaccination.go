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

type vaccinationRepository struct {
	db *gorm.DB
}

// NewVaccinationRepository creates a new vaccination repository
func NewVaccinationRepository(db *gorm.DB) interfaces.VaccinationRepository {
	return &vaccinationRepository{
		db: db,
	}
}

func (r *vaccinationRepository) Create(ctx context.Context, record *models.VaccinationRecord) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "vaccinationRepository.Create")
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

func (r *vaccinationRepository) ListByPet(ctx context.Context, petID string) ([]*models.VaccinationRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "vaccinationRepository.ListByPet")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	var records []*models.VaccinationRecord
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("administered_at DESC NULLS LAST, created_at DESC").
		Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return records, nil
}
