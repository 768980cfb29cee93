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

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) interfaces.InvoiceRepository {
	return &invoiceRepository{
		db: db,
	}
}

func (r *invoiceRepository) Create(ctx context.Context, record *models.InvoiceRecord) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "invoiceRepository.Create")
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

func (r *invoiceRepository) ListByPet(ctx context.Context, petID string) ([]*models.InvoiceRecord, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "invoiceRepository.ListByPet")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	var records []*models.InvoiceRecord
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("issued_at DESC NULLS LAST, created_at DESC").
		Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return records, nil
}
