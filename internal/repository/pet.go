package repository

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
)

type petRepository struct {
	db *gorm.DB
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db *gorm.DB) interfaces.PetRepository {
	return &petRepository{
		db: db,
	}
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "petRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", id)

	if id == "" {
		err := errors.New("pet ID cannot be empty")
		tracing.TraceErr(span, err)
		return nil, err
	}

	var pet models.Pet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tracing.TraceErr(span, ErrPetNotFound)
			return nil, ErrPetNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &pet, nil
}

func (r *petRepository) GetByMailboxAlias(ctx context.Context, alias string) (*models.Pet, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "petRepository.GetByMailboxAlias")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("mailbox_alias", alias)

	alias = strings.ToLower(strings.TrimSpace(alias))
	if alias == "" {
		err := errors.New("mailbox alias cannot be empty")
		tracing.TraceErr(span, err)
		return nil, err
	}

	var pet models.Pet
	err := r.db.WithContext(ctx).Where("mailbox_alias = ?", alias).First(&pet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &pet, nil
}
