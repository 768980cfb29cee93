package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
	"github.com/pawtrail/mailroom/internal/tracing"
	"github.com/pawtrail/mailroom/internal/utils"
)

type pendingApprovalRepository struct {
	db *gorm.DB
}

// NewPendingApprovalRepository creates a new pending approval repository
func NewPendingApprovalRepository(db *gorm.DB) interfaces.PendingApprovalRepository {
	return &pendingApprovalRepository{
		db: db,
	}
}

func (r *pendingApprovalRepository) Create(ctx context.Context, approval *models.PendingApproval) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pendingApprovalRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if approval == nil {
		err := errors.New("approval cannot be nil")
		tracing.TraceErr(span, err)
		return "", err
	}
	if approval.PetID == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return "", ErrInvalidInput
	}
	if approval.Status == "" {
		approval.Status = enum.ApprovalPending
	}
	span.SetTag("pet_id", approval.PetID)

	if err := r.db.WithContext(ctx).Create(approval).Error; err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	return approval.ID, nil
}

func (r *pendingApprovalRepository) GetByID(ctx context.Context, id string) (*models.PendingApproval, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pendingApprovalRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("approval_id", id)

	if id == "" {
		err := errors.New("approval ID cannot be empty")
		tracing.TraceErr(span, err)
		return nil, err
	}

	var approval models.PendingApproval
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprovalNotFound
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &approval, nil
}

func (r *pendingApprovalRepository) ListPendingByPet(ctx context.Context, petID string) ([]*models.PendingApproval, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pendingApprovalRepository.ListPendingByPet")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("pet_id", petID)

	var approvals []*models.PendingApproval
	err := r.db.WithContext(ctx).
		Where("pet_id = ? AND status = ?", petID, enum.ApprovalPending).
		Order("created_at DESC").
		Find(&approvals).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return approvals, nil
}

// UpdateStatus resolves an approval. Only pending rows move, so a decision
// is applied exactly once.
func (r *pendingApprovalRepository) UpdateStatus(ctx context.Context, id string, status enum.ApprovalStatus) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pendingApprovalRepository.UpdateStatus")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("approval_id", id)
	span.SetTag("status", string(status))

	if id == "" || status == "" {
		tracing.TraceErr(span, ErrInvalidInput)
		return ErrInvalidInput
	}

	result := r.db.WithContext(ctx).
		Model(&models.PendingApproval{}).
		Where("id = ? AND status = ?", id, enum.ApprovalPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": utils.Now(),
			"updated_at":  utils.Now(),
		})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		tracing.TraceErr(span, ErrApprovalNotFound)
		return ErrApprovalNotFound
	}

	return nil
}
