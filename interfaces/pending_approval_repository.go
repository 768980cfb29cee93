package interfaces

import (
	"context"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/models"
)

type PendingApprovalRepository interface {
	Create(ctx context.Context, approval *models.PendingApproval) (string, error)
	GetByID(ctx context.Context, id string) (*models.PendingApproval, error)
	ListPendingByPet(ctx context.Context, petID string) ([]*models.PendingApproval, error)
	UpdateStatus(ctx context.Context, id string, status enum.ApprovalStatus) error
}
