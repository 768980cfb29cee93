package interfaces

import (
	"context"

	"github.com/pawtrail/mailroom/internal/models"
)

type PetRepository interface {
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	// GetByMailboxAlias resolves the pet owning an inbound address local-part.
	// Returns nil without error when no pet matches.
	GetByMailboxAlias(ctx context.Context, alias string) (*models.Pet, error)
}
