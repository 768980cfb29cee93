package interfaces

import (
	"context"

	"github.com/pawtrail/mailroom/dto"
)

// IngestionService runs the inbound-email pipeline and resolves held approvals.
type IngestionService interface {
	// ProcessInboundEmail runs one email to a terminal state. The returned error
	// reflects intake-level failure only; per-attachment failures degrade to
	// recorded outcomes.
	ProcessInboundEmail(ctx context.Context, email dto.InboundEmail) error

	// ApprovePending persists a held document through the regular dedup/persist
	// path. saveAnyway also writes records flagged as duplicates.
	ApprovePending(ctx context.Context, approvalID string, saveAnyway bool) (*dto.SaveOutcome, error)
	RejectPending(ctx context.Context, approvalID string) error

	// SaveRecords writes one extraction result directly, with the same duplicate
	// partitioning the pipeline uses. Backs the batch-save review surface.
	SaveRecords(ctx context.Context, petID string, sourceEmailID string, result *dto.ExtractionResult, documentURL string, saveAnyway bool) (*dto.SaveOutcome, error)
}
