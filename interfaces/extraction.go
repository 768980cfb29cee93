package interfaces

import (
	"context"

	"github.com/pawtrail/mailroom/dto"
)

// ExtractionService classifies a stored document and extracts its structured
// fields. The model behind it is opaque to the pipeline; calls may fail per
// document and such failures are non-fatal to the batch.
type ExtractionService interface {
	Classify(ctx context.Context, bucket string, path string) (*dto.ExtractionResult, error)
}
