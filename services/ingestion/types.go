package ingestion

import (
	"github.com/pawtrail/mailroom/dto"
	"github.com/pawtrail/mailroom/internal/enum"
)

// PetValidationResult is the outcome of checking a document's extracted pet
// identity against the target pet's profile.
type PetValidationResult struct {
	Outcome   enum.ValidationOutcome
	Extracted *dto.ExtractedPetIdentity
	// MismatchedFields names the fields that disagreed when Outcome is mismatched.
	MismatchedFields []string
}

// ProcessedAttachment joins an attachment with everything the pipeline learned
// about it. One entry per attachment, in email order; the notification step
// reads the whole list at once.
type ProcessedAttachment struct {
	Attachment   dto.AttachmentPointer
	Extraction   *dto.ExtractionResult
	DocumentType enum.DocumentType
	Validation   *PetValidationResult

	// FailureMessage is set when classification or persistence failed for this
	// attachment alone.
	FailureMessage string

	SkipReason enum.SkipReason
	// Duplicate marks attachments whose every candidate row already existed.
	Duplicate bool

	DBInserted bool
	RecordIDs  []string
}

func (a *ProcessedAttachment) skipped() bool {
	return a.SkipReason != "" || a.FailureMessage != "" || a.Duplicate
}
