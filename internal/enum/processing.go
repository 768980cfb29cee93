package enum

type EmailProcessingStatus string

const (
	ProcessingPending   EmailProcessingStatus = "pending"
	ProcessingCompleted EmailProcessingStatus = "completed"
	ProcessingFailed    EmailProcessingStatus = "failed"
)

func (t EmailProcessingStatus) String() string {
	return string(t)
}

type ValidationOutcome string

const (
	ValidationMatched    ValidationOutcome = "matched"
	ValidationMismatched ValidationOutcome = "mismatched"
	ValidationNoInfo     ValidationOutcome = "no_info"
)

func (t ValidationOutcome) String() string {
	return string(t)
}

type SkipReason string

const (
	SkipNoPetInfo          SkipReason = "no_pet_info"
	SkipMicrochipMismatch  SkipReason = "microchip_mismatch"
	SkipAttributesMismatch SkipReason = "attributes_mismatch"
)

func (t SkipReason) String() string {
	return string(t)
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (t ApprovalStatus) String() string {
	return string(t)
}

type ValidationStatus string

const (
	ValidationStatusCorrect   ValidationStatus = "correct"
	ValidationStatusIncorrect ValidationStatus = "incorrect"
)

func (t ValidationStatus) String() string {
	return string(t)
}
