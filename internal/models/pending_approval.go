package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/utils"
)

// PendingApproval holds an extracted document whose pet validation was
// inconclusive or mismatched, awaiting an owner decision in the review UI.
// The pipeline only creates these; resolution happens through the REST surface.
type PendingApproval struct {
	ID            string            `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID         string            `gorm:"column:pet_id;type:varchar(50);index;not null" json:"petId"`
	SourceEmailID string            `gorm:"column:source_email_id;type:varchar(50);index" json:"sourceEmailId"`
	Filename      string            `gorm:"column:filename;type:varchar(500)" json:"filename"`
	DocumentType  enum.DocumentType `gorm:"column:document_type;type:varchar(50);index" json:"documentType"`
	DocumentURL   string            `gorm:"column:document_url;type:varchar(1000)" json:"documentUrl"`
	Confidence    float64           `gorm:"column:confidence;default:0" json:"confidence"`

	// Payload is the raw extraction result, replayed through the persister on approval.
	Payload JSONMap `gorm:"column:payload;type:jsonb" json:"payload"`

	ValidationStatus enum.ValidationStatus `gorm:"column:validation_status;type:varchar(20)" json:"validationStatus"`
	ValidationErrors JSONMap               `gorm:"column:validation_errors;type:jsonb" json:"validationErrors"`

	Status     enum.ApprovalStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	ResolvedAt *time.Time          `gorm:"column:resolved_at;type:timestamp" json:"resolvedAt"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (PendingApproval) TableName() string {
	return "pending_approvals"
}

func (p *PendingApproval) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.GenerateNanoIDWithPrefix("appr", 16)
	}
	p.CreatedAt = utils.Now()
	return nil
}
