package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/utils"
)

// ProcessedEmailRecord is the audit and idempotency log for inbound emails.
// One row per message key; pending transitions to completed or failed exactly once.
type ProcessedEmailRecord struct {
	ID              string                     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	MessageKey      string                     `gorm:"column:message_key;type:varchar(255);uniqueIndex;not null" json:"messageKey"`
	PetID           string                     `gorm:"column:pet_id;type:varchar(50);index" json:"petId"`
	FromAddress     string                     `gorm:"column:from_address;type:varchar(255);index" json:"fromAddress"`
	Subject         string                     `gorm:"column:subject;type:varchar(1000)" json:"subject"`
	Status          enum.EmailProcessingStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	Success         bool                       `gorm:"column:success;default:false" json:"success"`
	AttachmentCount int                        `gorm:"column:attachment_count;default:0" json:"attachmentCount"`
	RecordsCreated  int                        `gorm:"column:records_created;default:0" json:"recordsCreated"`
	RecordIDs       pq.StringArray             `gorm:"column:record_ids;type:text[]" json:"recordIds"`
	DocumentTypes   pq.StringArray             `gorm:"column:document_types;type:text[]" json:"documentTypes"`
	ErrorMessage    string                     `gorm:"column:error_message;type:text" json:"errorMessage"`
	CreatedAt       time.Time                  `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	CompletedAt     *time.Time                 `gorm:"column:completed_at;type:timestamp" json:"completedAt"`
}

func (ProcessedEmailRecord) TableName() string {
	return "processed_emails"
}

func (p *ProcessedEmailRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.GenerateNanoIDWithPrefix("pmail", 16)
	}
	p.CreatedAt = utils.Now()
	return nil
}
