package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

type InvoiceRecord struct {
	ID          string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID       string     `gorm:"column:pet_id;type:varchar(50);index;not null" json:"petId"`
	Vendor      string     `gorm:"column:vendor;type:varchar(255)" json:"vendor"`
	IssuedAt    *time.Time `gorm:"column:issued_at;type:date;index" json:"issuedAt"`
	TotalAmount float64    `gorm:"column:total_amount;default:0" json:"totalAmount"`
	Currency    string     `gorm:"column:currency;type:varchar(10)" json:"currency"`
	LineItems   JSONMap    `gorm:"column:line_items;type:jsonb" json:"lineItems"`

	// Provenance
	SourceEmailID string  `gorm:"column:source_email_id;type:varchar(50);index" json:"sourceEmailId"`
	DocumentURL   string  `gorm:"column:document_url;type:varchar(1000)" json:"documentUrl"`
	Confidence    float64 `gorm:"column:confidence;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (InvoiceRecord) TableName() string {
	return "invoice_records"
}

func (r *InvoiceRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("invc", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
