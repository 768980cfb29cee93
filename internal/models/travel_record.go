package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

type TravelRecord struct {
	ID             string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID          string     `gorm:"column:pet_id;type:varchar(50);index;not null" json:"petId"`
	DocumentName   string     `gorm:"column:document_name;type:varchar(255)" json:"documentName"`
	IssuedAt       *time.Time `gorm:"column:issued_at;type:date" json:"issuedAt"`
	ValidUntil     *time.Time `gorm:"column:valid_until;type:date" json:"validUntil"`
	IssuingCountry string     `gorm:"column:issuing_country;type:varchar(2)" json:"issuingCountry"`

	// Provenance
	SourceEmailID string  `gorm:"column:source_email_id;type:varchar(50);index" json:"sourceEmailId"`
	DocumentURL   string  `gorm:"column:document_url;type:varchar(1000)" json:"documentUrl"`
	Confidence    float64 `gorm:"column:confidence;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (TravelRecord) TableName() string {
	return "travel_records"
}

func (r *TravelRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("trvl", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
