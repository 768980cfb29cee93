package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

type VaccinationRecord struct {
	ID             string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID          string     `gorm:"column:pet_id;type:varchar(50);index;not null" json:"petId"`
	VaccineName    string     `gorm:"column:vaccine_name;type:varchar(255);not null" json:"vaccineName"`
	AdministeredAt *time.Time `gorm:"column:administered_at;type:date" json:"administeredAt"`
	ValidUntil     *time.Time `gorm:"column:valid_until;type:date" json:"validUntil"`
	VetName        string     `gorm:"column:vet_name;type:varchar(255)" json:"vetName"`
	BatchNumber    string     `gorm:"column:batch_number;type:varchar(100)" json:"batchNumber"`

	// Provenance
	SourceEmailID string  `gorm:"column:source_email_id;type:varchar(50);index" json:"sourceEmailId"`
	DocumentURL   string  `gorm:"column:document_url;type:varchar(1000)" json:"documentUrl"`
	Confidence    float64 `gorm:"column:confidence;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (VaccinationRecord) TableName() string {
	return "vaccination_records"
}

func (r *VaccinationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("vacc", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
