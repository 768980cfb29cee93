package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

type MedicationRecord struct {
	ID           string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID        string     `gorm:"column:pet_id;type:varchar(50);index;not null" json:"petId"`
	Name         string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Dosage       string     `gorm:"column:dosage;type:varchar(255)" json:"dosage"`
	Frequency    string     `gorm:"column:frequency;type:varchar(255)" json:"frequency"`
	StartDate    *time.Time `gorm:"column:start_date;type:date;index" json:"startDate"`
	EndDate      *time.Time `gorm:"column:end_date;type:date" json:"endDate"`
	PrescribedBy string     `gorm:"column:prescribed_by;type:varchar(255)" json:"prescribedBy"`

	// Provenance
	SourceEmailID string  `gorm:"column:source_email_id;type:varchar(50);index" json:"sourceEmailId"`
	DocumentURL   string  `gorm:"column:document_url;type:varchar(1000)" json:"documentUrl"`
	Confidence    float64 `gorm:"column:confidence;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (MedicationRecord) TableName() string {
	return "medication_records"
}

func (r *MedicationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("medi", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
