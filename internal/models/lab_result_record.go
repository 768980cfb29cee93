package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

type LabResultRecord struct {
	ID       string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID    string     `gorm:"column:pet_id;type:varchar(50);index;not null" json:"petId"`
	TestType string     `gorm:"column:test_type;type:varchar(255);index;not null" json:"testType"`
	TestDate *time.Time `gorm:"column:test_date;type:date;index" json:"testDate"`
	LabName  string     `gorm:"column:lab_name;type:varchar(255)" json:"labName"`
	VetName  string     `gorm:"column:vet_name;type:varchar(255)" json:"vetName"`

	// Results holds the individual test rows (analyte, value, unit, reference range).
	Results JSONMap `gorm:"column:results;type:jsonb" json:"results"`

	// Provenance
	SourceEmailID string  `gorm:"column:source_email_id;type:varchar(50);index" json:"sourceEmailId"`
	DocumentURL   string  `gorm:"column:document_url;type:varchar(1000)" json:"documentUrl"`
	Confidence    float64 `gorm:"column:confidence;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (LabResultRecord) TableName() string {
	return "lab_result_records"
}

func (r *LabResultRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("lab", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
