package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

type ClinicalExamRecord struct {
	ID        string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID     string     `gorm:"column:pet_id;type:varchar(50);index;not null" json:"petId"`
	ExamDate  *time.Time `gorm:"column:exam_date;type:date;index" json:"examDate"`
	VetName   string     `gorm:"column:vet_name;type:varchar(255)" json:"vetName"`
	Diagnosis string     `gorm:"column:diagnosis;type:text" json:"diagnosis"`
	Notes     string     `gorm:"column:notes;type:text" json:"notes"`

	// Vitals holds measured values such as weight, temperature and heart rate.
	Vitals JSONMap `gorm:"column:vitals;type:jsonb" json:"vitals"`

	// Provenance
	SourceEmailID string  `gorm:"column:source_email_id;type:varchar(50);index" json:"sourceEmailId"`
	DocumentURL   string  `gorm:"column:document_url;type:varchar(1000)" json:"documentUrl"`
	Confidence    float64 `gorm:"column:confidence;default:0" json:"confidence"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (ClinicalExamRecord) TableName() string {
	return "clinical_exam_records"
}

func (r *ClinicalExamRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("exam", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
