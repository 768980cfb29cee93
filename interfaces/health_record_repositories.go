package interfaces

import (
	"context"
	"time"

	"github.com/pawtrail/mailroom/internal/models"
)

type VaccinationRepository interface {
	Create(ctx context.Context, record *models.VaccinationRecord) (string, error)
	ListByPet(ctx context.Context, petID string) ([]*models.VaccinationRecord, error)
}

type MedicationRepository interface {
	Create(ctx context.Context, record *models.MedicationRecord) (string, error)
	ListByPet(ctx context.Context, petID string) ([]*models.MedicationRecord, error)
	// FindMatching returns the stored medication considered a duplicate of the
	// given (name, start date) pair, nil when none matches.
	FindMatching(ctx context.Context, petID string, name string, startDate *time.Time) (*models.MedicationRecord, error)
}

type LabResultRepository interface {
	Create(ctx context.Context, record *models.LabResultRecord) (string, error)
	ListByPet(ctx context.Context, petID string) ([]*models.LabResultRecord, error)
	// FindMatching returns the stored lab result considered a duplicate of the
	// given (test type, test date, lab name) triple, nil when none matches.
	FindMatching(ctx context.Context, petID string, testType string, testDate *time.Time, labName string) (*models.LabResultRecord, error)
}

type ClinicalExamRepository interface {
	Create(ctx context.Context, record *models.ClinicalExamRecord) (string, error)
	ListByPet(ctx context.Context, petID string) ([]*models.ClinicalExamRecord, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, record *models.InvoiceRecord) (string, error)
	ListByPet(ctx context.Context, petID string) ([]*models.InvoiceRecord, error)
}

type TravelRepository interface {
	Create(ctx context.Context, record *models.TravelRecord) (string, error)
	ListByPet(ctx context.Context, petID string) ([]*models.TravelRecord, error)
}
