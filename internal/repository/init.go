package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/config"
	"github.com/pawtrail/mailroom/internal/models"
)

type Repositories struct {
	PetRepository               interfaces.PetRepository
	ProcessedEmailRepository    interfaces.ProcessedEmailRepository
	VaccinationRepository       interfaces.VaccinationRepository
	MedicationRepository        interfaces.MedicationRepository
	LabResultRepository         interfaces.LabResultRepository
	ClinicalExamRepository      interfaces.ClinicalExamRepository
	InvoiceRepository           interfaces.InvoiceRepository
	TravelRepository            interfaces.TravelRepository
	MessageThreadRepository     interfaces.MessageThreadRepository
	ThreadMessageRepository     interfaces.ThreadMessageRepository
	ThreadReadStatusRepository  interfaces.ThreadReadStatusRepository
	ThreadDeleteAuditRepository interfaces.ThreadDeleteAuditRepository
	PendingApprovalRepository   interfaces.PendingApprovalRepository
}

func InitRepositories(mailroomDB *gorm.DB) *Repositories {
	return &Repositories{
		PetRepository:               NewPetRepository(mailroomDB),
		ProcessedEmailRepository:    NewProcessedEmailRepository(mailroomDB),
		VaccinationRepository:       NewVaccinationRepository(mailroomDB),
		MedicationRepository:        NewMedicationRepository(mailroomDB),
		LabResultRepository:         NewLabResultRepository(mailroomDB),
		ClinicalExamRepository:      NewClinicalExamRepository(mailroomDB),
		InvoiceRepository:           NewInvoiceRepository(mailroomDB),
		TravelRepository:            NewTravelRepository(mailroomDB),
		MessageThreadRepository:     NewMessageThreadRepository(mailroomDB),
		ThreadMessageRepository:     NewThreadMessageRepository(mailroomDB),
		ThreadReadStatusRepository:  NewThreadReadStatusRepository(mailroomDB),
		ThreadDeleteAuditRepository: NewThreadDeleteAuditRepository(mailroomDB),
		PendingApprovalRepository:   NewPendingApprovalRepository(mailroomDB),
	}
}

func MigrateMailroomDB(dbConfig *config.MailroomDatabaseConfig, mailroomDB *gorm.DB) error {
	db, err := mailroomDB.DB()
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(5)

	err = mailroomDB.AutoMigrate(
		&models.Pet{},
		&models.ProcessedEmailRecord{},
		&models.VaccinationRecord{},
		&models.MedicationRecord{},
		&models.LabResultRecord{},
		&models.ClinicalExamRecord{},
		&models.InvoiceRecord{},
		&models.TravelRecord{},
		&models.MessageThread{},
		&models.ThreadMessage{},
		&models.ThreadReadStatus{},
		&models.ThreadDeleteAudit{},
		&models.PendingApproval{},
	)

	db.Close()

	db, _ = mailroomDB.DB()
	db.SetMaxIdleConns(dbConfig.MaxIdleConn)
	db.SetMaxOpenConns(dbConfig.MaxConn)
	db.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
