package services

import (
	"github.com/pawtrail/mailroom/interfaces"
	"github.com/pawtrail/mailroom/internal/config"
	"github.com/pawtrail/mailroom/internal/logger"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/services/extraction"
	"github.com/pawtrail/mailroom/services/ingestion"
	"github.com/pawtrail/mailroom/services/notifications"
	"github.com/pawtrail/mailroom/services/storage"
)

type Services struct {
	StorageService      interfaces.StorageService
	ExtractionService   interfaces.ExtractionService
	NotificationService interfaces.NotificationService
	IngestionService    interfaces.IngestionService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	storageService := storage.NewDocumentStorageService(cfg.StorageConfig)
	extractionService := extraction.NewExtractionService(cfg.ExtractionConfig)
	notificationService := notifications.NewPushService(cfg.PushConfig, log)

	services := Services{
		StorageService:      storageService,
		ExtractionService:   extractionService,
		NotificationService: notificationService,
		IngestionService: ingestion.NewIngestionService(
			log,
			cfg,
			repos,
			storageService,
			extractionService,
			notificationService,
		),
	}

	return &services, nil
}
