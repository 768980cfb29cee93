package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/pawtrail/mailroom/internal/logger"
	"github.com/pawtrail/mailroom/internal/tracing"
)

type Config struct {
	AppConfig              *AppConfig
	Logger                 *logger.Config
	Tracing                *tracing.JaegerConfig
	MailroomDatabaseConfig *MailroomDatabaseConfig
	StorageConfig          *StorageConfig
	ExtractionConfig       *ExtractionConfig
	PushConfig             *PushConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:              &AppConfig{},
		Logger:                 &logger.Config{},
		Tracing:                &tracing.JaegerConfig{},
		MailroomDatabaseConfig: &MailroomDatabaseConfig{},
		StorageConfig:          &StorageConfig{},
		ExtractionConfig:       &ExtractionConfig{},
		PushConfig:             &PushConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading mailroom config: %v", err)
	}

	return config, nil
}
