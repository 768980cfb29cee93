package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/config"
	"github.com/pawtrail/mailroom/internal/database"
	"github.com/pawtrail/mailroom/internal/repository"
	"github.com/pawtrail/mailroom/server"
)

func main() {
	app := &cli.App{
		Name:  "mailroom",
		Usage: "inbound email ingestion for pet health records",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(c *cli.Context) error {
					cfg, mailroomDB := mustSetup()
					if err := repository.MigrateMailroomDB(cfg.MailroomDatabaseConfig, mailroomDB); err != nil {
						log.Fatalf("Database migration failed: %v", err)
					}
					log.Println("Database migration completed successfully")
					return nil
				},
			},
			{
				Name:  "server",
				Usage: "Start the application server",
				Action: func(c *cli.Context) error {
					cfg, mailroomDB := mustSetup()

					log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
					log.Println("Mailroom starting up...")

					srv, err := server.NewServer(cfg, mailroomDB)
					if err != nil {
						log.Fatalf("Server setup failed: %v", err)
					}

					if err := srv.Run(); err != nil {
						log.Fatalf("Server startup failed: %v", err)
					}

					log.Println("Shutdown complete")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mustSetup() (*config.Config, *gorm.DB) {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}
	if cfg == nil {
		log.Fatalf("config is empty")
	}

	mailroomDB, err := database.InitMailroomDatabase(&database.DatabaseConfig{
		DBName:          cfg.MailroomDatabaseConfig.DBName,
		Host:            cfg.MailroomDatabaseConfig.Host,
		Port:            cfg.MailroomDatabaseConfig.Port,
		User:            cfg.MailroomDatabaseConfig.User,
		Password:        cfg.MailroomDatabaseConfig.Password,
		MaxConn:         cfg.MailroomDatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.MailroomDatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.MailroomDatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.MailroomDatabaseConfig.LogLevel,
		SSLMode:         cfg.MailroomDatabaseConfig.SSLMode,
	})
	if err != nil {
		log.Fatalf("Mailroom database initialization failed: %v", err)
	}

	return cfg, mailroomDB
}
