package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Fail inbound emails stuck in pending, every 15 minutes
	CronScheduleFailStaleEmails string `env:"CRON_SCHEDULE_FAIL_STALE_EMAILS" envDefault:"0 */15 * * * *"`
	// Purge old thread delete audit rows, daily at 03:00
	CronScheduleAuditPurge string `env:"CRON_SCHEDULE_AUDIT_PURGE" envDefault:"0 0 3 * * *"`

	// StaleEmailMaxAgeMinutes is how long an email may sit in pending before
	// the sweeper marks it failed.
	StaleEmailMaxAgeMinutes int `env:"STALE_EMAIL_MAX_AGE_MINUTES" envDefault:"60"`
	// AuditRetentionDays is how long thread delete audit entries are kept.
	AuditRetentionDays int `env:"AUDIT_RETENTION_DAYS" envDefault:"365"`
}
