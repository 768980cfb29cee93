package config

type AppConfig struct {
	APIPort string `env:"PORT,required" envDefault:"11333"`
	APIKey  string `env:"API_KEY,required"`

	// MailDomain hosts the per-pet mailbox aliases, e.g. rex-a7k2@pets.pawtrail.app.
	MailDomain string `env:"MAIL_DOMAIN" envDefault:"pets.pawtrail.app"`
	// ReplyDomain hosts per-thread reply addresses.
	ReplyDomain string `env:"REPLY_DOMAIN" envDefault:"reply.pawtrail.app"`
}

type MailroomDatabaseConfig struct {
	Host            string `env:"MAILROOM_POSTGRES_HOST,required"`
	Port            string `env:"MAILROOM_POSTGRES_PORT,required"`
	User            string `env:"MAILROOM_POSTGRES_USER,required"`
	DBName          string `env:"MAILROOM_POSTGRES_DB_NAME,required"`
	Password        string `env:"MAILROOM_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"MAILROOM_POSTGRES_DB_MAX_CONN"`
	MaxIdleConn     int    `env:"MAILROOM_POSTGRES_DB_MAX_IDLE_CONN"`
	ConnMaxLifetime int    `env:"MAILROOM_POSTGRES_DB_CONN_MAX_LIFETIME"`
	LogLevel        string `env:"MAILROOM_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"MAILROOM_POSTGRES_SSL_MODE" envDefault:"require"`
}

type StorageConfig struct {
	Region          string `env:"STORAGE_REGION" envDefault:"auto"`
	Endpoint        string `env:"STORAGE_ENDPOINT"`
	AccessKeyID     string `env:"STORAGE_ACCESS_KEY_ID,required"`
	AccessKeySecret string `env:"STORAGE_ACCESS_KEY_SECRET,required"`
	DocumentBucket  string `env:"BUCKET_NAME_HEALTH_DOCUMENT" envDefault:"health-documents"`
	PublicBaseURL   string `env:"STORAGE_PUBLIC_BASE_URL"`
}

type ExtractionConfig struct {
	Url            string `env:"EXTRACTION_API_URL,required"`
	ApiKey         string `env:"EXTRACTION_API_KEY"`
	TimeoutSeconds int    `env:"EXTRACTION_TIMEOUT_SECONDS" envDefault:"90"`
	// MaxConcurrency caps how many attachments of one email are classified in parallel.
	MaxConcurrency int `env:"EXTRACTION_MAX_CONCURRENCY" envDefault:"4"`
}

type PushConfig struct {
	Url    string `env:"PUSH_GATEWAY_URL"`
	ApiKey string `env:"PUSH_GATEWAY_API_KEY"`
}
