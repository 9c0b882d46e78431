package config

import (
	"time"

	"github.com/spf13/viper"
)

// The service runs as a pod; DB credentials, queue URLs and the records API
// location are injected as environment variables.

type Config struct {
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	ServerPort        string        `mapstructure:"SERVER_PORT"`
	IsLocalDev        bool          `mapstructure:"IS_LOCAL_DEV"`
	AWSRegion         string        `mapstructure:"AWS_REGION"`
	AWSEndpoint       string        `mapstructure:"AWS_ENDPOINT"`
	ReportSQSQueueURL string        `mapstructure:"REPORT_SQS_QUEUE_URL"`
	EmailSQSQueueURL  string        `mapstructure:"EMAIL_SQS_QUEUE_URL"`
	ReportSender      string        `mapstructure:"REPORT_SENDER_EMAIL"`
	RecordsAPIURL     string        `mapstructure:"RECORDS_API_URL"`
	FetchTimeout      time.Duration `mapstructure:"FETCH_TIMEOUT"`
	FetchConcurrency  int           `mapstructure:"FETCH_CONCURRENCY"`
	BatchConcurrency  int           `mapstructure:"BATCH_CONCURRENCY"`
	LateCutoff        string        `mapstructure:"LATE_CUTOFF"`
	Timezone          string        `mapstructure:"TIMEZONE"`
	OTELEndpoint      string        `mapstructure:"OTEL_ENDPOINT"`
}

// LoadConfig reads configuration from environment variables on top of defaults.
func LoadConfig() (config Config, err error) {
	v := viper.New()
	setDefaults(v)

	// Read in environment variables that match the keys.
	v.AutomaticEnv()

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "db")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "attendance_db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("IS_LOCAL_DEV", false)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	v.SetDefault("REPORT_SQS_QUEUE_URL", "http://localstack:4566/000000000000/report-queue")
	v.SetDefault("EMAIL_SQS_QUEUE_URL", "http://localstack:4566/000000000000/email-queue")
	v.SetDefault("REPORT_SENDER_EMAIL", "reports@attendance-service.com")
	v.SetDefault("RECORDS_API_URL", "http://localhost:8081")
	v.SetDefault("FETCH_TIMEOUT", 10*time.Second)
	v.SetDefault("FETCH_CONCURRENCY", 8)
	v.SetDefault("BATCH_CONCURRENCY", 4)
	v.SetDefault("LATE_CUTOFF", "09:00")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("OTEL_ENDPOINT", "")
}

// Location resolves the organization time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
