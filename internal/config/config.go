package config

import (
	"os"
	"strconv"
	"time"
)

type SubmissionServiceConfig struct {
	Port            string
	LogDir          string
	PostgresCfg     PostgresConfig
	MinioCfg        MinioConfig
	RedisCfg        RedisConfig
	RabbitMQCfg     RabbitMQConfig
	SMTPCfg         SMTPConfig
	AuthCfg         AuthConfig
	UploadCfg       UploadConfig
	StockMonitorCfg StockMonitorConfig
	PerformanceTTL  time.Duration
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type MinioConfig struct {
	MinioURL         string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioLocation    string
	MinioSecure      string
	MinioResourceURL string
	DocumentBucket   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type SMTPConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	HeadOfficeEmail string
}

// AuthConfig holds the shared secret of the hosted auth provider. An empty
// secret disables token checks on admin routes.
type AuthConfig struct {
	JWTSecret string
}

type UploadConfig struct {
	MaxFileMB       int64
	RatePerSecond   float64
	RateBurst       int
	AllowedMIMEType []string
}

type StockMonitorConfig struct {
	Schedule  string
	Threshold int
}

func New() *SubmissionServiceConfig {
	return &SubmissionServiceConfig{
		Port:   getEnvOrDefault("PORT", "3000"),
		LogDir: getEnvOrDefault("LOG_DIR", "/agency/log/submission_service"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "agency"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		MinioCfg: MinioConfig{
			MinioURL:         getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9000"),
			MinioAccessKey:   getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey:   getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:    getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:      getEnvOrDefault("MINIO_SECURE", "false"),
			MinioResourceURL: getEnvOrDefault("MINIO_RESOURCE_URL", "http://localhost:9000/"),
			DocumentBucket:   getEnvOrDefault("MINIO_DOCUMENT_BUCKET", "policy-documents"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		SMTPCfg: SMTPConfig{
			Host:            getEnvOrDefault("EMAIL_HOST", "smtp.gmail.com"),
			Port:            getEnvIntOrDefault("EMAIL_PORT", 587),
			Username:        getEnvOrDefault("EMAIL_USER", ""),
			Password:        getEnvOrDefault("EMAIL_PASSWORD", ""),
			HeadOfficeEmail: getEnvOrDefault("ALLIANZ_HO_EMAIL", ""),
		},
		AuthCfg: AuthConfig{
			JWTSecret: getEnvOrDefault("AUTH_JWT_SECRET", ""),
		},
		UploadCfg: UploadConfig{
			MaxFileMB:       int64(getEnvIntOrDefault("UPLOAD_MAX_FILE_MB", 10)),
			RatePerSecond:   getEnvFloatOrDefault("UPLOAD_RATE_PER_SECOND", 5),
			RateBurst:       getEnvIntOrDefault("UPLOAD_RATE_BURST", 10),
			AllowedMIMEType: []string{"image/jpeg", "image/png", "application/pdf"},
		},
		StockMonitorCfg: StockMonitorConfig{
			Schedule:  getEnvOrDefault("STOCK_MONITOR_SCHEDULE", "@daily"),
			Threshold: getEnvIntOrDefault("STOCK_MONITOR_THRESHOLD", 5),
		},
		PerformanceTTL: getEnvDurationOrDefault("PERFORMANCE_CACHE_TTL", time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
