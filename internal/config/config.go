package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	JWTSecret        string
	JWTExpirySeconds int64

	// DefaultTaxRate applies when the tax_rate setting is absent or
	// malformed. NetworkPaymentMarkers are the payment-method literals
	// that make a ticket VAT-inclusive.
	DefaultTaxRate        float64
	NetworkPaymentMarkers []string

	TrackingTokenSecret string
	MaxFileSizeBytes    int64

	RabbitMQURL        string
	RabbitMQWorkerMode string

	CorsAllowedOrigins []string

	// Company identity printed on invoices, Arabic and English.
	CompanyNameAR    string
	CompanyNameEN    string
	CompanyVATNumber string
	CompanyCRNumber  string
	CompanyAddress   string
	CompanyPhone     string

	ObjectStoreEndpoint        string
	ObjectStoreRegion          string
	ObjectStoreAccessKeyID     string
	ObjectStoreSecretAccessKey string
	ObjectStoreBucket          string
	ObjectStorePublicBaseURL   string
	ObjectStoreStorageClass    string
}

func Load() Config {
	cfg := Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8087"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpirySeconds: getEnvInt64("JWT_EXPIRY", 43200),

		DefaultTaxRate:        getEnvFloat("DEFAULT_TAX_RATE", 0.15),
		NetworkPaymentMarkers: splitCSV(getEnv("PAYMENT_NETWORK_MARKERS", "شبكة,network")),

		TrackingTokenSecret: getEnv("TICKET_TRACKING_TOKEN_SECRET", "dev-insecure-tracking-secret"),
		MaxFileSizeBytes:    getEnvInt64("MAX_FILE_SIZE", 5*1024*1024),

		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RabbitMQWorkerMode: getEnv("RABBITMQ_WORKER_MODE", "daemon"),

		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),

		CompanyNameAR:    getEnv("COMPANY_NAME_AR", "ورشة السيارات"),
		CompanyNameEN:    getEnv("COMPANY_NAME_EN", "Auto Workshop"),
		CompanyVATNumber: getEnv("COMPANY_VAT_NUMBER", ""),
		CompanyCRNumber:  getEnv("COMPANY_CR_NUMBER", ""),
		CompanyAddress:   getEnv("COMPANY_ADDRESS", ""),
		CompanyPhone:     getEnv("COMPANY_PHONE", ""),

		ObjectStoreEndpoint:        getEnv("OBJECT_STORE_ENDPOINT", ""),
		ObjectStoreRegion:          getEnv("OBJECT_STORE_REGION", "auto"),
		ObjectStoreAccessKeyID:     getEnv("OBJECT_STORE_ACCESS_KEY_ID", ""),
		ObjectStoreSecretAccessKey: getEnv("OBJECT_STORE_SECRET_ACCESS_KEY", ""),
		ObjectStoreBucket:          getEnv("OBJECT_STORE_BUCKET", ""),
		ObjectStorePublicBaseURL:   getEnv("OBJECT_STORE_PUBLIC_BASE_URL", ""),
		ObjectStoreStorageClass:    getEnv("OBJECT_STORE_STORAGE_CLASS", "STANDARD"),
	}

	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 5 * 1024 * 1024
	}
	if cfg.DefaultTaxRate <= 0 || cfg.DefaultTaxRate >= 1 {
		cfg.DefaultTaxRate = 0.15
	}

	return cfg
}

func (c Config) ObjectStoreEnabled() bool {
	return strings.TrimSpace(c.ObjectStoreEndpoint) != "" &&
		strings.TrimSpace(c.ObjectStoreBucket) != "" &&
		strings.TrimSpace(c.ObjectStorePublicBaseURL) != ""
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
