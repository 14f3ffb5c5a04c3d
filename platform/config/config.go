// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for the admin middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	IsDevelopment() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string
	GetBrevoAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// SMSConfig provides settings for SMS sending.
type SMSConfig interface {
	GetSMSEnabled() bool
	GetSMSAccountSID() string
	GetSMSAuthToken() string
	GetSMSFromNumber() string
	GetSMSAPIBase() string
}

// AutomationConfig provides settings for the engagement automation pipeline.
type AutomationConfig interface {
	GetBookingLinkBase() string
	GetSequenceMinDelay() time.Duration
	GetSequenceMaxDelay() time.Duration
}

// WebhookConfig provides settings for inbound scheduling webhooks.
type WebhookConfig interface {
	GetCalendlyWebhookSecret() string
}

// StorageConfig provides settings for the MinIO resource bucket.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketResources() string
	IsMinIOEnabled() bool
}

// ContentConfig provides settings for AI content drafting.
type ContentConfig interface {
	GetGeminiAPIKey() string
	IsContentEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	JWTAccessSecret       string
	CORSAllowAll          bool
	CORSOrigins           []string
	BookingLinkBase       string
	CalendlyWebhookSecret string
	SequenceMinDelay      time.Duration
	SequenceMaxDelay      time.Duration
	EmailEnabled          bool
	EmailProvider         string
	BrevoAPIKey           string
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	EmailFromName         string
	EmailFromAddress      string
	SMSAccountSID         string
	SMSAuthToken          string
	SMSFromNumber         string
	SMSAPIBase            string
	MinIOEndpoint         string
	MinIOAccessKey        string
	MinIOSecretKey        string
	MinIOUseSSL           bool
	MinioBucketResources  string
	GeminiAPIKey          string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) IsDevelopment() bool      { return strings.EqualFold(c.Env, "development") }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// SMSConfig implementation
func (c *Config) GetSMSEnabled() bool {
	return c.SMSAccountSID != "" && c.SMSAuthToken != "" && c.SMSFromNumber != ""
}
func (c *Config) GetSMSAccountSID() string { return c.SMSAccountSID }
func (c *Config) GetSMSAuthToken() string  { return c.SMSAuthToken }
func (c *Config) GetSMSFromNumber() string { return c.SMSFromNumber }
func (c *Config) GetSMSAPIBase() string    { return c.SMSAPIBase }

// AutomationConfig implementation
func (c *Config) GetBookingLinkBase() string         { return c.BookingLinkBase }
func (c *Config) GetSequenceMinDelay() time.Duration { return c.SequenceMinDelay }
func (c *Config) GetSequenceMaxDelay() time.Duration { return c.SequenceMaxDelay }

// WebhookConfig implementation
func (c *Config) GetCalendlyWebhookSecret() string { return c.CalendlyWebhookSecret }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketResources() string { return c.MinioBucketResources }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// ContentConfig implementation
func (c *Config) GetGeminiAPIKey() string { return c.GeminiAPIKey }
func (c *Config) IsContentEnabled() bool  { return c.GeminiAPIKey != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	brevoAPIKey := getEnv("BREVO_API_KEY", "")
	smtpHost := getEnv("SMTP_HOST", "")
	emailProvider := strings.ToLower(getEnv("EMAIL_PROVIDER", "brevo"))
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")
	emailConfigured := (emailProvider == "brevo" && brevoAPIKey != "") ||
		(emailProvider == "smtp" && smtpHost != "")

	minDelay := mustDuration(getEnv("SEQUENCE_MIN_DELAY", "10s"))
	maxDelay := mustDuration(getEnv("SEQUENCE_MAX_DELAY", "20s"))
	if minDelay <= 0 || maxDelay < minDelay {
		minDelay = 10 * time.Second
		maxDelay = 20 * time.Second
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTAccessSecret:       getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
		BookingLinkBase:       getEnv("BOOKING_LINK_BASE", "https://calendly.com/leadflow/intro-call"),
		CalendlyWebhookSecret: getEnv("CALENDLY_WEBHOOK_SECRET", ""),
		SequenceMinDelay:      minDelay,
		SequenceMaxDelay:      maxDelay,
		EmailEnabled:          emailEnabled && emailConfigured,
		EmailProvider:         emailProvider,
		BrevoAPIKey:           brevoAPIKey,
		SMTPHost:              smtpHost,
		SMTPPort:              mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		EmailFromName:         getEnv("EMAIL_FROM_NAME", "LeadFlow"),
		EmailFromAddress:      getEnv("EMAIL_FROM_ADDRESS", ""),
		SMSAccountSID:         getEnv("SMS_ACCOUNT_SID", ""),
		SMSAuthToken:          getEnv("SMS_AUTH_TOKEN", ""),
		SMSFromNumber:         getEnv("SMS_FROM_NUMBER", ""),
		SMSAPIBase:            getEnv("SMS_API_BASE", "https://api.twilio.com"),
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:        getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:           strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketResources:  getEnv("MINIO_BUCKET_RESOURCES", "nurture-resources"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
