package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Session registry
	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisTLS       bool

	// Appointment ledger
	LedgerBackend     string
	DatabaseURL       string
	AppointmentsTable string
	AuditEnabled      bool

	// AWS (DynamoDB ledger)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Conversation
	ProposalDays int
	Timezone     string
	ConfirmYes   string
	ConfirmNo    string

	MetricsAddr string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SessionBackend: strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", "memory"))),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisTLS:       getEnvAsBool("REDIS_TLS", false),

		LedgerBackend:     strings.ToLower(strings.TrimSpace(getEnv("LEDGER_BACKEND", "memory"))),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AppointmentsTable: getEnv("APPOINTMENTS_TABLE", "appointments"),
		AuditEnabled:      getEnvAsBool("AUDIT_ENABLED", false),

		AWSRegion:           getEnv("AWS_REGION", "sa-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		ProposalDays: getEnvAsInt("PROPOSAL_DAYS", 7),
		Timezone:     getEnv("TIMEZONE", "America/Sao_Paulo"),
		ConfirmYes:   getEnv("CONFIRM_YES", "sim"),
		ConfirmNo:    getEnv("CONFIRM_NO", "não"),

		MetricsAddr: getEnv("METRICS_ADDR", ""),
	}
}

// LoadDotEnv loads variables from the given .env files (or ./.env) without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Location resolves Timezone, falling back to the host's local zone.
func (c *Config) Location() *time.Location {
	if c == nil || strings.TrimSpace(c.Timezone) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
