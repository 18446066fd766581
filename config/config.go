// Package config provides configuration management for the tareas application.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting:
// every problem is reported at once instead of failing on the first missing variable.
package config

import (
	"fmt"
	// `os` package provides operating system functionalities, like reading environment variables.
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by STORE_BACKEND and SESSION_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// DatabaseConfig represents configuration for the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	SecretKey    string        // Secret key for signing session tokens
	SessionTTL   time.Duration // Lifetime of a login session
	BcryptCost   int           // Work factor for password hashes
	CookieSecure bool          // Mark the session cookie as Secure (HTTPS only)
	// LoginRatePerMinute throttles POST /login and POST /register per client IP.
	LoginRatePerMinute int
}

// RedisConfig holds the connection settings for the Redis session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MailConfig mirrors the SMTP settings of the mail relay.
type MailConfig struct {
	Server   string
	Port     int
	UseTLS   bool
	Username string
	Password string
	Sender   string
}

// Enabled reports whether an SMTP relay was configured at all.
func (m *MailConfig) Enabled() bool {
	return m.Server != ""
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port               string // Port for the HTTP server
	CORSAllowedOrigins []string
	LogLevel           string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB             *DatabaseConfig
	Auth           *AuthConfig
	Redis          *RedisConfig
	Mail           *MailConfig
	Server         *ServerConfig
	StoreBackend   string
	SessionBackend string
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional boolean environment variable.
func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return value
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m", "1h30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size between 2 and 100, recording an error when clamping.
func clampPoolSize(size int, errors *[]string) int {
	if size < 2 {
		*errors = append(*errors, fmt.Sprintf("DB_POOL_SIZE (%d) is less than minimum 2", size))
		return 2
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("DB_POOL_SIZE (%d) is greater than maximum 100", size))
		return 100
	}
	return size
}

func oneOf(key, value string, allowed []string, errors *[]string) string {
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	*errors = append(*errors, fmt.Sprintf("invalid value for %s: %q (allowed: %s)", key, value, strings.Join(allowed, ", ")))
	return allowed[0]
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	storeBackend := oneOf("STORE_BACKEND", getOptionalEnv("STORE_BACKEND", BackendPostgres),
		[]string{BackendPostgres, BackendMemory}, &errors)
	sessionBackend := oneOf("SESSION_BACKEND", getOptionalEnv("SESSION_BACKEND", BackendMemory),
		[]string{BackendMemory, BackendRedis}, &errors)

	// Database settings are only mandatory when tasks and users live in PostgreSQL.
	dbConfig := &DatabaseConfig{
		Host:        getOptionalEnv("DB_HOST", "localhost"),
		Port:        getOptionalEnvInt("DB_PORT", 5432, &errors),
		DBName:      getOptionalEnv("DB_NAME", "tareas"),
		MaxSize:     clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), &errors),
		AutoMigrate: getOptionalEnvBool("AUTO_MIGRATE", true, &errors),
	}
	if storeBackend == BackendPostgres {
		dbConfig.User = getRequiredEnv("DB_USER", &errors)
		dbConfig.Password = getRequiredEnv("DB_PASSWORD", &errors)
	}

	authConfig := &AuthConfig{
		SecretKey:          getRequiredEnv("SECRET_KEY", &errors),
		SessionTTL:         getOptionalEnvDuration("SESSION_TTL", 24*time.Hour, &errors),
		BcryptCost:         getOptionalEnvInt("BCRYPT_COST", 10, &errors),
		CookieSecure:       getOptionalEnvBool("COOKIE_SECURE", false, &errors),
		LoginRatePerMinute: getOptionalEnvInt("LOGIN_RATE_PER_MINUTE", 10, &errors),
	}
	if authConfig.BcryptCost < 4 || authConfig.BcryptCost > 31 {
		errors = append(errors, fmt.Sprintf("BCRYPT_COST (%d) must be between 4 and 31", authConfig.BcryptCost))
	}

	redisConfig := &RedisConfig{
		Addr:     getOptionalEnv("REDIS_ADDR", "localhost:6379"),
		Password: getOptionalEnv("REDIS_PASSWORD", ""),
		DB:       getOptionalEnvInt("REDIS_DB", 0, &errors),
	}

	mailConfig := &MailConfig{
		Server:   getOptionalEnv("MAIL_SERVER", ""),
		Port:     getOptionalEnvInt("MAIL_PORT", 587, &errors),
		UseTLS:   getOptionalEnvBool("MAIL_USE_TLS", true, &errors),
		Username: getOptionalEnv("MAIL_USERNAME", ""),
		Password: getOptionalEnv("MAIL_PASSWORD", ""),
	}
	mailConfig.Sender = getOptionalEnv("MAIL_SENDER", mailConfig.Username)

	serverConfig := &ServerConfig{
		// Server port is a string because it's used directly in the listen address (e.g., ":8080").
		Port:               getOptionalEnv("PORT", "8080"),
		CORSAllowedOrigins: splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getOptionalEnv("LOG_LEVEL", "info"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:             dbConfig,
		Auth:           authConfig,
		Redis:          redisConfig,
		Mail:           mailConfig,
		Server:         serverConfig,
		StoreBackend:   storeBackend,
		SessionBackend: sessionBackend,
	}, nil
}
