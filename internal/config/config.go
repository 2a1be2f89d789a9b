package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(os.Getenv("APP_ENV")))
}

// LevelForEnvironment maps APP_ENV to the default log level
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "", "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port        int      `json:"port"`
	Host        string   `json:"host"`
	Environment string   `json:"environment"`
	CORSOrigins []string `json:"cors_origins"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`
	DBRetries  int    `json:"db_retries"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret         string  `json:"jwt_secret"`
	TokenTTLMinutes   int     `json:"token_ttl_minutes"`
	OAuthClientID     string  `json:"oauth_client_id"`
	OAuthClientSecret string  `json:"oauth_client_secret"`
	LoginRateLimit    float64 `json:"login_rate_limit"`
	LoginRateBurst    int     `json:"login_rate_burst"`

	// Claim ledger collaborator
	LedgerBaseURL string `json:"ledger_base_url"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, Environment: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], OAuthClientID: %s, OAuthClientSecret: [REDACTED], LedgerBaseURL: %s}",
		c.Port, c.Host, c.Environment, c.DBDriver, c.DBPath, c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.OAuthClientID, maskURL(c.LedgerBaseURL))
}

// maskURL masks password in a URL
func maskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It validates numeric values and the ledger base URL
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	ttl, err := strconv.Atoi(GetEnvWithDefault("TOKEN_TTL_MINUTES", "60"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: must be a positive integer")
	}

	rateLimit, err := strconv.ParseFloat(GetEnvWithDefault("LOGIN_RATE_LIMIT", "5"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_RATE_LIMIT: must be a positive number")
	}

	burst, err := strconv.Atoi(GetEnvWithDefault("LOGIN_RATE_BURST", "10"))
	if err != nil || burst <= 0 {
		return nil, fmt.Errorf("invalid LOGIN_RATE_BURST: must be a positive integer")
	}

	ledgerURL := strings.TrimRight(GetEnvWithDefault("LEDGER_BASE_URL", "http://localhost:6001"), "/")
	parsed, err := url.ParseRequestURI(ledgerURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid LEDGER_BASE_URL format: %s", ledgerURL)
	}

	config := &Config{
		Port:              port,
		Host:              GetEnvWithDefault("APP_HOST", "localhost"),
		Environment:       GetEnvWithDefault("APP_ENV", "development"),
		CORSOrigins:       splitList(GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		DBDriver:          GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBPath:            GetEnvWithDefault("DB_PATH", "insurances.db"),
		DBHost:            GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:            GetEnvWithDefault("DB_PORT", "5432"),
		DBName:            GetEnvWithDefault("DB_NAME", "insurances"),
		DBUser:            GetEnvWithDefault("DB_USER", "user"),
		DBPassword:        GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:         GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBRetries:         GetEnvAsType("DB_CONNECT_RETRIES", 5),
		LogLevel:          GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:         GetEnvWithDefault("JWT_SECRET", "secret"),
		TokenTTLMinutes:   ttl,
		OAuthClientID:     GetEnvWithDefault("OAUTH_CLIENT_ID", "claim-tracker-web"),
		OAuthClientSecret: GetEnvWithDefault("OAUTH_CLIENT_SECRET", "claim-tracker-secret"),
		LoginRateLimit:    rateLimit,
		LoginRateBurst:    burst,
		LedgerBaseURL:     ledgerURL,
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
