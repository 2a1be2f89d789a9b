package config

import (
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			// Setup: set environment variable if provided
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key) // ensure it's not set
			}

			result := GetEnvWithDefault(tt.key, tt.defaultValue)

			if result != tt.expected {
				t.Errorf("GetEnvWithDefault() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestGetEnvAsType(t *testing.T) {
	t.Setenv("INT_KEY", "42")
	t.Setenv("BAD_INT_KEY", "forty-two")
	t.Setenv("BOOL_KEY", "true")

	if got := GetEnvAsType("INT_KEY", 1); got != 42 {
		t.Errorf("GetEnvAsType(int) = %d, expected 42", got)
	}
	if got := GetEnvAsType("BAD_INT_KEY", 7); got != 7 {
		t.Errorf("GetEnvAsType(bad int) = %d, expected default 7", got)
	}
	if got := GetEnvAsType("BOOL_KEY", false); !got {
		t.Error("GetEnvAsType(bool) = false, expected true")
	}
}

func TestLoadConfig(t *testing.T) {
	vars := []string{
		"APP_PORT", "APP_HOST", "LOG_LEVEL", "JWT_SECRET", "LEDGER_BASE_URL",
		"TOKEN_TTL_MINUTES", "LOGIN_RATE_LIMIT", "LOGIN_RATE_BURST", "DB_DRIVER",
		"DB_PATH", "CORS_ALLOWED_ORIGINS", "DB_CONNECT_RETRIES",
	}

	// Helper function to cleanup env vars
	cleanupTestEnv := func() {
		for _, v := range vars {
			os.Unsetenv(v)
		}
	}

	t.Run("successful config load with all env vars", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_PORT", "9000")
		os.Setenv("APP_HOST", "0.0.0.0")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("JWT_SECRET", "super_secret_jwt_key")
		os.Setenv("LEDGER_BASE_URL", "http://10.2.1.148:6001/")
		os.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")
		os.Setenv("DB_CONNECT_RETRIES", "2")

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() returned error: %v", err)
		}

		if config.Port != 9000 {
			t.Errorf("Port = %d, expected 9000", config.Port)
		}
		if config.Host != "0.0.0.0" {
			t.Errorf("Host = %s, expected 0.0.0.0", config.Host)
		}
		if config.LogLevel != "debug" {
			t.Errorf("LogLevel = %s, expected debug", config.LogLevel)
		}
		if config.JWTSecret != "super_secret_jwt_key" {
			t.Errorf("JWTSecret = %s, expected super_secret_jwt_key", config.JWTSecret)
		}
		if config.LedgerBaseURL != "http://10.2.1.148:6001" {
			t.Errorf("LedgerBaseURL = %s, expected trailing slash trimmed", config.LedgerBaseURL)
		}
		if len(config.CORSOrigins) != 2 || config.CORSOrigins[1] != "http://b.example" {
			t.Errorf("CORSOrigins = %v, expected two trimmed origins", config.CORSOrigins)
		}
		if config.DBRetries != 2 {
			t.Errorf("DBRetries = %d, expected 2", config.DBRetries)
		}
	})

	t.Run("should fail with invalid port", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("APP_PORT", "not_a_number")
		defer cleanupTestEnv()

		config, err := LoadConfig()

		if err == nil {
			t.Error("LoadConfig() should return error when APP_PORT is invalid")
		}
		if config != nil {
			t.Error("Config should be nil when error occurs")
		}
	})

	t.Run("should fail with relative ledger url", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("LEDGER_BASE_URL", "ledger:6001")
		defer cleanupTestEnv()

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should return error when LEDGER_BASE_URL is not absolute")
		}
	})

	t.Run("should fail with non positive token ttl", func(t *testing.T) {
		cleanupTestEnv()
		os.Setenv("TOKEN_TTL_MINUTES", "0")
		defer cleanupTestEnv()

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should return error when TOKEN_TTL_MINUTES is 0")
		}
	})

	t.Run("should use defaults when optional env vars not set", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() returned unexpected error: %v", err)
		}

		if config.Port != 8080 {
			t.Errorf("Port = %d, expected default 8080", config.Port)
		}
		if config.Host != "localhost" {
			t.Errorf("Host = %s, expected default localhost", config.Host)
		}
		if config.LogLevel != "info" {
			t.Errorf("LogLevel = %s, expected default info", config.LogLevel)
		}
		if config.TokenTTLMinutes != 60 {
			t.Errorf("TokenTTLMinutes = %d, expected default 60", config.TokenTTLMinutes)
		}
		if config.DBDriver != "sqlite" {
			t.Errorf("DBDriver = %s, expected default sqlite", config.DBDriver)
		}
		if config.DBRetries != 5 {
			t.Errorf("DBRetries = %d, expected default 5", config.DBRetries)
		}
	})
}

func TestConfigStringRedactsSecrets(t *testing.T) {
	config := &Config{
		JWTSecret:         "very-secret",
		DBPassword:        "db-secret",
		OAuthClientSecret: "client-secret",
		LedgerBaseURL:     "http://svc:pw@ledger:6001",
	}

	out := config.String()
	for _, secret := range []string{"very-secret", "db-secret", "client-secret", ":pw@"} {
		if strings.Contains(out, secret) {
			t.Errorf("String() leaked %q: %s", secret, out)
		}
	}
}

func TestLevelForEnvironment(t *testing.T) {
	if LevelForEnvironment("production") != logrus.ErrorLevel {
		t.Error("production should log at error level")
	}
	if LevelForEnvironment("development") != logrus.DebugLevel {
		t.Error("development should log at debug level")
	}
	if LevelForEnvironment("staging") != logrus.InfoLevel {
		t.Error("other environments should log at info level")
	}
}

// Benchmark tests (optional but good practice)
func BenchmarkGetEnvWithDefault(b *testing.B) {
	os.Setenv("BENCH_KEY", "test_value")
	defer os.Unsetenv("BENCH_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetEnvWithDefault("BENCH_KEY", "default")
	}
}
