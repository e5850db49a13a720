// internal/config/config.go

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"flightscout/internal/domain/flight"
)

// Config holds all application configuration
type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Amadeus     AmadeusConfig
	Search      SearchConfig
	Lookup      LookupConfig
	NATS        NATSConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// AmadeusConfig holds upstream API configuration
type AmadeusConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	SecretID  string
	Timeout   time.Duration
}

// SearchConfig holds search pipeline configuration
type SearchConfig struct {
	MaxResults        int
	Adults            int
	Currency          string
	PageSize          int
	FallbackBasePrice float64
}

// LookupConfig holds airport lookup configuration
type LookupConfig struct {
	Debounce       time.Duration
	MinQueryLength int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	Enabled        bool
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	SubjectPrefix  string
}

// Load reads an optional .env file, then loads configuration from the
// environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, &flight.ConfigError{Key: ".env", Msg: err.Error()}
	}

	config := fromEnv()
	return config, validate(config)
}

func fromEnv() Config {
	return Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Amadeus: AmadeusConfig{
			BaseURL:   getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
			APIKey:    getEnv("AMADEUS_API_KEY", ""),
			APISecret: getEnv("AMADEUS_API_SECRET", ""),
			SecretID:  getEnv("AMADEUS_SECRET_ID", ""),
			Timeout:   getEnvAsDuration("AMADEUS_HTTP_TIMEOUT", 10*time.Second),
		},
		Search: SearchConfig{
			MaxResults:        getEnvAsInt("SEARCH_MAX_RESULTS", 20),
			Adults:            getEnvAsInt("SEARCH_ADULTS", 1),
			Currency:          getEnv("SEARCH_CURRENCY", "USD"),
			PageSize:          getEnvAsInt("SEARCH_PAGE_SIZE", 10),
			FallbackBasePrice: getEnvAsFloat("TREND_FALLBACK_PRICE", 500),
		},
		Lookup: LookupConfig{
			Debounce:       getEnvAsDuration("LOOKUP_DEBOUNCE", 500*time.Millisecond),
			MinQueryLength: getEnvAsInt("LOOKUP_MIN_QUERY", 2),
		},
		NATS: NATSConfig{
			Enabled:        getEnvAsBool("NATS_ENABLED", false),
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			SubjectPrefix:  getEnv("EVENTS_SUBJECT_PREFIX", "search"),
		},
	}
}

// validate checks if config is valid. Credentials may be missing when a
// Secrets Manager secret will supply them.
func validate(config Config) error {
	if config.Amadeus.SecretID == "" {
		if err := ValidateCredentials(config.Amadeus); err != nil {
			return err
		}
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return &flight.ConfigError{Key: "SERVER_PORT", Msg: "must be between 1 and 65535"}
	}
	if config.Search.PageSize <= 0 {
		return &flight.ConfigError{Key: "SEARCH_PAGE_SIZE", Msg: "must be positive"}
	}
	if config.Search.MaxResults <= 0 {
		return &flight.ConfigError{Key: "SEARCH_MAX_RESULTS", Msg: "must be positive"}
	}
	return nil
}

// ValidateCredentials fails when either API credential is empty
func ValidateCredentials(cfg AmadeusConfig) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &flight.ConfigError{Key: "AMADEUS_API_KEY", Msg: "is required"}
	}
	if strings.TrimSpace(cfg.APISecret) == "" {
		return &flight.ConfigError{Key: "AMADEUS_API_SECRET", Msg: "is required"}
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
