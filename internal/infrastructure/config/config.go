package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the checkout service.
type Config struct {
	GRPCPort     string
	HTTPPort     string
	Environment  string
	LogLevel     string
	LogFormat    string
	HomeCurrency string
	HomeCountry  string
	RulesFile    string
	StepUpMode   string

	PendingStore string
	PendingTTL   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers       []string
	KafkaTopic         string
	KafkaSASLMechanism string
	KafkaSASLUsername  string
	KafkaSASLPassword  string
	KafkaTLS           bool

	GRPCTLSCertFile string
	GRPCTLSKeyFile  string
	GRPCReflection  bool

	DatabaseURL   string
	MigrationsDir string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	NarrativeTimeout time.Duration

	OTLPEndpoint string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		GRPCPort:           getEnv("GRPC_PORT", "8090"),
		HTTPPort:           getEnv("HTTP_PORT", "9090"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		HomeCurrency:       getEnv("HOME_CURRENCY", "CNY"),
		HomeCountry:        getEnv("HOME_COUNTRY", "CN"),
		RulesFile:          getEnv("RULES_FILE", ""),
		StepUpMode:         getEnv("STEP_UP_MODE", "challenge"),
		PendingStore:       getEnv("PENDING_STORE", "memory"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "checkout.events"),
		KafkaSASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
		KafkaSASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
		KafkaSASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		KafkaTLS:           getEnv("KAFKA_TLS", "") == "true",
		GRPCTLSCertFile:    getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:     getEnv("GRPC_TLS_KEY_FILE", ""),
		GRPCReflection:     getEnv("GRPC_REFLECTION", "") == "true",
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "file://internal/infrastructure/postgres/migrations"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.deepseek.com"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "deepseek-chat"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	var err error
	if cfg.PendingTTL, err = getDuration("PENDING_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.NarrativeTimeout, err = getDuration("NARRATIVE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	switch cfg.PendingStore {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid PENDING_STORE %q: want memory or redis", cfg.PendingStore)
	}

	if (cfg.GRPCTLSCertFile == "") != (cfg.GRPCTLSKeyFile == "") {
		return nil, fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}

	return cfg, nil
}

// GRPCTLSEnabled reports whether the gRPC listener should serve TLS.
func (c *Config) GRPCTLSEnabled() bool {
	return c.GRPCTLSCertFile != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
