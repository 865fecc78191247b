package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/youtube-analytics-go/internal/constants"
	"github.com/kapu/youtube-analytics-go/internal/domain"
)

// DiscoveryMode selects how playlist discovery runs.
type DiscoveryMode string

const (
	ModeSequential DiscoveryMode = "sequential"
	ModeConcurrent DiscoveryMode = "concurrent"
)

type Config struct {
	YouTube   YouTubeConfig
	Collector CollectorConfig
	Logging   LoggingConfig

	// Channels is the parsed channel registry; SkippedEntries records the
	// raw map entries that were dropped so callers can warn about them.
	Channels       []domain.ChannelEntry
	SkippedEntries []string
}

type YouTubeConfig struct {
	APIKey       string
	RateLimitRPS float64
}

type CollectorConfig struct {
	DaysToAnalyze int
	Mode          DiscoveryMode
	MaxWorkers    int
	RunTimeout    time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

// Load reads configuration from the environment, optionally seeded from an
// env file. A missing env file is not an error; the environment may already
// be populated.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	channels, skipped := domain.ParseChannelMap(getEnv("YT_CHANNEL_MAP", ""))

	cfg := &Config{
		YouTube: YouTubeConfig{
			APIKey:       getEnv("YT_API", ""),
			RateLimitRPS: getEnvFloat("YT_RATE_LIMIT_RPS", constants.RateLimitConfig.DefaultRPS),
		},
		Collector: CollectorConfig{
			DaysToAnalyze: getEnvInt("YT_DAYS_TO_ANALYZE", 1),
			Mode:          DiscoveryMode(getEnv("COLLECTOR_MODE", string(ModeConcurrent))),
			MaxWorkers:    getEnvInt("COLLECTOR_MAX_WORKERS", constants.DiscoveryConfig.DefaultMaxWorkers),
			RunTimeout:    time.Duration(getEnvInt("RUN_TIMEOUT_SECONDS", 0)) * time.Second,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Channels:       channels,
		SkippedEntries: skipped,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YT_API is required")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("YT_CHANNEL_MAP is required and must contain at least one valid name:UCxxxx entry")
	}
	if c.Collector.DaysToAnalyze <= 0 {
		return fmt.Errorf("YT_DAYS_TO_ANALYZE must be positive")
	}
	if c.Collector.Mode != ModeSequential && c.Collector.Mode != ModeConcurrent {
		return fmt.Errorf("COLLECTOR_MODE must be %q or %q", ModeSequential, ModeConcurrent)
	}
	if c.Collector.MaxWorkers <= 0 {
		return fmt.Errorf("COLLECTOR_MAX_WORKERS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
