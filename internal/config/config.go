// Package config resolves studio settings from the environment, after
// loading an optional .env file from the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/gemini"
	"github.com/fpang/ai-creative-studio/internal/studio"
)

// Config is the resolved runtime configuration.
type Config struct {
	Models       gemini.Models
	PollInterval time.Duration
	PollTimeout  time.Duration

	// Lambda resources; empty outside AWS.
	MediaBucket string
	DynamoTable string
	EventBus    string
	SSMKeyParam string
	RecordTTL   time.Duration
}

// DefaultRecordTTL is how long generation records live in DynamoDB.
const DefaultRecordTTL = 7 * 24 * time.Hour

// LoadDotEnv reads .env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Msg(".env file not found, using environment variables")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load resolves the configuration from environment variables.
func Load() (*Config, error) {
	interval, err := duration("STUDIO_POLL_INTERVAL", studio.DefaultPollInterval)
	if err != nil {
		return nil, err
	}
	timeout, err := duration("STUDIO_POLL_TIMEOUT", studio.DefaultPollTimeout)
	if err != nil {
		return nil, err
	}
	ttl, err := duration("STUDIO_RECORD_TTL", DefaultRecordTTL)
	if err != nil {
		return nil, err
	}

	return &Config{
		Models:       gemini.ModelsFromEnv(),
		PollInterval: interval,
		PollTimeout:  timeout,
		MediaBucket:  os.Getenv("MEDIA_BUCKET_NAME"),
		DynamoTable:  os.Getenv("DYNAMO_TABLE_NAME"),
		EventBus:     os.Getenv("EVENT_BUS_NAME"),
		SSMKeyParam:  EnvOrDefault("SSM_API_KEY_PARAM", "/ai-creative-studio/gemini-api-key"),
		RecordTTL:    ttl,
	}, nil
}

// Poller builds a poller from the configured interval and timeout.
func (c *Config) Poller() *studio.Poller {
	return &studio.Poller{Interval: c.PollInterval, Timeout: c.PollTimeout}
}

// EnvOrDefault returns the named variable, or def when it is empty.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}
