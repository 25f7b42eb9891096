package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// DefaultSuitImageURLs are the suit images in index order: spades, hearts, diamonds, clubs.
var DefaultSuitImageURLs = []string{
	"https://assets-lighthouse.alphacamp.co/uploads/image/file/17989/__.png",
	"https://assets-lighthouse.alphacamp.co/uploads/image/file/17992/heart.png",
	"https://assets-lighthouse.alphacamp.co/uploads/image/file/17991/diamonds.png",
	"https://assets-lighthouse.alphacamp.co/uploads/image/file/17988/__.png",
}

// Config holds all configurable server and game parameters.
type Config struct {
	HTTPPort          int    `json:"http_port"`
	RevealDurationMS  int    `json:"reveal_duration_ms"`
	PointsPerPair     int    `json:"points_per_pair"`
	MaxNameLength     int    `json:"max_name_length"`
	MaxMessagesPerSec int    `json:"max_messages_per_sec"`
	LogLevel          string `json:"log_level"`

	// SuitImageURLs holds one image per suit, selected by index/13.
	SuitImageURLs []string `json:"suit_image_urls"`

	// NeonAuthBaseURL enables JWT identity for results; empty means anonymous only.
	NeonAuthBaseURL string `json:"neon_auth_base_url"`
	// DatabaseURL enables the Postgres results history; empty disables it.
	DatabaseURL string `json:"database_url"`
	// RedisAddr enables the leaderboard; empty disables it.
	RedisAddr string `json:"redis_addr"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	urls := make([]string, len(DefaultSuitImageURLs))
	copy(urls, DefaultSuitImageURLs)
	return &Config{
		HTTPPort:          8080,
		RevealDurationMS:  1000,
		PointsPerPair:     10,
		MaxNameLength:     24,
		MaxMessagesPerSec: 20,
		LogLevel:          "info",
		SuitImageURLs:     urls,
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config.json", "tag", "config", "err", err)
		}
	}

	overrideInt(&cfg.HTTPPort, "PORT")
	overrideInt(&cfg.RevealDurationMS, "REVEAL_DURATION_MS")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.MaxMessagesPerSec, "MAX_MESSAGES_PER_SEC")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.NeonAuthBaseURL, "NEON_AUTH_BASE_URL")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.RedisAddr, "REDIS_ADDR")

	return cfg
}

// Validate reports the first setting that would leave the game unplayable.
func (c *Config) Validate() error {
	if c.RevealDurationMS <= 0 {
		return fmt.Errorf("reveal_duration_ms must be positive, got %d", c.RevealDurationMS)
	}
	if c.PointsPerPair <= 0 {
		return fmt.Errorf("points_per_pair must be positive, got %d", c.PointsPerPair)
	}
	if c.MaxMessagesPerSec <= 0 {
		return fmt.Errorf("max_messages_per_sec must be positive, got %d", c.MaxMessagesPerSec)
	}
	if len(c.SuitImageURLs) != 4 {
		return fmt.Errorf("suit_image_urls needs 4 entries, got %d", len(c.SuitImageURLs))
	}
	return nil
}

// RevealDuration is how long a mismatched pair stays face-up.
func (c *Config) RevealDuration() time.Duration {
	return time.Duration(c.RevealDurationMS) * time.Millisecond
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid env value", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
