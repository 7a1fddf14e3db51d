// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

// Config is built once in main and handed to the components that need it.
type Config struct {
	Env  string
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBRetries  int

	RedisAddr string

	KafkaBroker        string
	KafkaGroupID       string
	OutboxPollInterval time.Duration

	// Venue location decides calendar days and default clock times.
	Timezone string

	GeminiAPIKey string
	GeminiModel  string
	OCRRateLimit float64
	OCRBurst     int
	OCRMaxBytes  int64

	SheetPath string
}

// Load reads the environment, applying defaults for anything unset.
func Load() (*Config, error) {
	dbRetries, err := strconv.Atoi(getEnv("DB_MAX_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %w", err)
	}

	pollInterval, err := time.ParseDuration(getEnv("OUTBOX_POLL_INTERVAL", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL: %w", err)
	}

	ocrRate, err := strconv.ParseFloat(getEnv("OCR_RATE_PER_SECOND", "0.2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_RATE_PER_SECOND: %w", err)
	}

	ocrBurst, err := strconv.Atoi(getEnv("OCR_BURST", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_BURST: %w", err)
	}

	ocrMaxBytes, err := strconv.ParseInt(getEnv("OCR_MAX_BYTES", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_MAX_BYTES: %w", err)
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "3000"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             getEnv("DB_NAME", "blair"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		DBRetries:          dbRetries,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		KafkaBroker:        os.Getenv("KAFKA_BROKER"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "blair-sheet-mirror"),
		OutboxPollInterval: pollInterval,
		Timezone:           getEnv("VENUE_TZ", "Asia/Tokyo"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OCRRateLimit:       ocrRate,
		OCRBurst:           ocrBurst,
		OCRMaxBytes:        ocrMaxBytes,
		SheetPath:          getEnv("SHEET_PATH", "data/blair.xlsx"),
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid VENUE_TZ %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
