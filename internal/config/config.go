// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"goContractorPay/internal/taxyear"
)

type Config struct {
	Addr          string
	TaxYear       string
	TaxConfigPath string
	LogLevel      string
	LogFormat     string
	MaxBodyBytes  int64
	SweepWorkers  int
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none
// are given) into the environment. Variables already set are kept and a
// missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func Load() Config {
	return Config{
		Addr:          getEnv("CONTRACTOR_ADDR", "localhost:8080"),
		TaxYear:       getEnv("CONTRACTOR_TAX_YEAR", taxyear.DefaultName),
		TaxConfigPath: getEnv("CONTRACTOR_TAX_CONFIG", ""),
		LogLevel:      getEnv("CONTRACTOR_LOG_LEVEL", "info"),
		LogFormat:     getEnv("CONTRACTOR_LOG_FORMAT", "text"),
		MaxBodyBytes:  int64(getEnvInt("CONTRACTOR_MAX_BODY_BYTES", 1<<20)),
		SweepWorkers:  getEnvInt("CONTRACTOR_SWEEP_WORKERS", 0),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("CONTRACTOR_ADDR must not be empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		return fmt.Errorf("CONTRACTOR_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("CONTRACTOR_MAX_BODY_BYTES must be at least 1024")
	}
	if c.SweepWorkers < 0 {
		return fmt.Errorf("CONTRACTOR_SWEEP_WORKERS must not be negative")
	}
	return nil
}

// LoadTaxYear returns the tax year file at TaxConfigPath when set, otherwise
// the preset named by TaxYear.
func (c Config) LoadTaxYear() (*taxyear.Config, error) {
	if c.TaxConfigPath != "" {
		return taxyear.LoadFile(c.TaxConfigPath)
	}
	return taxyear.Lookup(c.TaxYear)
}

// Logger builds a slog logger writing to w in the configured format and level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("CONTRACTOR_LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}
