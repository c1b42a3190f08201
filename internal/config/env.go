package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvMeasuredArea  = "CROWD_ALARM_MEASURED_AREA"
	EnvPostgresDSN   = "CROWD_ALARM_POSTGRES_DSN"
	EnvRedisPassword = "CROWD_ALARM_REDIS_PASSWORD"
	EnvMQTTPassword  = "CROWD_ALARM_MQTT_PASSWORD"
)

// DefaultDotEnvFile is read by Load when present.
const DefaultDotEnvFile = ".env"

// LoadDotEnv reads KEY=VALUE pairs from the given files (default .env) into the
// process environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultDotEnvFile}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	return nil
}

// ApplyEnv overrides cfg fields with the environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if raw, ok := os.LookupEnv(EnvMeasuredArea); ok {
		area, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, EnvMeasuredArea, err)
		}

		cfg.MeasuredArea = area
	}

	if dsn, ok := os.LookupEnv(EnvPostgresDSN); ok {
		cfg.Source.Postgres.DSN = dsn
	}

	if password, ok := os.LookupEnv(EnvRedisPassword); ok {
		cfg.Source.Redis.Password = password
	}

	if password, ok := os.LookupEnv(EnvMQTTPassword); ok {
		cfg.Source.MQTT.Password = password
	}

	return nil
}
