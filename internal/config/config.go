// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// GeocoderURL is the base URL of a Nominatim-compatible search API.
	// Set GEOCODER_URL to "off" to disable geocoding; entries are then
	// stored without coordinates.
	GeocoderURL string

	// GeocoderUserAgent is sent with every geocoding request. Nominatim's
	// usage policy rejects requests without one.
	GeocoderUserAgent string

	// GeocoderTimeout bounds a single geocoding HTTP request. Defaults to 10s.
	GeocoderTimeout time.Duration

	// GeocodeCacheSize is the number of locations kept in the in-process
	// LRU cache. Defaults to 1024.
	GeocodeCacheSize int

	// RedisURL, when set, switches per-trip locking from in-process to Redis
	// so several API replicas can share one database.
	RedisURL string

	// LockTTL is the Redis lock expiry, the upper bound on how long a crashed
	// holder can block a trip. Defaults to 30s.
	LockTTL time.Duration

	// LockWait is how long a request waits for a trip's lock before failing
	// with 409. Defaults to 5s.
	LockWait time.Duration
}

// GeocodingEnabled reports whether a geocoder should be wired.
func (c Config) GeocodingEnabled() bool {
	return c.GeocoderURL != ""
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, joined
// with any values that failed to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "TruckerLogbookApp/1.0"),
		RedisURL:          os.Getenv("REDIS_URL"),
	}
	if strings.EqualFold(cfg.GeocoderURL, "off") {
		cfg.GeocoderURL = ""
	}

	var errs []error

	var missing []string
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}

	var err error
	if cfg.MaxBodyBytes, err = getInt64("MAX_BODY_BYTES", 1<<20); err != nil {
		errs = append(errs, err)
	}
	if cfg.GeocodeCacheSize, err = getInt("GEOCODE_CACHE_SIZE", 1024); err != nil {
		errs = append(errs, err)
	}
	if cfg.GeocoderTimeout, err = getDuration("GEOCODER_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.LockTTL, err = getDuration("LOCK_TTL", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.LockWait, err = getDuration("LOCK_WAIT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", key, v)
	}
	return n, nil
}

func getInt(key string, fallback int) (int, error) {
	n, err := getInt64(key, int64(fallback))
	return int(n), err
}

// getDuration parses values like "500ms" or "30s". Zero and negative
// durations are rejected.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: want a positive duration, got %q", key, v)
	}
	return d, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
