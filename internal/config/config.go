// Package config loads runtime configuration from the environment and from
// optional YAML pipeline files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justicehub-au/finder-dedupe/internal/dedup"
)

// Config holds all configuration values.
type Config struct {
	// Logging
	LogFile  string
	LogLevel slog.Level

	// Engine tunables
	Dedup dedup.Config
}

// Load reads configuration from environment variables, starting from the
// engine defaults.
func Load() Config {
	d := dedup.DefaultConfig()

	d.NameThreshold = getEnvFloat("FINDER_NAME_THRESHOLD", d.NameThreshold)
	d.LocationThreshold = getEnvFloat("FINDER_LOCATION_THRESHOLD", d.LocationThreshold)
	d.OrganizationThreshold = getEnvFloat("FINDER_ORGANIZATION_THRESHOLD", d.OrganizationThreshold)
	d.OrganizationMatchThreshold = getEnvFloat("FINDER_ORGANIZATION_MATCH_THRESHOLD", d.OrganizationMatchThreshold)
	d.OrganizationNameThreshold = getEnvFloat("FINDER_ORGANIZATION_NAME_THRESHOLD", d.OrganizationNameThreshold)
	d.SupportThreshold = getEnvFloat("FINDER_SUPPORT_THRESHOLD", d.SupportThreshold)
	d.MaxLocationDistanceMeters = getEnvFloat("FINDER_MAX_LOCATION_DISTANCE_METERS", d.MaxLocationDistanceMeters)
	d.AutoMergeThreshold = getEnvFloat("FINDER_AUTO_MERGE_THRESHOLD", d.AutoMergeThreshold)
	d.RequireManualReview = getEnvBool("FINDER_REQUIRE_MANUAL_REVIEW", d.RequireManualReview)
	d.Concurrency = getEnvInt("FINDER_CONCURRENCY", d.Concurrency)
	d.Blocking = dedup.BlockingKey(getEnv("FINDER_BLOCKING", string(d.Blocking)))
	d.CountryCallingCode = getEnv("FINDER_COUNTRY_CALLING_CODE", d.CountryCallingCode)
	d.NationalNumberLength = getEnvInt("FINDER_NATIONAL_NUMBER_LENGTH", d.NationalNumberLength)

	return Config{
		LogFile:  getEnv("FINDER_LOG_FILE", "/tmp/finder-dedupe.log"),
		LogLevel: parseLogLevel(getEnv("FINDER_LOG_LEVEL", "INFO")),
		Dedup:    d,
	}
}

// fileOverlay mirrors dedup.Config with pointer fields, so a YAML file only
// overrides the keys it actually sets.
type fileOverlay struct {
	NameThreshold              *float64 `yaml:"name_threshold"`
	LocationThreshold          *float64 `yaml:"location_threshold"`
	OrganizationThreshold      *float64 `yaml:"organization_threshold"`
	OrganizationMatchThreshold *float64 `yaml:"organization_match_threshold"`
	OrganizationNameThreshold  *float64 `yaml:"organization_name_threshold"`
	SupportThreshold           *float64 `yaml:"support_threshold"`
	MaxLocationDistanceMeters  *float64 `yaml:"max_location_distance_meters"`
	CountryCallingCode         *string  `yaml:"country_calling_code"`
	NationalNumberLength       *int     `yaml:"national_number_length"`
	AutoMergeThreshold         *float64 `yaml:"auto_merge_threshold"`
	RequireManualReview        *bool    `yaml:"require_manual_review"`
	Concurrency                *int     `yaml:"concurrency"`
	Blocking                   *string  `yaml:"blocking"`
}

// ApplyFile overlays a YAML pipeline config file onto c. Keys absent from
// the file keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return c.applyYAML(data, path)
}

func (c *Config) applyYAML(data []byte, name string) error {
	var o fileOverlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	setFloat(&c.Dedup.NameThreshold, o.NameThreshold)
	setFloat(&c.Dedup.LocationThreshold, o.LocationThreshold)
	setFloat(&c.Dedup.OrganizationThreshold, o.OrganizationThreshold)
	setFloat(&c.Dedup.OrganizationMatchThreshold, o.OrganizationMatchThreshold)
	setFloat(&c.Dedup.OrganizationNameThreshold, o.OrganizationNameThreshold)
	setFloat(&c.Dedup.SupportThreshold, o.SupportThreshold)
	setFloat(&c.Dedup.MaxLocationDistanceMeters, o.MaxLocationDistanceMeters)
	setFloat(&c.Dedup.AutoMergeThreshold, o.AutoMergeThreshold)
	if o.CountryCallingCode != nil {
		c.Dedup.CountryCallingCode = *o.CountryCallingCode
	}
	if o.NationalNumberLength != nil {
		c.Dedup.NationalNumberLength = *o.NationalNumberLength
	}
	if o.RequireManualReview != nil {
		c.Dedup.RequireManualReview = *o.RequireManualReview
	}
	if o.Concurrency != nil {
		c.Dedup.Concurrency = *o.Concurrency
	}
	if o.Blocking != nil {
		c.Dedup.Blocking = dedup.BlockingKey(*o.Blocking)
	}

	return c.validate(name)
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// validate rejects values the engine would silently misbehave on.
func (c *Config) validate(name string) error {
	for _, t := range []struct {
		key   string
		value float64
	}{
		{"name_threshold", c.Dedup.NameThreshold},
		{"location_threshold", c.Dedup.LocationThreshold},
		{"organization_match_threshold", c.Dedup.OrganizationMatchThreshold},
		{"organization_name_threshold", c.Dedup.OrganizationNameThreshold},
		{"support_threshold", c.Dedup.SupportThreshold},
		{"auto_merge_threshold", c.Dedup.AutoMergeThreshold},
	} {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("%s: %s must be between 0 and 1, got %v", name, t.key, t.value)
		}
	}
	if c.Dedup.MaxLocationDistanceMeters <= 0 {
		return fmt.Errorf("%s: max_location_distance_meters must be positive", name)
	}
	switch c.Dedup.Blocking {
	case dedup.BlockingNone, dedup.BlockingNameToken, dedup.BlockingPostalPrefix:
	default:
		return fmt.Errorf("%s: unknown blocking key %q", name, c.Dedup.Blocking)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultVal
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
