package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"esg-insights-go/internal/aggregator"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	Environment string
	LogLevel    string

	// Upstream ESG API
	APIURL        string
	APITimeout    time.Duration
	APIMaxElapsed time.Duration

	// Offline workbook, used when no API is configured
	DatasetPath string

	// Rollups
	CategoryOrderPath string
	StatusCellPolicy  string

	// raw values of duration variables that failed to parse
	badDurations []string
}

func Load() *Config {
	c := &Config{
		Port: getEnv("PORT", "8080"),

		Environment: getEnv("ENVIRONMENT", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		APIURL: strings.TrimRight(getEnv("ESG_API_URL", ""), "/"),

		DatasetPath: getEnv("DATASET_PATH", ""),

		CategoryOrderPath: getEnv("CATEGORY_ORDER_PATH", ""),
		StatusCellPolicy:  getEnv("STATUS_CELL_POLICY", "last-write"),
	}
	c.APITimeout = c.getEnvDuration("ESG_API_TIMEOUT", 12*time.Second)
	c.APIMaxElapsed = c.getEnvDuration("ESG_API_MAX_ELAPSED", 20*time.Second)
	return c
}

// UseAPI reports whether dashboards read from the upstream API rather than
// the offline workbook.
func (c *Config) UseAPI() bool { return c.APIURL != "" }

// CellPolicy is the parsed STATUS_CELL_POLICY. Call Validate first.
func (c *Config) CellPolicy() aggregator.StatusCellPolicy {
	p, _ := aggregator.ParseStatusCellPolicy(c.StatusCellPolicy)
	return p
}

// Validate validates the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	for _, bad := range c.badDurations {
		errors = append(errors, fmt.Sprintf("invalid %s: must be a duration such as 12s", bad))
	}

	switch {
	case c.APIURL != "":
		if u, err := url.Parse(c.APIURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid ESG API URL '%s': %v", c.APIURL, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid ESG API URL scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
		if c.APITimeout <= 0 {
			errors = append(errors, fmt.Sprintf("invalid ESG API timeout %v: must be positive", c.APITimeout))
		}
		if c.APIMaxElapsed < c.APITimeout {
			errors = append(errors, fmt.Sprintf("invalid ESG API retry budget %v: must be at least the timeout %v", c.APIMaxElapsed, c.APITimeout))
		}
	case c.DatasetPath != "":
		if _, err := os.Stat(c.DatasetPath); err != nil {
			errors = append(errors, fmt.Sprintf("dataset file not readable: %s", c.DatasetPath))
		}
	default:
		errors = append(errors, "either ESG_API_URL or DATASET_PATH must be provided")
	}

	if c.CategoryOrderPath != "" {
		if _, err := os.Stat(c.CategoryOrderPath); err != nil {
			errors = append(errors, fmt.Sprintf("category order file not readable: %s", c.CategoryOrderPath))
		}
	}

	if _, err := aggregator.ParseStatusCellPolicy(c.StatusCellPolicy); err != nil {
		errors = append(errors, fmt.Sprintf("invalid status cell policy '%s': must be 'last-write' or 'sum'", c.StatusCellPolicy))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration falls back to defaultValue on an unset or unparseable
// variable and records the latter for Validate.
func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.badDurations = append(c.badDurations, fmt.Sprintf("%s '%s'", key, value))
		return defaultValue
	}
	return d
}
