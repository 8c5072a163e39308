package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	Port           string        `yaml:"port"`
	LogLevel       string        `yaml:"log_level"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		APIBaseURL:     "http://localhost:8080",
		Port:           "8000",
		LogLevel:       "info",
		RequestTimeout: 30 * time.Second,
		MetricsEnabled: true,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// WISHDESK_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("WISHDESK_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var result *multierror.Error

	c.APIBaseURL = getEnvOrDefault("API_BASE_URL", c.APIBaseURL)
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)

	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("REQUEST_TIMEOUT: %w", err))
		} else {
			c.RequestTimeout = d
		}
	}
	if raw := os.Getenv("METRICS_ENABLED"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("METRICS_ENABLED: %w", err))
		} else {
			c.MetricsEnabled = b
		}
	}

	return result.ErrorOrNil()
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("api base url %q must be an absolute http(s) URL", c.APIBaseURL))
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		result = multierror.Append(result, fmt.Errorf("port %q is not a valid TCP port", c.Port))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("log level: %w", err))
	}
	if c.RequestTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("request timeout must not be negative"))
	}

	return result.ErrorOrNil()
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
