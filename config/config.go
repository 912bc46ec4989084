// Package config holds the application configuration: defaults, YAML file
// loading, and environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the scraper and dashboard configuration.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	Parallelism  int           `yaml:"parallelism"`
	CacheSize    int           `yaml:"cache_size"`
	OutputFile   string        `yaml:"output_file"`
	OutputFormat string        `yaml:"output_format"` // csv, json, or dual
	StoragePath  string        `yaml:"storage_path"`
	MetricsAddr  string        `yaml:"metrics_addr"`
	ListenAddr   string        `yaml:"listen_addr"`
	Verbose      bool          `yaml:"verbose"`
}

// DefaultConfig returns conservative defaults for the Balearic balance page.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://www.ree.es/es/balance-diario/baleares",
		UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		Timeout:      10 * time.Second,
		Parallelism:  1,
		CacheSize:    128,
		OutputFile:   "output/balance.csv",
		OutputFormat: "csv",
		ListenAddr:   ":8080",
	}
}

// Load reads configuration from a YAML file, starting from defaults and
// finishing with environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnvironment()
	return cfg, nil
}

func (c *Config) applyEnvironment() {
	if v, ok := EnvString("ENERGY_BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := EnvString("ENERGY_OUTPUT"); ok {
		c.OutputFile = v
	}
	if v, ok := EnvString("ENERGY_STORAGE_PATH"); ok {
		c.StoragePath = v
	}
	if v, ok := EnvString("ENERGY_METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
	if v, ok := EnvString("ENERGY_LISTEN_ADDR"); ok {
		c.ListenAddr = v
	}
	if v, ok, err := EnvInt("ENERGY_PARALLEL"); err == nil && ok {
		c.Parallelism = v
	}
	if v, ok := EnvString("ENERGY_DEBUG"); ok && (v == "true" || v == "1") {
		c.Verbose = true
	}
}

// EnvString reads a non-empty environment variable.
func EnvString(name string) (string, bool) {
	v := os.Getenv(name)
	if v == "" {
		return "", false
	}
	return v, true
}

// EnvInt reads an integer environment variable.
func EnvInt(name string) (int, bool, error) {
	raw, ok := EnvString(name)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", name, err)
	}
	return v, true, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
