// Package config loads the service configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"popcheck/models"
)

// Sources holds the three catalog sheet endpoints, one per category.
type Sources struct {
	Display string `yaml:"display"`
	Standee string `yaml:"standee"`
	Premium string `yaml:"premium"`
}

// Config is the full service configuration.
type Config struct {
	Addr         string   `yaml:"addr"`
	SQLitePath   string   `yaml:"sqlite_path"`
	Sources      Sources  `yaml:"sources"`
	ReportURL    string   `yaml:"report_url"`
	HistoryURL   string   `yaml:"history_url"`
	Branches     []string `yaml:"branches"`
	FetchTimeout int      `yaml:"fetch_timeout_seconds"`
}

// Default returns the baseline configuration before file and env
// overrides.
func Default() Config {
	return Config{
		Addr:         ":8080",
		SQLitePath:   "popcheck.db",
		FetchTimeout: 30,
	}
}

// Load reads the YAML file at path (skipped when path is empty) and
// then applies environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfPresent(&cfg.Addr, "POPCHECK_ADDR")
	setIfPresent(&cfg.SQLitePath, "POPCHECK_SQLITE_PATH")
	setIfPresent(&cfg.Sources.Display, "POPCHECK_SOURCE_DISPLAY")
	setIfPresent(&cfg.Sources.Standee, "POPCHECK_SOURCE_STANDEE")
	setIfPresent(&cfg.Sources.Premium, "POPCHECK_SOURCE_PREMIUM")
	setIfPresent(&cfg.ReportURL, "POPCHECK_REPORT_URL")
	setIfPresent(&cfg.HistoryURL, "POPCHECK_HISTORY_URL")

	if v := os.Getenv("POPCHECK_BRANCHES"); v != "" {
		branches := make([]string, 0)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				branches = append(branches, b)
			}
		}
		cfg.Branches = branches
	}
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// SourceURLs maps each configured category to its sheet endpoint.
// Categories without a URL are omitted.
func (c Config) SourceURLs() map[models.Category]string {
	urls := make(map[models.Category]string, 3)
	if c.Sources.Display != "" {
		urls[models.CategoryDisplay] = c.Sources.Display
	}
	if c.Sources.Standee != "" {
		urls[models.CategoryStandee] = c.Sources.Standee
	}
	if c.Sources.Premium != "" {
		urls[models.CategoryPremium] = c.Sources.Premium
	}
	return urls
}

// Validate reports configuration that cannot serve the reconciliation
// workflow at all.
func (c Config) Validate() error {
	if len(c.SourceURLs()) == 0 {
		return fmt.Errorf("at least one catalog source url is required")
	}
	if strings.TrimSpace(c.ReportURL) == "" {
		return fmt.Errorf("report_url is required")
	}
	if len(c.Branches) == 0 {
		return fmt.Errorf("at least one canonical branch is required")
	}
	return nil
}
