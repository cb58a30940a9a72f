package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration schema. Nested
// sections map naturally onto the flag surface; flags always win over file
// values.
type FileConfig struct {
	Feed struct {
		URL string `yaml:"url"`
	} `yaml:"feed"`
	Input string `yaml:"input"`

	Webhook struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
	} `yaml:"webhook"`

	SentLog string `yaml:"sentLog"`

	Image struct {
		Budget int64 `yaml:"budget"`
		Fetch  bool  `yaml:"fetch"`
	} `yaml:"image"`

	HTTP struct {
		UserAgent string        `yaml:"userAgent"`
		Timeout   time.Duration `yaml:"timeout"`
		Attempts  int           `yaml:"attempts"`
	} `yaml:"http"`

	Cache struct {
		Dir    string        `yaml:"dir"`
		MaxAge time.Duration `yaml:"maxAge"`
	} `yaml:"cache"`

	DryRun  bool `yaml:"dryRun"`
	Verbose bool `yaml:"verbose"`
}

// LoadFileConfig reads a YAML config file. A blank path yields a zero config
// and no error; a missing file is an error (the user asked for it).
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// Merge fills zero-valued Config fields from the file config. Flag-provided
// values stay untouched.
func (fc FileConfig) Merge(cfg Config) Config {
	if cfg.FeedURL == "" {
		cfg.FeedURL = fc.Feed.URL
	}
	if cfg.InputPath == "" {
		cfg.InputPath = fc.Input
	}
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = fc.Webhook.URL
	}
	if cfg.WebhookUsername == "" {
		cfg.WebhookUsername = fc.Webhook.Username
	}
	if cfg.SentLogPath == "" {
		cfg.SentLogPath = fc.SentLog
	}
	if cfg.ImageBudget <= 0 {
		cfg.ImageBudget = fc.Image.Budget
	}
	if !cfg.FetchImages {
		cfg.FetchImages = fc.Image.Fetch
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.HTTP.UserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = fc.HTTP.Timeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = fc.HTTP.Attempts
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge <= 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.DryRun {
		cfg.DryRun = fc.DryRun
	}
	if !cfg.Verbose {
		cfg.Verbose = fc.Verbose
	}
	return cfg
}
