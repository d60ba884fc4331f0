// Package config loads the service configuration from defaults, an optional
// YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit config path is given. It is optional.
const DefaultFile = "worklog.yaml"

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Jira    JiraConfig    `yaml:"jira"`
	Worklog WorklogConfig `yaml:"worklog"`
	Data    DataConfig    `yaml:"data"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// StaticDir serves the SPA from disk instead of the embedded build.
	StaticDir string `yaml:"static_dir"`
}

type JiraConfig struct {
	URL               string        `yaml:"url"`
	Token             string        `yaml:"token"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Concurrency       int           `yaml:"concurrency"`
}

type WorklogConfig struct {
	// Username is the single identity work entries are logged and listed as.
	Username string `yaml:"username"`
}

type DataConfig struct {
	BaseDir    string   `yaml:"base_dir"`
	SearchDirs []string `yaml:"search_dirs"`
	Watch      bool     `yaml:"watch"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Jira: JiraConfig{
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			Concurrency:       4,
		},
		Data: DataConfig{
			BaseDir:    ".",
			SearchDirs: []string{"data", ".", "backend/data"},
			Watch:      true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. An empty path reads DefaultFile if it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, required := path, true
	if file == "" {
		file, required = DefaultFile, false
	}
	if err := loadFile(file, cfg); err != nil {
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if v := os.Getenv("JIRA_URL"); v != "" {
		cfg.Jira.URL = v
	}
	if v := os.Getenv("JIRA_TOKEN"); v != "" {
		cfg.Jira.Token = v
	}
	if v := os.Getenv("WORKLOG_USERNAME"); v != "" {
		cfg.Worklog.Username = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.BaseDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Jira.URL != "" && !strings.HasPrefix(c.Jira.URL, "http://") && !strings.HasPrefix(c.Jira.URL, "https://") {
		errs = append(errs, fmt.Errorf("jira.url %q must start with http:// or https://", c.Jira.URL))
	}
	if c.Jira.Timeout <= 0 {
		errs = append(errs, errors.New("jira.timeout must be positive"))
	}
	if c.Jira.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("jira.requests_per_second must be positive"))
	}
	if c.Jira.Burst < 1 {
		errs = append(errs, errors.New("jira.burst must be at least 1"))
	}
	if c.Jira.Concurrency < 1 {
		errs = append(errs, errors.New("jira.concurrency must be at least 1"))
	}
	if len(c.Data.SearchDirs) == 0 {
		errs = append(errs, errors.New("data.search_dirs must not be empty"))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe to print: the token is replaced by a marker.
func (c *Config) Redacted() Config {
	out := *c
	out.Data.SearchDirs = append([]string(nil), c.Data.SearchDirs...)
	if c.Jira.Token == "" {
		out.Jira.Token = "(empty)"
	} else {
		out.Jira.Token = "(set)"
	}
	return out
}

// Locator returns the data-file locator for this configuration.
func (c *Config) Locator() Locator {
	return Locator{BaseDir: c.Data.BaseDir, SearchDirs: c.Data.SearchDirs}
}
