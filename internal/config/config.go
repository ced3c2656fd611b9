// Package config provides YAML-based configuration loading for Shelfrec.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Shelfrec configuration, loaded from shelfrec.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Recommend RecommendConfig `yaml:"recommend"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	MainURL        string   `yaml:"main_url"`
	RequestTimeout Duration `yaml:"request_timeout"`
	Workers        int      `yaml:"workers"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "120s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Name   string `yaml:"name"`
}

// DatasetConfig points at the Book-Crossing CSV files and tunes the import.
type DatasetConfig struct {
	Books           string `yaml:"books"`
	Ratings         string `yaml:"ratings"`
	MinRatings      int    `yaml:"min_ratings"`
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// RecommendConfig tunes recommendation output.
type RecommendConfig struct {
	TopN int `yaml:"top_n"`
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	SlackWebhook string `yaml:"slack_webhook"`
}

// Database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// cronParser validates standard 5-field cron expressions.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with every default applied, for running without
// a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values. The MAIN_URL
// environment variable, when set, overrides the selection-page path.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.MainURL == "" {
		c.Server.MainURL = "/"
	}
	if u := os.Getenv("MAIN_URL"); u != "" {
		c.Server.MainURL = u
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = Duration(120 * time.Second)
	}
	if c.Server.Workers == 0 {
		c.Server.Workers = 4
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "shelfrec.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Name == "" {
		c.Database.Name = "shelfrec"
	}
	if c.Dataset.Books == "" {
		c.Dataset.Books = "data/BX-Books.csv"
	}
	if c.Dataset.Ratings == "" {
		c.Dataset.Ratings = "data/BX-Book-Ratings.csv"
	}
	if c.Dataset.MinRatings == 0 {
		c.Dataset.MinRatings = 8
	}
	if c.Recommend.TopN == 0 {
		c.Recommend.TopN = 5
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if !strings.HasPrefix(c.Server.MainURL, "/") {
		errs = append(errs, fmt.Sprintf("server.main_url %q must start with /", c.Server.MainURL))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, "server.request_timeout must not be negative")
	}
	if c.Server.Workers < 1 {
		errs = append(errs, "server.workers must be positive")
	}
	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverMySQL {
		errs = append(errs, fmt.Sprintf("database.driver %q unknown (want sqlite or mysql)", c.Database.Driver))
	}
	if c.Dataset.MinRatings < 1 {
		errs = append(errs, "dataset.min_ratings must be positive")
	}
	if c.Recommend.TopN < 1 {
		errs = append(errs, "recommend.top_n must be positive")
	}
	if s := c.Dataset.RefreshSchedule; s != "" {
		if _, err := cronParser.Parse(s); err != nil {
			errs = append(errs, fmt.Sprintf("dataset.refresh_schedule %q: %v", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
