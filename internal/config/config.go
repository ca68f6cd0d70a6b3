// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Scrape        ScrapeConfig        `yaml:"scrape"`
	Matching      MatchingConfig      `yaml:"matching"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DatabaseConfig selects and configures the product repository.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres, sqlite, memory
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
	Path     string `yaml:"path"` // sqlite file
}

// DSN returns the connection string for the configured driver.
func (d *DatabaseConfig) DSN() string {
	switch d.Driver {
	case DriverSQLite:
		return d.Path
	case DriverMemory:
		return ""
	default:
		return fmt.Sprintf(
			"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
			d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
		)
	}
}

// ScrapeConfig controls how marketplaces are fetched.
type ScrapeConfig struct {
	Backend    string          `yaml:"backend"` // http, browser
	Timeout    time.Duration   `yaml:"timeout"`
	UserAgents []string        `yaml:"user_agents"`
	MaxResults int             `yaml:"max_results"`
	Search     SearchConfig    `yaml:"search"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	Browser    BrowserConfig   `yaml:"browser"`
	Source     SiteConfig      `yaml:"source"`
	Target     SiteConfig      `yaml:"target"`
}

// SearchConfig defines the target search retry policy.
type SearchConfig struct {
	Attempts int           `yaml:"attempts"`
	Wait     time.Duration `yaml:"wait"`
}

// RateLimitConfig defines per-site request pacing.
type RateLimitConfig struct {
	PerSecond   float64 `yaml:"per_second"`
	Burst       int     `yaml:"burst"`
	DailyBudget int64   `yaml:"daily_budget"` // 0 = unlimited
}

// BrowserConfig defines headless Chrome settings.
type BrowserConfig struct {
	ExecPath    string        `yaml:"exec_path"`
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// SiteConfig overrides a site's built-in profile. Empty fields keep the
// built-in value.
type SiteConfig struct {
	BaseURL   string `yaml:"base_url"`
	SearchURL string `yaml:"search_url"`
	// IdentifierPatterns are tried in order; each needs one capture group.
	IdentifierPatterns []NamedPattern `yaml:"identifier_patterns"`
}

// NamedPattern is a named regular expression.
type NamedPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// MatchingConfig tunes the cross-marketplace matcher.
type MatchingConfig struct {
	MaxKeywords  int `yaml:"max_keywords"`
	CandidateCap int `yaml:"candidate_cap"`
	RelatedCap   int `yaml:"related_cap"`
}

// AnalysisConfig tunes anomaly detection.
type AnalysisConfig struct {
	Trees         int     `yaml:"trees"`
	Subsample     int     `yaml:"subsample"`
	Contamination float64 `yaml:"contamination"`
}

// ScheduleConfig defines the optional background refresh.
type ScheduleConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"` // 0 = disabled
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Email   EmailConfig   `yaml:"email"`
	Discord DiscordConfig `yaml:"discord"`
}

// EmailConfig defines SMTP settings. Credentials belong in the environment.
type EmailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TelemetryConfig defines OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Endpoint    string        `yaml:"endpoint"`
	Insecure    bool          `yaml:"insecure"`
	ServiceName string        `yaml:"service_name"`
	Interval    time.Duration `yaml:"interval"`
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a validated configuration with every default applied and
// an in-memory repository.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyScrapeDefaults(&cfg.Scrape)
	applyMatchingDefaults(&cfg.Matching)
	applyAnalysisDefaults(&cfg.Analysis)
	applyNotificationDefaults(&cfg.Notifications)
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = DriverMemory
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
	if d.Driver == DriverSQLite && d.Path == "" {
		d.Path = "products.db"
	}
}

func applyScrapeDefaults(s *ScrapeConfig) {
	if s.Backend == "" {
		s.Backend = "http"
	}
	if s.Timeout == 0 {
		s.Timeout = 10 * time.Second
	}
	if s.MaxResults == 0 {
		s.MaxResults = 10
	}
	if s.Search.Attempts == 0 {
		s.Search.Attempts = 3
	}
	if s.Search.Wait == 0 {
		s.Search.Wait = 2 * time.Second
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 1
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 2
	}
}

func applyMatchingDefaults(m *MatchingConfig) {
	if m.MaxKeywords == 0 {
		m.MaxKeywords = 7
	}
	if m.CandidateCap == 0 {
		m.CandidateCap = 5
	}
	if m.RelatedCap == 0 {
		m.RelatedCap = 3
	}
}

func applyAnalysisDefaults(a *AnalysisConfig) {
	if a.Trees == 0 {
		a.Trees = 100
	}
	if a.Subsample == 0 {
		a.Subsample = 256
	}
	if a.Contamination == 0 {
		a.Contamination = 0.1
	}
}

func applyNotificationDefaults(n *NotificationsConfig) {
	if n.Email.Port == 0 {
		n.Email.Port = 587
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "market-price-tracker"
	}
	if t.Interval == 0 {
		t.Interval = 30 * time.Second
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required when driver is postgres"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when driver is postgres"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when driver is postgres"))
		}
	case DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf(
			"database.driver must be one of: postgres, sqlite, memory (got %q)", cfg.Database.Driver,
		))
	}

	switch cfg.Scrape.Backend {
	case "http", "browser":
	default:
		errs = append(errs, fmt.Errorf(
			"scrape.backend must be one of: http, browser (got %q)", cfg.Scrape.Backend,
		))
	}
	if cfg.Scrape.Search.Attempts < 1 {
		errs = append(errs, fmt.Errorf("scrape.search.attempts must be at least 1"))
	}
	for _, site := range []struct {
		name string
		cfg  SiteConfig
	}{{"source", cfg.Scrape.Source}, {"target", cfg.Scrape.Target}} {
		for _, p := range site.cfg.IdentifierPatterns {
			if p.Name == "" || p.Pattern == "" {
				errs = append(errs, fmt.Errorf(
					"scrape.%s.identifier_patterns entries need a name and a pattern", site.name,
				))
			}
		}
	}

	if c := cfg.Analysis.Contamination; c <= 0 || c > 0.5 {
		errs = append(errs, fmt.Errorf("analysis.contamination must be in (0, 0.5] (got %v)", c))
	}

	if cfg.Schedule.RefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("schedule.refresh_interval must not be negative"))
	} else if cfg.Schedule.RefreshInterval > 0 && cfg.Schedule.RefreshInterval < time.Minute {
		errs = append(errs, fmt.Errorf("schedule.refresh_interval must be at least 1m"))
	}

	if e := cfg.Notifications.Email; e.Enabled {
		if e.Host == "" {
			errs = append(errs, fmt.Errorf("notifications.email.host is required when email is enabled"))
		}
		if e.From == "" {
			errs = append(errs, fmt.Errorf("notifications.email.from is required when email is enabled"))
		}
	}
	if d := cfg.Notifications.Discord; d.Enabled && d.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	return errors.Join(errs...)
}
