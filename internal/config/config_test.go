package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty config uses memory store",
			yaml: `{}`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, DriverMemory, cfg.Database.Driver)
				assert.Equal(t, "http", cfg.Scrape.Backend)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
database:
  driver: sqlite
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "products.db", cfg.Database.Path)
				assert.Equal(t, 10*time.Second, cfg.Scrape.Timeout)
				assert.Equal(t, 10, cfg.Scrape.MaxResults)
				assert.Equal(t, 3, cfg.Scrape.Search.Attempts)
				assert.Equal(t, 2*time.Second, cfg.Scrape.Search.Wait)
				assert.InDelta(t, 1.0, cfg.Scrape.RateLimit.PerSecond, 0)
				assert.Equal(t, 7, cfg.Matching.MaxKeywords)
				assert.Equal(t, 5, cfg.Matching.CandidateCap)
				assert.Equal(t, 3, cfg.Matching.RelatedCap)
				assert.Equal(t, 100, cfg.Analysis.Trees)
				assert.Equal(t, 256, cfg.Analysis.Subsample)
				assert.InDelta(t, 0.1, cfg.Analysis.Contamination, 1e-9)
				assert.Equal(t, time.Duration(0), cfg.Schedule.RefreshInterval)
				assert.Equal(t, 587, cfg.Notifications.Email.Port)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, "market-price-tracker", cfg.Telemetry.ServiceName)
			},
		},
		{
			name: "env var substitution",
			yaml: `
notifications:
  email:
    enabled: true
    host: smtp.example.com
    from: alerts@example.com
    username: alerts
    password: "${TEST_SMTP_PASSWORD}"
`,
			envVars: map[string]string{
				"TEST_SMTP_PASSWORD": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Notifications.Email.Password)
			},
		},
		{
			name: "postgres missing host",
			yaml: `
database:
  driver: postgres
  name: tracker
  user: tracker
`,
			wantErr: "database.host is required",
		},
		{
			name: "postgres missing name and user",
			yaml: `
database:
  driver: postgres
  host: localhost
`,
			wantErr: "database.name is required",
		},
		{
			name: "unknown driver",
			yaml: `
database:
  driver: mongo
`,
			wantErr: `database.driver must be one of: postgres, sqlite, memory (got "mongo")`,
		},
		{
			name: "unknown backend",
			yaml: `
scrape:
  backend: curl
`,
			wantErr: `scrape.backend must be one of: http, browser (got "curl")`,
		},
		{
			name: "contamination out of range",
			yaml: `
analysis:
  contamination: 0.9
`,
			wantErr: "analysis.contamination must be in (0, 0.5]",
		},
		{
			name: "refresh interval too short",
			yaml: `
schedule:
  refresh_interval: 10s
`,
			wantErr: "schedule.refresh_interval must be at least 1m",
		},
		{
			name: "email enabled without host",
			yaml: `
notifications:
  email:
    enabled: true
    from: alerts@example.com
`,
			wantErr: "notifications.email.host is required",
		},
		{
			name: "discord enabled without webhook",
			yaml: `
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
		{
			name: "identifier pattern without name",
			yaml: `
scrape:
  source:
    identifier_patterns:
      - pattern: "/dp/([A-Z0-9]{10})"
`,
			wantErr: "scrape.source.identifier_patterns entries need a name and a pattern",
		},
		{
			name:    "invalid YAML",
			yaml:    `{{{not valid yaml`,
			wantErr: "parsing config YAML",
		},
		{
			name: "full config with overrides",
			yaml: `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 60s
database:
  driver: postgres
  host: db.example.com
  port: 5433
  name: tracker_prod
  user: admin
  password: pass
  sslmode: require
  pool_size: 20
scrape:
  backend: browser
  timeout: 20s
  user_agents: ["agent/1.0"]
  search:
    attempts: 5
    wait: 1s
  rate_limit:
    per_second: 0.5
    burst: 1
    daily_budget: 500
  browser:
    exec_path: /usr/bin/chromium
    settle_delay: 500ms
  source:
    base_url: https://www.example.in
    identifier_patterns:
      - name: asin
        pattern: "/dp/([A-Z0-9]{10})"
  target:
    search_url: "https://shop.example.com/search?q=%s"
matching:
  max_keywords: 5
schedule:
  refresh_interval: 6h
notifications:
  discord:
    enabled: true
    webhook_url: https://discord.com/api/webhooks/123
telemetry:
  enabled: true
  endpoint: otel:4317
  insecure: true
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "db.example.com", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, 20, cfg.Database.PoolSize)
				assert.Equal(t, "browser", cfg.Scrape.Backend)
				assert.Equal(t, []string{"agent/1.0"}, cfg.Scrape.UserAgents)
				assert.Equal(t, 5, cfg.Scrape.Search.Attempts)
				assert.Equal(t, int64(500), cfg.Scrape.RateLimit.DailyBudget)
				assert.Equal(t, 500*time.Millisecond, cfg.Scrape.Browser.SettleDelay)
				assert.Equal(t, "https://www.example.in", cfg.Scrape.Source.BaseURL)
				require.Len(t, cfg.Scrape.Source.IdentifierPatterns, 1)
				assert.Equal(t, "asin", cfg.Scrape.Source.IdentifierPatterns[0].Name)
				assert.Equal(t, "https://shop.example.com/search?q=%s", cfg.Scrape.Target.SearchURL)
				assert.Equal(t, 5, cfg.Matching.MaxKeywords)
				assert.Equal(t, 6*time.Hour, cfg.Schedule.RefreshInterval)
				assert.True(t, cfg.Notifications.Discord.Enabled)
				assert.True(t, cfg.Telemetry.Enabled)
				assert.Equal(t, "otel:4317", cfg.Telemetry.Endpoint)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MPT_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("MPT_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("MPT_TEST_DOTENV"))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("MPT_TEST_DOTENV"))

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, validate(cfg))
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "postgres DSN",
			cfg: DatabaseConfig{
				Driver:   DriverPostgres,
				Host:     "localhost",
				Port:     5432,
				Name:     "testdb",
				User:     "testuser",
				Password: "testpass",
				SSLMode:  "disable",
				PoolSize: 10,
			},
			want: "host=localhost port=5432 dbname=testdb user=testuser password=testpass sslmode=disable pool_max_conns=10",
		},
		{
			name: "sqlite path",
			cfg:  DatabaseConfig{Driver: DriverSQLite, Path: "/var/lib/mpt/products.db"},
			want: "/var/lib/mpt/products.db",
		},
		{
			name: "memory",
			cfg:  DatabaseConfig{Driver: DriverMemory, Host: "ignored"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
