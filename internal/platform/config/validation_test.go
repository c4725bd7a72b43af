package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Services: ServicesConfig{
			Remote: RemoteServiceConfig{
				BaseURL:     "https://jsonplaceholder.typicode.com",
				Name:        "quote-source",
				FetchPath:   "/posts",
				PublishPath: "/posts",
				BatchSize:   3,
			},
		},
		Storage: StorageConfig{Path: "./data/quotes.db"},
		Session: SessionConfig{Size: 64, TTL: 12 * time.Hour},
		Sync: SyncConfig{
			Enabled:        true,
			Interval:       30 * time.Second,
			StatusDisplay:  3 * time.Second,
			PublishOnAdd:   true,
			PublishTimeout: 30 * time.Second,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }, []string{"app.name (APP_APP_NAME) is required"}},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, []string{"app.environment", "must be one of: local dev qa prod test"}},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, []string{"server.port (APP_SERVER_PORT) must be at most 65535"}},
		{"read timeout too short", func(c *Config) { c.Server.ReadTimeout = time.Millisecond }, []string{"server.read_timeout", "at least 1s"}},
		{"zero request size", func(c *Config) { c.Server.MaxRequestSize = 0 }, []string{"server.max_request_size"}},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, []string{"log.level (APP_LOG_LEVEL)", "trace debug info warn error"}},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, []string{"log.format"}},
		{"log file without path", func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} }, []string{"log.file.path (APP_LOG_FILE_PATH) is required when enabled true"}},
		{"oversized log file", func(c *Config) { c.Log.File.MaxSizeMB = 4096 }, []string{"log.file.max_size"}},
		{"telemetry without endpoint", func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "quotesync"} }, []string{"telemetry.endpoint"}},
		{"telemetry bad endpoint", func(c *Config) { c.Telemetry = TelemetryConfig{Endpoint: "not a url"} }, []string{"telemetry.endpoint", "valid URL"}},
		{"telemetry without service name", func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://otel:4318"} }, []string{"telemetry.service_name"}},
		{"sampling above one", func(c *Config) { c.Telemetry.SamplingRate = 1.5 }, []string{"telemetry.sampling_rate"}},
		{"client timeout too short", func(c *Config) { c.Client.Timeout = time.Millisecond }, []string{"client.timeout"}},
		{"no retry attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 0 }, []string{"client.retry.max_attempts (APP_CLIENT_RETRY_MAX_ATTEMPTS)"}},
		{"too many retry attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, []string{"client.retry.max_attempts", "at most 10"}},
		{"retry interval too short", func(c *Config) { c.Client.Retry.InitialInterval = time.Millisecond }, []string{"client.retry.initial_interval"}},
		{"flat multiplier", func(c *Config) { c.Client.Retry.Multiplier = 1 }, []string{"client.retry.multiplier"}},
		{"jitter above one", func(c *Config) { c.Client.Retry.JitterFactor = 2 }, []string{"client.retry.jitter_factor"}},
		{"backoff cap below first wait", func(c *Config) {
			c.Client.Retry.InitialInterval = 2 * time.Second
			c.Client.Retry.MaxInterval = time.Second
		}, []string{"client.retry.max_interval", "must not be less than initial_interval"}},
		{"breaker never opens", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, []string{"client.circuit_breaker.max_failures"}},
		{"breaker cool-down too short", func(c *Config) { c.Client.CircuitBreaker.Timeout = time.Millisecond }, []string{"client.circuit_breaker.timeout"}},
		{"no half-open probes", func(c *Config) { c.Client.CircuitBreaker.HalfOpenLimit = 0 }, []string{"client.circuit_breaker.half_open_limit"}},
		{"remote without base url", func(c *Config) { c.Services.Remote.BaseURL = "" }, []string{"services.remote.base_url (APP_SERVICES_REMOTE_BASE_URL) is required"}},
		{"relative fetch path", func(c *Config) { c.Services.Remote.FetchPath = "posts" }, []string{"services.remote.fetch_path", `must start with "/"`}},
		{"empty batch", func(c *Config) { c.Services.Remote.BatchSize = 0 }, []string{"services.remote.batch_size"}},
		{"no storage path", func(c *Config) { c.Storage.Path = "" }, []string{"storage.path (APP_STORAGE_PATH) is required"}},
		{"session ttl too short", func(c *Config) { c.Session.TTL = time.Millisecond }, []string{"session.ttl"}},
		{"sync interval too short", func(c *Config) { c.Sync.Interval = time.Millisecond }, []string{"sync.interval (APP_SYNC_INTERVAL) must be at least 1s"}},
		{"status outlives interval", func(c *Config) { c.Sync.StatusDisplay = c.Sync.Interval }, []string{"sync.status_display", "must be less than interval"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestConfig_Validate_EveryEnvironment(t *testing.T) {
	for _, env := range []string{"local", "dev", "qa", "prod", "test"} {
		cfg := validConfig()
		cfg.App.Environment = env
		assert.NoError(t, cfg.Validate(), env)
	}
}

func TestConfig_Validate_ListsEveryProblem(t *testing.T) {
	err := (&Config{App: AppConfig{Environment: "invalid"}, Server: ServerConfig{Port: -1}}).Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "config validation failed:\n  "))
	assert.Contains(t, msg, "app.name")
	assert.Contains(t, msg, "app.version")
	assert.Contains(t, msg, "app.environment")
	assert.Contains(t, msg, "server.port")
	assert.Greater(t, strings.Count(msg, "\n  "), 4)
}

func TestConfig_Validate_DefaultsAreValid(t *testing.T) {
	cfg, err := Load("test")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "client.retry.max_attempts", configKey("Config.client.retry.max_attempts"))
	assert.Equal(t, "port", configKey("port"))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "APP_SYNC_STATUS_DISPLAY", envName("sync.status_display"))
	assert.Equal(t, "APP_CLIENT_CIRCUIT_BREAKER_MAX_FAILURES", envName("client.circuit_breaker.max_failures"))
}
