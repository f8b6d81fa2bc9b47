package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Fluxer relay.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	TSDB      TSDBConfig      `yaml:"tsdb"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Relay     RelayConfig     `yaml:"relay"`
	Spool     SpoolConfig     `yaml:"spool"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TSDBConfig contains time-series database connection settings.
type TSDBConfig struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`
	// Precision selects the timestamp unit sent with writes.
	// One of "", "ns", "us", "ms", "s". Empty means the server default
	// (nanoseconds).
	Precision string `yaml:"precision"`
	// CreateDatabase issues CREATE DATABASE IF NOT EXISTS at startup.
	CreateDatabase bool `yaml:"create_database"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
	// Topics are the subscription filters the relay ingests from.
	Topics []string `yaml:"topics"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// RelayConfig contains batching settings for the ingest pipeline.
type RelayConfig struct {
	// BatchSize is the point count that triggers an immediate flush.
	BatchSize int `yaml:"batch_size"`
	// FlushInterval is the maximum seconds a point waits before a
	// time-based flush.
	FlushInterval int `yaml:"flush_interval"`
}

// SpoolConfig contains dead-letter spool settings.
type SpoolConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// BusyTimeout is the SQLite busy timeout in seconds.
	BusyTimeout int `yaml:"busy_timeout"`
	WALMode     bool `yaml:"wal_mode"`
}

// TelemetryConfig contains Prometheus metrics endpoint settings.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: FLUXER_SECTION_KEY
// For example: FLUXER_TSDB_URL, FLUXER_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		TSDB: TSDBConfig{
			URL:      "http://localhost:8086",
			Database: "telemetry",
			Timeout:  5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "fluxer-relay",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
			Topics: []string{"fluxer/ingest/#"},
		},
		Relay: RelayConfig{
			BatchSize:     200,
			FlushInterval: 5,
		},
		Spool: SpoolConfig{
			Enabled:     true,
			Path:        "./data/spool.db",
			BusyTimeout: 5,
			WALMode:     true,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: FLUXER_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// TSDB
	if v := os.Getenv("FLUXER_TSDB_URL"); v != "" {
		cfg.TSDB.URL = v
	}
	if v := os.Getenv("FLUXER_TSDB_DATABASE"); v != "" {
		cfg.TSDB.Database = v
	}
	if v := os.Getenv("FLUXER_TSDB_USERNAME"); v != "" {
		cfg.TSDB.Username = v
	}
	if v := os.Getenv("FLUXER_TSDB_PASSWORD"); v != "" {
		cfg.TSDB.Password = v
	}

	// MQTT
	if v := os.Getenv("FLUXER_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("FLUXER_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("FLUXER_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Spool
	if v := os.Getenv("FLUXER_SPOOL_PATH"); v != "" {
		cfg.Spool.Path = v
	}
}

// validPrecisions are the timestamp units the write endpoint accepts.
var validPrecisions = map[string]bool{
	"": true, "ns": true, "us": true, "ms": true, "s": true,
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// TSDB validation
	if c.TSDB.URL == "" {
		errs = append(errs, "tsdb.url is required")
	}
	if c.TSDB.Database == "" {
		errs = append(errs, "tsdb.database is required")
	}
	if !validPrecisions[c.TSDB.Precision] {
		errs = append(errs, `tsdb.precision must be one of "", "ns", "us", "ms", "s"`)
	}
	// The client only attaches Basic auth when both credentials are
	// present. Catch a half-configured pair here instead of silently
	// sending unauthenticated requests.
	if (c.TSDB.Username == "") != (c.TSDB.Password == "") {
		errs = append(errs, "tsdb.username and tsdb.password must be set together")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if len(c.MQTT.Topics) == 0 {
		errs = append(errs, "mqtt.topics must list at least one subscription filter")
	}

	// Relay validation
	if c.Relay.BatchSize < 1 {
		errs = append(errs, "relay.batch_size must be at least 1")
	}
	if c.Relay.FlushInterval < 1 {
		errs = append(errs, "relay.flush_interval must be at least 1 second")
	}

	// Spool validation
	if c.Spool.Enabled && c.Spool.Path == "" {
		errs = append(errs, "spool.path is required when spool is enabled")
	}

	// Telemetry validation
	if c.Telemetry.Enabled && c.Telemetry.Addr == "" {
		errs = append(errs, "telemetry.addr is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetTSDBTimeout returns the per-request database timeout as a Duration.
func (c *Config) GetTSDBTimeout() time.Duration {
	return time.Duration(c.TSDB.Timeout) * time.Second
}

// GetFlushInterval returns the relay flush interval as a Duration.
func (c *Config) GetFlushInterval() time.Duration {
	return time.Duration(c.Relay.FlushInterval) * time.Second
}

// GetSpoolBusyTimeout returns the spool busy timeout as a Duration.
func (c *Config) GetSpoolBusyTimeout() time.Duration {
	return time.Duration(c.Spool.BusyTimeout) * time.Second
}
