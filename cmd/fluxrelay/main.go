// Fluxer Relay - MQTT to time-series ingest daemon
//
// This is the main entry point for the Fluxer relay. The relay
// subscribes to MQTT ingest topics, batches measurements in memory,
// and writes them to an InfluxDB 1.x compatible server through the
// fluxer client library. Failed batches are journaled to a local
// SQLite spool for operator replay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/LineMetrics/fluxer"
	"github.com/LineMetrics/fluxer/internal/infrastructure/config"
	"github.com/LineMetrics/fluxer/internal/infrastructure/logging"
	"github.com/LineMetrics/fluxer/internal/infrastructure/mqtt"
	"github.com/LineMetrics/fluxer/internal/infrastructure/spool"
	"github.com/LineMetrics/fluxer/internal/relay"
	"github.com/LineMetrics/fluxer/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// startupTimeout bounds the initial TSDB ping and database creation.
const startupTimeout = 10 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Fluxer Relay",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load .env if present; FLUXER_* variables override config values
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("could not load .env file", "error", err)
	}

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Create the TSDB client
	client, err := fluxer.New(fluxer.Config{
		URL:      cfg.TSDB.URL,
		Username: cfg.TSDB.Username,
		Password: cfg.TSDB.Password,
		Timeout:  cfg.GetTSDBTimeout(),
	})
	if err != nil {
		return fmt.Errorf("creating TSDB client: %w", err)
	}
	defer func() {
		log.Info("closing TSDB client")
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing TSDB client", "error", closeErr)
		}
	}()
	client.SetLogger(log)

	// Verify the server is reachable before accepting traffic
	pingCtx, cancelPing := context.WithTimeout(ctx, startupTimeout)
	latency, serverVersion, err := client.Ping(pingCtx)
	cancelPing()
	if err != nil {
		return fmt.Errorf("pinging TSDB: %w", err)
	}
	log.Info("TSDB reachable",
		"url", cfg.TSDB.URL,
		"server_version", serverVersion,
		"latency", latency.String(),
	)

	// Ensure the target database exists (optional)
	if cfg.TSDB.CreateDatabase {
		createCtx, cancelCreate := context.WithTimeout(ctx, startupTimeout)
		err = client.CreateDatabaseIfNotExists(createCtx, cfg.TSDB.Database)
		cancelCreate()
		if err != nil {
			return fmt.Errorf("creating database %q: %w", cfg.TSDB.Database, err)
		}
		log.Info("database ensured", "database", cfg.TSDB.Database)
	}

	// Open the spool journal (optional)
	var sp *spool.Spool
	if cfg.Spool.Enabled {
		sp, err = spool.Open(spool.Config{
			Path:        cfg.Spool.Path,
			BusyTimeout: cfg.Spool.BusyTimeout,
			WALMode:     cfg.Spool.WALMode,
		})
		if err != nil {
			return fmt.Errorf("opening spool: %w", err)
		}
		defer func() {
			log.Info("closing spool")
			if closeErr := sp.Close(); closeErr != nil {
				log.Error("error closing spool", "error", closeErr)
			}
		}()
		if n, lenErr := sp.Len(ctx); lenErr == nil && n > 0 {
			log.Warn("spool holds unreplayed batches", "entries", n, "path", cfg.Spool.Path)
		}
		log.Info("spool opened", "path", cfg.Spool.Path)
	} else {
		log.Info("spool disabled, failed batches will be dropped")
	}

	// Build and start the relay before MQTT so the pipeline is ready
	// when the first message arrives
	deps := relay.Deps{
		Writer:        client,
		Logger:        log,
		Database:      cfg.TSDB.Database,
		Precision:     fluxer.Precision(cfg.TSDB.Precision),
		BatchSize:     cfg.Relay.BatchSize,
		FlushInterval: cfg.GetFlushInterval(),
	}
	if sp != nil {
		deps.Journal = sp
	}
	rel, err := relay.New(deps)
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	rel.Start()
	defer func() {
		log.Info("stopping relay")
		if closeErr := rel.Close(); closeErr != nil {
			log.Error("error stopping relay", "error", closeErr)
		}
	}()

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Subscribe the relay to every ingest topic
	for _, topic := range cfg.MQTT.Topics {
		if subErr := mqttClient.Subscribe(topic, byte(cfg.MQTT.QoS), rel.Ingest); subErr != nil {
			return fmt.Errorf("subscribing to %q: %w", topic, subErr)
		}
		log.Info("subscribed", "topic", topic, "qos", cfg.MQTT.QoS)
	}

	// Start the metrics endpoint (optional)
	if cfg.Telemetry.Enabled {
		metricsSrv := telemetry.New(cfg.Telemetry, log)
		metricsSrv.Start()
		defer func() {
			log.Info("stopping metrics server")
			if closeErr := metricsSrv.Close(); closeErr != nil {
				log.Error("error stopping metrics server", "error", closeErr)
			}
		}()
		log.Info("metrics endpoint enabled", "addr", cfg.Telemetry.Addr)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, client, mqttClient, sp, rel); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. Metrics server
	// 2. MQTT (stops message delivery)
	// 3. Relay (final flush of the remaining batch)
	// 4. Spool
	// 5. TSDB client

	log.Info("Fluxer Relay stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FLUXER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FLUXER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - client: TSDB client to check
//   - mqttClient: MQTT client to check
//   - sp: Spool to check (may be nil if disabled)
//   - rel: Relay to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, client *fluxer.Client, mqttClient *mqtt.Client, sp *spool.Spool, rel *relay.Relay) error {
	if err := client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("tsdb: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if sp != nil {
		if err := sp.HealthCheck(ctx); err != nil {
			return fmt.Errorf("spool: %w", err)
		}
	}

	if err := rel.HealthCheck(ctx); err != nil {
		return fmt.Errorf("relay: %w", err)
	}

	return nil
}
