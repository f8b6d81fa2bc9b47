package fluxer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Default limits for client operations.
const (
	defaultTimeout             = 5 * time.Second
	defaultMaxIdleConnsPerHost = 10
	idleConnTimeout            = 90 * time.Second

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 10 << 20 // 10 MB

	// maxErrorBody bounds how much body a StatusError carries.
	maxErrorBody = 1 << 10
)

// Config holds the settings for a Client. It is read once by New;
// changing it afterwards has no effect on an existing client.
type Config struct {
	// URL is the database base URL, e.g. "http://localhost:8086".
	URL string

	// Username and Password enable HTTP Basic authentication. The
	// Authorization header is attached only when both are non-empty;
	// setting one without the other is the same as setting neither.
	Username string
	Password string

	// Timeout bounds each request end to end. Zero means 5 seconds.
	Timeout time.Duration

	// MaxIdleConnsPerHost sizes the keep-alive connection pool toward
	// the database host. Zero means 10.
	MaxIdleConnsPerHost int

	// InsecureSkipVerify disables TLS certificate verification.
	// Intended for self-signed lab setups only.
	InsecureSkipVerify bool
}

// Client issues write and query requests against one database server.
//
// Requests multiplex over a pooled HTTP transport; response bodies are
// drained and closed on every path so connections return to the pool.
//
// Thread Safety: all methods are safe for concurrent use from multiple
// goroutines.
type Client struct {
	url        string
	username   string
	password   string
	httpClient *http.Client

	// logger for diagnostic output (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger is the optional diagnostic interface.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
}

// New creates a Client from cfg.
//
// It builds the pooled transport and applies defaults; no connection
// is opened until the first request (use Ping to verify reachability).
//
// Returns:
//   - *Client: Ready client
//   - error: ErrMissingURL if cfg.URL is empty
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxIdle := cfg.MaxIdleConnsPerHost
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConnsPerHost
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: maxIdle,
		IdleConnTimeout:     idleConnTimeout,
	}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Explicit opt-in via config
	}

	return &Client{
		url:      strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// Close releases idle pooled connections. The client must not be used
// afterwards.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	return nil
}

// Ping checks server reachability via GET /ping.
//
// Returns the round-trip latency and the server version reported in
// the X-Influxdb-Version header.
func (c *Client) Ping(ctx context.Context) (time.Duration, string, error) {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/ping", nil)
	if err != nil {
		return 0, "", fmt.Errorf("creating ping request: %w", err)
	}
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("executing ping: %w", err)
	}
	defer resp.Body.Close()
	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	version := resp.Header.Get("X-Influxdb-Version")
	if resp.StatusCode/100 != 2 {
		return 0, version, &StatusError{StatusCode: resp.StatusCode}
	}

	return time.Since(started), version, nil
}

// HealthCheck verifies the database connection is alive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, _, err := c.Ping(ctx); err != nil {
		return fmt.Errorf("tsdb health check: %w", err)
	}
	return nil
}

// SetLogger sets a logger for diagnostic output, currently the
// outgoing path of each write. If not set, nothing is logged.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// debug emits a diagnostic record if a logger is set.
func (c *Client) debug(msg string, args ...any) {
	c.loggerMu.RLock()
	logger := c.logger
	c.loggerMu.RUnlock()

	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// applyAuth attaches the Basic auth header when both credentials are
// configured. One credential alone attaches nothing.
func (c *Client) applyAuth(req *http.Request) {
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

// do sends one request and enforces the expected success status.
//
// The body is read (bounded), the remainder drained, and the response
// closed on every exit path so the pooled connection is always checked
// back in. A non-success status returns *StatusError; transport
// failures are returned verbatim for the caller to wrap.
func (c *Client) do(req *http.Request, wantStatus int) ([]byte, error) {
	c.applyAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	// Drain any remainder to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != wantStatus {
		detail := body
		if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody]
		}
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(detail)),
		}
	}

	return body, nil
}
