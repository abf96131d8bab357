// Package footballdata provides the authenticated football-data.org v4 client.
package footballdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nufcvault/vault/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream calls.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_upstream_requests_total",
		Help: "Total football-data.org requests by endpoint and status",
	}, []string{"endpoint", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vault_upstream_request_duration_seconds",
		Help:    "football-data.org request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_upstream_errors_total",
		Help: "Total football-data.org errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the football-data.org v4 API root.
const DefaultBaseURL = "https://api.football-data.org/v4"

// maxBodySize caps how much of a response is read. Larger bodies fail.
var maxBodySize int64 = 8 << 20

// Client calls football-data.org. It never retries.
type Client struct {
	httpClient *http.Client
	quota      *ratelimit.Tracker
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root without trailing slash.
	BaseURL string

	// Token is sent as X-Auth-Token. An empty token fails every call with a 401.
	Token string

	// Timeout bounds each call, including reading the body.
	Timeout time.Duration

	// Quota gates calls on the provider's per-minute quota. Optional.
	Quota *ratelimit.Tracker
}

// DefaultConfig returns the production configuration for token.
func DefaultConfig(token string) Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Token:   token,
		Timeout: 10 * time.Second,
	}
}

// New creates a new football-data.org client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{},
		quota:      cfg.Quota,
		config:     cfg,
		logger:     log.With().Str("component", "footballdata").Logger(),
	}, nil
}

// HasToken reports whether an API token is configured.
func (c *Client) HasToken() bool {
	return c.config.Token != ""
}

// Fetch performs an authenticated GET of endpoint (path plus query, relative
// to BaseURL) and returns the raw JSON body of a 2xx response.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	label := endpointLabel(endpoint)

	if c.config.Token == "" {
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassAuth)).Inc()
		return nil, &UpstreamError{
			StatusCode: http.StatusUnauthorized,
			Class:      ErrorClassAuth,
			Message:    "Missing FOOTBALL_DATA_TOKEN",
			Err:        ErrMissingToken,
		}
	}

	if c.quota != nil {
		allowed, err := c.quota.ShouldAllowRequest(ctx)
		if err != nil {
			// Quota state is advisory; a broken store must not block calls.
			c.logger.Warn().Err(err).Msg("Quota check failed")
		} else if !allowed {
			upstreamErrorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
			upstreamRequestsTotal.WithLabelValues(label, "quota_blocked").Inc()
			return nil, &UpstreamError{
				StatusCode: http.StatusTooManyRequests,
				Class:      ErrorClassRateLimit,
				Message:    "Rate limited by football-data.org (429). Local request quota spent.",
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", c.config.Token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("endpoint", endpoint).Msg("Calling football-data.org")

	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(label).Observe(time.Since(startTime).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(label, endpoint, err)
	}
	defer resp.Body.Close()

	if c.quota != nil {
		if err := c.quota.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update quota from headers")
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, c.transportError(label, endpoint, err)
	}
	if int64(len(body)) > maxBodySize {
		upstreamRequestsTotal.WithLabelValues(label, "too_large").Inc()
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassServer)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int64("limit_bytes", maxBodySize).
			Msg("football-data.org response too large")
		return nil, &UpstreamError{
			StatusCode: http.StatusBadGateway,
			Class:      ErrorClassServer,
			Message:    fmt.Sprintf("football-data response too large (over %d bytes)", maxBodySize),
		}
	}

	upstreamRequestsTotal.WithLabelValues(label, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		upstreamErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("football-data.org request error")

		message := fmt.Sprintf("football-data error %d: %s", resp.StatusCode, body)
		if resp.StatusCode == http.StatusTooManyRequests {
			message = fmt.Sprintf("Rate limited by football-data.org (429). %s", body)
		}
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Class:      class,
			Message:    message,
		}
	}

	return body, nil
}

func (c *Client) transportError(label, endpoint string, err error) error {
	upstreamErr := &UpstreamError{
		StatusCode: http.StatusBadGateway,
		Class:      ErrorClassNetwork,
		Message:    "football-data.org unreachable",
		Err:        err,
	}
	if isTimeout(err) {
		upstreamErr.StatusCode = http.StatusGatewayTimeout
		upstreamErr.Class = ErrorClassTimeout
		upstreamErr.Message = fmt.Sprintf("football-data.org did not answer within %s", c.config.Timeout)
	}

	upstreamErrorsTotal.WithLabelValues(string(upstreamErr.Class)).Inc()
	upstreamRequestsTotal.WithLabelValues(label, string(upstreamErr.Class)).Inc()
	c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")

	return upstreamErr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// endpointLabel strips the query string and numeric ids so the metric label
// set stays bounded.
func endpointLabel(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
