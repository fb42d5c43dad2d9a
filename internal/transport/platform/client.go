// Package platform is the HTTP client for the prompt-ops platform REST API.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/opsconsole/internal/domain"
	"github.com/kailas-cloud/opsconsole/internal/metrics"
)

// Endpoint labels used in metrics and errors.
const (
	EndpointWorkspaces     = "workspaces"
	EndpointBudgetUsage    = "budget_usage"
	EndpointBudgetSettings = "budget_settings"
	EndpointHealth         = "health"
)

const maxErrorBody = 4 << 10

// Config holds the platform client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls the platform API on behalf of a console session.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a platform client.
func New(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// HealthCheck verifies the platform answers /healthz.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.get(ctx, EndpointHealth, "/healthz", nil, "", nil)
}

// queryParam is one form-style query parameter.
type queryParam struct {
	name  string
	value any
}

func encodeQuery(params []queryParam) (url.Values, error) {
	q := url.Values{}
	for _, p := range params {
		frag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.name, err)
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.name, err)
		}
		for k, vs := range parsed {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
	}
	return q, nil
}

// get performs a GET and decodes a 2xx JSON body into out (when non-nil).
// Every call is counted by endpoint and status, and timed by endpoint.
func (c *Client) get(ctx context.Context, endpoint, path string, params []queryParam, token string, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		q, err := encodeQuery(params)
		if err != nil {
			return err
		}
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.PlatformRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		if ctx.Err() != nil {
			return fmt.Errorf("%s request: %w", endpoint, ctx.Err())
		}
		return fmt.Errorf("%s request failed: %v: %w", endpoint, err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	metrics.PlatformRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.PlatformRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := parseAPIError(endpoint, resp.StatusCode, body)
		c.logger.Debug("Platform API error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Error(apiErr),
		)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %v: %w", endpoint, err, domain.ErrUpstream)
	}
	return nil
}

// parseAPIError maps a non-2xx platform response to a domain error,
// keeping the platform's message when it sent one.
func parseAPIError(endpoint string, status int, body []byte) error {
	var wrap error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		wrap = domain.ErrUnauthorized
	case http.StatusNotFound:
		wrap = domain.ErrNotFound
	default:
		wrap = domain.NewUpstreamStatus(endpoint, status)
	}

	if msg := extractMessage(body); msg != "" {
		return fmt.Errorf("platform %s %d: %s: %w", endpoint, status, msg, wrap)
	}
	return fmt.Errorf("platform %s %d: %w", endpoint, status, wrap)
}

// extractMessage reads "message" or "error" from a JSON error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return parsed.Error
}
