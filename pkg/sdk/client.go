package opsconsole

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

const maxErrorBody = 64 << 10

// Client talks to an opsconsole server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	obs     *observer
}

// New creates a Client for the console at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("opsconsole: base url %q must be absolute", baseURL)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   cfg.token,
		http:    hc,
		obs:     obs,
	}, nil
}

// queryParam is one form-style query parameter.
type queryParam struct {
	name  string
	value any
}

func encodeQuery(params []queryParam) (string, error) {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		frag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
		if err != nil {
			return "", fmt.Errorf("opsconsole: encode %s: %w", p.name, err)
		}
		parts = append(parts, frag)
	}
	return strings.Join(parts, "&"), nil
}

// call describes one API request.
type call struct {
	op     string
	method string
	path   string
	params []queryParam
	body   any
	out    any
	// also decodes out for these non-2xx statuses
	accept []int
}

func (c call) accepts(status int) bool {
	if status >= 200 && status <= 299 {
		return true
	}
	return slices.Contains(c.accept, status)
}

// do sends one request and decodes an accepted JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, k call) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(k.op, start, err) }()

	u := c.baseURL + k.path
	if len(k.params) > 0 {
		q, err := encodeQuery(k.params)
		if err != nil {
			return err
		}
		u += "?" + q
	}

	var rd io.Reader = http.NoBody
	if k.body != nil {
		buf, err := json.Marshal(k.body)
		if err != nil {
			return fmt.Errorf("opsconsole: encode %s body: %w", k.op, err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, k.method, u, rd)
	if err != nil {
		return fmt.Errorf("opsconsole: build %s request: %w", k.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if k.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("opsconsole: %s: %w", k.op, err)
	}
	defer resp.Body.Close()

	if !k.accepts(resp.StatusCode) {
		return readAPIError(resp)
	}
	if k.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(k.out); err != nil {
		return fmt.Errorf("opsconsole: decode %s response: %w", k.op, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		apiErr.Code = parsed.Code
		apiErr.Message = parsed.Message
	}
	if apiErr.Code == "" {
		apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
	}
	return apiErr
}

// IsAPIStatus reports whether err is an APIError with the given status.
func IsAPIStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
