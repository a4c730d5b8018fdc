// Package upstream wraps the agenda backend's REST API with typed,
// short-cached resource clients. The backend owns all persistence and
// business rules; everything here is a transient copy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/salabelleza/agenda-console/internal/observability/metrics"
)

// TokenSource supplies the bearer token attached to every non-login request.
// Clear is invoked when the backend answers 401, so a dead session never
// lingers on disk.
type TokenSource interface {
	Token() string
	Clear() error
}

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 15 * time.Second
)

type Options struct {
	BaseURL  string
	Timeout  time.Duration // bound on every outbound request; 0 means 10s
	CacheTTL time.Duration // per-entity response cache window; 0 means 15s
	Tokens   TokenSource
	Logger   *slog.Logger
	Metrics  *metrics.UpstreamMetrics
}

// API bundles the per-entity resource clients sharing one HTTP core.
type API struct {
	Auth         *AuthClient
	Appointments *AppointmentsClient
	Clients      *ClientsClient
	Staff        *StaffClient
	Services     *ServicesClient
	Payments     *PaymentsClient
	Users        *UsersClient
	Statuses     *StatusesClient

	core *client
}

func New(opts Options) (*API, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	core := &client{
		base: base,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:  opts.Tokens,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}

	api := &API{core: core}
	api.Auth = &AuthClient{c: core}
	api.Appointments = &AppointmentsClient{c: core, cache: newQueryCache("citas", opts.CacheTTL, opts.Metrics)}
	api.Clients = &ClientsClient{c: core, cache: newQueryCache("clientes", opts.CacheTTL, opts.Metrics)}
	api.Staff = &StaffClient{c: core, cache: newQueryCache("personal", opts.CacheTTL, opts.Metrics)}
	api.Services = &ServicesClient{c: core, cache: newQueryCache("servicios", opts.CacheTTL, opts.Metrics)}
	api.Payments = &PaymentsClient{c: core, cache: newQueryCache("pagos", opts.CacheTTL, opts.Metrics)}
	api.Users = &UsersClient{c: core}
	api.Statuses = &StatusesClient{c: core}
	return api, nil
}

// BaseURL returns the configured backend root, for proxy wiring.
func (a *API) BaseURL() *url.URL {
	u := *a.core.base
	return &u
}

// Ping reports whether the backend answers at all. Any HTTP status counts as
// reachable; only transport failures make the check fail.
func (a *API) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.core.base.String()+"/estados", nil)
	if err != nil {
		return err
	}
	res, err := a.core.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

type client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
	metrics *metrics.UpstreamMetrics
}

// do issues one request and decodes the JSON response into out (if non-nil).
// 4xx/5xx become *APIError; transport failures become ErrUnreachable or
// ErrTimeout. A 401 additionally clears the stored session.
func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out any, entity string) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", entity, err)
		}
		payload = bytes.NewReader(raw)
	}

	u := c.base.String() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", entity, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	login := strings.HasSuffix(path, "/auth/login")
	if c.tokens != nil && !login {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(entity, "transport_error", time.Since(start).Seconds())
		transportErr := classifyTransport(err)
		c.logger.Warn("backend request failed",
			"entity", entity, "method", method, "path", path, "err", transportErr)
		return fmt.Errorf("%s: %w", entity, transportErr)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		c.metrics.ObserveRequest(entity, "transport_error", time.Since(start).Seconds())
		return fmt.Errorf("%s: read response: %w", entity, err)
	}

	if res.StatusCode >= 400 {
		c.metrics.ObserveRequest(entity, fmt.Sprintf("http_%d", res.StatusCode), time.Since(start).Seconds())
		if res.StatusCode == http.StatusUnauthorized && c.tokens != nil && !login {
			if clearErr := c.tokens.Clear(); clearErr != nil {
				c.logger.Error("failed to clear session after 401", "err", clearErr)
			} else {
				c.logger.Info("session cleared after 401", "path", path)
			}
		}
		return &APIError{
			StatusCode: res.StatusCode,
			Message:    serverMessage(raw),
			Entity:     entity,
		}
	}

	c.metrics.ObserveRequest(entity, "ok", time.Since(start).Seconds())
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", entity, err)
	}
	return nil
}

// serverMessage pulls a human-readable message out of an error body. The
// backend is inconsistent about the field name.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	trimmed := strings.TrimSpace(string(raw))
	if len(trimmed) > 0 && len(trimmed) <= 200 && !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "<") {
		return trimmed
	}
	return ""
}
