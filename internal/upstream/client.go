// Package upstream talks to the eCFR API: it builds search URLs and performs
// the JSON GETs behind the dashboard's proxy endpoints.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/ecfrdash/ecfr-dashboard/internal/metrics"
	"github.com/ecfrdash/ecfr-dashboard/internal/model"
)

// maxErrorBody bounds the upstream body echoed into error messages.
const maxErrorBody = 256

// Client performs GETs against the eCFR API. Requests are never retried.
type Client struct {
	rc      *resty.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient returns a client for baseURL. A zero timeout leaves the HTTP
// client's default (no timeout) in place.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	rc := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{rc: rc, baseURL: baseURL, log: log}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// AgenciesURL returns the absolute URL of the agencies listing.
func (c *Client) AgenciesURL() string { return JoinURL(c.baseURL, Agencies) }

// SearchURL returns the absolute search URL for ep and q.
func (c *Client) SearchURL(ep Endpoint, q SearchQuery) string {
	return BuildSearchURL(JoinURL(c.baseURL, ep), q.Agency, q.Child, q.Query)
}

// Search runs one of the search endpoints.
func (c *Client) Search(ctx context.Context, ep Endpoint, q SearchQuery) (json.RawMessage, error) {
	return c.GetJSON(ctx, ep, c.SearchURL(ep, q))
}

// GetJSON fetches rawURL and returns its body, which must be valid JSON.
// Every failure is a model.RemoteFetchError naming ep.
func (c *Client) GetJSON(ctx context.Context, ep Endpoint, rawURL string) (json.RawMessage, error) {
	start := time.Now()
	resp, err := c.rc.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(ep.Name, "network_error").Inc()
		c.log.Warn().Err(err).Str("endpoint", ep.Name).Str("url", rawURL).Msg("upstream request failed")
		return nil, model.NewRemoteFetchError(ep.Name, 0, err)
	}

	ev := c.log.Debug()
	if !resp.IsSuccess() {
		ev = c.log.Warn()
	}
	ev.Str("endpoint", ep.Name).
		Str("url", rawURL).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("upstream response")

	if !resp.IsSuccess() {
		metrics.UpstreamRequestsTotal.WithLabelValues(ep.Name, "bad_status").Inc()
		return nil, model.NewRemoteFetchError(ep.Name, resp.StatusCode(),
			fmt.Errorf("upstream body: %s", truncate(resp.Body(), maxErrorBody)))
	}

	body := resp.Body()
	if !json.Valid(body) {
		metrics.UpstreamRequestsTotal.WithLabelValues(ep.Name, "invalid_json").Inc()
		return nil, model.NewRemoteFetchError(ep.Name, 0, fmt.Errorf("upstream returned invalid JSON"))
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(ep.Name, "ok").Inc()
	return json.RawMessage(body), nil
}

// Ping checks that the API host answers. Any status below 500 counts as up.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.rc.R().SetContext(ctx).Head(c.AgenciesURL())
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("upstream status %d", resp.StatusCode())
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Fetch is GetJSON for callers that only know a resource name.
func (c *Client) Fetch(ctx context.Context, resource, rawURL string) (json.RawMessage, error) {
	return c.GetJSON(ctx, Endpoint{Name: resource}, rawURL)
}
