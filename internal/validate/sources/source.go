// Package sources holds the adapters for the public data APIs that claims
// are checked against. Every adapter speaks the same Observation shape so
// the verdict engine never cares where the numbers came from.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/worker"
)

// DataPoint is one dated value of a series, newest first in Observation.Recent
type DataPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Units a series can be published in. The verdict engine refuses to
// compare a percentage claim against an index or dollar level, so every
// adapter tags what its numbers mean. Empty means unknown.
const (
	UnitPercent  = "percent"
	UnitIndex    = "index"
	UnitCurrency = "currency"
	UnitCount    = "count"
	UnitVolume   = "volume"
)

// Observation is the normalized result of one source lookup
type Observation struct {
	SourceName string                 // Human-readable provenance
	Label      string                 // What was measured
	Value      float64                // Latest numeric value
	HasValue   bool                   // False when the source returned only facts, no number
	Unit       string                 // What the value measures, one of the Unit constants
	Date       string                 // Date or year of the latest value
	URL        string                 // Public page for the underlying data
	Recent     []DataPoint            // Recent values, newest first
	Raw        map[string]interface{} // Safe subset passed through to the response
}

// Source is one external data adapter
type Source interface {
	Name() string
	Fetch(ctx context.Context, params map[string]string) (*Observation, error)
}

// Client is the shared HTTP helper for all adapters. It enforces the
// per-host rate limit, the body size cap, and a stable User-Agent.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBody    int64
	limiter    *worker.Limiter
}

// NewClient creates the shared adapter HTTP client
func NewClient(cfg model.HTTPConfig, limiter *worker.Limiter) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 2_000_000
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  cfg.UserAgent,
		maxBody:    maxBody,
		limiter:    limiter,
	}
}

// GetJSON fetches a URL and decodes the JSON body into dst
func (c *Client) GetJSON(ctx context.Context, rawURL string, dst interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
