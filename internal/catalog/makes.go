// Package catalog fetches the public vehicle-makes list with a TTL cache.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Make is one manufacturer entry from the external vehicle-data API.
type Make struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client caches the full makes list for a fixed TTL. The cache is an explicit
// field guarded by a mutex, with an injected clock, so it is testable and
// carries no process-wide state. Multiple server processes each hold their own
// copy; the data changes rarely enough that this needs no coordination.
type Client struct {
	baseURL string
	ttl     time.Duration
	httpc   *http.Client
	now     func() time.Time

	mu        sync.Mutex
	cached    []Make
	fetchedAt time.Time
}

// NewClient constructs a catalog client with the default HTTP client and clock.
func NewClient(baseURL string, ttl time.Duration) *Client {
	return NewClientWith(baseURL, ttl, &http.Client{Timeout: 10 * time.Second}, time.Now)
}

// NewClientWith constructs a catalog client with explicit dependencies.
func NewClientWith(baseURL string, ttl time.Duration, httpc *http.Client, now func() time.Time) *Client {
	return &Client{baseURL: baseURL, ttl: ttl, httpc: httpc, now: now}
}

// makesResponse matches the upstream payload shape.
type makesResponse struct {
	Results []struct {
		MakeID   int64  `json:"Make_ID"`
		MakeName string `json:"Make_Name"`
	} `json:"Results"`
}

// Makes returns the manufacturer list, served from cache while fresh. When the
// upstream is unreachable a stale copy is preferred over an error.
func (c *Client) Makes(ctx context.Context) ([]Make, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return copyMakes(c.cached), nil
	}

	makes, err := c.fetch(ctx)
	if err != nil {
		if c.cached != nil {
			return copyMakes(c.cached), nil
		}
		return nil, err
	}
	c.cached = makes
	c.fetchedAt = c.now()
	return copyMakes(makes), nil
}

func (c *Client) fetch(ctx context.Context) ([]Make, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("makes lookup: unexpected status %d", resp.StatusCode)
	}

	var payload makesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("makes lookup: decode: %w", err)
	}
	out := make([]Make, 0, len(payload.Results))
	for _, r := range payload.Results {
		out = append(out, Make{ID: r.MakeID, Name: r.MakeName})
	}
	return out, nil
}

func copyMakes(in []Make) []Make {
	out := make([]Make, len(in))
	copy(out, in)
	return out
}
