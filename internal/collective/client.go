// Package collective holds the boundary contracts to the cross-user
// aggregation service and the decentralized sharing gateway. The core only
// depends on the interfaces; both collaborators may be absent or failing and
// every caller treats that as a skipped source, never as fatal.
package collective

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GlobalStats are anonymous aggregate statistics for one activity key.
// Zero TotalEntries means "insufficient data", not an error.
type GlobalStats struct {
	TotalEntries  int     `json:"total_entries"`
	PositiveCount int     `json:"positive_count"`
	UniqueUsers   int     `json:"unique_users"`
	PositiveRate  float64 `json:"positive_rate"`
}

// Client fetches collective statistics.
type Client interface {
	GetGlobalStats(ctx context.Context, stateKey string) (GlobalStats, error)
}

// HTTPClient queries a stats service over HTTP with a bounded per-call
// timeout. Caller context cancellation abandons in-flight requests.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) GetGlobalStats(ctx context.Context, stateKey string) (GlobalStats, error) {
	u := c.BaseURL + "/stats/" + url.PathEscape(stateKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return GlobalStats{}, fmt.Errorf("build stats request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return GlobalStats{}, fmt.Errorf("fetch stats for %q: %w", stateKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GlobalStats{}, fmt.Errorf("fetch stats for %q: status %d", stateKey, resp.StatusCode)
	}

	var stats GlobalStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return GlobalStats{}, fmt.Errorf("decode stats for %q: %w", stateKey, err)
	}

	if stats.TotalEntries > 0 {
		stats.PositiveRate = float64(stats.PositiveCount) / float64(stats.TotalEntries)
	}
	return stats, nil
}

// Disabled is the client used when no stats service is configured.
// It reports insufficient data for every key.
type Disabled struct{}

func (Disabled) GetGlobalStats(context.Context, string) (GlobalStats, error) {
	return GlobalStats{}, nil
}
