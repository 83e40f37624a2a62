package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with an optional JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := marshalJSON(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// triggerRefresh asks the service to reload its dataset.
func triggerRefresh(ctx context.Context, client *HTTPClient, config *Config) error {
	log.Printf("🔄 Triggering dataset refresh...")

	resp, err := client.Post(ctx, config.BaseURL+"/refresh", nil)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode != StatusAccepted && resp.StatusCode != StatusOK {
		return fmt.Errorf("refresh failed with HTTP %d: %s", resp.StatusCode, string(body))
	}

	var ack RefreshResponse
	if err := unmarshalJSON(body, &ack); err != nil {
		return fmt.Errorf("failed to parse refresh response: %w", err)
	}

	// A full trigger queue answers queued=false; the pending refresh will
	// still pick up the file on disk.
	log.Printf("✅ Refresh %s (queued: %t)", ack.Status, ack.Queued)
	return nil
}

// waitForSnapshot polls /stats until the service serves a snapshot with the
// expected player count.
func waitForSnapshot(ctx context.Context, client *HTTPClient, config *Config, wantPlayers int) (SnapshotStats, error) {
	logger.Get().Info(ctx, "waiting for snapshot", logger.Int("wantPlayers", wantPlayers))

	deadline := time.Now().Add(SnapshotWaitTimeout)
	url := config.BaseURL + "/stats"

	for {
		if time.Now().After(deadline) {
			return SnapshotStats{}, fmt.Errorf("snapshot with %d players not served within %s", wantPlayers, SnapshotWaitTimeout)
		}

		stats, err := fetchSnapshotStats(ctx, client, url)
		if err == nil && stats.SnapshotLoaded && stats.Players == wantPlayers {
			logger.Get().Info(ctx, "snapshot ready",
				logger.String("snapshotID", stats.SnapshotID),
				logger.Int("players", stats.Players),
				logger.Int("teams", stats.Teams),
				logger.Int("leagues", stats.Leagues))
			return stats, nil
		}
		if err != nil && config.Verbose {
			log.Printf("⚠️  Stats poll failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return SnapshotStats{}, fmt.Errorf("context cancelled while waiting for snapshot: %w", ctx.Err())
		case <-time.After(SnapshotPollInterval):
		}
	}
}

// fetchSnapshotStats performs one /stats poll.
func fetchSnapshotStats(ctx context.Context, client *HTTPClient, url string) (SnapshotStats, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return SnapshotStats{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return SnapshotStats{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return SnapshotStats{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var stats SnapshotStats
	if err := unmarshalJSON(body, &stats); err != nil {
		return SnapshotStats{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return stats, nil
}
