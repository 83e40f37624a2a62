package loadgen

import (
	"context"
	"fmt"
	"log"
)

// rankingKeys are the sort keys fetched and verified on every run. The mix
// covers raw stats and derived metrics so both accessor paths get hit.
var rankingKeys = []string{
	"total_points",
	"value_efficiency",
	"overperformance",
	"form",
	"price",
}

// fetchEnrichedPlayers retrieves the served dataset with derived metrics,
// keyed by player id. The verifier uses it to cross-check recommendation
// deltas against the server's own numbers.
func fetchEnrichedPlayers(ctx context.Context, client *HTTPClient, config *Config) (map[string]PlayerView, error) {
	log.Printf("📋 Fetching enriched player list...")

	url := config.BaseURL + "/players?enriched=true"
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var views []PlayerView
	if err := unmarshalJSON(body, &views); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	byID := make(map[string]PlayerView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}

	log.Printf("✅ Retrieved %d enriched players", len(byID))
	return byID, nil
}

// retrieveRankings fetches each ranking key twice in a row. The duplicate
// pass feeds the stability check: with no refresh in between, both passes
// must agree entry for entry.
func retrieveRankings(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) ([]RankingSample, error) {
	log.Printf("🏆 Retrieving rankings for %d keys (top %d)...", len(rankingKeys), config.TopN)

	samples := make([]RankingSample, 0, len(rankingKeys))
	for _, key := range rankingKeys {
		first, err := retrieveSingleRanking(ctx, client, config, key)
		if err != nil {
			return nil, fmt.Errorf("ranking %q failed: %w", key, err)
		}
		second, err := retrieveSingleRanking(ctx, client, config, key)
		if err != nil {
			return nil, fmt.Errorf("ranking %q repeat failed: %w", key, err)
		}

		stats.RankingsFetched += 2
		samples = append(samples, RankingSample{Key: key, First: first, Second: second})

		if config.Verbose {
			log.Printf("📊 Ranking %q: %d entries", key, len(first))
		}
	}

	log.Printf("✅ Ranking retrieval completed: %d responses", stats.RankingsFetched)
	return samples, nil
}

// retrieveSingleRanking fetches one ranking page.
func retrieveSingleRanking(ctx context.Context, client *HTTPClient, config *Config, key string) ([]RankedEntry, error) {
	url := fmt.Sprintf("%s/rankings?key=%s&limit=%d", config.BaseURL, key, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entries []RankedEntry
	if err := unmarshalJSON(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return entries, nil
}
