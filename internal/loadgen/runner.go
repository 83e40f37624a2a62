package loadgen

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// datasetHeader is the column order the service's csv provider requires.
var datasetHeader = []string{
	"id", "name", "position", "team", "league", "age", "price", "minutes",
	"total_points", "goals", "assists", "form", "influence", "creativity",
	"threat", "ict_index",
}

// Run executes the complete load run.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting scout load run",
		logger.String("baseURL", config.BaseURL),
		logger.String("datasetFile", config.DatasetFile),
		logger.Int("players", config.NumPlayers),
		logger.Int("queries", config.NumQueries),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate players
	players, err := generatePlayers(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("player generation failed: %w", err)
	}

	// Step 3: Write the dataset where the service reads it
	if err := writeDataset(ctx, config, players); err != nil {
		return fmt.Errorf("dataset write failed: %w", err)
	}

	// Step 4: Trigger a refresh
	if err := triggerRefresh(ctx, client, config); err != nil {
		return fmt.Errorf("refresh trigger failed: %w", err)
	}

	// Step 5: Wait until the snapshot serves the generated players
	if _, err := waitForSnapshot(ctx, client, config, len(players)); err != nil {
		return fmt.Errorf("snapshot wait failed: %w", err)
	}

	// Step 6: Fetch the enriched dataset for cross-checks
	enriched, err := fetchEnrichedPlayers(ctx, client, config)
	if err != nil {
		return fmt.Errorf("player fetch failed: %w", err)
	}

	// Step 7: Retrieve rankings, twice per key
	samples, err := retrieveRankings(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}

	// Step 8: Hammer recommendations concurrently
	if err := hammerRecommendations(ctx, client, config, players, stats); err != nil {
		return fmt.Errorf("recommendation queries failed: %w", err)
	}

	// Step 9: Hammer comparisons concurrently
	if err := hammerComparisons(ctx, client, config, players, stats); err != nil {
		return fmt.Errorf("comparison queries failed: %w", err)
	}

	// Step 10: Verify results
	if err := verifyResults(ctx, config, samples, enriched, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	if total := stats.RankingViolations + stats.ScoreMismatches + stats.PoolViolations + stats.ComparisonViolations; total > 0 {
		return fmt.Errorf("run finished with %d contract violations", total)
	}

	logger.Get().Info(ctx, "load run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// writeDataset writes the generated players as a CSV dataset. The file must
// be the one the service reads, otherwise the refresh loads stale data.
func writeDataset(ctx context.Context, config *Config, players []Player) error {
	if len(players) == 0 {
		return fmt.Errorf("no players to write")
	}

	filename := config.DatasetFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "scout_dataset_" + timestamp + ".csv"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(datasetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range players {
		row := []string{
			p.ID,
			p.Name,
			p.Position,
			p.Team,
			p.League,
			strconv.Itoa(p.Age),
			strconv.FormatFloat(p.Price, 'f', 1, 64),
			strconv.Itoa(p.Minutes),
			strconv.FormatFloat(p.TotalPoints, 'f', 0, 64),
			strconv.Itoa(p.Goals),
			strconv.Itoa(p.Assists),
			strconv.FormatFloat(p.Form, 'f', 1, 64),
			strconv.FormatFloat(p.Influence, 'f', 1, 64),
			strconv.FormatFloat(p.Creativity, 'f', 1, 64),
			strconv.FormatFloat(p.Threat, 'f', 1, 64),
			strconv.FormatFloat(p.ICTIndex, 'f', 1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write player %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}

	logger.Get().Info(ctx, "dataset written",
		logger.String("filename", filename),
		logger.Int("players", len(players)))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, queriesPerSecond float64

	issued := stats.RecommendationsOK + stats.RecommendationsEmpty + stats.RecommendationsFailed
	if issued > 0 {
		successRate = float64(stats.RecommendationsOK+stats.RecommendationsEmpty) / float64(issued) * PercentageMultiplier
	}

	totalQueries := issued + stats.ComparisonsOK + stats.ComparisonsFailed + stats.RankingsFetched
	if stats.Duration > 0 {
		queriesPerSecond = float64(totalQueries) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("rankingsFetched", stats.RankingsFetched),
		logger.Int("rankingViolations", stats.RankingViolations),
		logger.Int("recommendationsOK", stats.RecommendationsOK),
		logger.Int("recommendationsEmptyPool", stats.RecommendationsEmpty),
		logger.Int("recommendationsFailed", stats.RecommendationsFailed),
		logger.Int("scoreMismatches", stats.ScoreMismatches),
		logger.Int("poolViolations", stats.PoolViolations),
		logger.Int("comparisonsOK", stats.ComparisonsOK),
		logger.Int("comparisonsFailed", stats.ComparisonsFailed),
		logger.Int("comparisonViolations", stats.ComparisonViolations),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("queriesPerSecond", queriesPerSecond))
}
