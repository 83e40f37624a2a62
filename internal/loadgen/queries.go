package loadgen

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Constants for query generation.
const (
	budgetFactorMin        = 0.7
	budgetFactorRange      = 0.6
	comparisonQueryDivisor = 2
	comparisonPairStride   = 7
	reportInterval         = 1 * time.Second
)

// Query outcome labels.
const (
	outcomeSuccess = "success"
	outcomeEmpty   = "empty"
	outcomeFailed  = "failed"
)

// hammerRecommendations issues recommendation queries concurrently using a
// worker pool. References rotate through the generated players; budgets
// swing around the reference price so some queries legitimately drain the
// candidate pool.
func hammerRecommendations(ctx context.Context, client *HTTPClient, config *Config, players []Player, stats *Stats) error {
	log.Printf("📤 Issuing %d recommendation queries with %d workers...", config.NumQueries, config.Workers)

	// Counters for statistics
	var (
		issued         int64
		successful     int64
		emptyPool      int64
		failed         int64
		scoreMismatch  int64
		poolViolation  int64
		lastReportNano int64
	)

	// Create worker pool
	queryChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range queryChan {
				select {
				case <-ctx.Done():
					return
				default:
					ref := players[index%len(players)]
					budget := ref.Price * (budgetFactorMin + getRandomFloat()*budgetFactorRange)

					outcome, suggestions := runSingleRecommendation(ctx, client, config, ref.ID, budget)

					// Update counters
					atomic.AddInt64(&issued, 1)
					switch outcome {
					case outcomeSuccess:
						atomic.AddInt64(&successful, 1)
						mismatches, violations := verifySuggestions(ref.ID, budget, suggestions)
						atomic.AddInt64(&scoreMismatch, int64(mismatches))
						atomic.AddInt64(&poolViolation, int64(violations))
					case outcomeEmpty:
						atomic.AddInt64(&emptyPool, 1)
					case outcomeFailed:
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if now := time.Now(); now.UnixNano()-atomic.LoadInt64(&lastReportNano) >= int64(reportInterval) {
						atomic.StoreInt64(&lastReportNano, now.UnixNano())
						total := atomic.LoadInt64(&issued)
						succ := atomic.LoadInt64(&successful)
						empty := atomic.LoadInt64(&emptyPool)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d queries (ok: %d, empty pool: %d, failed: %d)",
								total, config.NumQueries, succ, empty, fail)
						} else {
							fmt.Printf("\r📤 Queries: %d/%d (ok: %d, empty pool: %d, failed: %d)",
								total, config.NumQueries, succ, empty, fail)
						}
					}
				}
			}
		}()
	}

	// Send query indices to workers
	go func() {
		defer close(queryChan)
		for i := 0; i < config.NumQueries; i++ {
			select {
			case <-ctx.Done():
				return
			case queryChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.RecommendationsOK = int(atomic.LoadInt64(&successful))
	stats.RecommendationsEmpty = int(atomic.LoadInt64(&emptyPool))
	stats.RecommendationsFailed = int(atomic.LoadInt64(&failed))
	stats.ScoreMismatches = int(atomic.LoadInt64(&scoreMismatch))
	stats.PoolViolations = int(atomic.LoadInt64(&poolViolation))

	log.Printf(`✅ Recommendation queries completed:
   Successful: %d
   Empty pool: %d
   Failed: %d
   Score mismatches: %d
   Pool violations: %d
`, stats.RecommendationsOK, stats.RecommendationsEmpty, stats.RecommendationsFailed,
		stats.ScoreMismatches, stats.PoolViolations)

	return nil
}

// runSingleRecommendation issues one recommendation query and classifies
// the outcome. An exhausted candidate pool is an expected answer for tight
// budgets, not a failure.
func runSingleRecommendation(ctx context.Context, client *HTTPClient, config *Config, refID string, budget float64) (string, []Suggestion) {
	url := fmt.Sprintf("%s/recommendations?player=%s&budget=%.2f&limit=%d", config.BaseURL, refID, budget, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return outcomeFailed, nil
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return outcomeFailed, nil
	}

	switch resp.StatusCode {
	case StatusOK:
		var suggestions []Suggestion
		if err := unmarshalJSON(body, &suggestions); err != nil {
			return outcomeFailed, nil
		}
		return outcomeSuccess, suggestions
	case StatusUnprocessable:
		var envelope ErrorResponse
		if err := unmarshalJSON(body, &envelope); err == nil && envelope.Code == codeEmptyCandidatePool {
			return outcomeEmpty, nil
		}
		return outcomeFailed, nil
	default:
		return outcomeFailed, nil
	}
}

// hammerComparisons issues side-by-side comparison queries concurrently.
// Pairs stride through the player list so both league pools get mixed.
func hammerComparisons(ctx context.Context, client *HTTPClient, config *Config, players []Player, stats *Stats) error {
	numComparisons := config.NumQueries / comparisonQueryDivisor
	if numComparisons == 0 && config.NumQueries > 0 {
		numComparisons = 1
	}

	log.Printf("⚖️  Issuing %d comparison queries with %d workers...", numComparisons, config.Workers)

	var (
		issued         int64
		successful     int64
		failed         int64
		violations     int64
		lastReportNano int64
	)

	pairChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range pairChan {
				select {
				case <-ctx.Done():
					return
				default:
					a := players[index%len(players)]
					b := players[(index+comparisonPairStride)%len(players)]
					if a.ID == b.ID {
						b = players[(index+1)%len(players)]
					}

					outcome, breaches := runSingleComparison(ctx, client, config, a.ID, b.ID)

					atomic.AddInt64(&issued, 1)
					switch outcome {
					case outcomeSuccess:
						atomic.AddInt64(&successful, 1)
						atomic.AddInt64(&violations, int64(breaches))
					case outcomeFailed:
						atomic.AddInt64(&failed, 1)
					}

					if now := time.Now(); now.UnixNano()-atomic.LoadInt64(&lastReportNano) >= int64(reportInterval) {
						atomic.StoreInt64(&lastReportNano, now.UnixNano())
						total := atomic.LoadInt64(&issued)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Comparison progress: %d/%d (ok: %d, failed: %d)",
								total, numComparisons, succ, fail)
						} else {
							fmt.Printf("\r⚖️  Comparisons: %d/%d (ok: %d, failed: %d)",
								total, numComparisons, succ, fail)
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(pairChan)
		for i := 0; i < numComparisons; i++ {
			select {
			case <-ctx.Done():
				return
			case pairChan <- i:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println()
	}

	stats.ComparisonsOK = int(atomic.LoadInt64(&successful))
	stats.ComparisonsFailed = int(atomic.LoadInt64(&failed))
	stats.ComparisonViolations = int(atomic.LoadInt64(&violations))

	log.Printf(`✅ Comparison queries completed:
   Successful: %d
   Failed: %d
   Violations: %d
`, stats.ComparisonsOK, stats.ComparisonsFailed, stats.ComparisonViolations)

	return nil
}

// runSingleComparison issues one comparison query and checks the response
// shape: ids echoed back and every axis normalized into the 0-100 band.
func runSingleComparison(ctx context.Context, client *HTTPClient, config *Config, aID, bID string) (string, int) {
	url := fmt.Sprintf("%s/compare?a=%s&b=%s", config.BaseURL, aID, bID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return outcomeFailed, 0
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return outcomeFailed, 0
	}
	if resp.StatusCode != StatusOK {
		return outcomeFailed, 0
	}

	var comparison Comparison
	if err := unmarshalJSON(body, &comparison); err != nil {
		return outcomeFailed, 0
	}

	return outcomeSuccess, verifyComparison(aID, bID, comparison)
}
