package loadgen

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
)

// Published scoring weights of the recommendation endpoint. The verifier
// recomputes every score from its components against these.
const (
	recommendPointsWeight  = 2.0
	recommendValueWeight   = 10.0
	recommendSavingsWeight = 3.0
)

// Normalized radar axes land in the 0-100 band.
const normalizedAxisMax = 100.0

// Number of entries shown in the top picks listing.
const topPicksCount = 10

// verifySuggestions checks one recommendation response: every score must
// match the published formula, every candidate must fit the budget, and
// the reference player must not recommend itself. Order is part of the
// contract too: descending score, ascending price on ties.
func verifySuggestions(refID string, budget float64, suggestions []Suggestion) (scoreMismatches, poolViolations int) {
	for i, s := range suggestions {
		expected := s.PointsDelta*recommendPointsWeight +
			s.ValueDelta*recommendValueWeight +
			s.PriceSavings*recommendSavingsWeight
		if math.Abs(s.Score-expected) > scoreTolerance {
			scoreMismatches++
		}

		if s.Player.Price > budget {
			poolViolations++
		}
		if s.Player.ID == refID {
			poolViolations++
		}

		if i > 0 {
			prev := suggestions[i-1]
			switch {
			case s.Score > prev.Score+scoreTolerance:
				poolViolations++
			case math.Abs(s.Score-prev.Score) <= scoreTolerance && s.Player.Price < prev.Player.Price-scoreTolerance:
				poolViolations++
			}
		}
	}
	return scoreMismatches, poolViolations
}

// verifyComparison checks one comparison response: both ids echoed back and
// every axis normalized into the 0-100 band.
func verifyComparison(aID, bID string, comparison Comparison) int {
	violations := 0
	if comparison.A.ID != aID || comparison.B.ID != bID {
		violations++
	}
	if len(comparison.Axes) == 0 {
		violations++
	}
	for _, axis := range comparison.Axes {
		if axis.NormalizedA < 0 || axis.NormalizedA > normalizedAxisMax ||
			axis.NormalizedB < 0 || axis.NormalizedB > normalizedAxisMax {
			violations++
		}
	}
	return violations
}

// verifyResults checks the collected ranking samples and displays the top
// value picks from the served dataset.
func verifyResults(ctx context.Context, config *Config, samples []RankingSample, enriched map[string]PlayerView, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(samples) == 0 {
		return fmt.Errorf("no ranking samples to verify")
	}

	for _, sample := range samples {
		violations := verifyRankingSample(sample)
		stats.RankingViolations += violations
		if violations > 0 {
			log.Printf("⚠️  Ranking %q: %d violations", sample.Key, violations)
		} else if config.Verbose {
			log.Printf("✅ Ranking %q: sorted and stable", sample.Key)
		}
	}

	if stats.RankingViolations == 0 {
		log.Println("✅ All rankings sorted and stable")
	}

	displayTopValuePicks(enriched, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyRankingSample checks one ranking key: ranks numbered from 1 without
// gaps, values non-increasing, and both passes identical.
func verifyRankingSample(sample RankingSample) int {
	violations := 0

	for i, entry := range sample.First {
		if entry.Rank != i+1 {
			violations++
		}
		if entry.Key != sample.Key {
			violations++
		}
		if i > 0 && entry.Value > sample.First[i-1].Value {
			violations++
		}
	}

	if len(sample.First) != len(sample.Second) {
		violations++
		return violations
	}
	for i := range sample.First {
		if sample.First[i].Player.ID != sample.Second[i].Player.ID {
			violations++
		}
		if sample.First[i].Value != sample.Second[i].Value {
			violations++
		}
	}

	return violations
}

// displayTopValuePicks shows the best value-efficiency players the service
// is currently serving.
func displayTopValuePicks(enriched map[string]PlayerView, verbose bool) {
	picks := make([]PlayerView, 0, len(enriched))
	for _, view := range enriched {
		if view.ValueEfficiency != nil {
			picks = append(picks, view)
		}
	}
	if len(picks) == 0 {
		return
	}

	sort.Slice(picks, func(i, j int) bool {
		return *picks[i].ValueEfficiency > *picks[j].ValueEfficiency
	})

	topN := topPicksCount
	if len(picks) < topN {
		topN = len(picks)
	}

	log.Printf("🏆 Top %d value picks:", topN)
	for i := 0; i < topN; i++ {
		pick := picks[i]
		log.Printf("   %d. %s (%s, %s) - %.1fm, %.0f pts, %.2f pts/m",
			i+1, pick.Name, pick.Position, pick.Team, pick.Price, pick.TotalPoints, *pick.ValueEfficiency)
	}

	if verbose {
		avgVE := calculateAverageEfficiency(picks)
		maxVE := *picks[0].ValueEfficiency
		minVE := *picks[len(picks)-1].ValueEfficiency

		log.Printf(`📊 Value efficiency statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avgVE, maxVE, minVE)
	}
}

// calculateAverageEfficiency calculates the average value efficiency.
func calculateAverageEfficiency(picks []PlayerView) float64 {
	if len(picks) == 0 {
		return 0
	}

	sum := 0.0
	for _, pick := range picks {
		sum += *pick.ValueEfficiency
	}

	return sum / float64(len(picks))
}
