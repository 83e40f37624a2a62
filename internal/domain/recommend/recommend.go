// Package recommend scores replacement candidates for a reference player.
package recommend

import (
	"fmt"
	"sort"

	"github.com/okian/scout/internal/domain/model"
)

// Score component weights. The formula is a fixed contract relied on by
// clients and tests, not a tunable default:
//
//	score = pointsDelta*2 + valueDelta*10 + priceSavings*3
const (
	pointsWeight  = 2.0
	valueWeight   = 10.0
	savingsWeight = 3.0
)

// Request carries the inputs for one replacement search. Reference and
// Candidates must come from the same enrichment pass so every score uses
// one league baseline.
type Request struct {
	Reference  model.EnrichedPlayer
	Candidates []model.EnrichedPlayer
	Budget     float64
	Position   model.Position // optional; empty matches any position
	Limit      int            // 0 = unbounded
}

// Suggestion is one scored replacement candidate with its score components.
type Suggestion struct {
	Player       model.EnrichedPlayer
	Score        float64
	PointsDelta  float64
	ValueDelta   float64
	PriceSavings float64
}

// Replacements scores the eligible candidates against the reference player.
//
// Eligibility is exclusion, not penalty: candidates over budget, the
// reference itself, position mismatches, and candidates without a defined
// value efficiency never appear. Results are ordered by descending score,
// then ascending price, then candidate input order; candidates scoring at
// or below zero are still returned. An empty pool after filtering fails
// with a wrapped ErrEmptyCandidatePool.
func Replacements(req Request) ([]Suggestion, error) {
	if req.Budget < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative, got %.2f", model.ErrInvalidParameter, req.Budget)
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", model.ErrInvalidParameter, req.Limit)
	}
	if req.Position != "" && !req.Position.Valid() {
		return nil, fmt.Errorf("%w: unknown position %q", model.ErrInvalidParameter, req.Position)
	}
	if req.Reference.ValueEfficiency == nil {
		return nil, fmt.Errorf("%w: reference player %q has no value efficiency", model.ErrInvalidParameter, req.Reference.ID)
	}

	out := make([]Suggestion, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		if c.ID == req.Reference.ID {
			continue
		}
		if c.Price > req.Budget {
			continue
		}
		if req.Position != "" && c.Position != req.Position {
			continue
		}
		if c.ValueEfficiency == nil {
			continue
		}

		pointsDelta := c.TotalPoints - req.Reference.TotalPoints
		valueDelta := *c.ValueEfficiency - *req.Reference.ValueEfficiency
		priceSavings := req.Reference.Price - c.Price

		out = append(out, Suggestion{
			Player:       c,
			Score:        pointsDelta*pointsWeight + valueDelta*valueWeight + priceSavings*savingsWeight,
			PointsDelta:  pointsDelta,
			ValueDelta:   valueDelta,
			PriceSavings: priceSavings,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no eligible candidates for player %q within budget %.2f",
			model.ErrEmptyCandidatePool, req.Reference.ID, req.Budget)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Player.Price < out[j].Player.Price
	})

	if req.Limit > 0 && req.Limit < len(out) {
		out = out[:req.Limit]
	}
	return out, nil
}
