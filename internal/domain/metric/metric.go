// Package metric derives market-value metrics for player records.
package metric

import (
	"fmt"

	"github.com/okian/scout/internal/domain/model"
)

const percentFactor = 100

// LeagueAverage returns the arithmetic mean of points-per-price over the
// positive-price members of the reference population. An empty population
// after exclusion fails with a wrapped ErrInsufficientData; a zero baseline
// is never fabricated.
func LeagueAverage(population []model.Player) (float64, error) {
	var sum float64
	var n int
	for _, p := range population {
		if p.Price <= 0 {
			continue
		}
		sum += p.TotalPoints / p.Price
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: reference population has no positive-price players", model.ErrInsufficientData)
	}
	return sum / float64(n), nil
}

// Enrich attaches the derived metric block to each record, computed against
// one league average shared by the whole request. Output preserves input
// order and the caller's records are never mutated.
//
// Records with non-positive price carry no derived metrics; the percentage
// is additionally absent when expected points are zero. Guards mark fields
// absent instead of raising per record.
func Enrich(records, population []model.Player) ([]model.EnrichedPlayer, error) {
	avg, err := LeagueAverage(population)
	if err != nil {
		return nil, err
	}
	out := make([]model.EnrichedPlayer, 0, len(records))
	for _, p := range records {
		out = append(out, enrichOne(p, avg))
	}
	return out, nil
}

func enrichOne(p model.Player, leagueAvg float64) model.EnrichedPlayer {
	e := model.EnrichedPlayer{Player: p}
	if p.Price <= 0 {
		return e
	}

	ve := p.TotalPoints / p.Price
	expected := p.Price * leagueAvg
	over := p.TotalPoints - expected

	e.ValueEfficiency = &ve
	e.ExpectedPoints = &expected
	e.Overperformance = &over
	if expected != 0 {
		pct := over / expected * percentFactor
		e.OverperformancePct = &pct
	}
	return e
}
