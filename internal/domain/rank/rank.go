// Package rank orders enriched player records by named sort keys.
package rank

import (
	"fmt"
	"sort"

	"github.com/okian/scout/internal/domain/model"
)

// Sort keys accepted by TopN.
const (
	KeyTotalPoints        = "total_points"
	KeyGoals              = "goals"
	KeyAssists            = "assists"
	KeyMinutes            = "minutes"
	KeyForm               = "form"
	KeyInfluence          = "influence"
	KeyCreativity         = "creativity"
	KeyThreat             = "threat"
	KeyICTIndex           = "ict_index"
	KeyPrice              = "price"
	KeyAge                = "age"
	KeyValueEfficiency    = "value_efficiency"
	KeyExpectedPoints     = "expected_points"
	KeyOverperformance    = "overperformance"
	KeyOverperformancePct = "overperformance_pct"
)

// accessor extracts a sort value from a record. ok is false when the value
// is undefined for the record, which excludes it from rankings on that key.
type accessor func(model.EnrichedPlayer) (value float64, ok bool)

func derived(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

var accessors = map[string]accessor{
	KeyTotalPoints: func(e model.EnrichedPlayer) (float64, bool) { return e.TotalPoints, true },
	KeyGoals:       func(e model.EnrichedPlayer) (float64, bool) { return float64(e.Goals), true },
	KeyAssists:     func(e model.EnrichedPlayer) (float64, bool) { return float64(e.Assists), true },
	KeyMinutes:     func(e model.EnrichedPlayer) (float64, bool) { return float64(e.Minutes), true },
	KeyForm:        func(e model.EnrichedPlayer) (float64, bool) { return e.Form, true },
	KeyInfluence:   func(e model.EnrichedPlayer) (float64, bool) { return e.Influence, true },
	KeyCreativity:  func(e model.EnrichedPlayer) (float64, bool) { return e.Creativity, true },
	KeyThreat:      func(e model.EnrichedPlayer) (float64, bool) { return e.Threat, true },
	KeyICTIndex:    func(e model.EnrichedPlayer) (float64, bool) { return e.ICTIndex, true },
	KeyPrice:       func(e model.EnrichedPlayer) (float64, bool) { return e.Price, true },
	KeyAge:         func(e model.EnrichedPlayer) (float64, bool) { return float64(e.Age), true },

	KeyValueEfficiency:    func(e model.EnrichedPlayer) (float64, bool) { return derived(e.ValueEfficiency) },
	KeyExpectedPoints:     func(e model.EnrichedPlayer) (float64, bool) { return derived(e.ExpectedPoints) },
	KeyOverperformance:    func(e model.EnrichedPlayer) (float64, bool) { return derived(e.Overperformance) },
	KeyOverperformancePct: func(e model.EnrichedPlayer) (float64, bool) { return derived(e.OverperformancePct) },
}

// Keys returns the accepted sort keys in lexical order.
func Keys() []string {
	out := make([]string, 0, len(accessors))
	for k := range accessors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ValidKey reports whether key names an accepted sort key.
func ValidKey(key string) bool {
	_, ok := accessors[key]
	return ok
}

// Value extracts the named key's value from a record. ok is false when the
// key is unknown or the value is undefined for the record.
func Value(record model.EnrichedPlayer, key string) (float64, bool) {
	fn, ok := accessors[key]
	if !ok {
		return 0, false
	}
	return fn(record)
}

// TopN returns up to n records ordered by the named key. The sort is stable:
// equal keys keep candidate input order. Records whose key is undefined are
// excluded from the ranking. Unknown keys and negative n are rejected with a
// wrapped ErrInvalidParameter; n == 0 yields an empty result.
func TopN(records []model.EnrichedPlayer, key string, n int, descending bool) ([]model.EnrichedPlayer, error) {
	acc, ok := accessors[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort key %q", model.ErrInvalidParameter, key)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", model.ErrInvalidParameter, n)
	}

	type row struct {
		value  float64
		record model.EnrichedPlayer
	}
	rows := make([]row, 0, len(records))
	for _, e := range records {
		if v, defined := acc(e); defined {
			rows = append(rows, row{value: v, record: e})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return rows[i].value > rows[j].value
		}
		return rows[i].value < rows[j].value
	})

	if n < len(rows) {
		rows = rows[:n]
	}
	out := make([]model.EnrichedPlayer, len(rows))
	for i, r := range rows {
		out[i] = r.record
	}
	return out, nil
}

// ScatterPoint is the price-vs-points projection of one record.
type ScatterPoint struct {
	ID          string
	Name        string
	Price       float64
	TotalPoints float64
}

// ScatterPoints projects records for price-vs-points plots, preserving
// input order.
func ScatterPoints(records []model.Player) []ScatterPoint {
	out := make([]ScatterPoint, len(records))
	for i, p := range records {
		out[i] = ScatterPoint{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			TotalPoints: p.TotalPoints,
		}
	}
	return out
}
