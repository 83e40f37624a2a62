// Package compare builds side-by-side player comparisons with normalized
// radar axes.
package compare

import (
	"fmt"

	"github.com/okian/scout/internal/domain/model"
)

const normalizedMax = 100

// Radar axes in display order.
var axes = []struct {
	name  string
	value func(model.Player) float64
}{
	{"form", func(p model.Player) float64 { return p.Form }},
	{"influence", func(p model.Player) float64 { return p.Influence }},
	{"creativity", func(p model.Player) float64 { return p.Creativity }},
	{"threat", func(p model.Player) float64 { return p.Threat }},
	{"ict_index", func(p model.Player) float64 { return p.ICTIndex }},
}

// Axis is one radar dimension: the raw values of both players and their
// position on a 0-100 scale relative to the population maximum.
type Axis struct {
	Name          string
	RawA          float64
	RawB          float64
	NormalizedA   float64
	NormalizedB   float64
	PopulationMax float64
}

// Comparison is the side-by-side view of two players.
type Comparison struct {
	A    model.EnrichedPlayer
	B    model.EnrichedPlayer
	Axes []Axis
}

// Players compares a and b, normalizing each radar axis against the
// population maximum for that axis. A non-positive maximum normalizes to 0;
// there is no division by zero. An empty population fails with a wrapped
// ErrInsufficientData.
func Players(a, b model.EnrichedPlayer, population []model.Player) (Comparison, error) {
	if len(population) == 0 {
		return Comparison{}, fmt.Errorf("%w: empty population for radar normalization", model.ErrInsufficientData)
	}

	cmp := Comparison{A: a, B: b, Axes: make([]Axis, 0, len(axes))}
	for _, axis := range axes {
		max := 0.0
		for _, p := range population {
			if v := axis.value(p); v > max {
				max = v
			}
		}
		rawA := axis.value(a.Player)
		rawB := axis.value(b.Player)
		cmp.Axes = append(cmp.Axes, Axis{
			Name:          axis.name,
			RawA:          rawA,
			RawB:          rawB,
			NormalizedA:   normalize(rawA, max),
			NormalizedB:   normalize(rawB, max),
			PopulationMax: max,
		})
	}
	return cmp, nil
}

func normalize(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return value / max * normalizedMax
}
