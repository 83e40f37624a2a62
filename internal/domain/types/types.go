// Package types contains the wire representations shared by the HTTP and
// MCP adapters.
package types

import (
	"github.com/okian/scout/internal/domain/compare"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/rank"
	"github.com/okian/scout/internal/domain/recommend"
)

// PlayerView is the JSON shape of one enriched player record. Derived
// metrics stay pointers so an undefined metric is omitted from the payload
// instead of surfacing as a zero.
type PlayerView struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Position           string   `json:"position"`
	Team               string   `json:"team"`
	League             string   `json:"league"`
	Age                int      `json:"age"`
	Price              float64  `json:"price"`
	Minutes            int      `json:"minutes"`
	TotalPoints        float64  `json:"total_points"`
	Goals              int      `json:"goals"`
	Assists            int      `json:"assists"`
	Form               float64  `json:"form"`
	Influence          float64  `json:"influence"`
	Creativity         float64  `json:"creativity"`
	Threat             float64  `json:"threat"`
	ICTIndex           float64  `json:"ict_index"`
	ValueEfficiency    *float64 `json:"value_efficiency,omitempty"`
	ExpectedPoints     *float64 `json:"expected_points,omitempty"`
	Overperformance    *float64 `json:"overperformance,omitempty"`
	OverperformancePct *float64 `json:"overperformance_pct,omitempty"`
}

// NewPlayerView converts an enriched record to its wire shape.
func NewPlayerView(p model.EnrichedPlayer) PlayerView {
	return PlayerView{
		ID:                 p.ID,
		Name:               p.Name,
		Position:           string(p.Position),
		Team:               p.Team,
		League:             p.League,
		Age:                p.Age,
		Price:              p.Price,
		Minutes:            p.Minutes,
		TotalPoints:        p.TotalPoints,
		Goals:              p.Goals,
		Assists:            p.Assists,
		Form:               p.Form,
		Influence:          p.Influence,
		Creativity:         p.Creativity,
		Threat:             p.Threat,
		ICTIndex:           p.ICTIndex,
		ValueEfficiency:    p.ValueEfficiency,
		ExpectedPoints:     p.ExpectedPoints,
		Overperformance:    p.Overperformance,
		OverperformancePct: p.OverperformancePct,
	}
}

// NewPlayerViews converts a slice of enriched records, preserving order.
func NewPlayerViews(records []model.EnrichedPlayer) []PlayerView {
	out := make([]PlayerView, len(records))
	for i, p := range records {
		out[i] = NewPlayerView(p)
	}
	return out
}

// RankedRow is one row of a ranking response.
type RankedRow struct {
	Rank   int        `json:"rank"`
	Key    string     `json:"key"`
	Value  float64    `json:"value"`
	Player PlayerView `json:"player"`
}

// NewRankedRows numbers ranked records 1..n under the given key. Records
// are expected to be pre-sorted; rows only attach positions and the ranked
// value.
func NewRankedRows(key string, records []model.EnrichedPlayer) []RankedRow {
	rows := make([]RankedRow, len(records))
	for i, p := range records {
		value, _ := rank.Value(p, key)
		rows[i] = RankedRow{
			Rank:   i + 1,
			Key:    key,
			Value:  value,
			Player: NewPlayerView(p),
		}
	}
	return rows
}

// ScatterPoint is one point of the price-vs-points projection.
type ScatterPoint struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	TotalPoints float64 `json:"total_points"`
}

// NewScatterPoints converts a scatter projection to its wire shape.
func NewScatterPoints(points []rank.ScatterPoint) []ScatterPoint {
	out := make([]ScatterPoint, len(points))
	for i, p := range points {
		out[i] = ScatterPoint{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			TotalPoints: p.TotalPoints,
		}
	}
	return out
}

// Suggestion is one scored replacement candidate.
type Suggestion struct {
	Player       PlayerView `json:"player"`
	Score        float64    `json:"score"`
	PointsDelta  float64    `json:"points_delta"`
	ValueDelta   float64    `json:"value_delta"`
	PriceSavings float64    `json:"price_savings"`
}

// NewSuggestions converts scored candidates, preserving order.
func NewSuggestions(suggestions []recommend.Suggestion) []Suggestion {
	out := make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		out[i] = Suggestion{
			Player:       NewPlayerView(s.Player),
			Score:        s.Score,
			PointsDelta:  s.PointsDelta,
			ValueDelta:   s.ValueDelta,
			PriceSavings: s.PriceSavings,
		}
	}
	return out
}

// RadarAxis is one radar dimension of a player comparison.
type RadarAxis struct {
	Name          string  `json:"name"`
	RawA          float64 `json:"raw_a"`
	RawB          float64 `json:"raw_b"`
	NormalizedA   float64 `json:"normalized_a"`
	NormalizedB   float64 `json:"normalized_b"`
	PopulationMax float64 `json:"population_max"`
}

// Comparison is the side-by-side view of two players.
type Comparison struct {
	A    PlayerView  `json:"a"`
	B    PlayerView  `json:"b"`
	Axes []RadarAxis `json:"axes"`
}

// NewComparison converts a domain comparison to its wire shape.
func NewComparison(c compare.Comparison) Comparison {
	axes := make([]RadarAxis, len(c.Axes))
	for i, a := range c.Axes {
		axes[i] = RadarAxis{
			Name:          a.Name,
			RawA:          a.RawA,
			RawB:          a.RawB,
			NormalizedA:   a.NormalizedA,
			NormalizedB:   a.NormalizedB,
			PopulationMax: a.PopulationMax,
		}
	}
	return Comparison{
		A:    NewPlayerView(c.A),
		B:    NewPlayerView(c.B),
		Axes: axes,
	}
}
