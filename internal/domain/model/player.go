// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Position identifies a player's role on the pitch.
type Position string

// Recognized player positions.
const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// Valid reports whether p is one of the recognized positions.
func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return true
	}
	return false
}

// ParsePosition normalizes a raw position label to one of the recognized
// positions. Matching is case-insensitive and accepts common synonyms
// ("GKP", "DF", "FW", "Forward"). Dataset sources that list multiple roles
// ("MF,FW") are resolved to the first one.
func ParsePosition(raw string) (Position, error) {
	label := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.IndexAny(label, ",/"); i >= 0 {
		label = strings.TrimSpace(label[:i])
	}
	switch label {
	case "GK", "GKP", "GOALKEEPER":
		return PositionGoalkeeper, nil
	case "DEF", "D", "DF", "DEFENDER":
		return PositionDefender, nil
	case "MID", "M", "MF", "MIDFIELDER":
		return PositionMidfielder, nil
	case "FWD", "F", "FW", "ST", "FORWARD", "STRIKER":
		return PositionForward, nil
	}
	return "", fmt.Errorf("%w: unknown position %q", ErrInvalidParameter, raw)
}

// Player represents one season-level statistical record for a single player.
type Player struct {
	ID          string
	Name        string
	Position    Position
	Team        string
	League      string
	Age         int
	Price       float64 // market price in millions
	Minutes     int
	TotalPoints float64
	Goals       int
	Assists     int
	Form        float64
	Influence   float64
	Creativity  float64
	Threat      float64
	ICTIndex    float64
}

// EnrichedPlayer is a player record with derived market metrics attached.
// A nil derived field means the metric is undefined for the record; records
// with non-positive price carry no derived metrics at all.
type EnrichedPlayer struct {
	Player

	ValueEfficiency    *float64
	ExpectedPoints     *float64
	Overperformance    *float64
	OverperformancePct *float64
}
