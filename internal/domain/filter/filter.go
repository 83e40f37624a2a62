// Package filter selects player records matching query criteria.
package filter

import (
	"fmt"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// PriceRange bounds a price criterion, inclusive on both ends.
type PriceRange struct {
	Min float64
	Max float64
}

// AgeRange bounds an age criterion, inclusive on both ends.
type AgeRange struct {
	Min int
	Max int
}

// Criteria describes an AND-combined set of constraints. Every field is
// independently optional; the zero value matches every record.
type Criteria struct {
	Position   model.Position
	Team       string
	League     string
	PriceRange *PriceRange
	MinMinutes int
	AgeRange   *AgeRange
	NameQuery  string // case-insensitive substring match on Name
}

// Validate rejects malformed criteria with a wrapped ErrInvalidParameter.
func (c Criteria) Validate() error {
	if c.Position != "" && !c.Position.Valid() {
		return fmt.Errorf("%w: unknown position %q", model.ErrInvalidParameter, c.Position)
	}
	if c.MinMinutes < 0 {
		return fmt.Errorf("%w: min minutes must not be negative, got %d", model.ErrInvalidParameter, c.MinMinutes)
	}
	if r := c.PriceRange; r != nil {
		if r.Min < 0 || r.Max < 0 {
			return fmt.Errorf("%w: price bounds must not be negative, got [%.2f, %.2f]", model.ErrInvalidParameter, r.Min, r.Max)
		}
		if r.Min > r.Max {
			return fmt.Errorf("%w: price range min %.2f exceeds max %.2f", model.ErrInvalidParameter, r.Min, r.Max)
		}
	}
	if r := c.AgeRange; r != nil {
		if r.Min < 0 || r.Max < 0 {
			return fmt.Errorf("%w: age bounds must not be negative, got [%d, %d]", model.ErrInvalidParameter, r.Min, r.Max)
		}
		if r.Min > r.Max {
			return fmt.Errorf("%w: age range min %d exceeds max %d", model.ErrInvalidParameter, r.Min, r.Max)
		}
	}
	return nil
}

// matches reports whether p satisfies every set constraint.
func (c Criteria) matches(p model.Player) bool {
	if c.Position != "" && p.Position != c.Position {
		return false
	}
	if c.Team != "" && p.Team != c.Team {
		return false
	}
	if c.League != "" && p.League != c.League {
		return false
	}
	if r := c.PriceRange; r != nil && (p.Price < r.Min || p.Price > r.Max) {
		return false
	}
	if c.MinMinutes > 0 && p.Minutes < c.MinMinutes {
		return false
	}
	if r := c.AgeRange; r != nil && (p.Age < r.Min || p.Age > r.Max) {
		return false
	}
	if q := strings.TrimSpace(c.NameQuery); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// Apply returns the records matching every set criterion, preserving input
// order. An empty result is a valid outcome, not an error.
func Apply(dataset []model.Player, c Criteria) ([]model.Player, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := make([]model.Player, 0, len(dataset))
	for _, p := range dataset {
		if c.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
