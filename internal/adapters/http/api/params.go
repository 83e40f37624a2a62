package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/model"
)

// parseCriteria builds filter criteria from query parameters. One-sided
// ranges are allowed: a missing bound defaults to the open end.
func parseCriteria(q url.Values) (filter.Criteria, error) {
	var c filter.Criteria

	if raw := q.Get("position"); raw != "" {
		pos, err := model.ParsePosition(raw)
		if err != nil {
			return filter.Criteria{}, err
		}
		c.Position = pos
	}
	c.Team = q.Get("team")
	c.League = q.Get("league")
	c.NameQuery = q.Get("q")

	priceMin, hasPriceMin, err := parseFloatParam(q, "price_min")
	if err != nil {
		return filter.Criteria{}, err
	}
	priceMax, hasPriceMax, err := parseFloatParam(q, "price_max")
	if err != nil {
		return filter.Criteria{}, err
	}
	if hasPriceMin || hasPriceMax {
		r := &filter.PriceRange{Min: 0, Max: math.MaxFloat64}
		if hasPriceMin {
			r.Min = priceMin
		}
		if hasPriceMax {
			r.Max = priceMax
		}
		c.PriceRange = r
	}

	minMinutes, hasMinutes, err := parseIntParam(q, "min_minutes")
	if err != nil {
		return filter.Criteria{}, err
	}
	if hasMinutes {
		c.MinMinutes = minMinutes
	}

	ageMin, hasAgeMin, err := parseIntParam(q, "age_min")
	if err != nil {
		return filter.Criteria{}, err
	}
	ageMax, hasAgeMax, err := parseIntParam(q, "age_max")
	if err != nil {
		return filter.Criteria{}, err
	}
	if hasAgeMin || hasAgeMax {
		r := &filter.AgeRange{Min: 0, Max: math.MaxInt}
		if hasAgeMin {
			r.Min = ageMin
		}
		if hasAgeMax {
			r.Max = ageMax
		}
		c.AgeRange = r
	}

	return c, nil
}

// parseLimit reads an optional limit parameter. Returns fallback when the
// parameter is absent, ErrLimitExceeded when it is above maxLimit.
func parseLimit(q url.Values, fallback, maxLimit int) (int, error) {
	raw := q.Get("limit")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer, got %q", model.ErrInvalidParameter, raw)
	}
	if n > maxLimit {
		return 0, fmt.Errorf("%w: limit %d exceeds maximum %d", ErrLimitExceeded, n, maxLimit)
	}
	return n, nil
}

func parseFloatParam(q url.Values, name string) (float64, bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be a number, got %q", model.ErrInvalidParameter, name, raw)
	}
	return v, true, nil
}

func parseIntParam(q url.Values, name string) (int, bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be an integer, got %q", model.ErrInvalidParameter, name, raw)
	}
	return v, true, nil
}
