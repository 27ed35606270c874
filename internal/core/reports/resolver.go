// Package reports turns report requests into ordered, percentage-annotated rows.
// It holds no state and performs no I/O beyond the GeographyReader it is given.
package reports

import (
	"fmt"
	"strings"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// Mode says how the scope level shapes the result.
type Mode int

const (
	// ModeGlobal covers the whole dataset.
	ModeGlobal Mode = iota
	// ModeFiltered restricts rows to one named continent, region, country or district.
	ModeFiltered
	// ModeGrouped partitions rows by every distinct value of the level.
	ModeGrouped
)

func (m Mode) String() string {
	switch m {
	case ModeGlobal:
		return "global"
	case ModeFiltered:
		return "filtered"
	case ModeGrouped:
		return "grouped"
	}
	return "unknown"
}

// Plan is a validated request ready to run against a store snapshot.
type Plan struct {
	Family    domain.Family
	Level     domain.ScopeLevel
	Mode      Mode
	Name      string
	Country   string
	Predicate domain.Predicate
	Limit     domain.Limit
}

// Resolve validates req and derives the store predicate and result mode.
// It never touches the store, so an invalid scope fails before any query.
func Resolve(req domain.Request) (Plan, error) {
	if !validFamily(req.Family) {
		return Plan{}, fmt.Errorf("%w: %q", domain.ErrInvalidFamily, req.Family)
	}
	level := req.Scope
	if level == "" {
		level = domain.ScopeGlobal
	}
	if !validLevel(level) {
		return Plan{}, fmt.Errorf("%w: unknown scope level %q", domain.ErrInvalidScope, level)
	}

	name := strings.TrimSpace(req.Name)
	country := strings.TrimSpace(req.Country)
	plan := Plan{
		Family:  req.Family,
		Level:   level,
		Name:    name,
		Country: country,
		Limit:   req.Limit,
	}

	if level == domain.ScopeGlobal {
		plan.Mode = ModeGlobal
		plan.Name = ""
		plan.Country = ""
		return plan, nil
	}

	if level == domain.ScopeDistrict {
		if req.Family != domain.FamilyCity {
			return Plan{}, fmt.Errorf("%w: district scope is only available for city reports", domain.ErrInvalidScope)
		}
		if country == "" {
			return Plan{}, fmt.Errorf("%w: district scope needs a country", domain.ErrInvalidScope)
		}
		plan.Predicate.Country = country
	} else {
		plan.Country = ""
	}

	if name == "" {
		plan.Mode = ModeGrouped
		return plan, nil
	}

	plan.Mode = ModeFiltered
	switch level {
	case domain.ScopeContinent:
		plan.Predicate.Continent = name
	case domain.ScopeRegion:
		plan.Predicate.Region = name
	case domain.ScopeCountry:
		plan.Predicate.Country = name
	case domain.ScopeDistrict:
		plan.Predicate.District = name
	}
	return plan, nil
}

func validFamily(f domain.Family) bool {
	for _, known := range domain.Families {
		if f == known {
			return true
		}
	}
	return false
}

func validLevel(l domain.ScopeLevel) bool {
	for _, known := range domain.ScopeLevels {
		if l == known {
			return true
		}
	}
	return false
}
