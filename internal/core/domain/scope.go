package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Family names one of the five report shapes.
type Family string

const (
	FamilyCountry    Family = "countries"
	FamilyCity       Family = "cities"
	FamilyCapital    Family = "capitals"
	FamilyPopulation Family = "populations"
	FamilyLanguage   Family = "languages"
)

// Families lists every report family in menu order.
var Families = []Family{FamilyCountry, FamilyCity, FamilyCapital, FamilyPopulation, FamilyLanguage}

// ParseFamily accepts singular or plural family names, case-insensitively.
func ParseFamily(s string) (Family, error) {
	switch NormalizeName(s) {
	case "countries", "country":
		return FamilyCountry, nil
	case "cities", "city":
		return FamilyCity, nil
	case "capitals", "capital", "capital-cities", "capital_cities":
		return FamilyCapital, nil
	case "populations", "population":
		return FamilyPopulation, nil
	case "languages", "language":
		return FamilyLanguage, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFamily, s)
	}
}

// Title is the human-readable family name.
func (f Family) Title() string {
	switch f {
	case FamilyCountry:
		return "Countries"
	case FamilyCity:
		return "Cities"
	case FamilyCapital:
		return "Capital Cities"
	case FamilyPopulation:
		return "Population"
	case FamilyLanguage:
		return "Languages"
	default:
		return string(f)
	}
}

// ScopeLevel is the geographic level a report is filtered or grouped at.
type ScopeLevel string

const (
	ScopeGlobal    ScopeLevel = "Global"
	ScopeContinent ScopeLevel = "Continent"
	ScopeRegion    ScopeLevel = "Region"
	ScopeCountry   ScopeLevel = "Country"
	ScopeDistrict  ScopeLevel = "District"
)

// ScopeLevels lists every level from widest to narrowest.
var ScopeLevels = []ScopeLevel{ScopeGlobal, ScopeContinent, ScopeRegion, ScopeCountry, ScopeDistrict}

// ParseScopeLevel maps a query value to a level. An empty value means Global.
func ParseScopeLevel(s string) (ScopeLevel, error) {
	switch NormalizeName(s) {
	case "", "global", "world":
		return ScopeGlobal, nil
	case "continent":
		return ScopeContinent, nil
	case "region":
		return ScopeRegion, nil
	case "country":
		return ScopeCountry, nil
	case "district":
		return ScopeDistrict, nil
	default:
		return "", fmt.Errorf("%w: unknown scope level %q", ErrInvalidScope, s)
	}
}

// Limit caps the number of report rows. Negative values mean no limit; zero
// is a valid request for an empty result.
type Limit int

// Unlimited returns every matching row.
const Unlimited Limit = -1

// ParseLimit translates a boundary value: empty means Unlimited, anything
// that is not an integer is ErrInvalidLimit.
func ParseLimit(s string) (Limit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unlimited, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidLimit, s)
	}
	if n < 0 {
		return Unlimited, nil
	}
	return Limit(n), nil
}

// IsUnlimited reports whether l keeps every row.
func (l Limit) IsUnlimited() bool { return l < 0 }

// Cap returns how many of n rows survive the limit.
func (l Limit) Cap(n int) int {
	if l < 0 || int(l) > n {
		return n
	}
	return int(l)
}

// Request is the parameter set every front end passes to the report engine.
type Request struct {
	Family  Family
	Scope   ScopeLevel
	Name    string
	Country string // country context, required for a named district
	Limit   Limit
}

func (r Request) String() string {
	var b strings.Builder
	b.WriteString(string(r.Family))
	b.WriteString(" scope=")
	b.WriteString(string(r.Scope))
	if r.Name != "" {
		b.WriteString(" name=")
		b.WriteString(r.Name)
	}
	if r.Country != "" {
		b.WriteString(" country=")
		b.WriteString(r.Country)
	}
	if !r.Limit.IsUnlimited() {
		b.WriteString(" limit=")
		b.WriteString(strconv.Itoa(int(r.Limit)))
	}
	return b.String()
}
