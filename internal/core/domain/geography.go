package domain

import "strings"

// Country is one row of the country reference table.
type Country struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Continent  string `json:"continent"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
	Capital    *int64 `json:"capital,omitempty"` // city ID
}

// City is one row of the city reference table.
type City struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	District    string `json:"district"`
	Population  int64  `json:"population"`
}

// LanguageFraction records the share of a country's population speaking a language.
type LanguageFraction struct {
	CountryCode string  `json:"country_code"`
	Language    string  `json:"language"`
	IsOfficial  bool    `json:"is_official"`
	Percentage  float64 `json:"percentage"` // 0-100
}

// Lookup is a selectable scope value (continent, region, country or district).
type Lookup struct {
	Type  string `json:"type"`
	Code  string `json:"code,omitempty"`
	Value string `json:"value"`
}

// Predicate restricts the rows a GeographyStore returns. Zero-valued fields
// match everything. Continent, Region, District and a country name compare
// case-insensitively after trimming; Country also matches a country code
// exactly (case-sensitive). Countries ignore District.
type Predicate struct {
	Continent string
	Region    string
	Country   string
	District  string
	CityIDs   []int64
}

// IsZero reports whether the predicate matches every row.
func (p Predicate) IsZero() bool {
	return p.Continent == "" && p.Region == "" && p.Country == "" && p.District == "" && len(p.CityIDs) == 0
}

// MatchCountry reports whether c satisfies the country-level part of p.
func (p Predicate) MatchCountry(c Country) bool {
	if p.Continent != "" && !SameName(c.Continent, p.Continent) {
		return false
	}
	if p.Region != "" && !SameName(c.Region, p.Region) {
		return false
	}
	if p.Country != "" && c.Code != p.Country && !SameName(c.Name, p.Country) {
		return false
	}
	return true
}

// MatchCity reports whether city, located in country, satisfies p.
func (p Predicate) MatchCity(city City, country Country) bool {
	if !p.MatchCountry(country) {
		return false
	}
	if p.District != "" && !SameName(city.District, p.District) {
		return false
	}
	if len(p.CityIDs) > 0 {
		for _, id := range p.CityIDs {
			if id == city.ID {
				return true
			}
		}
		return false
	}
	return true
}

// NormalizeName folds a free-text scope name for comparison and ordering.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameName compares two free-text scope names ignoring case and surrounding space.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
