package domain

import (
	"fmt"
	"strconv"
	"time"
)

// CountryRow is one line of a country report.
type CountryRow struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Continent   string `json:"continent"`
	Region      string `json:"region"`
	Population  int64  `json:"population"`
	CapitalName string `json:"capitalName"`
}

// CityRow is one line of a city report.
type CityRow struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	Continent  string `json:"continent,omitempty"`
	District   string `json:"district"`
	Population int64  `json:"population"`
}

// CapitalRow is one line of a capital-city report.
type CapitalRow struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	Continent  string `json:"continent"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
}

// PopulationRow splits a group's population into people living in cities and
// everyone else. CityPopulation+NonCityPopulation always equals TotalPopulation.
type PopulationRow struct {
	Label             string  `json:"label"`
	TotalPopulation   int64   `json:"totalPopulation"`
	CityPopulation    int64   `json:"cityPopulation"`
	CityPct           float64 `json:"cityPct"`
	NonCityPopulation int64   `json:"nonCityPopulation"`
	NonCityPct        float64 `json:"nonCityPct"`
}

// PopulationReport wraps population rows with the global total they were computed against.
type PopulationReport struct {
	GlobalPopulation int64           `json:"globalPopulation"`
	Data             []PopulationRow `json:"data"`
}

// Speakers is a speaker count in thousandths of a person. Language
// percentages carry one decimal, so population*percentage/100 is always a
// whole number of thousandths and sums stay exact.
type Speakers int64

// SpeakersOf returns the speakers of a language that pct percent of population speak.
func SpeakersOf(population int64, pct float64) Speakers {
	tenths := int64(pct*10 + 0.5)
	return Speakers(population * tenths)
}

// Float returns the count in persons.
func (s Speakers) Float() float64 { return float64(s) / 1000 }

// Persons returns the count rounded to whole persons.
func (s Speakers) Persons() int64 { return (int64(s) + 500) / 1000 }

func (s Speakers) String() string {
	return fmt.Sprintf("%d.%03d", int64(s)/1000, int64(s)%1000)
}

// MarshalJSON writes the exact decimal value.
func (s Speakers) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON reads a decimal value written by MarshalJSON.
func (s *Speakers) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("speakers: %w", err)
	}
	*s = Speakers(f*1000 + 0.5)
	return nil
}

// LanguageRow is a language report line. The concrete type depends on the
// scope level: GlobalLanguageRow for Global, ScopedLanguageRow otherwise.
type LanguageRow interface {
	Level() ScopeLevel
	LanguageName() string
	SpeakerCount() Speakers
}

// GlobalLanguageRow ranks a language across the whole world.
type GlobalLanguageRow struct {
	ScopeType   ScopeLevel `json:"scopeType"`
	Language    string     `json:"language"`
	Speakers    Speakers   `json:"speakers"`
	PctOfGlobal float64    `json:"pctOfGlobal"`
}

func (r GlobalLanguageRow) Level() ScopeLevel      { return ScopeGlobal }
func (r GlobalLanguageRow) LanguageName() string   { return r.Language }
func (r GlobalLanguageRow) SpeakerCount() Speakers { return r.Speakers }

// ScopedLanguageRow ranks a language within one continent, region or country.
type ScopedLanguageRow struct {
	ScopeType   ScopeLevel `json:"scopeType"`
	ScopeName   string     `json:"scopeName"`
	Language    string     `json:"language"`
	Speakers    Speakers   `json:"speakers"`
	PctOfScope  float64    `json:"pctOfScope"`
	PctOfGlobal float64    `json:"pctOfGlobal"`
}

func (r ScopedLanguageRow) Level() ScopeLevel      { return r.ScopeType }
func (r ScopedLanguageRow) LanguageName() string   { return r.Language }
func (r ScopedLanguageRow) SpeakerCount() Speakers { return r.Speakers }

// Report is the materialized result of one request. Exactly one of the row
// slices (or Population) is set, matching Family.
type Report struct {
	Request    Request
	Countries  []CountryRow
	Cities     []CityRow
	Capitals   []CapitalRow
	Population *PopulationReport
	Languages  []LanguageRow
}

// Len returns the number of rows in the report.
func (r *Report) Len() int {
	switch r.Request.Family {
	case FamilyCountry:
		return len(r.Countries)
	case FamilyCity:
		return len(r.Cities)
	case FamilyCapital:
		return len(r.Capitals)
	case FamilyPopulation:
		if r.Population == nil {
			return 0
		}
		return len(r.Population.Data)
	case FamilyLanguage:
		return len(r.Languages)
	}
	return 0
}

// Payload returns the value front ends serialize: a row list, or the
// population wrapper for the population family.
func (r *Report) Payload() any {
	switch r.Request.Family {
	case FamilyCountry:
		return r.Countries
	case FamilyCity:
		return r.Cities
	case FamilyCapital:
		return r.Capitals
	case FamilyPopulation:
		return r.Population
	case FamilyLanguage:
		return r.Languages
	}
	return []struct{}{}
}

// ReportEvent is published after a report was served.
type ReportEvent struct {
	ID         string     `json:"id"`
	Family     Family     `json:"family"`
	Scope      ScopeLevel `json:"scope"`
	Name       string     `json:"name,omitempty"`
	Country    string     `json:"country,omitempty"`
	Limit      int        `json:"limit"`
	Rows       int        `json:"rows"`
	DurationMS int64      `json:"duration_ms"`
	At         time.Time  `json:"at"`
}
