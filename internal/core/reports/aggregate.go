package reports

import (
	"math"
	"strings"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// RoundTo2 rounds a percentage for output. Aggregation keeps full precision.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return RoundTo2(part / whole * 100)
}

// groupKey identifies one partition of countries at a scope level.
type groupKey struct {
	key   string // comparison key
	label string // display value
}

// groupOf returns the partition c falls into at level. Country groups key on
// the code so two countries sharing a name stay apart.
func groupOf(level domain.ScopeLevel, c domain.Country) groupKey {
	switch level {
	case domain.ScopeContinent:
		return groupKey{key: domain.NormalizeName(c.Continent), label: strings.TrimSpace(c.Continent)}
	case domain.ScopeRegion:
		return groupKey{key: domain.NormalizeName(c.Region), label: strings.TrimSpace(c.Region)}
	case domain.ScopeCountry:
		return groupKey{key: c.Code, label: strings.TrimSpace(c.Name)}
	}
	return groupKey{}
}

// populationLevel is the level population rows are grouped at. A global
// population report lists one row per continent.
func populationLevel(plan Plan) domain.ScopeLevel {
	if plan.Mode == ModeGlobal {
		return domain.ScopeContinent
	}
	return plan.Level
}

type populationGroup struct {
	groupKey
	total int64
	city  int64
}

// AggregatePopulation splits each group's population into city and non-city
// dwellers. City population is clamped to the group total so the two parts
// always add up.
func AggregatePopulation(plan Plan, in *Input) []domain.PopulationRow {
	level := populationLevel(plan)
	byCode := make(map[string]*populationGroup, len(in.Countries))
	var groups []*populationGroup
	index := make(map[string]*populationGroup)

	for _, c := range in.Countries {
		gk := groupOf(level, c)
		g, ok := index[gk.key]
		if !ok {
			g = &populationGroup{groupKey: gk}
			index[gk.key] = g
			groups = append(groups, g)
		}
		g.total += c.Population
		byCode[c.Code] = g
	}
	for _, city := range in.Cities {
		if g, ok := byCode[city.CountryCode]; ok {
			g.city += city.Population
		}
	}

	rows := make([]domain.PopulationRow, 0, len(groups))
	for _, g := range groups {
		city := min(g.city, g.total)
		nonCity := g.total - city
		rows = append(rows, domain.PopulationRow{
			Label:             g.label,
			TotalPopulation:   g.total,
			CityPopulation:    city,
			CityPct:           percent(float64(city), float64(g.total)),
			NonCityPopulation: nonCity,
			NonCityPct:        percent(float64(nonCity), float64(g.total)),
		})
	}

	grouped := plan.Mode == ModeGrouped
	sortRanked(rows, func(r domain.PopulationRow) rank {
		rk := rank{weight: r.TotalPopulation, key: domain.NormalizeName(r.Label)}
		if grouped {
			rk.group = rk.key
		}
		return rk
	})
	return rows
}

type languageTally struct {
	group    groupKey
	language string
	speakers domain.Speakers
}

// AggregateLanguages sums speakers per language within each group. Speakers
// are exact fixed-point values, so totals of sub-scopes add up to the
// enclosing scope.
func AggregateLanguages(plan Plan, in *Input) []domain.LanguageRow {
	countries := make(map[string]domain.Country, len(in.Countries))
	scopeTotals := make(map[string]int64)
	for _, c := range in.Countries {
		countries[c.Code] = c
		scopeTotals[groupOf(plan.Level, c).key] += c.Population
	}

	type tallyKey struct{ group, language string }
	var tallies []*languageTally
	index := make(map[tallyKey]*languageTally)
	for _, lf := range in.Languages {
		c, ok := countries[lf.CountryCode]
		if !ok {
			continue
		}
		gk := groupOf(plan.Level, c)
		lang := strings.TrimSpace(lf.Language)
		k := tallyKey{group: gk.key, language: lang}
		t, ok := index[k]
		if !ok {
			t = &languageTally{group: gk, language: lang}
			index[k] = t
			tallies = append(tallies, t)
		}
		t.speakers += domain.SpeakersOf(c.Population, lf.Percentage)
	}

	global := float64(in.GlobalPopulation)
	rows := make([]domain.LanguageRow, 0, len(tallies))
	for _, t := range tallies {
		if plan.Mode == ModeGlobal {
			rows = append(rows, domain.GlobalLanguageRow{
				ScopeType:   domain.ScopeGlobal,
				Language:    t.language,
				Speakers:    t.speakers,
				PctOfGlobal: percent(t.speakers.Float(), global),
			})
			continue
		}
		rows = append(rows, domain.ScopedLanguageRow{
			ScopeType:   plan.Level,
			ScopeName:   t.group.label,
			Language:    t.language,
			Speakers:    t.speakers,
			PctOfScope:  percent(t.speakers.Float(), float64(scopeTotals[t.group.key])),
			PctOfGlobal: percent(t.speakers.Float(), global),
		})
	}

	grouped := plan.Mode == ModeGrouped
	sortRanked(rows, func(r domain.LanguageRow) rank {
		rk := rank{weight: int64(r.SpeakerCount()), key: r.LanguageName()}
		if s, ok := r.(domain.ScopedLanguageRow); ok && grouped {
			rk.group = domain.NormalizeName(s.ScopeName)
		}
		return rk
	})
	return rows
}
