package reports

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// rank orders report rows: ascending group label, descending weight, then
// ascending primary key.
type rank struct {
	group  string
	weight int64
	key    string
	id     int64
}

func compareRank(a, b rank) int {
	return cmp.Or(
		strings.Compare(a.group, b.group),
		cmp.Compare(b.weight, a.weight),
		strings.Compare(a.key, b.key),
		cmp.Compare(a.id, b.id),
	)
}

func sortRanked[T any](rows []T, rankOf func(T) rank) {
	slices.SortStableFunc(rows, func(a, b T) int {
		return compareRank(rankOf(a), rankOf(b))
	})
}

// limit keeps the first l rows and never returns nil.
func limit[T any](rows []T, l domain.Limit) []T {
	if rows == nil {
		return []T{}
	}
	return rows[:l.Cap(len(rows))]
}

// entityGroup is the ordering label of an entity row in grouped mode.
func entityGroup(plan Plan, c domain.Country, district string) string {
	if plan.Mode != ModeGrouped {
		return ""
	}
	if plan.Level == domain.ScopeDistrict {
		return domain.NormalizeName(district)
	}
	if plan.Level == domain.ScopeCountry {
		return domain.NormalizeName(c.Name)
	}
	return groupOf(plan.Level, c).key
}

// CountryRows joins each country with the name of its capital.
func CountryRows(plan Plan, in *Input) []domain.CountryRow {
	capitals := make(map[int64]string, len(in.Cities))
	for _, city := range in.Cities {
		capitals[city.ID] = city.Name
	}

	type ranked struct {
		row domain.CountryRow
		rk  rank
	}
	items := make([]ranked, 0, len(in.Countries))
	for _, c := range in.Countries {
		row := domain.CountryRow{
			Code:       c.Code,
			Name:       c.Name,
			Continent:  c.Continent,
			Region:     c.Region,
			Population: c.Population,
		}
		if c.Capital != nil {
			row.CapitalName = capitals[*c.Capital]
		}
		items = append(items, ranked{row: row, rk: rank{
			group:  entityGroup(plan, c, ""),
			weight: c.Population,
			key:    c.Code,
		}})
	}
	sortRanked(items, func(r ranked) rank { return r.rk })

	rows := make([]domain.CountryRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.row)
	}
	return rows
}

// CityRows joins each city with its country's name and continent.
func CityRows(plan Plan, in *Input) []domain.CityRow {
	countries := make(map[string]domain.Country, len(in.Countries))
	for _, c := range in.Countries {
		countries[c.Code] = c
	}

	type ranked struct {
		row domain.CityRow
		rk  rank
	}
	items := make([]ranked, 0, len(in.Cities))
	for _, city := range in.Cities {
		c, ok := countries[city.CountryCode]
		if !ok {
			continue
		}
		items = append(items, ranked{
			row: domain.CityRow{
				Name:       city.Name,
				Country:    c.Name,
				Continent:  c.Continent,
				District:   city.District,
				Population: city.Population,
			},
			rk: rank{
				group:  entityGroup(plan, c, city.District),
				weight: city.Population,
				id:     city.ID,
			},
		})
	}
	sortRanked(items, func(r ranked) rank { return r.rk })

	rows := make([]domain.CityRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.row)
	}
	return rows
}

// CapitalRows lists the capital city of every country that has one.
func CapitalRows(plan Plan, in *Input) []domain.CapitalRow {
	cities := make(map[int64]domain.City, len(in.Cities))
	for _, city := range in.Cities {
		cities[city.ID] = city
	}

	type ranked struct {
		row domain.CapitalRow
		rk  rank
	}
	items := make([]ranked, 0, len(in.Countries))
	for _, c := range in.Countries {
		if c.Capital == nil {
			continue
		}
		city, ok := cities[*c.Capital]
		if !ok {
			continue
		}
		items = append(items, ranked{
			row: domain.CapitalRow{
				Name:       city.Name,
				Country:    c.Name,
				Continent:  c.Continent,
				Region:     c.Region,
				Population: city.Population,
			},
			rk: rank{
				group:  entityGroup(plan, c, ""),
				weight: city.Population,
				id:     city.ID,
			},
		})
	}
	sortRanked(items, func(r ranked) rank { return r.rk })

	rows := make([]domain.CapitalRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.row)
	}
	return rows
}

// Assemble aggregates, orders and limits the rows in in. The limit applies
// after ordering, so a limited report is always a prefix of the full one.
func Assemble(plan Plan, in *Input) *domain.Report {
	req := domain.Request{
		Family:  plan.Family,
		Scope:   plan.Level,
		Name:    plan.Name,
		Country: plan.Country,
		Limit:   plan.Limit,
	}
	report := &domain.Report{Request: req}

	switch plan.Family {
	case domain.FamilyCountry:
		report.Countries = limit(CountryRows(plan, in), plan.Limit)
	case domain.FamilyCity:
		report.Cities = limit(CityRows(plan, in), plan.Limit)
	case domain.FamilyCapital:
		report.Capitals = limit(CapitalRows(plan, in), plan.Limit)
	case domain.FamilyPopulation:
		report.Population = &domain.PopulationReport{
			GlobalPopulation: in.GlobalPopulation,
			Data:             limit(AggregatePopulation(plan, in), plan.Limit),
		}
	case domain.FamilyLanguage:
		report.Languages = limit(AggregateLanguages(plan, in), plan.Limit)
	}
	return report
}
