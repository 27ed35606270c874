package reports

import (
	"context"
	"fmt"

	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
)

// Input holds every row a plan needs, read from one snapshot.
type Input struct {
	Countries        []domain.Country
	Cities           []domain.City
	Languages        []domain.LanguageFraction
	GlobalPopulation int64
}

// Fetch reads the rows plan needs through r. Call it inside
// GeographyStore.Snapshot so all reads share one view of the data.
func Fetch(ctx context.Context, plan Plan, r ports.GeographyReader) (*Input, error) {
	in := &Input{}
	var err error

	countryPred := plan.Predicate
	countryPred.District = ""
	if in.Countries, err = r.Countries(ctx, countryPred); err != nil {
		return nil, fmt.Errorf("read countries: %w", err)
	}

	switch plan.Family {
	case domain.FamilyCountry, domain.FamilyCapital:
		ids := capitalIDs(in.Countries)
		if len(ids) == 0 {
			return in, nil
		}
		if in.Cities, err = r.Cities(ctx, domain.Predicate{CityIDs: ids}); err != nil {
			return nil, fmt.Errorf("read capitals: %w", err)
		}
	case domain.FamilyCity:
		if in.Cities, err = r.Cities(ctx, plan.Predicate); err != nil {
			return nil, fmt.Errorf("read cities: %w", err)
		}
	case domain.FamilyPopulation:
		if in.Cities, err = r.Cities(ctx, plan.Predicate); err != nil {
			return nil, fmt.Errorf("read cities: %w", err)
		}
		if in.GlobalPopulation, err = r.GlobalPopulation(ctx); err != nil {
			return nil, fmt.Errorf("read global population: %w", err)
		}
	case domain.FamilyLanguage:
		if in.Languages, err = r.LanguageFractions(ctx, plan.Predicate); err != nil {
			return nil, fmt.Errorf("read languages: %w", err)
		}
		if in.GlobalPopulation, err = r.GlobalPopulation(ctx); err != nil {
			return nil, fmt.Errorf("read global population: %w", err)
		}
	}
	return in, nil
}

func capitalIDs(countries []domain.Country) []int64 {
	ids := make([]int64, 0, len(countries))
	for _, c := range countries {
		if c.Capital != nil {
			ids = append(ids, *c.Capital)
		}
	}
	return ids
}
