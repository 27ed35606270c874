// Package memory serves the geography tables from an immutable in-process dataset.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
)

// Store implements ports.GeographyStore and ports.LookupRepository. The
// dataset is never modified after New, so every reader sees the same snapshot
// and Store is safe for concurrent use.
type Store struct {
	countries []domain.Country
	cities    []domain.City
	languages []domain.LanguageFraction
	byCode    map[string]domain.Country
	global    int64
}

var (
	_ ports.GeographyStore   = (*Store)(nil)
	_ ports.LookupRepository = (*Store)(nil)
)

// New copies ds into a Store.
func New(ds *dataset.Dataset) *Store {
	s := &Store{
		countries: slices.Clone(ds.Countries),
		cities:    slices.Clone(ds.Cities),
		languages: slices.Clone(ds.Languages),
		byCode:    make(map[string]domain.Country, len(ds.Countries)),
	}
	for _, c := range s.countries {
		s.byCode[c.Code] = c
		s.global += c.Population
	}
	return s
}

// Snapshot runs fn directly; the dataset is already immutable.
func (s *Store) Snapshot(ctx context.Context, fn func(ctx context.Context, r ports.GeographyReader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, reader{s})
}

type reader struct{ s *Store }

func (r reader) Countries(ctx context.Context, pred domain.Predicate) ([]domain.Country, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Country, 0)
	for _, c := range r.s.countries {
		if pred.MatchCountry(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r reader) Cities(ctx context.Context, pred domain.Predicate) ([]domain.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.City, 0)
	for _, city := range r.s.cities {
		c, ok := r.s.byCode[city.CountryCode]
		if !ok {
			continue
		}
		if pred.MatchCity(city, c) {
			out = append(out, city)
		}
	}
	return out, nil
}

func (r reader) LanguageFractions(ctx context.Context, pred domain.Predicate) ([]domain.LanguageFraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.LanguageFraction, 0)
	for _, lf := range r.s.languages {
		c, ok := r.s.byCode[lf.CountryCode]
		if !ok {
			continue
		}
		if pred.MatchCountry(c) {
			out = append(out, lf)
		}
	}
	return out, nil
}

func (r reader) GlobalPopulation(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.s.global, nil
}

// Continents lists distinct continents alphabetically.
func (s *Store) Continents(ctx context.Context) ([]domain.Lookup, error) {
	return s.distinct(ctx, "continent", func(c domain.Country) string { return c.Continent })
}

// Regions lists distinct regions alphabetically.
func (s *Store) Regions(ctx context.Context) ([]domain.Lookup, error) {
	return s.distinct(ctx, "region", func(c domain.Country) string { return c.Region })
}

// Countries lists every country by name.
func (s *Store) Countries(ctx context.Context) ([]domain.Lookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Lookup, 0, len(s.countries))
	for _, c := range s.countries {
		out = append(out, domain.Lookup{Type: "country", Code: c.Code, Value: c.Name})
	}
	slices.SortFunc(out, func(a, b domain.Lookup) int {
		return cmp.Or(strings.Compare(a.Value, b.Value), strings.Compare(a.Code, b.Code))
	})
	return out, nil
}

// Districts lists the distinct districts of the country given by code or name.
func (s *Store) Districts(ctx context.Context, country string) ([]domain.Lookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pred := domain.Predicate{Country: strings.TrimSpace(country)}
	seen := make(map[string]bool)
	out := make([]domain.Lookup, 0)
	for _, city := range s.cities {
		c, ok := s.byCode[city.CountryCode]
		if !ok || !pred.MatchCountry(c) {
			continue
		}
		key := c.Code + "\x00" + city.District
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.Lookup{Type: "district", Code: c.Code, Value: city.District})
	}
	slices.SortFunc(out, func(a, b domain.Lookup) int {
		return cmp.Or(strings.Compare(a.Value, b.Value), strings.Compare(a.Code, b.Code))
	})
	return out, nil
}

func (s *Store) distinct(ctx context.Context, typ string, value func(domain.Country) string) ([]domain.Lookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := make([]domain.Lookup, 0)
	for _, c := range s.countries {
		v := value(c)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, domain.Lookup{Type: typ, Value: v})
	}
	slices.SortFunc(out, func(a, b domain.Lookup) int { return strings.Compare(a.Value, b.Value) })
	return out, nil
}
