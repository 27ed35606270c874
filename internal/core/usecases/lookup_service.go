package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
)

// LookupService lists the scope names a user can choose from.
type LookupService struct {
	lookups ports.LookupRepository
}

// NewLookupService creates a new LookupService.
func NewLookupService(lookups ports.LookupRepository) *LookupService {
	return &LookupService{lookups: lookups}
}

// Continents returns every continent.
func (s *LookupService) Continents(ctx context.Context) ([]domain.Lookup, error) {
	return wrapStore(s.lookups.Continents(ctx))
}

// Regions returns every region.
func (s *LookupService) Regions(ctx context.Context) ([]domain.Lookup, error) {
	return wrapStore(s.lookups.Regions(ctx))
}

// Countries returns every country with its code.
func (s *LookupService) Countries(ctx context.Context) ([]domain.Lookup, error) {
	return wrapStore(s.lookups.Countries(ctx))
}

// Districts returns the districts of one country. A district only means
// something inside its country, so an empty country is a scope error.
func (s *LookupService) Districts(ctx context.Context, country string) ([]domain.Lookup, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("%w: districts need a country", domain.ErrInvalidScope)
	}
	return wrapStore(s.lookups.Districts(ctx, country))
}

// ByLevel dispatches to the lookup for a scope level.
func (s *LookupService) ByLevel(ctx context.Context, level domain.ScopeLevel, country string) ([]domain.Lookup, error) {
	switch level {
	case domain.ScopeContinent:
		return s.Continents(ctx)
	case domain.ScopeRegion:
		return s.Regions(ctx)
	case domain.ScopeCountry:
		return s.Countries(ctx)
	case domain.ScopeDistrict:
		return s.Districts(ctx, country)
	}
	return nil, fmt.Errorf("%w: no lookup for %q", domain.ErrInvalidScope, level)
}

func wrapStore(rows []domain.Lookup, err error) ([]domain.Lookup, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if rows == nil {
		rows = []domain.Lookup{}
	}
	return rows, nil
}
