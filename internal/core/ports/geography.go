package ports

import (
	"context"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// GeographyReader reads the reference tables. All calls made through one
// reader observe the same consistent snapshot.
type GeographyReader interface {
	Countries(ctx context.Context, pred domain.Predicate) ([]domain.Country, error)
	Cities(ctx context.Context, pred domain.Predicate) ([]domain.City, error)
	LanguageFractions(ctx context.Context, pred domain.Predicate) ([]domain.LanguageFraction, error)
	// GlobalPopulation is the sum of every country's population.
	GlobalPopulation(ctx context.Context) (int64, error)
}

// GeographyStore opens read-only snapshots of the reference data.
type GeographyStore interface {
	// Snapshot runs fn against a reader bound to one snapshot. The snapshot is
	// released when fn returns.
	Snapshot(ctx context.Context, fn func(ctx context.Context, r GeographyReader) error) error
}

// LookupRepository lists the values a user can pick as a scope name.
type LookupRepository interface {
	Continents(ctx context.Context) ([]domain.Lookup, error)
	Regions(ctx context.Context) ([]domain.Lookup, error)
	Countries(ctx context.Context) ([]domain.Lookup, error)
	// Districts lists the districts of one country, given by code or name.
	Districts(ctx context.Context, country string) ([]domain.Lookup, error)
}
