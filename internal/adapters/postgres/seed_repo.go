package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
)

// SeedRepo bulk-loads the reference tables.
type SeedRepo struct {
	db *DB
}

// NewSeedRepo creates a new SeedRepo.
func NewSeedRepo(db *DB) *SeedRepo {
	return &SeedRepo{db: db}
}

// SeedCounts reports how many rows each table received.
type SeedCounts struct {
	Countries int64
	Cities    int64
	Languages int64
}

// Replace swaps the content of all three tables for ds in one transaction.
func (r *SeedRepo) Replace(ctx context.Context, ds *dataset.Dataset) (SeedCounts, error) {
	var counts SeedCounts

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return counts, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE countrylanguage, city, country`); err != nil {
		return counts, fmt.Errorf("truncate: %w", err)
	}

	counts.Countries, err = tx.CopyFrom(ctx,
		pgx.Identifier{"country"},
		[]string{"code", "name", "continent", "region", "population", "capital"},
		pgx.CopyFromSlice(len(ds.Countries), func(i int) ([]any, error) {
			c := ds.Countries[i]
			return []any{c.Code, c.Name, c.Continent, c.Region, c.Population, c.Capital}, nil
		}),
	)
	if err != nil {
		return counts, fmt.Errorf("copy country: %w", err)
	}

	counts.Cities, err = tx.CopyFrom(ctx,
		pgx.Identifier{"city"},
		[]string{"id", "name", "countrycode", "district", "population"},
		pgx.CopyFromSlice(len(ds.Cities), func(i int) ([]any, error) {
			c := ds.Cities[i]
			return []any{c.ID, c.Name, c.CountryCode, c.District, c.Population}, nil
		}),
	)
	if err != nil {
		return counts, fmt.Errorf("copy city: %w", err)
	}

	counts.Languages, err = tx.CopyFrom(ctx,
		pgx.Identifier{"countrylanguage"},
		[]string{"countrycode", "language", "isofficial", "percentage"},
		pgx.CopyFromSlice(len(ds.Languages), func(i int) ([]any, error) {
			l := ds.Languages[i]
			return []any{l.CountryCode, l.Language, l.IsOfficial, l.Percentage}, nil
		}),
	)
	if err != nil {
		return counts, fmt.Errorf("copy countrylanguage: %w", err)
	}

	return counts, tx.Commit(ctx)
}
