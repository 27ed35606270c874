package postgres

import (
	"context"

	"github.com/samirrijal/worldreports/internal/adapters/sqlbuilder"
	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
)

// LookupRepo implements ports.LookupRepository with pgx.
type LookupRepo struct {
	db *DB
}

var _ ports.LookupRepository = (*LookupRepo)(nil)

// NewLookupRepo creates a new LookupRepo.
func NewLookupRepo(db *DB) *LookupRepo {
	return &LookupRepo{db: db}
}

// Continents returns the distinct continents.
func (r *LookupRepo) Continents(ctx context.Context) ([]domain.Lookup, error) {
	return r.values(ctx, "continent", sqlbuilder.DistinctContinents())
}

// Regions returns the distinct regions.
func (r *LookupRepo) Regions(ctx context.Context) ([]domain.Lookup, error) {
	return r.values(ctx, "region", sqlbuilder.DistinctRegions())
}

// Countries returns every country with its code.
func (r *LookupRepo) Countries(ctx context.Context) ([]domain.Lookup, error) {
	return r.coded(ctx, "country", sqlbuilder.CountryNames())
}

// Districts returns the districts of one country.
func (r *LookupRepo) Districts(ctx context.Context, country string) ([]domain.Lookup, error) {
	return r.coded(ctx, "district", sqlbuilder.Districts(sqlbuilder.Postgres, country))
}

func (r *LookupRepo) values(ctx context.Context, typ string, q sqlbuilder.Query) ([]domain.Lookup, error) {
	rows, err := r.db.Pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Lookup, 0)
	for rows.Next() {
		l := domain.Lookup{Type: typ}
		if err := rows.Scan(&l.Value); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LookupRepo) coded(ctx context.Context, typ string, q sqlbuilder.Query) ([]domain.Lookup, error) {
	rows, err := r.db.Pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Lookup, 0)
	for rows.Next() {
		l := domain.Lookup{Type: typ}
		if err := rows.Scan(&l.Code, &l.Value); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
