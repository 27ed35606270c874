package sqldb

import (
	"context"

	"github.com/samirrijal/worldreports/internal/adapters/sqlbuilder"
	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
)

// LookupRepo implements ports.LookupRepository with database/sql.
type LookupRepo struct {
	db *DB
}

var _ ports.LookupRepository = (*LookupRepo)(nil)

// NewLookupRepo creates a new LookupRepo.
func NewLookupRepo(db *DB) *LookupRepo {
	return &LookupRepo{db: db}
}

func (r *LookupRepo) Continents(ctx context.Context) ([]domain.Lookup, error) {
	return r.query(ctx, "continent", sqlbuilder.DistinctContinents(), false)
}

func (r *LookupRepo) Regions(ctx context.Context) ([]domain.Lookup, error) {
	return r.query(ctx, "region", sqlbuilder.DistinctRegions(), false)
}

func (r *LookupRepo) Countries(ctx context.Context) ([]domain.Lookup, error) {
	return r.query(ctx, "country", sqlbuilder.CountryNames(), true)
}

func (r *LookupRepo) Districts(ctx context.Context, country string) ([]domain.Lookup, error) {
	return r.query(ctx, "district", sqlbuilder.Districts(r.db.dialect, country), true)
}

func (r *LookupRepo) query(ctx context.Context, typ string, q sqlbuilder.Query, coded bool) ([]domain.Lookup, error) {
	rows, err := r.db.SQL.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Lookup, 0)
	for rows.Next() {
		l := domain.Lookup{Type: typ}
		if coded {
			err = rows.Scan(&l.Code, &l.Value)
		} else {
			err = rows.Scan(&l.Value)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
