package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/worldreports/internal/adapters/sqlbuilder"
	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
)

// GeographyRepo implements ports.GeographyStore with pgx.
type GeographyRepo struct {
	db *DB
}

var _ ports.GeographyStore = (*GeographyRepo)(nil)

// NewGeographyRepo creates a new GeographyRepo.
func NewGeographyRepo(db *DB) *GeographyRepo {
	return &GeographyRepo{db: db}
}

// snapshotTx is a repeatable-read, read-only transaction: every statement
// inside it sees the same committed data.
var snapshotTx = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// Snapshot runs fn inside one read-only transaction on one pooled connection.
func (r *GeographyRepo) Snapshot(ctx context.Context, fn func(ctx context.Context, r ports.GeographyReader) error) error {
	tx, err := r.db.Pool.BeginTx(ctx, snapshotTx)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, txReader{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type txReader struct {
	tx pgx.Tx
}

func (t txReader) Countries(ctx context.Context, pred domain.Predicate) ([]domain.Country, error) {
	q := sqlbuilder.Countries(sqlbuilder.Postgres, pred)
	rows, err := t.tx.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Country, 0)
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.Code, &c.Name, &c.Continent, &c.Region, &c.Population, &c.Capital); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (t txReader) Cities(ctx context.Context, pred domain.Predicate) ([]domain.City, error) {
	q := sqlbuilder.Cities(sqlbuilder.Postgres, pred)
	rows, err := t.tx.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.City, 0)
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryCode, &c.District, &c.Population); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (t txReader) LanguageFractions(ctx context.Context, pred domain.Predicate) ([]domain.LanguageFraction, error) {
	q := sqlbuilder.LanguageFractions(sqlbuilder.Postgres, pred)
	rows, err := t.tx.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.LanguageFraction, 0)
	for rows.Next() {
		var lf domain.LanguageFraction
		if err := rows.Scan(&lf.CountryCode, &lf.Language, &lf.IsOfficial, &lf.Percentage); err != nil {
			return nil, err
		}
		out = append(out, lf)
	}
	return out, rows.Err()
}

func (t txReader) GlobalPopulation(ctx context.Context) (int64, error) {
	var total int64
	q := sqlbuilder.GlobalPopulation()
	if err := t.tx.QueryRow(ctx, q.SQL).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
