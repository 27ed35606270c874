package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/adapters/sqlbuilder"
)

// SeedRepo bulk-loads the reference tables.
type SeedRepo struct {
	db *DB
}

// NewSeedRepo creates a new SeedRepo.
func NewSeedRepo(db *DB) *SeedRepo {
	return &SeedRepo{db: db}
}

// Exec runs a multi-statement script, one statement at a time.
func (r *SeedRepo) Exec(ctx context.Context, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// Replace swaps the content of all three tables for ds in one transaction.
func (r *SeedRepo) Replace(ctx context.Context, ds *dataset.Dataset) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"countrylanguage", "city", "country"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	err = insertAll(ctx, tx,
		"INSERT INTO country (code, name, continent, region, population, capital) VALUES (?, ?, ?, ?, ?, ?)",
		len(ds.Countries), func(i int) []any {
			c := ds.Countries[i]
			return []any{c.Code, c.Name, c.Continent, c.Region, c.Population, c.Capital}
		})
	if err != nil {
		return fmt.Errorf("insert country: %w", err)
	}

	err = insertAll(ctx, tx,
		"INSERT INTO city (id, name, countrycode, district, population) VALUES (?, ?, ?, ?, ?)",
		len(ds.Cities), func(i int) []any {
			c := ds.Cities[i]
			return []any{c.ID, c.Name, c.CountryCode, c.District, c.Population}
		})
	if err != nil {
		return fmt.Errorf("insert city: %w", err)
	}

	err = insertAll(ctx, tx,
		"INSERT INTO countrylanguage (countrycode, language, isofficial, percentage) VALUES (?, ?, ?, ?)",
		len(ds.Languages), func(i int) []any {
			l := ds.Languages[i]
			var official any = l.IsOfficial
			if r.db.dialect == sqlbuilder.MySQL {
				// ENUM('T','F') in the world schema
				official = map[bool]string{true: "T", false: "F"}[l.IsOfficial]
			}
			return []any{l.CountryCode, l.Language, official, l.Percentage}
		})
	if err != nil {
		return fmt.Errorf("insert countrylanguage: %w", err)
	}

	return tx.Commit()
}

func insertAll(ctx context.Context, tx *sql.Tx, query string, n int, row func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
