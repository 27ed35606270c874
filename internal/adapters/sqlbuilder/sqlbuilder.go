// Package sqlbuilder renders the read queries of the world schema for each
// supported SQL dialect. Table and column names are lower case, which matches
// the MySQL world database as well as the schema created by cmd/migrate.
package sqlbuilder

import (
	"strconv"
	"strings"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// Dialect selects placeholder syntax and a few expressions.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	}
	return "unknown"
}

// Query is SQL text with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

type builder struct {
	d     Dialect
	where []string
	args  []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	if b.d == Postgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// sameName compares a column to a free-text value ignoring case and
// surrounding whitespace. The value is trimmed here because SQL TRIM only
// strips spaces on MySQL.
func (b *builder) sameName(col, value string) string {
	return "LOWER(TRIM(" + col + ")) = LOWER(" + b.arg(strings.TrimSpace(value)) + ")"
}

// sameCode compares a country code exactly. MySQL's default collation is
// case-insensitive, so the comparison is forced to binary there.
func (b *builder) sameCode(col, value string) string {
	if b.d == MySQL {
		return "BINARY " + col + " = " + b.arg(value)
	}
	return col + " = " + b.arg(value)
}

func (b *builder) countryFilter(pred domain.Predicate) {
	if pred.Continent != "" {
		b.where = append(b.where, b.sameName("co.continent", pred.Continent))
	}
	if pred.Region != "" {
		b.where = append(b.where, b.sameName("co.region", pred.Region))
	}
	if pred.Country != "" {
		code := b.sameCode("co.code", pred.Country)
		name := b.sameName("co.name", pred.Country)
		b.where = append(b.where, "("+code+" OR "+name+")")
	}
}

func (b *builder) cityFilter(pred domain.Predicate) {
	b.countryFilter(pred)
	if pred.District != "" {
		b.where = append(b.where, b.sameName("ci.district", pred.District))
	}
	if len(pred.CityIDs) > 0 {
		marks := make([]string, len(pred.CityIDs))
		for i, id := range pred.CityIDs {
			marks[i] = b.arg(id)
		}
		b.where = append(b.where, "ci.id IN ("+strings.Join(marks, ", ")+")")
	}
}

func (b *builder) build(base, order string) Query {
	var sb strings.Builder
	sb.WriteString(base)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}
	return Query{SQL: sb.String(), Args: b.args}
}

// Countries selects code, name, continent, region, population, capital.
func Countries(d Dialect, pred domain.Predicate) Query {
	b := &builder{d: d}
	b.countryFilter(pred)
	return b.build(
		"SELECT co.code, co.name, co.continent, co.region, co.population, co.capital FROM country co",
		"co.code",
	)
}

// Cities selects id, name, countrycode, district, population.
func Cities(d Dialect, pred domain.Predicate) Query {
	b := &builder{d: d}
	b.cityFilter(pred)
	return b.build(
		"SELECT ci.id, ci.name, ci.countrycode, ci.district, ci.population FROM city ci JOIN country co ON co.code = ci.countrycode",
		"ci.id",
	)
}

// LanguageFractions selects countrycode, language, isofficial, percentage.
// isofficial is normalised to a boolean-compatible value for every dialect.
func LanguageFractions(d Dialect, pred domain.Predicate) Query {
	b := &builder{d: d}
	b.countryFilter(pred)
	official := "cl.isofficial"
	if d != Postgres {
		// MySQL world stores ENUM('T','F')
		official = "CASE WHEN cl.isofficial IN ('T', 't', '1', 1) THEN 1 ELSE 0 END"
	}
	return b.build(
		"SELECT cl.countrycode, cl.language, "+official+", cl.percentage FROM countrylanguage cl JOIN country co ON co.code = cl.countrycode",
		"cl.countrycode, cl.language",
	)
}

// GlobalPopulation sums every country's population.
func GlobalPopulation() Query {
	return Query{SQL: "SELECT COALESCE(SUM(population), 0) FROM country"}
}

// DistinctContinents lists continents alphabetically.
func DistinctContinents() Query {
	return Query{SQL: "SELECT DISTINCT continent FROM country ORDER BY continent"}
}

// DistinctRegions lists regions alphabetically.
func DistinctRegions() Query {
	return Query{SQL: "SELECT DISTINCT region FROM country ORDER BY region"}
}

// CountryNames lists code and name of every country by name.
func CountryNames() Query {
	return Query{SQL: "SELECT code, name FROM country ORDER BY name, code"}
}

// Districts lists the distinct districts of a country given by code or name.
func Districts(d Dialect, country string) Query {
	b := &builder{d: d}
	b.countryFilter(domain.Predicate{Country: country})
	return b.build(
		"SELECT DISTINCT co.code, ci.district FROM city ci JOIN country co ON co.code = ci.countrycode",
		"ci.district, co.code",
	)
}
