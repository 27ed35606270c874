package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// File names inside a dataset directory. They mirror the world database tables.
const (
	CountryFile  = "country.csv"
	CityFile     = "city.csv"
	LanguageFile = "countrylanguage.csv"
)

// LoadDir parses the three table files in dir concurrently.
func LoadDir(ctx context.Context, dir string) (*Dataset, error) {
	ds := &Dataset{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		ds.Countries, err = readFile(ctx, filepath.Join(dir, CountryFile), parseCountry)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Cities, err = readFile(ctx, filepath.Join(dir, CityFile), parseCity)
		return err
	})
	g.Go(func() error {
		var err error
		ds.Languages, err = readFile(ctx, filepath.Join(dir, LanguageFile), parseLanguage)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

type columns map[string]int

func indexColumns(header []string) columns {
	m := make(columns, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

func (c columns) require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := c[strings.ToLower(n)]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c columns) get(record []string, name string) string {
	idx, ok := c[strings.ToLower(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func readFile[T any](ctx context.Context, path string, parse func(columns, []string) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	rows, err := read(ctx, f, parse)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// read parses a header-led CSV stream with parse.
func read[T any](ctx context.Context, r io.Reader, parse func(columns, []string) (T, error)) ([]T, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)

	var out []T
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := parse(cols, record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseCountry(cols columns, rec []string) (domain.Country, error) {
	if err := cols.require("Code", "Name", "Continent", "Region", "Population"); err != nil {
		return domain.Country{}, err
	}
	pop, err := parseInt(cols.get(rec, "Population"), "population")
	if err != nil {
		return domain.Country{}, err
	}
	c := domain.Country{
		Code:       cols.get(rec, "Code"),
		Name:       cols.get(rec, "Name"),
		Continent:  cols.get(rec, "Continent"),
		Region:     cols.get(rec, "Region"),
		Population: pop,
	}
	if raw := cols.get(rec, "Capital"); raw != "" && !strings.EqualFold(raw, "NULL") {
		id, err := parseInt(raw, "capital")
		if err != nil {
			return domain.Country{}, err
		}
		c.Capital = &id
	}
	return c, nil
}

func parseCity(cols columns, rec []string) (domain.City, error) {
	if err := cols.require("ID", "Name", "CountryCode", "District", "Population"); err != nil {
		return domain.City{}, err
	}
	id, err := parseInt(cols.get(rec, "ID"), "id")
	if err != nil {
		return domain.City{}, err
	}
	pop, err := parseInt(cols.get(rec, "Population"), "population")
	if err != nil {
		return domain.City{}, err
	}
	return domain.City{
		ID:          id,
		Name:        cols.get(rec, "Name"),
		CountryCode: cols.get(rec, "CountryCode"),
		District:    cols.get(rec, "District"),
		Population:  pop,
	}, nil
}

func parseLanguage(cols columns, rec []string) (domain.LanguageFraction, error) {
	if err := cols.require("CountryCode", "Language", "IsOfficial", "Percentage"); err != nil {
		return domain.LanguageFraction{}, err
	}
	pct, err := strconv.ParseFloat(cols.get(rec, "Percentage"), 64)
	if err != nil {
		return domain.LanguageFraction{}, fmt.Errorf("percentage: %w", err)
	}
	if pct < 0 || pct > 100 {
		return domain.LanguageFraction{}, fmt.Errorf("percentage %v out of range", pct)
	}
	official := cols.get(rec, "IsOfficial")
	return domain.LanguageFraction{
		CountryCode: cols.get(rec, "CountryCode"),
		Language:    cols.get(rec, "Language"),
		IsOfficial:  strings.EqualFold(official, "T") || strings.EqualFold(official, "true") || official == "1",
		Percentage:  pct,
	}, nil
}

func parseInt(s, field string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: negative value %d", field, n)
	}
	return n, nil
}
