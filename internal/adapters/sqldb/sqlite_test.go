package sqldb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/adapters/sqldb"
	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/core/usecases"
	"github.com/samirrijal/worldreports/migrations"
)

type SQLiteSuite struct {
	suite.Suite
	db  *sqldb.DB
	ctx context.Context
}

func TestSQLiteSuite(t *testing.T) {
	suite.Run(t, new(SQLiteSuite))
}

func (s *SQLiteSuite) SetupSuite() {
	s.ctx = context.Background()
	path := filepath.Join(s.T().TempDir(), "world.db")

	var err error
	s.db, err = sqldb.Open(s.ctx, "sqlite", "file:"+path, sqldb.Options{MaxConns: 1, Retries: 1})
	s.Require().NoError(err)

	seed := sqldb.NewSeedRepo(s.db)
	up, err := migrations.Up()
	s.Require().NoError(err)
	for _, m := range up {
		s.Require().NoError(seed.Exec(s.ctx, m.SQL), m.Name)
	}
	s.Require().NoError(seed.Replace(s.ctx, dataset.Sample()))
}

func (s *SQLiteSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *SQLiteSuite) TestReaderMatchesPredicates() {
	store := sqldb.NewGeographyRepo(s.db)
	err := store.Snapshot(s.ctx, func(ctx context.Context, r ports.GeographyReader) error {
		countries, err := r.Countries(ctx, domain.Predicate{Region: "  western EUROPE "})
		s.Require().NoError(err)
		s.Len(countries, 2)

		byCode, err := r.Countries(ctx, domain.Predicate{Country: "FRA"})
		s.Require().NoError(err)
		s.Require().Len(byCode, 1)
		s.Require().NotNil(byCode[0].Capital)
		s.Equal(int64(2974), *byCode[0].Capital)

		lower, err := r.Countries(ctx, domain.Predicate{Country: "fra"})
		s.Require().NoError(err)
		s.Empty(lower)

		ata, err := r.Countries(ctx, domain.Predicate{Country: "ATA"})
		s.Require().NoError(err)
		s.Require().Len(ata, 1)
		s.Nil(ata[0].Capital)

		cities, err := r.Cities(ctx, domain.Predicate{Country: "ESP", District: "madrid"})
		s.Require().NoError(err)
		s.Require().Len(cities, 1)
		s.Equal("Madrid", cities[0].Name)

		byID, err := r.Cities(ctx, domain.Predicate{CityIDs: []int64{1891, 1532}})
		s.Require().NoError(err)
		s.Len(byID, 2)

		langs, err := r.LanguageFractions(ctx, domain.Predicate{Country: "France"})
		s.Require().NoError(err)
		s.Require().Len(langs, 3)
		for _, l := range langs {
			s.Equal(l.Language == "French", l.IsOfficial, l.Language)
		}

		global, err := r.GlobalPopulation(ctx)
		s.Require().NoError(err)
		s.Equal(int64(3096511100), global)
		return nil
	})
	s.Require().NoError(err)
}

func (s *SQLiteSuite) TestReportsMatchMemoryStore() {
	sqlite := usecases.NewReportService(sqldb.NewGeographyRepo(s.db))

	req := domain.Request{Family: domain.FamilyPopulation, Scope: domain.ScopeRegion, Limit: domain.Unlimited}
	report, err := sqlite.Generate(s.ctx, req)
	s.Require().NoError(err)
	s.Len(report.Population.Data, 6)
	s.Equal(int64(3096511100), report.Population.GlobalPopulation)

	cities, err := sqlite.Generate(s.ctx, domain.Request{Family: domain.FamilyCity, Scope: domain.ScopeCountry, Name: "Spain", Limit: domain.Unlimited})
	s.Require().NoError(err)
	s.Require().Len(cities.Cities, 4)
	s.Equal("Valencia", cities.Cities[2].Name)
	s.Equal("Sevilla", cities.Cities[3].Name)
}

func (s *SQLiteSuite) TestLookups() {
	repo := sqldb.NewLookupRepo(s.db)

	regions, err := repo.Regions(s.ctx)
	s.Require().NoError(err)
	s.Len(regions, 6)

	countries, err := repo.Countries(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(countries, 10)
	s.Equal(domain.Lookup{Type: "country", Code: "ATA", Value: "Antarctica"}, countries[0])

	districts, err := repo.Districts(s.ctx, "Germany")
	s.Require().NoError(err)
	s.Len(districts, 2)
}
