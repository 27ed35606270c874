//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/adapters/postgres"
	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/core/usecases"
	"github.com/samirrijal/worldreports/migrations"
)

type GeographySuite struct {
	suite.Suite
	container testcontainers.Container
	db        *postgres.DB
	ctx       context.Context
}

func TestGeographySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(GeographySuite))
}

func (s *GeographySuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("world"),
		tcpostgres.WithUsername("world"),
		tcpostgres.WithPassword("world"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = postgres.New(s.ctx, dsn, postgres.Options{MaxConns: 4, Retries: 5, RetryDelay: time.Second})
	s.Require().NoError(err)

	up, err := migrations.Up()
	s.Require().NoError(err)
	for _, m := range up {
		_, err := s.db.Pool.Exec(s.ctx, m.SQL)
		s.Require().NoError(err, m.Name)
	}

	counts, err := postgres.NewSeedRepo(s.db).Replace(s.ctx, dataset.Sample())
	s.Require().NoError(err)
	s.Equal(int64(len(dataset.Sample().Cities)), counts.Cities)
}

func (s *GeographySuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *GeographySuite) TestPredicatesMatchMemoryStore() {
	store := postgres.NewGeographyRepo(s.db)
	err := store.Snapshot(s.ctx, func(ctx context.Context, r ports.GeographyReader) error {
		countries, err := r.Countries(ctx, domain.Predicate{Continent: " europe"})
		s.Require().NoError(err)
		s.Len(countries, 3)

		byCode, err := r.Countries(ctx, domain.Predicate{Country: "fra"})
		s.Require().NoError(err)
		s.Empty(byCode, "codes are case-sensitive")

		cities, err := r.Cities(ctx, domain.Predicate{Country: "France", District: "PROVENCE-ALPES-CÔTE"})
		s.Require().NoError(err)
		s.Len(cities, 2)

		langs, err := r.LanguageFractions(ctx, domain.Predicate{Country: "ESP"})
		s.Require().NoError(err)
		s.Len(langs, 3)

		global, err := r.GlobalPopulation(ctx)
		s.Require().NoError(err)
		s.Equal(int64(3096511100), global)
		return nil
	})
	s.Require().NoError(err)
}

func (s *GeographySuite) TestReportServiceOverPostgres() {
	svc := usecases.NewReportService(postgres.NewGeographyRepo(s.db))

	report, err := svc.Generate(s.ctx, domain.Request{
		Family: domain.FamilyLanguage,
		Scope:  domain.ScopeCountry,
		Name:   "FRA",
		Limit:  domain.Unlimited,
	})
	s.Require().NoError(err)
	s.Require().Len(report.Languages, 3)
	first := report.Languages[0].(domain.ScopedLanguageRow)
	s.Equal("France", first.ScopeName)
	s.Equal("55435255.200", first.Speakers.String())
}

func (s *GeographySuite) TestLookups() {
	repo := postgres.NewLookupRepo(s.db)

	continents, err := repo.Continents(s.ctx)
	s.Require().NoError(err)
	s.Len(continents, 3)

	districts, err := repo.Districts(s.ctx, "ESP")
	s.Require().NoError(err)
	s.Len(districts, 4)
}
