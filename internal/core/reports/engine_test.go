package reports_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/adapters/memory"
	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/core/reports"
)

// sample totals
const (
	asiaPopulation   int64 = 2915679000
	europePopulation int64 = 180832100
	globalPopulation int64 = asiaPopulation + europePopulation
)

type EngineSuite struct {
	suite.Suite
	store *memory.Store
	ctx   context.Context
}

func (s *EngineSuite) SetupTest() {
	s.store = memory.New(dataset.Sample())
	s.ctx = context.Background()
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) generate(req domain.Request) *domain.Report {
	plan, err := reports.Resolve(req)
	s.Require().NoError(err)

	var report *domain.Report
	err = s.store.Snapshot(s.ctx, func(ctx context.Context, r ports.GeographyReader) error {
		in, err := reports.Fetch(ctx, plan, r)
		if err != nil {
			return err
		}
		report = reports.Assemble(plan, in)
		return nil
	})
	s.Require().NoError(err)
	return report
}

func req(f domain.Family, level domain.ScopeLevel, name string) domain.Request {
	return domain.Request{Family: f, Scope: level, Name: name, Limit: domain.Unlimited}
}

func (s *EngineSuite) TestTopCountriesOfAsia() {
	r := req(domain.FamilyCountry, domain.ScopeContinent, "Asia")
	r.Limit = 5
	report := s.generate(r)

	s.Require().Len(report.Countries, 5)
	codes := make([]string, 0, 5)
	for i, row := range report.Countries {
		s.Equal("Asia", row.Continent)
		if i > 0 {
			s.LessOrEqual(row.Population, report.Countries[i-1].Population)
		}
		codes = append(codes, row.Code)
	}
	s.Equal([]string{"CHN", "IND", "IDN", "PAK", "BGD"}, codes)
	s.Equal("Peking", report.Countries[0].CapitalName)
}

func (s *EngineSuite) TestLimits() {
	s.Run("zero returns an empty list", func() {
		r := req(domain.FamilyCity, domain.ScopeGlobal, "")
		r.Limit = 0
		report := s.generate(r)
		s.NotNil(report.Cities)
		s.Empty(report.Cities)
		s.Equal(0, report.Len())
	})

	s.Run("top three is a prefix of the full ordering", func() {
		full := s.generate(req(domain.FamilyCity, domain.ScopeGlobal, ""))
		s.Require().GreaterOrEqual(len(full.Cities), 10)

		r := req(domain.FamilyCity, domain.ScopeGlobal, "")
		r.Limit = 3
		top := s.generate(r)
		s.Equal(full.Cities[:3], top.Cities)
		s.Equal("Mumbai (Bombay)", top.Cities[0].Name)

		again := s.generate(r)
		s.Equal(top.Cities, again.Cities)
	})

	s.Run("limit larger than result keeps everything", func() {
		r := req(domain.FamilyCountry, domain.ScopeContinent, "Europe")
		r.Limit = 50
		s.Len(s.generate(r).Countries, 3)
	})

	s.Run("population limit trims rows but keeps global total", func() {
		r := req(domain.FamilyPopulation, domain.ScopeGlobal, "")
		r.Limit = 1
		report := s.generate(r)
		s.Require().Len(report.Population.Data, 1)
		s.Equal("Asia", report.Population.Data[0].Label)
		s.Equal(globalPopulation, report.Population.GlobalPopulation)
	})
}

func (s *EngineSuite) TestEqualPopulationsBreakOnPrimaryKey() {
	report := s.generate(req(domain.FamilyCity, domain.ScopeCountry, "Spain"))
	names := make([]string, 0, len(report.Cities))
	for _, c := range report.Cities {
		names = append(names, c.Name)
	}
	// Valencia (655) and Sevilla (656) share a population.
	s.Equal([]string{"Madrid", "Barcelona", "Valencia", "Sevilla"}, names)
}

func (s *EngineSuite) TestGroupedEntitiesOrderByLabelThenPopulation() {
	report := s.generate(req(domain.FamilyCity, domain.ScopeCountry, ""))
	s.Require().Len(report.Cities, len(dataset.Sample().Cities))

	for i := 1; i < len(report.Cities); i++ {
		prev, cur := report.Cities[i-1], report.Cities[i]
		prevLabel, curLabel := domain.NormalizeName(prev.Country), domain.NormalizeName(cur.Country)
		s.LessOrEqual(prevLabel, curLabel)
		if prevLabel == curLabel {
			s.GreaterOrEqual(prev.Population, cur.Population)
		}
	}
	s.Equal("Bangladesh", report.Cities[0].Country)
	s.Equal("Spain", report.Cities[len(report.Cities)-1].Country)
}

func (s *EngineSuite) TestDistrictScope() {
	r := domain.Request{Family: domain.FamilyCity, Scope: domain.ScopeDistrict, Name: " provence-alpes-CÔTE ", Country: "France", Limit: domain.Unlimited}
	report := s.generate(r)
	s.Require().Len(report.Cities, 2)
	s.Equal("Marseille", report.Cities[0].Name)
	s.Equal("Nice", report.Cities[1].Name)

	grouped := s.generate(domain.Request{Family: domain.FamilyCity, Scope: domain.ScopeDistrict, Country: "FRA", Limit: domain.Unlimited})
	s.Require().Len(grouped.Cities, 4)
	s.Equal("Marseille", grouped.Cities[0].Name)
	s.Equal("Nice", grouped.Cities[1].Name)
	s.Equal("Lyon", grouped.Cities[2].Name)
	s.Equal("Paris", grouped.Cities[3].Name, "labels compare bytewise, so île-de-france sorts last")
}

func (s *EngineSuite) TestCountryCodeIsCaseSensitive() {
	s.Empty(s.generate(req(domain.FamilyCountry, domain.ScopeCountry, "fra")).Countries)
	s.Len(s.generate(req(domain.FamilyCountry, domain.ScopeCountry, "FRA")).Countries, 1)
	s.Len(s.generate(req(domain.FamilyCountry, domain.ScopeCountry, "  france")).Countries, 1)
}

func (s *EngineSuite) TestUnknownNameIsEmptyNotError() {
	report := s.generate(req(domain.FamilyCapital, domain.ScopeRegion, "Atlantis"))
	s.NotNil(report.Capitals)
	s.Empty(report.Capitals)

	pop := s.generate(req(domain.FamilyPopulation, domain.ScopeContinent, "Atlantis"))
	s.NotNil(pop.Population.Data)
	s.Empty(pop.Population.Data)
}

func (s *EngineSuite) TestCapitals() {
	report := s.generate(req(domain.FamilyCapital, domain.ScopeGlobal, ""))
	s.Len(report.Capitals, 9, "Antarctica has no capital")
	s.Equal("Jakarta", report.Capitals[0].Name)
	s.Equal("Indonesia", report.Capitals[0].Country)
	s.Equal("Tokyo", report.Capitals[1].Name)
	s.Equal("Peking", report.Capitals[2].Name)
}

func (s *EngineSuite) TestGlobalPopulationHasOneRowPerContinent() {
	report := s.generate(req(domain.FamilyPopulation, domain.ScopeGlobal, ""))
	pop := report.Population
	s.Require().NotNil(pop)
	s.Require().Len(pop.Data, 3)

	var sum int64
	for _, row := range pop.Data {
		sum += row.TotalPopulation
		s.Equal(row.TotalPopulation, row.CityPopulation+row.NonCityPopulation)
		if row.TotalPopulation > 0 {
			s.InDelta(100, row.CityPct+row.NonCityPct, 0.01)
		} else {
			s.Zero(row.CityPct)
			s.Zero(row.NonCityPct)
		}
	}
	s.Equal(pop.GlobalPopulation, sum)
	s.Equal(globalPopulation, pop.GlobalPopulation)

	s.Equal("Asia", pop.Data[0].Label)
	s.Equal(asiaPopulation, pop.Data[0].TotalPopulation)
	s.Equal("Europe", pop.Data[1].Label)
	s.Equal("Antarctica", pop.Data[2].Label)
}

func (s *EngineSuite) TestPopulationOfOneCountry() {
	report := s.generate(req(domain.FamilyPopulation, domain.ScopeCountry, "FRA"))
	s.Require().Len(report.Population.Data, 1)
	row := report.Population.Data[0]
	s.Equal("France", row.Label)
	s.Equal(int64(59225700), row.TotalPopulation)
	s.Equal(int64(3711866), row.CityPopulation)
	s.Equal(int64(59225700-3711866), row.NonCityPopulation)
	s.InDelta(6.27, row.CityPct, 0.001)
	s.InDelta(93.73, row.NonCityPct, 0.001)
}

func (s *EngineSuite) TestGroupedPopulationOrdersByLabel() {
	report := s.generate(req(domain.FamilyPopulation, domain.ScopeRegion, ""))
	labels := make([]string, 0, len(report.Population.Data))
	for _, row := range report.Population.Data {
		labels = append(labels, row.Label)
	}
	s.Equal([]string{
		"Antarctica",
		"Eastern Asia",
		"Southeast Asia",
		"Southern and Central Asia",
		"Southern Europe",
		"Western Europe",
	}, labels)
}

func (s *EngineSuite) TestCityPopulationIsClampedToTotal() {
	plan, err := reports.Resolve(req(domain.FamilyPopulation, domain.ScopeCountry, ""))
	s.Require().NoError(err)
	in := &reports.Input{
		Countries: []domain.Country{{Code: "VAT", Name: "Holy See", Continent: "Europe", Population: 1000}},
		Cities:    []domain.City{{ID: 1, CountryCode: "VAT", Population: 1500}},
	}

	rows := reports.AggregatePopulation(plan, in)
	s.Require().Len(rows, 1)
	s.Equal(int64(1000), rows[0].CityPopulation)
	s.Zero(rows[0].NonCityPopulation)
	s.Equal(100.0, rows[0].CityPct)
}

func (s *EngineSuite) TestLanguagesOfFrance() {
	report := s.generate(req(domain.FamilyLanguage, domain.ScopeCountry, "FRA"))
	s.Require().Len(report.Languages, 3)

	want := []string{"French", "Arabic", "Turkish"}
	for i, row := range report.Languages {
		scoped, ok := row.(domain.ScopedLanguageRow)
		s.Require().True(ok, "scoped rows carry the scope name")
		s.Equal(domain.ScopeCountry, scoped.ScopeType)
		s.Equal("France", scoped.ScopeName)
		s.Equal(want[i], scoped.Language)
		s.Equal(reports.RoundTo2(scoped.Speakers.Float()/float64(globalPopulation)*100), scoped.PctOfGlobal)
	}

	french := report.Languages[0].(domain.ScopedLanguageRow)
	s.Equal("55435255.200", french.Speakers.String())
	s.Equal(93.6, french.PctOfScope)
}

func (s *EngineSuite) TestGlobalLanguages() {
	report := s.generate(req(domain.FamilyLanguage, domain.ScopeGlobal, ""))
	s.Require().NotEmpty(report.Languages)

	for i, row := range report.Languages {
		_, ok := row.(domain.GlobalLanguageRow)
		s.Require().True(ok)
		if i > 0 {
			s.LessOrEqual(row.SpeakerCount(), report.Languages[i-1].SpeakerCount())
		}
	}
	s.Equal("Chinese", report.Languages[0].LanguageName())
}

func (s *EngineSuite) TestLanguageTotalsAreScopeConsistent() {
	continent := s.generate(req(domain.FamilyLanguage, domain.ScopeContinent, "Asia"))
	regions := s.generate(req(domain.FamilyLanguage, domain.ScopeRegion, ""))

	asian := map[string]bool{"Eastern Asia": true, "Southeast Asia": true, "Southern and Central Asia": true}
	byRegion := make(map[string]domain.Speakers)
	for _, row := range regions.Languages {
		scoped := row.(domain.ScopedLanguageRow)
		if asian[scoped.ScopeName] {
			byRegion[scoped.Language] += scoped.Speakers
		}
	}

	s.Require().NotEmpty(continent.Languages)
	for _, row := range continent.Languages {
		s.Equal(row.SpeakerCount(), byRegion[row.LanguageName()], row.LanguageName())
	}
}

func (s *EngineSuite) TestGroupedLanguagesOrderByLabelThenSpeakers() {
	report := s.generate(req(domain.FamilyLanguage, domain.ScopeContinent, ""))
	for i := 1; i < len(report.Languages); i++ {
		prev := report.Languages[i-1].(domain.ScopedLanguageRow)
		cur := report.Languages[i].(domain.ScopedLanguageRow)
		s.LessOrEqual(domain.NormalizeName(prev.ScopeName), domain.NormalizeName(cur.ScopeName))
		if prev.ScopeName == cur.ScopeName {
			s.GreaterOrEqual(prev.Speakers, cur.Speakers)
		}
	}
}

func (s *EngineSuite) TestFetchWrapsReaderErrors() {
	plan, err := reports.Resolve(req(domain.FamilyCity, domain.ScopeGlobal, ""))
	s.Require().NoError(err)

	boom := errors.New("connection reset")
	_, err = reports.Fetch(s.ctx, plan, failingReader{err: boom})
	s.Require().ErrorIs(err, boom)
	s.Contains(err.Error(), "read countries")
}

type failingReader struct{ err error }

func (f failingReader) Countries(context.Context, domain.Predicate) ([]domain.Country, error) {
	return nil, f.err
}

func (f failingReader) Cities(context.Context, domain.Predicate) ([]domain.City, error) {
	return nil, f.err
}

func (f failingReader) LanguageFractions(context.Context, domain.Predicate) ([]domain.LanguageFraction, error) {
	return nil, f.err
}

func (f failingReader) GlobalPopulation(context.Context) (int64, error) { return 0, f.err }
