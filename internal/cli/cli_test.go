package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--driver", "memory", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCmd_JSON(t *testing.T) {
	out, err := execute(t, "", "report", "countries", "--scope", "continent", "--name", "Asia", "--limit", "3", "--format", "json")
	require.NoError(t, err)

	var rows []struct {
		Code       string `json:"code"`
		Population int64  `json:"population"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "CHN", rows[0].Code)
	assert.Equal(t, "IND", rows[1].Code)
	assert.Equal(t, "IDN", rows[2].Code)
}

func TestReportCmd_Table(t *testing.T) {
	out, err := execute(t, "", "report", "cities", "--scope", "district", "--country", "FRA", "--name", "provence-alpes-côte")
	require.NoError(t, err)

	assert.Contains(t, out, "Cities in provence-alpes-côte, FRA")
	assert.Contains(t, out, "798,430")
	assert.Less(t, strings.Index(out, "Marseille"), strings.Index(out, "Nice"))
	assert.NotContains(t, out, "Paris")
}

func TestReportCmd_YAMLKeepsExactSpeakers(t *testing.T) {
	out, err := execute(t, "", "report", "languages", "--scope", "country", "--name", "FRA", "--limit", "1", "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "speakers: 55435255.200")
	assert.Contains(t, out, "scopeName: France")

	var rows []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "French", rows[0]["language"])
}

func TestReportCmd_PopulationWrapper(t *testing.T) {
	out, err := execute(t, "", "report", "population", "--scope", "continent", "--format", "json")
	require.NoError(t, err)

	var report struct {
		GlobalPopulation int64 `json:"globalPopulation"`
		Data             []struct {
			Label string `json:"label"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, int64(3096511100), report.GlobalPopulation)
	require.Len(t, report.Data, 3)
	assert.Equal(t, "Asia", report.Data[0].Label)
}

func TestReportCmd_LimitZero(t *testing.T) {
	out, err := execute(t, "", "report", "capitals", "--limit", "0", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestReportCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown family", []string{"report", "planets"}, "invalid report family"},
		{"bad scope", []string{"report", "cities", "--scope", "galaxy"}, "unknown scope level"},
		{"bad limit", []string{"report", "cities", "--limit", "ten"}, "not an integer"},
		{"district without country", []string{"report", "cities", "--scope", "district", "--name", "Madrid"}, "needs a country"},
		{"district for countries", []string{"report", "countries", "--scope", "district", "--country", "ESP"}, "only available for city"},
		{"bad format", []string{"report", "cities", "--format", "xml"}, "unknown format"},
		{"missing family", []string{"report"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLookupCmd(t *testing.T) {
	out, err := execute(t, "", "lookup", "districts", "--country", "ESP")
	require.NoError(t, err)
	for _, d := range []string{"Andalusia", "Katalonia", "Madrid", "Valencia"} {
		assert.Contains(t, out, d)
	}

	out, err = execute(t, "", "lookup", "continents", "--format", "json")
	require.NoError(t, err)
	var rows []struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Antarctica", rows[0].Value)

	_, err = execute(t, "", "lookup", "districts")
	assert.ErrorContains(t, err, "need a country")

	_, err = execute(t, "", "lookup", "planets")
	assert.ErrorContains(t, err, "unknown lookup")
}

func TestRootRunsConsole(t *testing.T) {
	out, err := execute(t, "1\n1\n1\n0\n0\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Main Menu ===")
	assert.Contains(t, out, "Countries (World)")
	assert.Contains(t, out, "Goodbye.")
}

func TestDatasetFlagSelectsMemory(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--dataset", "../adapters/dataset/testdata/world", "--log-level", "error", "lookup", "countries", "--format", "json"})
	require.NoError(t, cmd.Execute())

	var rows []json.RawMessage
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	assert.Len(t, rows, 3)
}

func TestFormatEvent(t *testing.T) {
	e := &domain.ReportEvent{
		Family:     domain.FamilyCity,
		Scope:      domain.ScopeDistrict,
		Name:       "Madrid",
		Country:    "ESP",
		Limit:      -1,
		Rows:       1,
		DurationMS: 3,
		At:         time.Date(2026, 10, 18, 9, 30, 5, 0, time.UTC),
	}
	assert.Equal(t, "09:30:05  cities scope=District name=Madrid country=ESP  rows=1  3ms", formatEvent(e))
}
