package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

func TestLoadDir(t *testing.T) {
	ds, err := LoadDir(context.Background(), "testdata/world")
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	require.Len(t, ds.Countries, 3)
	assert.Equal(t, "France", ds.Countries[0].Name)
	require.NotNil(t, ds.Countries[0].Capital)
	assert.Equal(t, int64(2974), *ds.Countries[0].Capital)
	assert.Nil(t, ds.Countries[2].Capital, "NULL capital")

	require.Len(t, ds.Cities, 3)
	assert.Equal(t, "Île-de-France", ds.Cities[0].District)

	require.Len(t, ds.Languages, 3)
	assert.True(t, ds.Languages[0].IsOfficial)
	assert.False(t, ds.Languages[1].IsOfficial)
	assert.InDelta(t, 2.5, ds.Languages[1].Percentage, 1e-9)
}

func TestLoadDir_ReportsBadRows(t *testing.T) {
	_, err := LoadDir(context.Background(), "testdata/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city.csv")
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadDir_MissingDir(t *testing.T) {
	_, err := LoadDir(context.Background(), "testdata/nope")
	require.Error(t, err)
}

func TestRead_MissingColumns(t *testing.T) {
	_, err := read(context.Background(), strings.NewReader("Code,Name\nFRA,France\n"), parseCountry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
}

func TestSample_IsConsistent(t *testing.T) {
	ds := Sample()
	require.NoError(t, ds.Validate())

	// each call returns an independent copy
	ds.Countries[0].Name = "changed"
	assert.Equal(t, "China", Sample().Countries[0].Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		ds   Dataset
		want string
	}{
		{
			name: "duplicate code",
			ds:   Dataset{Countries: []domain.Country{{Code: "FRA"}, {Code: "FRA"}}},
			want: "duplicate country code",
		},
		{
			name: "orphan city",
			ds:   Dataset{Cities: []domain.City{{ID: 1, CountryCode: "XXX"}}},
			want: "unknown country",
		},
		{
			name: "missing capital",
			ds:   Dataset{Countries: []domain.Country{{Code: "FRA", Capital: capital(9)}}},
			want: "unknown capital",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ds.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
