// Package dataset loads the world reference tables from CSV files and ships a
// small built-in sample used by the memory driver and tests.
package dataset

import (
	"fmt"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// Dataset is a full copy of the reference tables.
type Dataset struct {
	Countries []domain.Country
	Cities    []domain.City
	Languages []domain.LanguageFraction
}

// Validate checks referential integrity between the three tables.
func (d *Dataset) Validate() error {
	codes := make(map[string]bool, len(d.Countries))
	for _, c := range d.Countries {
		if c.Code == "" {
			return fmt.Errorf("country %q has no code", c.Name)
		}
		if codes[c.Code] {
			return fmt.Errorf("duplicate country code %q", c.Code)
		}
		codes[c.Code] = true
	}
	ids := make(map[int64]bool, len(d.Cities))
	for _, city := range d.Cities {
		if ids[city.ID] {
			return fmt.Errorf("duplicate city id %d", city.ID)
		}
		ids[city.ID] = true
		if !codes[city.CountryCode] {
			return fmt.Errorf("city %d references unknown country %q", city.ID, city.CountryCode)
		}
	}
	for _, c := range d.Countries {
		if c.Capital != nil && !ids[*c.Capital] {
			return fmt.Errorf("country %q references unknown capital %d", c.Code, *c.Capital)
		}
	}
	for _, lf := range d.Languages {
		if !codes[lf.CountryCode] {
			return fmt.Errorf("language %q references unknown country %q", lf.Language, lf.CountryCode)
		}
	}
	return nil
}

func capital(id int64) *int64 { return &id }

// Sample returns a small excerpt of the world database. Every call returns a
// fresh copy.
func Sample() *Dataset {
	return &Dataset{
		Countries: []domain.Country{
			{Code: "CHN", Name: "China", Continent: "Asia", Region: "Eastern Asia", Population: 1277558000, Capital: capital(1891)},
			{Code: "IND", Name: "India", Continent: "Asia", Region: "Southern and Central Asia", Population: 1013662000, Capital: capital(1109)},
			{Code: "IDN", Name: "Indonesia", Continent: "Asia", Region: "Southeast Asia", Population: 212107000, Capital: capital(939)},
			{Code: "PAK", Name: "Pakistan", Continent: "Asia", Region: "Southern and Central Asia", Population: 156483000, Capital: capital(2831)},
			{Code: "BGD", Name: "Bangladesh", Continent: "Asia", Region: "Southern and Central Asia", Population: 129155000, Capital: capital(150)},
			{Code: "JPN", Name: "Japan", Continent: "Asia", Region: "Eastern Asia", Population: 126714000, Capital: capital(1532)},
			{Code: "DEU", Name: "Germany", Continent: "Europe", Region: "Western Europe", Population: 82164700, Capital: capital(3068)},
			{Code: "FRA", Name: "France", Continent: "Europe", Region: "Western Europe", Population: 59225700, Capital: capital(2974)},
			{Code: "ESP", Name: "Spain", Continent: "Europe", Region: "Southern Europe", Population: 39441700, Capital: capital(653)},
			{Code: "ATA", Name: "Antarctica", Continent: "Antarctica", Region: "Antarctica", Population: 0},
		},
		Cities: []domain.City{
			{ID: 1890, Name: "Shanghai", CountryCode: "CHN", District: "Shanghai", Population: 9696300},
			{ID: 1891, Name: "Peking", CountryCode: "CHN", District: "Peking", Population: 7472000},
			{ID: 1024, Name: "Mumbai (Bombay)", CountryCode: "IND", District: "Maharashtra", Population: 10500000},
			{ID: 1109, Name: "New Delhi", CountryCode: "IND", District: "Delhi", Population: 301297},
			{ID: 939, Name: "Jakarta", CountryCode: "IDN", District: "Jakarta Raya", Population: 9604900},
			{ID: 2822, Name: "Karachi", CountryCode: "PAK", District: "Sindh", Population: 9269265},
			{ID: 2831, Name: "Islamabad", CountryCode: "PAK", District: "Islamabad", Population: 524500},
			{ID: 150, Name: "Dhaka", CountryCode: "BGD", District: "Dhaka", Population: 3612850},
			{ID: 1532, Name: "Tokyo", CountryCode: "JPN", District: "Tokyo-to", Population: 7980230},
			{ID: 3068, Name: "Berlin", CountryCode: "DEU", District: "Berliini", Population: 3386667},
			{ID: 3069, Name: "Hamburg", CountryCode: "DEU", District: "Hamburg", Population: 1704735},
			{ID: 2974, Name: "Paris", CountryCode: "FRA", District: "Île-de-France", Population: 2125246},
			{ID: 2975, Name: "Marseille", CountryCode: "FRA", District: "Provence-Alpes-Côte", Population: 798430},
			{ID: 2976, Name: "Lyon", CountryCode: "FRA", District: "Rhône-Alpes", Population: 445452},
			{ID: 2978, Name: "Nice", CountryCode: "FRA", District: "Provence-Alpes-Côte", Population: 342738},
			{ID: 653, Name: "Madrid", CountryCode: "ESP", District: "Madrid", Population: 2879052},
			{ID: 654, Name: "Barcelona", CountryCode: "ESP", District: "Katalonia", Population: 1503451},
			{ID: 656, Name: "Sevilla", CountryCode: "ESP", District: "Andalusia", Population: 739412},
			{ID: 655, Name: "Valencia", CountryCode: "ESP", District: "Valencia", Population: 739412},
		},
		Languages: []domain.LanguageFraction{
			{CountryCode: "CHN", Language: "Chinese", IsOfficial: true, Percentage: 92.0},
			{CountryCode: "CHN", Language: "Zhuang", Percentage: 1.4},
			{CountryCode: "IND", Language: "Hindi", IsOfficial: true, Percentage: 39.9},
			{CountryCode: "IND", Language: "Bengali", Percentage: 8.2},
			{CountryCode: "IDN", Language: "Javanese", Percentage: 39.4},
			{CountryCode: "IDN", Language: "Malay", IsOfficial: true, Percentage: 12.1},
			{CountryCode: "IDN", Language: "Chinese", Percentage: 1.0},
			{CountryCode: "PAK", Language: "Punjabi", Percentage: 48.2},
			{CountryCode: "PAK", Language: "Urdu", IsOfficial: true, Percentage: 7.6},
			{CountryCode: "BGD", Language: "Bengali", IsOfficial: true, Percentage: 97.7},
			{CountryCode: "JPN", Language: "Japanese", IsOfficial: true, Percentage: 99.1},
			{CountryCode: "JPN", Language: "Chinese", Percentage: 0.2},
			{CountryCode: "DEU", Language: "German", IsOfficial: true, Percentage: 91.3},
			{CountryCode: "DEU", Language: "Turkish", Percentage: 2.6},
			{CountryCode: "FRA", Language: "French", IsOfficial: true, Percentage: 93.6},
			{CountryCode: "FRA", Language: "Arabic", Percentage: 2.5},
			{CountryCode: "FRA", Language: "Turkish", Percentage: 0.4},
			{CountryCode: "ESP", Language: "Spanish", IsOfficial: true, Percentage: 74.4},
			{CountryCode: "ESP", Language: "Catalan", Percentage: 16.9},
			{CountryCode: "ESP", Language: "Arabic", Percentage: 0.1},
		},
	}
}
