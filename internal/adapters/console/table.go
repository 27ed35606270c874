package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

// Table is a report flattened to text cells.
type Table struct {
	Title   string
	Note    string
	Headers []string
	Rows    [][]string
}

// TableOf flattens a report into a table. The columns depend on the family
// and, for languages, on whether the report is global.
func TableOf(r *domain.Report) Table {
	t := Table{Title: title(r.Request)}

	switch r.Request.Family {
	case domain.FamilyCountry:
		t.Headers = []string{"Code", "Name", "Continent", "Region", "Population", "Capital"}
		for _, row := range r.Countries {
			t.Rows = append(t.Rows, []string{row.Code, row.Name, row.Continent, row.Region, num(row.Population), row.CapitalName})
		}

	case domain.FamilyCity:
		t.Headers = []string{"Name", "Country", "District", "Population"}
		for _, row := range r.Cities {
			t.Rows = append(t.Rows, []string{row.Name, row.Country, row.District, num(row.Population)})
		}

	case domain.FamilyCapital:
		t.Headers = []string{"Name", "Country", "Continent", "Region", "Population"}
		for _, row := range r.Capitals {
			t.Rows = append(t.Rows, []string{row.Name, row.Country, row.Continent, row.Region, num(row.Population)})
		}

	case domain.FamilyPopulation:
		t.Headers = []string{"Name", "Population", "In Cities", "City %", "Not In Cities", "Non-City %"}
		if r.Population != nil {
			t.Note = "World population: " + num(r.Population.GlobalPopulation)
			for _, row := range r.Population.Data {
				t.Rows = append(t.Rows, []string{
					row.Label,
					num(row.TotalPopulation),
					num(row.CityPopulation), pct(row.CityPct),
					num(row.NonCityPopulation), pct(row.NonCityPct),
				})
			}
		}

	case domain.FamilyLanguage:
		if r.Request.Scope == domain.ScopeGlobal || r.Request.Scope == "" {
			t.Headers = []string{"Language", "Speakers", "% of World"}
		} else {
			t.Headers = []string{string(r.Request.Scope), "Language", "Speakers", "% of " + string(r.Request.Scope), "% of World"}
		}
		for _, l := range r.Languages {
			switch row := l.(type) {
			case domain.GlobalLanguageRow:
				t.Rows = append(t.Rows, []string{row.Language, speakers(row.Speakers), pct(row.PctOfGlobal)})
			case domain.ScopedLanguageRow:
				t.Rows = append(t.Rows, []string{row.ScopeName, row.Language, speakers(row.Speakers), pct(row.PctOfScope), pct(row.PctOfGlobal)})
			}
		}
	}
	return t
}

// WriteTable renders the header and rows[from:to] as aligned columns.
func WriteTable(out io.Writer, t Table, from, to int) error {
	from = max(from, 0)
	to = min(to, len(t.Rows))
	from = min(from, to)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(t.Headers, "\t"))
	seps := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		seps[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(seps, "\t"))

	for _, row := range t.Rows[from:to] {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// WriteAll renders the title, the note and every row.
func WriteAll(out io.Writer, t Table) error {
	fmt.Fprintln(out, t.Title)
	if t.Note != "" {
		fmt.Fprintln(out, t.Note)
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(out, "No matching rows.")
		return nil
	}
	return WriteTable(out, t, 0, len(t.Rows))
}

func title(req domain.Request) string {
	var b strings.Builder
	b.WriteString(req.Family.Title())
	switch {
	case req.Scope == domain.ScopeGlobal || req.Scope == "":
		b.WriteString(" (World)")
	case req.Name == "":
		b.WriteString(" by ")
		b.WriteString(strings.ToLower(string(req.Scope)))
	default:
		b.WriteString(" in ")
		b.WriteString(req.Name)
		if req.Scope == domain.ScopeDistrict && req.Country != "" {
			b.WriteString(", ")
			b.WriteString(req.Country)
		}
	}
	if !req.Limit.IsUnlimited() {
		b.WriteString(", top ")
		b.WriteString(strconv.Itoa(int(req.Limit)))
	}
	return b.String()
}

// num formats n with comma thousands separators.
func num(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func pct(p float64) string { return strconv.FormatFloat(p, 'f', 2, 64) + "%" }

func speakers(s domain.Speakers) string { return num(s.Persons()) }
