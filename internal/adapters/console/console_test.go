package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/worldreports/internal/adapters/console"
	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/adapters/memory"
	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/core/usecases"
)

type failingStore struct{}

func (failingStore) Snapshot(context.Context, func(context.Context, ports.GeographyReader) error) error {
	return errors.New("connection refused")
}

func run(t *testing.T, store ports.GeographyStore, input string, opts console.Options) (string, error) {
	t.Helper()
	lookups := usecases.NewLookupService(memory.New(dataset.Sample()))
	var out bytes.Buffer
	c := console.New(usecases.NewReportService(store), lookups, strings.NewReader(input), &out, opts)
	err := c.Run(context.Background())
	return out.String(), err
}

func sample() ports.GeographyStore { return memory.New(dataset.Sample()) }

func TestConsole_CitiesInCountry(t *testing.T) {
	// Cities > Country > All > France, then back out and exit.
	out, err := run(t, sample(), "2\n4\n1\n4\n0\n0\n0\n", console.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out, "=== Main Menu > Cities > Country ===") {
		t.Errorf("breadcrumb missing:\n%s", out)
	}
	if !strings.Contains(out, "4. France (FRA)") {
		t.Errorf("country chooser missing France:\n%s", out)
	}
	want := []string{"Paris", "Marseille", "Lyon", "Nice"}
	last := -1
	for _, city := range want {
		i := strings.Index(out, city)
		if i < 0 || i < last {
			t.Fatalf("expected %v in order:\n%s", want, out)
		}
		last = i
	}
	if strings.Contains(out, "Madrid") {
		t.Error("Spanish city in a France report")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "Goodbye.") {
		t.Errorf("expected goodbye at the end:\n%s", out)
	}
}

func TestConsole_Paging(t *testing.T) {
	// Cities > Global > All with 5 rows per page: walk past the end and back.
	out, err := run(t, sample(), "2\n1\n1\nn\nn\nn\nn\np\ne\n0\n0\n0\n", console.Options{PageSize: 5})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, s := range []string{"Page 1 of 4 (19 rows)", "Page 4 of 4", "Already on the last page.", "Page 3 of 4"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q:\n%s", s, out)
		}
	}
	if strings.Index(out, "Mumbai (Bombay)") > strings.Index(out, "Shanghai") {
		t.Error("largest city should come first")
	}
}

func TestConsole_TopNLanguages(t *testing.T) {
	// Languages > Global > Top N, one bad limit then 2.
	out, err := run(t, sample(), "5\n1\n2\nabc\n2\n0\n0\n0\n", console.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "Invalid input") {
		t.Error("bad limit should be reported")
	}
	if !strings.Contains(out, "Languages (World), top 2") {
		t.Errorf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "1,177,727,858") {
		t.Errorf("Chinese speaker count missing:\n%s", out)
	}
	if strings.Index(out, "Chinese") > strings.Index(out, "Hindi") {
		t.Error("Chinese should rank above Hindi")
	}
	if strings.Contains(out, "Bengali") {
		t.Error("only two rows expected")
	}
}

func TestConsole_DistrictNeedsCountryFirst(t *testing.T) {
	// Cities > District > All > France > Provence-Alpes-Côte.
	out, err := run(t, sample(), "2\n5\n1\n4\n1\n0\n0\n0\n", console.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "Select a district:") {
		t.Fatalf("district chooser missing:\n%s", out)
	}
	if !strings.Contains(out, "Cities in Provence-Alpes-Côte, FRA") {
		t.Errorf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "Marseille") || !strings.Contains(out, "Nice") {
		t.Errorf("district cities missing:\n%s", out)
	}
	if strings.Contains(out, "Lyon") {
		t.Error("city from another district listed")
	}
}

func TestConsole_PopulationGrouped(t *testing.T) {
	// Population > Continent > grouped.
	out, err := run(t, sample(), "4\n2\n3\n0\n0\n0\n", console.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "World population: 3,096,511,100") {
		t.Errorf("global population note missing:\n%s", out)
	}
	for _, c := range []string{"Asia", "Europe", "Antarctica"} {
		if !strings.Contains(out, c) {
			t.Errorf("missing continent %s", c)
		}
	}
}

func TestConsole_CancelChooser(t *testing.T) {
	out, err := run(t, sample(), "1\n2\n1\n0\n0\n0\n0\n", console.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out, "----") {
		t.Error("cancelled chooser should not run a report")
	}
}

func TestConsole_StoreUnavailable(t *testing.T) {
	out, err := run(t, failingStore{}, "2\n1\n1\n0\n0\n0\n", console.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "The data store is unavailable") {
		t.Errorf("expected unavailable message:\n%s", out)
	}
	if strings.Contains(out, "connection refused") {
		t.Error("store detail leaked to the user")
	}
}

func TestConsole_BoundedReprompt(t *testing.T) {
	out, err := run(t, sample(), "x\n9\n-1\n1\n", console.Options{MaxAttempts: 3})
	if !errors.Is(err, console.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if n := strings.Count(out, "Invalid input"); n != 3 {
		t.Errorf("expected 3 rejections, got %d", n)
	}
	if strings.Contains(out, "Main Menu > Countries") {
		t.Error("input after the last attempt must not be read")
	}
}

func TestConsole_SubmenuAttemptsReturnToParent(t *testing.T) {
	out, err := run(t, sample(), "1\nx\ny\nz\n0\n", console.Options{MaxAttempts: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "returning to the previous menu") {
		t.Errorf("expected fallback message:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye.") {
		t.Error("main menu should still accept input")
	}
}

func TestConsole_EOFExits(t *testing.T) {
	if _, err := run(t, sample(), "2\n", console.Options{}); err != nil {
		t.Fatalf("end of input should not be an error: %v", err)
	}
}
