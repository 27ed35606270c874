// Package console is the interactive menu front end. It reads choices line by
// line, runs reports through the same generator the HTTP API uses and pages
// the result as a text table.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/core/usecases"
)

// ErrTooManyAttempts is returned when the user gives invalid input
// MaxAttempts times in a row.
var ErrTooManyAttempts = errors.New("too many invalid attempts")

// Options tunes paging and input validation.
type Options struct {
	PageSize    int
	MaxAttempts int
}

// Console drives the menu over an input and an output stream.
type Console struct {
	reports ports.ReportGenerator
	lookups *usecases.LookupService
	in      *bufio.Scanner
	out     io.Writer
	opts    Options
	trail   []string
}

// New creates a Console. Non-positive options fall back to 20 rows per page
// and 3 attempts.
func New(reports ports.ReportGenerator, lookups *usecases.LookupService, in io.Reader, out io.Writer, opts Options) *Console {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	return &Console{
		reports: reports,
		lookups: lookups,
		in:      bufio.NewScanner(in),
		out:     out,
		opts:    opts,
		trail:   []string{"Main Menu"},
	}
}

// Run shows the main menu until the user exits or input ends. End of input
// is a normal exit.
func (c *Console) Run(ctx context.Context) error {
	err := c.mainMenu(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Console) mainMenu(ctx context.Context) error {
	titles := make([]string, len(domain.Families))
	for i, f := range domain.Families {
		titles[i] = f.Title()
	}
	for {
		choice, err := c.menu(titles, "Exit")
		if err != nil {
			return err
		}
		if choice == 0 {
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		}
		if err := c.familyMenu(ctx, domain.Families[choice-1]); err != nil {
			return err
		}
	}
}

// levelsFor lists the scope levels offered for a family.
func levelsFor(f domain.Family) []domain.ScopeLevel {
	switch f {
	case domain.FamilyCity:
		return domain.ScopeLevels
	case domain.FamilyPopulation, domain.FamilyLanguage:
		return []domain.ScopeLevel{domain.ScopeGlobal, domain.ScopeContinent, domain.ScopeRegion, domain.ScopeCountry}
	default:
		return []domain.ScopeLevel{domain.ScopeGlobal, domain.ScopeContinent, domain.ScopeRegion}
	}
}

func (c *Console) familyMenu(ctx context.Context, family domain.Family) error {
	c.push(family.Title())
	defer c.pop()

	levels := levelsFor(family)
	options := make([]string, len(levels))
	for i, l := range levels {
		options[i] = string(l) + " Reports"
	}
	for {
		choice, err := c.menu(options, "Back")
		if errors.Is(err, ErrTooManyAttempts) {
			fmt.Fprintln(c.out, "Too many invalid attempts, returning to the previous menu.")
			return nil
		}
		if err != nil {
			return err
		}
		if choice == 0 {
			return nil
		}
		if err := c.scopeMenu(ctx, family, levels[choice-1]); err != nil {
			return err
		}
	}
}

const (
	optAll = iota + 1
	optTopN
	optGrouped
)

func (c *Console) scopeMenu(ctx context.Context, family domain.Family, level domain.ScopeLevel) error {
	c.push(string(level))
	defer c.pop()

	noun := strings.ToLower(family.Title())
	where := ""
	if level != domain.ScopeGlobal {
		where = " in a " + strings.ToLower(string(level))
	}
	options := []string{
		"All " + noun + where + " (largest to smallest)",
		"Top N " + noun + where,
	}
	if level != domain.ScopeGlobal {
		options = append(options, capitalize(noun)+" grouped by "+strings.ToLower(string(level)))
	}

	for {
		choice, err := c.menu(options, "Back")
		if errors.Is(err, ErrTooManyAttempts) {
			fmt.Fprintln(c.out, "Too many invalid attempts, returning to the previous menu.")
			return nil
		}
		if err != nil || choice == 0 {
			return err
		}

		req := domain.Request{Family: family, Scope: level, Limit: domain.Unlimited}
		ok, err := c.fillScope(ctx, &req, choice == optGrouped)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if choice == optTopN {
			limit, err := ask(c, "How many rows? ", func(s string) (domain.Limit, error) {
				if strings.TrimSpace(s) == "" {
					return 0, errors.New("enter a number")
				}
				return domain.ParseLimit(s)
			})
			if errors.Is(err, ErrTooManyAttempts) {
				fmt.Fprintln(c.out, "Too many invalid attempts.")
				continue
			}
			if err != nil {
				return err
			}
			req.Limit = limit
		}
		if err := c.show(ctx, req); err != nil {
			return err
		}
	}
}

// fillScope asks for the scope name, and for districts the country first.
// It returns false when the user cancels or runs out of attempts.
func (c *Console) fillScope(ctx context.Context, req *domain.Request, grouped bool) (bool, error) {
	if req.Scope == domain.ScopeGlobal {
		return true, nil
	}
	if req.Scope == domain.ScopeDistrict {
		country, ok, err := c.choose(ctx, domain.ScopeCountry, "")
		if err != nil || !ok {
			return false, err
		}
		req.Country = country
	}
	if grouped {
		return true, nil
	}
	name, ok, err := c.choose(ctx, req.Scope, req.Country)
	if err != nil || !ok {
		return false, err
	}
	req.Name = name
	return true, nil
}

// choose lists the values of a level and returns the picked one. Countries
// resolve to their code.
func (c *Console) choose(ctx context.Context, level domain.ScopeLevel, country string) (string, bool, error) {
	values, err := c.lookups.ByLevel(ctx, level, country)
	if err != nil {
		if c.reportFailure(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if len(values) == 0 {
		fmt.Fprintf(c.out, "No %s values available.\n", strings.ToLower(string(level)))
		return "", false, nil
	}

	fmt.Fprintf(c.out, "\nSelect a %s:\n", strings.ToLower(string(level)))
	for i, v := range values {
		if v.Type == "country" && v.Code != "" {
			fmt.Fprintf(c.out, "%d. %s (%s)\n", i+1, v.Value, v.Code)
		} else {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, v.Value)
		}
	}
	choice, err := ask(c, "Choose (0 = Cancel): ", numberIn(len(values)))
	if errors.Is(err, ErrTooManyAttempts) {
		fmt.Fprintln(c.out, "Too many invalid attempts.")
		return "", false, nil
	}
	if err != nil || choice == 0 {
		return "", false, err
	}
	picked := values[choice-1]
	if picked.Type == "country" && picked.Code != "" {
		return picked.Code, true, nil
	}
	return picked.Value, true, nil
}

// show runs a report and pages it. Client and store errors are printed and
// leave the user in the current menu.
func (c *Console) show(ctx context.Context, req domain.Request) error {
	report, err := c.reports.Generate(ctx, req)
	if err != nil {
		if c.reportFailure(err) {
			return nil
		}
		return err
	}
	return c.page(TableOf(report))
}

// reportFailure prints errors the user can recover from and reports whether
// it did.
func (c *Console) reportFailure(err error) bool {
	switch {
	case domain.IsClientError(err):
		fmt.Fprintf(c.out, "Invalid request: %v\n", err)
		return true
	case errors.Is(err, domain.ErrStoreUnavailable):
		fmt.Fprintln(c.out, "The data store is unavailable, please try again later.")
		return true
	}
	return false
}

// page prints the table PageSize rows at a time with next/previous navigation.
func (c *Console) page(t Table) error {
	fmt.Fprintf(c.out, "\n%s\n", t.Title)
	if t.Note != "" {
		fmt.Fprintln(c.out, t.Note)
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(c.out, "No matching rows.")
		return nil
	}

	size := c.opts.PageSize
	pages := (len(t.Rows) + size - 1) / size
	current := 0
	for {
		from := current * size
		if err := WriteTable(c.out, t, from, from+size); err != nil {
			return err
		}
		if pages == 1 {
			return nil
		}
		fmt.Fprintf(c.out, "Page %d of %d (%d rows)\n", current+1, pages, len(t.Rows))

		nav, err := ask(c, "[N]ext | [P]rev | [E]xit: ", func(s string) (byte, error) {
			switch strings.ToLower(s) {
			case "n", "next":
				return 'n', nil
			case "p", "prev":
				return 'p', nil
			case "e", "exit", "q":
				return 'e', nil
			}
			return 0, errors.New("enter N, P or E")
		})
		if errors.Is(err, ErrTooManyAttempts) {
			return nil
		}
		if err != nil {
			return err
		}
		switch nav {
		case 'n':
			if current < pages-1 {
				current++
			} else {
				fmt.Fprintln(c.out, "Already on the last page.")
			}
		case 'p':
			if current > 0 {
				current--
			} else {
				fmt.Fprintln(c.out, "Already on the first page.")
			}
		case 'e':
			return nil
		}
	}
}

// menu prints the breadcrumb, numbered options and the 0 entry, then reads
// a choice between 0 and len(options).
func (c *Console) menu(options []string, zero string) (int, error) {
	fmt.Fprintf(c.out, "\n=== %s ===\n", strings.Join(c.trail, " > "))
	for i, o := range options {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, o)
	}
	fmt.Fprintf(c.out, "0. %s\n", zero)
	return ask(c, "Choose an option: ", numberIn(len(options)))
}

func (c *Console) push(crumb string) { c.trail = append(c.trail, crumb) }

func (c *Console) pop() { c.trail = c.trail[:len(c.trail)-1] }

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// ask prompts until parse accepts the line, at most MaxAttempts times.
func ask[T any](c *Console, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		fmt.Fprint(c.out, prompt)
		line, err := c.readLine()
		if err != nil {
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(c.out, "Invalid input: %v\n", err)
	}
	return zero, ErrTooManyAttempts
}

func numberIn(n int) func(string) (int, error) {
	return func(s string) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > n {
			return 0, fmt.Errorf("enter a number from 0 to %d", n)
		}
		return v, nil
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
