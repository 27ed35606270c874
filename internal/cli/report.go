package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/worldreports/internal/adapters/console"
	"github.com/samirrijal/worldreports/internal/core/domain"
)

func newReportCmd(flags *globalFlags) *cobra.Command {
	var (
		scope   string
		name    string
		country string
		limit   string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "report <family>",
		Short: "Print one report and exit",
		Long: `Print one report and exit.

Families: countries, cities, capitals, populations, languages.
Scopes: global (default), continent, region, country, district.

Without --name a non-global scope groups the rows by every value of the
level. District scope is only available for cities and needs --country.
Omitting --limit returns every row; --limit 0 returns none.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"countries", "cities", "capitals", "populations", "languages"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := validFormat(format); err != nil {
				return err
			}
			family, err := domain.ParseFamily(args[0])
			if err != nil {
				return err
			}
			level, err := domain.ParseScopeLevel(scope)
			if err != nil {
				return err
			}
			n, err := domain.ParseLimit(limit)
			if err != nil {
				return err
			}

			a, err := flags.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.reports.Generate(cmd.Context(), domain.Request{
				Family:  family,
				Scope:   level,
				Name:    name,
				Country: country,
				Limit:   n,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case FormatJSON:
				return writeJSON(out, report.Payload())
			case FormatYAML:
				return writeYAML(out, report.Payload())
			}
			return console.WriteAll(out, console.TableOf(report))
		},
	}

	cmd.Flags().StringVarP(&scope, "scope", "s", "global", "Scope level")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Continent, region, country (name or code) or district")
	cmd.Flags().StringVarP(&country, "country", "c", "", "Country for district scope")
	cmd.Flags().StringVarP(&limit, "limit", "l", "", "Top N rows (default all)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: table | json | yaml")
	return cmd
}
