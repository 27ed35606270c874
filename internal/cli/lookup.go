package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

func newLookupCmd(flags *globalFlags) *cobra.Command {
	var (
		country string
		format  string
	)

	cmd := &cobra.Command{
		Use:       "lookup <continents|regions|countries|districts>",
		Short:     "List the values a scope can take",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"continents", "regions", "countries", "districts"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if err := validFormat(format); err != nil {
				return err
			}
			level, err := lookupLevel(args[0])
			if err != nil {
				return err
			}

			a, err := flags.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.lookups.ByLevel(cmd.Context(), level, country)
			if err != nil {
				return err
			}
			return writeLookups(cmd.OutOrStdout(), format, rows)
		},
	}

	cmd.Flags().StringVarP(&country, "country", "c", "", "Country code or name (districts only)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: table | json | yaml")
	return cmd
}

func lookupLevel(kind string) (domain.ScopeLevel, error) {
	switch domain.NormalizeName(kind) {
	case "continents", "continent":
		return domain.ScopeContinent, nil
	case "regions", "region":
		return domain.ScopeRegion, nil
	case "countries", "country":
		return domain.ScopeCountry, nil
	case "districts", "district":
		return domain.ScopeDistrict, nil
	}
	return "", fmt.Errorf("unknown lookup %q (want continents, regions, countries or districts)", kind)
}
