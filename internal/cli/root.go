// Package cli contains the worldctl commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samirrijal/worldreports/internal/adapters/backend"
	"github.com/samirrijal/worldreports/internal/adapters/console"
	"github.com/samirrijal/worldreports/internal/core/usecases"
	"github.com/samirrijal/worldreports/internal/pkg/config"
	"github.com/samirrijal/worldreports/internal/pkg/logging"
)

// Version is the current version of worldctl
var Version = "dev"

// globalFlags override the matching config keys when set.
type globalFlags struct {
	driver     string
	datasetDir string
	logLevel   string
}

// app is what every command needs once config is loaded and the store is open.
type app struct {
	cfg     *config.Config
	store   *backend.Backend
	reports *usecases.ReportService
	lookups *usecases.LookupService
}

func (a *app) Close() { a.store.Close() }

// NewRootCmd builds the command tree. Without a subcommand worldctl runs the
// interactive menu.
func NewRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "worldctl",
		Short: "Population, city and language reports over the world dataset",
		Long: `worldctl reports on countries, cities, capital cities, population
distribution and languages, scoped to the world, a continent, a region,
a country or a district.

Run without arguments for the interactive menu, or use a subcommand for a
single report.

Examples:
  worldctl                                          # interactive menu
  worldctl report countries --scope continent --name Asia --limit 5
  worldctl report cities --scope district --country FRA --name "Rhône-Alpes"
  worldctl report languages --format yaml
  worldctl lookup districts --country ESP

Configuration is read from config.yaml and WORLDREPORTS_* environment
variables; --driver and --dataset override the database section.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			c := console.New(a.reports, a.lookups, cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{
				PageSize:    a.cfg.Console.PageSize,
				MaxAttempts: a.cfg.Console.MaxAttempts,
			})
			return c.Run(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&flags.driver, "driver", "", "Database driver: postgres | mysql | sqlite | memory")
	root.PersistentFlags().StringVar(&flags.datasetDir, "dataset", "", "CSV directory for the memory driver")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug | info | warn | error")

	root.AddCommand(newReportCmd(&flags))
	root.AddCommand(newLookupCmd(&flags))
	root.AddCommand(newEventsCmd(&flags))
	return root
}

// load reads config and applies the flag overrides.
func (f *globalFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load("worldctl")
	if err != nil {
		return nil, err
	}
	if f.driver != "" {
		cfg.Database.Driver = f.driver
	}
	if f.datasetDir != "" {
		cfg.Database.DatasetDir = f.datasetDir
		if f.driver == "" {
			cfg.Database.Driver = config.DriverMemory
		}
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Log.Level, "text")
	return cfg, nil
}

// open loads config and opens the configured store.
func (f *globalFlags) open(cmd *cobra.Command) (*app, error) {
	cfg, err := f.load(cmd)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := backend.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &app{
		cfg:     cfg,
		store:   store,
		reports: usecases.NewReportService(store.Geography),
		lookups: usecases.NewLookupService(store.Lookups),
	}, nil
}

// Execute runs worldctl and exits non-zero on error.
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
