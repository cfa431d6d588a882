// Command seismic is a terminal cross-filter dashboard for earthquake catalogs.
//
// Usage:
//
//	seismic [--data CSV] [--plates CSV] [--map GEOJSON]   Interactive dashboard
//	seismic import CSV [--plates CSV]                     Cache a catalog in SQLite
//	seismic summary [--from Y --to Y] [--bin N] [--json]  Headless derivation
//	seismic config                                        Show resolved settings
//	seismic version
package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/config"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/logging"
)

// cliApp carries flag values and the resolved configuration between commands.
type cliApp struct {
	opts     config.ResolveOptions
	verbose  bool
	resolved config.ResolvedConfig
	cfg      config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &cliApp{}

	cmd := &cobra.Command{
		Use:          "seismic",
		Short:        "Cross-filter dashboard for earthquake catalogs",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the dashboard on a local catalog
  seismic --data database.csv --plates plates.csv --map world.geojson

  # Cache a catalog, then open the dashboard from the cache
  seismic import database.csv --plates plates.csv
  seismic

  # Headless view of one selection
  seismic summary --from 1990 --to 2000 --drill Earthquake --json
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		resolved, err := config.ResolveConfig(app.opts)
		if err != nil {
			return err
		}
		cfg, err := resolved.Config()
		if err != nil {
			return err
		}
		app.resolved, app.cfg = resolved, cfg

		// The TUI logs to a file; everything else logs to stderr.
		if cmd != cmd.Root() {
			level := log.WarnLevel
			if app.verbose {
				level = log.DebugLevel
			}
			logging.InitWriter(cmd.ErrOrStderr(), level)
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.opts.ConfigPath, "config", "", "Config file (default ~/.seismic/config.yaml)")
	pf.StringVar(&app.opts.CLIData, "data", "", "Event catalog CSV: path or http(s) URL (default: SQLite cache)")
	pf.StringVar(&app.opts.CLIPlates, "plates", "", "Plate points CSV for the density overlay")
	pf.StringVar(&app.opts.CLIMap, "map", "", "GeoJSON map outline")
	pf.StringVar(&app.opts.CLIDBPath, "db", "", "SQLite cache path (default ~/.seismic/cache.db)")
	pf.StringVar(&app.opts.CLILogDir, "log-dir", "", "Log directory (default ~/.seismic/logs)")
	pf.StringVar(&app.opts.CLIStartYear, "start-year", "", "Earliest year of the default range (default 1965)")
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "Debug logging on stderr (subcommands only)")

	cmd.AddCommand(
		newImportCmd(app),
		newSummaryCmd(app),
		newConfigCmd(app),
		newVersionCmd(),
	)
	return cmd
}
