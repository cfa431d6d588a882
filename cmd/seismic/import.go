package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/fetch"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/logging"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/model"
)

func newImportCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "import CSV",
		Short: "Parse a catalog (and --plates) and cache it in SQLite",
		Long: `Parse an event catalog and replace the SQLite cache contents with it.
With --plates, the plate points are cached too. Later runs without --data
read from the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(app.cfg.DBPath)
			if err != nil {
				return err
			}
			defer cache.Close()

			loader := &model.Loader{
				Fetcher: fetch.NewFetcher(app.cfg.FetchTimeout, app.cfg.FetchRPS),
				Cache:   cache,
			}
			report, plates, err := loader.Import(cmd.Context(), args[0], app.cfg.Plates)
			if err != nil {
				return err
			}
			logging.Info("import complete", "db", app.cfg.DBPath, "records", report.Kept, "plates", plates)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s of %s rows into %s\n",
				humanize.Comma(int64(report.Kept)), humanize.Comma(int64(report.Rows)), app.cfg.DBPath)
			fmt.Fprintf(out, "  malformed: %s  excluded: %s\n",
				humanize.Comma(int64(report.Malformed)), humanize.Comma(int64(report.Excluded)))
			if plates > 0 {
				fmt.Fprintf(out, "  plate points: %s\n", humanize.Comma(int64(plates)))
			}
			return nil
		},
	}
}
