package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seismic %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newConfigCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show resolved settings and where each came from",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file: %s\n", app.resolved.ConfigPath)
			for _, f := range app.resolved.Fields() {
				v := f.Value
				value := v.Value
				if value == "" {
					value = "(unset)"
				}
				src := strings.TrimSpace(string(v.Source) + " " + v.From)
				fmt.Fprintf(out, "  %-14s %-40s %s\n", f.Key, value, src)
			}
		},
	}
}
