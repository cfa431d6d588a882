package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/logging"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/otel"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/ui"
)

func runTUI(cmd *cobra.Command, app *cliApp) error {
	if err := logging.Init(app.cfg.LogDir); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	events, closeEvents := openEventLog(app.cfg.LogDir)
	defer closeEvents()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)
	events.Info(otel.KindStartup, "main", "seismic starting")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loader, closeLoader, err := app.newLoader(events)
	if err != nil {
		return err
	}
	defer closeLoader()

	src := app.sources()
	load := func() tea.Cmd {
		return func() tea.Msg {
			res, err := loader.Load(ctx, src)
			return ui.DatasetLoaded{Result: res, Err: err}
		}
	}

	model := ui.NewApp(load, app.cfg.StartYear, events, ring)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	events.Info(otel.KindShutdown, "main", "seismic exiting")
	if err != nil {
		logging.Error("program exited", "err", err)
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// openEventLog appends interaction events to seismic.events.jsonl under dir.
// Falls back to a null logger when the file cannot be opened.
func openEventLog(dir string) (*otel.Logger, func()) {
	if err := os.MkdirAll(dir, 0755); err == nil {
		f, err := os.OpenFile(filepath.Join(dir, "seismic.events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l := otel.NewLogger(f)
			return l, func() {
				l.Close()
				f.Close()
			}
		}
		logging.Warn("event log unavailable", "err", err)
	}
	l := otel.NewNullLogger()
	return l, l.Close
}
