package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"macmon/internal/collect"
	"macmon/internal/config"
	"macmon/internal/loop"
	"macmon/internal/metrics"
	"macmon/internal/procs"
	"macmon/internal/thermal"
	"macmon/internal/ui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Start the live monitoring dashboard (default)",
	Long: `Start the live monitoring dashboard.

The dashboard refreshes on a fixed cadence and tolerates partial metric
failures: a source that cannot be read shows an "unavailable" panel while
the rest keep updating.

Examples:
  macmon
  macmon monitor --refresh 5
  macmon monitor --limit 20 --sort memory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor(cmd)
	},
}

func init() {
	registerMonitorFlags(monitorCmd)
	rootCmd.AddCommand(monitorCmd)
}

// resolveConfig layers explicitly-set flags over the file/env configuration.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("refresh") {
		cfg.RefreshSeconds = refreshFlag
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = limitFlag
	}
	if cmd.Flags().Changed("sort") {
		cfg.Sort = sortFlag
	}
	cfg.Verbose = cfg.Verbose || verboseFlag
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildAggregator wires the metric sources behind one aggregator.
func buildAggregator(log *zap.Logger) *collect.Aggregator {
	return collect.New(
		metrics.New(log),
		procs.NewManager(log),
		thermal.New(log),
		log,
	)
}

func runMonitor(cmd *cobra.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sortKey, err := procs.ParseSortKey(cfg.Sort)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("monitor needs an interactive terminal; use %q for scripted output", "macmon snapshot")
	}

	log := newLogger(cfg.Verbose)
	defer log.Sync()

	l, err := loop.New(buildAggregator(log), cfg.Interval(), sortKey, cfg.Limit, log)
	if err != nil {
		return err
	}

	fmt.Printf("Starting monitor: refresh %s, %d processes sorted by %s\n",
		cfg.Interval(), cfg.Limit, sortKey)
	fmt.Println("Press q or Ctrl+C to exit")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	return finishMonitor(ui.Run(l.Stream(ctx), cancel), os.Stdout)
}

// finishMonitor maps the dashboard's exit into the command result. Interrupt
// is the normal way out, so it and a clean return both count as success and
// print the termination notice, exactly once.
func finishMonitor(err error, out io.Writer) error {
	if err != nil && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	fmt.Fprintln(out, "Monitoring stopped")
	return nil
}
