// Package cli is the cobra command surface for macmon. The root command
// defaults to the live monitor; subcommands cover the one-shot snapshot,
// the system top viewer, and static help output.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"macmon/internal/system"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitGeneral        = 1
	ExitPlatform       = 2
	ExitMissingCommand = 4
)

// ExitCodeError forwards a specific exit code through cobra's error path,
// used when the delegated top viewer exits non-zero.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

var (
	refreshFlag int
	limitFlag   int
	sortFlag    string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "macmon",
	Short: "macOS system monitoring dashboard",
	Long: `macmon samples host metrics (CPU, memory, disk I/O, network,
temperature, processes) and renders them as a live terminal dashboard.

Running macmon without a subcommand starts the monitor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor(cmd)
	},
}

func init() {
	registerMonitorFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

func registerMonitorFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&refreshFlag, "refresh", 0, "refresh interval in seconds (default 2)")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "number of process rows to display (default 10)")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "process sort key: cpu, memory, pid or name (default cpu)")
}

// newLogger builds the console logger injected into every component.
// Diagnostics go to stderr so they never mix into the rendered dashboard
// stream on stdout.
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

// Execute runs the CLI and maps the outcome to a process exit code:
// 0 success or clean interrupt, 1 general error, 2 unsupported platform,
// 4 missing required external command.
func Execute() int {
	// The platform gate runs before any command dispatch; nothing in this
	// tool is meaningful off macOS.
	if err := system.CheckPlatform(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitPlatform
	}

	if err := rootCmd.Execute(); err != nil {
		var codeErr *ExitCodeError
		if errors.As(err, &codeErr) {
			return codeErr.Code
		}
		var missing *system.MissingCommandError
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.As(err, &missing) {
			return ExitMissingCommand
		}
		return ExitGeneral
	}
	return ExitOK
}
