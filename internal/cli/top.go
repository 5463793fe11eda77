package cli

import (
	"github.com/spf13/cobra"

	"macmon/internal/system"
)

// topCmd hands the terminal to the interactive system top viewer. Flag
// parsing is disabled so every argument, known or not, is forwarded
// verbatim.
var topCmd = &cobra.Command{
	Use:                "top [top arguments]",
	Short:              "Run the system top command",
	DisableFlagParsing: true,
	Long: `Run the macOS top command in the current terminal, forwarding any
extra arguments unchanged and returning top's own exit code.

Examples:
  macmon top
  macmon top -l 1
  macmon top -o mem`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := system.InvokeTop(args)
		if err != nil {
			return err
		}
		if code != 0 {
			return &ExitCodeError{Code: code}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topCmd)
}
