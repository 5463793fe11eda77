package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const listText = `Available commands:

  monitor    Start the live monitoring dashboard (default command).
             Shows CPU, memory, process, temperature and network panels.
  snapshot   Collect metrics once and print them as JSON.
  top        Run the system top command, forwarding extra arguments.
  list       Show this command list.
  version    Print version information.
  help       Show detailed help and usage examples.

Tip: run 'macmon help' for flags and examples.`

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available commands",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(listText)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
