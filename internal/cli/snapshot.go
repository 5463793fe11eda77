package cli

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"macmon/internal/procs"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// snapshotCmd collects every metric once and prints the snapshot as JSON.
// Unavailable fields serialize as null so consumers can tell "missing" from
// "zero".
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Collect metrics once and print JSON",
	Long: `Collect one complete metrics snapshot and print it as JSON on stdout.

Useful for scripting; the live dashboard's flags apply here too.

Examples:
  macmon snapshot
  macmon snapshot --limit 5 --sort memory | jq .cpu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		sortKey, err := procs.ParseSortKey(cfg.Sort)
		if err != nil {
			return err
		}

		log := newLogger(cfg.Verbose)
		defer log.Sync()

		snap := buildAggregator(log).Collect(context.Background(), sortKey, cfg.Limit)
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	registerMonitorFlags(snapshotCmd)
	rootCmd.AddCommand(snapshotCmd)
}
