package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var syncJSON bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Load every schema under the directory into the cache",
	Long: `Scan the schema directory, admit every parseable document and report the
rest. Individual failures do not abort the run.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := newCache()
		report, err := c.AddPath(cmd.Context(), dir, nil, nil)
		if err != nil {
			fatal("Sync failed", err)
		}

		if syncJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Failed to encode report", err)
			}
			return
		}

		fmt.Printf("Admitted %d schema(s)\n", report.Admitted)
		for _, f := range report.Failures {
			fmt.Fprintf(os.Stderr, "failed: %s\n", f)
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Output in JSON format")
}
