package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every schema under the directory parses",
	Long: `Scan the schema directory and report files that fail to load or parse.
Exits non-zero when any file is rejected, for use in CI.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := newCache()
		report, err := c.AddPath(cmd.Context(), dir, nil, nil)
		if err != nil {
			fatal("Check failed", err)
		}

		for _, f := range report.Failures {
			fmt.Fprintf(os.Stderr, "invalid: %s\n", f)
		}
		if !report.Ok() {
			os.Exit(1)
		}
		fmt.Printf("%d schema(s) ok\n", report.Admitted)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
