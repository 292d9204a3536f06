package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one schema document",
	Long: `Load the schema directory, look a document up by source key or declared
identifier and print it as JSON.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := newCache()
		if _, err := c.AddPath(cmd.Context(), dir, nil, nil); err != nil {
			fatal("Failed to load schemas", err)
		}

		doc, err := c.Load(args[0])
		if err != nil {
			fatal("Failed to load schema", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			fatal("Failed to encode schema", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
