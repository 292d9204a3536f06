package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [uri]",
	Short: "Fetch one schema by URI and print it",
	Long: `Fetch a schema from a file, http or https URI, admit it into the cache
and print the parsed document as JSON.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := newCache()
		doc, err := c.LoadURI(cmd.Context(), args[0])
		if err != nil {
			fatal("Failed to fetch schema", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			fatal("Failed to encode schema", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
