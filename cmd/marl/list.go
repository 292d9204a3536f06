package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all schemas under the directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := newCache()
		if _, err := c.AddPath(cmd.Context(), dir, nil, nil); err != nil {
			fatal("Failed to load schemas", err)
		}

		rows := c.LoadAll()
		sort.Slice(rows, func(i, j int) bool { return rows[i].Source < rows[j].Source })

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(rows); err != nil {
				fatal("Failed to encode rows", err)
			}
			return
		}

		for _, row := range rows {
			id := ""
			if row.ID != "" {
				id = fmt.Sprintf("- %s", row.ID)
			}
			fmt.Printf("%s %s\n", row.Source, id)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
