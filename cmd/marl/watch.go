package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the schema directory and stream change events",
	Long: `Load the schema directory, then keep the cache in sync with filesystem
changes until interrupted. Events are printed one per line.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := newCache()
		if _, err := c.AddPath(ctx, dir, nil, nil); err != nil {
			fatal("Failed to load schemas", err)
		}

		events, err := c.Watch(ctx, dir, nil, nil)
		if err != nil {
			fatal("Failed to start watcher", err)
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", dir)
		for event := range events {
			fmt.Println(event)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
