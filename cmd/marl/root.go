package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aretw0/marl"
)

var (
	verbose bool
	dir     string
	pattern string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marl",
	Short: "An in-memory schema registry fed by files and URLs",
	Long: `Marl keeps parsed schema documents resident in memory, addressable by
source URI and by declared identifier, and refreshes them only when their
origin actually changed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newCache builds the cache every subcommand operates on.
func newCache() *marl.Cache {
	return marl.New(
		marl.WithLogger(slog.Default()),
		marl.WithScanPattern(pattern),
	)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "d", ".", "Schema directory to operate on")
	rootCmd.PersistentFlags().StringVarP(&pattern, "pattern", "p", "", "Restrict scans to files matching a glob (doublestar syntax)")
}
