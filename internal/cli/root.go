// Package cli provides the command-line interface for finder.
package cli

import (
	"log/slog"

	"github.com/justicehub-au/finder-dedupe/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose    bool
	configFile string

	// Global config and logger, set up in PersistentPreRunE
	cfg       config.Config
	logger    *slog.Logger
	cleanupFn func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "finder",
	Short: "Service directory deduplication engine",
	Long: `Finder detects and merges duplicate service records across directory
data sources. It scores candidate pairs on name, organization, location,
contact and legal-identifier similarity, flags confident matches for merge
or review, and writes the results as JSON.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if configFile != "" {
			if err := cfg.ApplyFile(configFile); err != nil {
				return err
			}
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, cleanupFn = config.SetupLogger(cfg.LogFile, level)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cleanupFn != nil {
			_ = cleanupFn()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML pipeline config file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
}
