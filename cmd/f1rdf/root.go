// f1rdf fetches Formula 1 race datasets and exports them as CSV/JSON files
// bundled into one ZIP archive.
//
// Usage:
//
//	f1rdf sections
//	f1rdf schedule --season 2024
//	f1rdf fetch --season 2024 --event Monaco --sections race_results,circuit_info
//	f1rdf fetch --season 2024 --round 8 --all --workbook -o ./exports
//	f1rdf serve --addr :8080
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/f1rdf/internal/config"
	"github.com/handiism/f1rdf/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	verbose    bool
}

// settings is loaded once before any subcommand runs.
var settings *config.Settings

var rootCmd = &cobra.Command{
	Use:   "f1rdf",
	Short: "Fetch and export Formula 1 race data",
	Long: "f1rdf fetches race datasets (results, standings, lap times, pit stops, ...)\n" +
		"for one event from an Ergast-compatible API and exports them as an archive.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: loadSettings,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "Path to a JSON or YAML config file")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	f.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Shorthand for --log-level debug")

	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	s := config.DefaultSettings()
	if rootFlags.configPath != "" {
		var err error
		if s, err = config.Load(rootFlags.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}

	if rootFlags.logLevel != "" {
		s.LogLevel = rootFlags.logLevel
	}
	if rootFlags.verbose {
		s.LogLevel = "debug"
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logging.SetupWriter(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
	settings = s
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "f1rdf %s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
