package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "Summarise GitHub repositories and source files with an LLM",
	Long: `repolens fetches a public GitHub repository's metadata and file tree,
optionally one source file, and asks a language model to explain it.

Get started:
  repolens onboard    Interactive setup wizard
  repolens doctor     Verify credentials and connectivity
  repolens analyze    Analyse a repository or a single file
  repolens serve      Start the HTTP API`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.repolens/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")

	rootCmd.Version = Version
	rootCmd.AddCommand(
		onboardCmd,
		analyzeCmd,
		serveCmd,
		configCmd,
		doctorCmd,
	)
}

// initConfig applies global flags. --config is passed to config.Load by each
// command that needs the configuration.
func initConfig() {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
	}
}
