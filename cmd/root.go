// Package cmd contains the CLI commands for the docmeta application.
package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// jsonFlag holds the global --json flag state.
var jsonFlag bool

// rootDir holds the global --root flag state.
var rootDir string

// configFile holds the global --config flag state.
var configFile string

func init() {
	rootCmd = BuildCommandTree(newCheckAdapter(), newShowAdapter(), &fileReportWriter{})
}

// GetVerbose returns the current verbose flag state.
// This is used by other packages to check if debug logging is enabled.
func GetVerbose() bool {
	return verbose
}

// GetJSON returns the current global --json flag state.
func GetJSON() bool {
	return jsonFlag
}

// GetRoot returns the --root flag value. Empty means the working directory.
func GetRoot() string {
	return rootDir
}

// GetConfigFile returns the --config flag value. Empty means
// <root>/.docmeta.yaml when present.
func GetConfigFile() string {
	return configFile
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docmeta",
		Short: "Validate metadata headers in Markdown documentation",
		Long: "docmeta checks the Title/Version/Last Updated/Owner/Status/Decision header " +
			"at the top of every Markdown document in a documentation tree.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Add persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output results as JSON")
	cmd.PersistentFlags().StringVar(&rootDir, "root", "", "Repository root (default: current directory)")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <root>/.docmeta.yaml)")

	return cmd
}

// newLogger returns a text logger on w. Debug output is enabled by --verbose.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if GetVerbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ExecuteContext runs the root command with the given context.
// This enables graceful shutdown via context cancellation (e.g., on SIGINT).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
