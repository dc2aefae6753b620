// Package cmd implements the fiber CLI commands.
//
// The root command carries the flags shared by every subcommand (config
// file, logging, tracing, metrics) and dispatches to render, demo and
// version.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "v0.1.0-dev"
	BuildTime = "unknown"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath  string
	logLevel    string
	logFormat   string
	trace       bool
	showMetrics bool
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "fiber",
		Short: "fiber - a fiber reconciler rendering into an in-memory DOM",
		Long: `fiber drives a fiber reconciler against an HTML document held in memory.

Element trees are read from YAML markup files and reconciled one after the
other into the same root, so the printed mutation log shows exactly what the
commit phase changed between two documents.

Use "fiber <command> --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", ".", "fiber.yaml path or directory containing it")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (console, json)")
	flags.BoolVar(&opts.trace, "trace", false, "print render and commit spans to stderr")
	flags.BoolVar(&opts.showMetrics, "metrics", false, "print reconciler metrics when the command finishes")

	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newDemoCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
