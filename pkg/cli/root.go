// Package cli implements the snowlens command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	profile string
	output  string
	verbose bool
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "snowlens",
		Short:         "Analyze and optimize expensive Snowflake queries",
		Long:          "snowlens ranks the most expensive queries in a Snowflake account and asks an in-warehouse AI model for optimization advice.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "connection profile from ~/.snowlens/config.yaml (default: current-profile)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		opts.logger().Debug("invoked", "command", cmd.Name(), "flags", changedFlags(cmd))
	}

	rootCmd.AddCommand(
		newRankCmd(opts),
		newInspectCmd(opts),
		newOptimizeCmd(opts),
		newConfigCmd(),
	)
	return rootCmd
}

// changedFlags returns the names of flags explicitly set on the command.
func changedFlags(cmd *cobra.Command) []string {
	var names []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	return names
}

func (o *globalOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o *globalOptions) jsonOutput() bool { return o.output == "json" }

func printJSON(w io.Writer, v interface{}) error {
	return writeIndentedJSON(w, v)
}
