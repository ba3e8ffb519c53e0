// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/warp4j/warp4j/internal/issue"
	"github.com/warp4j/warp4j/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	configFile string
}

// NewRootCommand builds the warp4j command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	globals := &globalOptions{}
	opts := newRunOptions()

	rootCmd := &cobra.Command{
		Use:   "warp4j --jar <file> [flags]",
		Short: "Turn a JAR into self-contained executables",
		Long: TitleStyle.Render("warp4j") + SubtitleStyle.Render(" - Turn a JAR into self-contained executables") + `

warp4j downloads a Java runtime for every selected platform, optionally
trims it to the modules the application needs, and fuses runtime, jar and a
start script into one executable per platform with warp-packer.

` + SubtitleStyle.Render("Examples:") + `
  warp4j --jar app.jar                          All supported platforms
  warp4j --jar 'build/libs/*-all.jar' --linux   Linux x64 and aarch64
  warp4j --jar app.jar --target macos-aarch64   A single target
  warp4j --jar app.jar --optimize -j 21         Minimal Java 21 runtimes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runPackaging(cmd.Context(), app, cmd.Flags(), globals, opts)
			return app.exitError(err, globals.verbose)
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configFile, "config", "", "config file (default is the user config dir's warp4j/config.cue)")

	opts.register(rootCmd.Flags())
	_ = rootCmd.MarkFlagRequired("jar")

	rootCmd.AddCommand(newConfigCommand(app, globals))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits with its exit code.
// This is called by main.main().
func Execute() {
	os.Exit(int(execute(context.Background(), NewApp(Dependencies{}), os.Args[1:])))
}

// execute runs the command line args and returns the process exit code.
func execute(ctx context.Context, app *App, args []string) types.ExitCode {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return types.ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	style := "notty"
	if isTerminal(w) {
		style = "dark"
	}
	if rendered, err := entry.Render(style); err == nil {
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{Prefix: "warp4j", Level: level})
}
