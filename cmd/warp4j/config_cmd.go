// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp4j/warp4j/internal/config"
)

// newConfigCommand creates the `warp4j config` command tree.
func newConfigCommand(app *App, globals *globalOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage warp4j configuration",
		Long: `Manage warp4j configuration.

Configuration is stored in:
  - Linux: $XDG_CONFIG_HOME/warp4j/config.cue (default ~/.config/warp4j)
  - macOS: ~/Library/Application Support/warp4j/config.cue
  - Windows: %APPDATA%\warp4j\config.cue

WARP4J_* environment variables and a .env file in the working directory
override values from the file, for example WARP4J_JAVA_VERSION=21.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.exitError(showConfig(cmd.Context(), app, globals), globals.verbose)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.exitError(initConfig(app, globals), globals.verbose)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(app.Env, loadOptions(globals))
			if err != nil {
				return app.exitError(err, globals.verbose)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func loadOptions(globals *globalOptions) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: globals.configFile}
}

func showConfig(ctx context.Context, app *App, globals *globalOptions) error {
	cfg, err := app.Config.Load(ctx, loadOptions(globals))
	if err != nil {
		return fmt.Errorf("%w: %w", errConfigLoad, err)
	}

	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func initConfig(app *App, globals *globalOptions) error {
	path, created, err := config.CreateDefaultConfig(app.Env, loadOptions(globals))
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("•"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
