// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/warp4j/warp4j/internal/config"
	"github.com/warp4j/warp4j/internal/pipeline"
	"github.com/warp4j/warp4j/internal/platform"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App and reach configuration and the host through it.
	App struct {
		Config     ConfigProvider
		Env        pipeline.Env
		HTTPClient *http.Client
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Env        pipeline.Env
		HTTPClient *http.Client
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Env == nil {
		deps.Env = platform.System{}
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider(deps.Env)
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}

	return &App{
		Config:     deps.Config,
		Env:        deps.Env,
		HTTPClient: deps.HTTPClient,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}
