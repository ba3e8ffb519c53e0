// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/warp4j/warp4j/internal/config"
	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/pkg/types"
)

type (
	fakeEnv struct {
		goos string
		home string
		host target.Target
		err  error
	}

	fakeConfigProvider struct {
		cfg  *config.Config
		err  error
		opts config.LoadOptions
	}
)

func (e fakeEnv) GOOS() string { return e.goos }

func (e fakeEnv) HomeDir() (string, error) { return e.home, nil }

func (e fakeEnv) Getenv(string) string { return "" }

func (e fakeEnv) Host() (target.Target, error) { return e.host, e.err }

func (p *fakeConfigProvider) Load(_ context.Context, opts config.LoadOptions) (*config.Config, error) {
	p.opts = opts
	if p.err != nil {
		return nil, p.err
	}
	if p.cfg != nil {
		return p.cfg, nil
	}
	return config.DefaultConfig(), nil
}

// runCLI executes args against an App wired with env and provider and
// returns the exit code with the captured output.
func runCLI(t *testing.T, env fakeEnv, provider *fakeConfigProvider, args ...string) (code types.ExitCode, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{
		Config: provider,
		Env:    env,
		Stdout: &out,
		Stderr: &errOut,
	})
	code = execute(t.Context(), app, args)
	return code, out.String(), errOut.String()
}
