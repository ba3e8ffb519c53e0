// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp4j/warp4j/internal/target"
)

func parseRunFlags(t *testing.T, args ...string) (*pflag.FlagSet, *runOptions) {
	t.Helper()

	opts := newRunOptions()
	flags := pflag.NewFlagSet("warp4j", pflag.ContinueOnError)
	opts.register(flags)
	require.NoError(t, flags.Parse(args))
	return flags, opts
}

func TestTargetsValue(t *testing.T) {
	t.Parallel()

	var v targetsValue
	require.NoError(t, v.Set("linux-x64, macos-aarch64"))
	require.NoError(t, v.Set("windows-arm64"))
	require.NoError(t, v.Set(",,"))

	assert.Equal(t, []target.Target{
		target.New(target.Linux, target.X64),
		target.New(target.MacOS, target.AArch64),
		target.New(target.Windows, target.AArch64),
	}, v.targets)
	assert.Equal(t, "linux-x64,mac-aarch64,windows-aarch64", v.String())
	assert.Equal(t, "targets", v.Type())

	err := v.Set("beos-x64")
	assert.True(t, errors.Is(err, target.ErrInvalidTarget))
}

func TestSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want target.Selection
	}{
		{
			name: "no flags",
			want: target.Selection{},
		},
		{
			name: "platform flags",
			args: []string{"--windows", "--linux"},
			want: target.Selection{Platforms: []target.Platform{target.Linux, target.Windows}},
		},
		{
			name: "arch alone",
			args: []string{"--arch", "arm64"},
			want: target.Selection{Architectures: []target.Architecture{target.AArch64}},
		},
		{
			name: "targets and shorthands",
			args: []string{"--target", "linux-aarch64", "--macos-x64", "--windows-aarch64"},
			want: target.Selection{Targets: []target.Target{
				target.New(target.Linux, target.AArch64),
				target.New(target.MacOS, target.X64),
				target.New(target.Windows, target.AArch64),
			}},
		},
		{
			name: "mixed",
			args: []string{"--macos", "--arch", "x86_64", "--target", "linux-x64"},
			want: target.Selection{
				Targets:       []target.Target{target.New(target.Linux, target.X64)},
				Platforms:     []target.Platform{target.MacOS},
				Architectures: []target.Architecture{target.X64},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, opts := parseRunFlags(t, tt.args...)
			got, err := opts.selection()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelection_InvalidArch(t *testing.T) {
	t.Parallel()

	_, opts := parseRunFlags(t, "--arch", "arm")
	_, err := opts.selection()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only builds x64 and aarch64")

	_, opts = parseRunFlags(t, "--arch", "mips")
	_, err = opts.selection()
	assert.True(t, errors.Is(err, target.ErrInvalidArchitecture))
}

func TestRegister_Defaults(t *testing.T) {
	t.Parallel()

	flags, opts := parseRunFlags(t)
	assert.Equal(t, "17", opts.javaVersion)
	assert.Equal(t, "warped", opts.output)
	assert.Equal(t, 4, opts.concurrency)
	assert.False(t, flags.Changed("java-version"))

	_, opts = parseRunFlags(t, "--class-path", "lib/a.jar,lib/b.jar", "--class-path", "lib/c.jar")
	assert.Equal(t, []string{"lib/a.jar", "lib/b.jar", "lib/c.jar"}, opts.classPath)
}
