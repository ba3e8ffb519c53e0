// SPDX-License-Identifier: MPL-2.0

package packer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/toolexec"
)

type (
	// Packer runs warp-packer.
	Packer struct {
		runner toolexec.Runner
		binary string
		prefix string
		logger *log.Logger
	}

	// Option configures a Packer.
	Option func(*Packer)
)

// WithPrefix sets warp-packer's extraction prefix.
func WithPrefix(prefix string) Option {
	return func(p *Packer) { p.prefix = prefix }
}

// WithLogger sets the packer's logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Packer) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a packer invoking binary through runner.
func New(runner toolexec.Runner, binary string, opts ...Option) *Packer {
	p := &Packer{
		runner: runner,
		binary: binary,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pack turns bundleDir into output, launching script on start. An existing
// output file is replaced.
func (p *Packer) Pack(ctx context.Context, t target.Target, bundleDir, script, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.RemoveAll(output); err != nil {
		return fmt.Errorf("removing previous %s: %w", filepath.Base(output), err)
	}

	p.logger.Info("packing bundle", "target", t, "output", output)
	if _, err := p.runner.Run(ctx, PackArgs(p.binary, t, bundleDir, filepath.Base(script), output, p.prefix)); err != nil {
		return fmt.Errorf("packing %s: %w", t, err)
	}
	return nil
}

// PackArgs builds the warp-packer command line.
func PackArgs(binary string, t target.Target, bundleDir, script, output, prefix string) []string {
	argv := []string{
		binary, "pack",
		"--arch", t.PackerArch(),
		"--input-dir", bundleDir,
		"--exec", script,
		"--unique-id",
		"--output", output,
	}
	if prefix != "" {
		argv = append(argv, "--prefix", prefix)
	}
	return argv
}
