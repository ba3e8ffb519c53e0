// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/warp4j/warp4j/internal/platform"
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
	// DotEnvPath overrides the .env file location when set.
	DotEnvPath string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct {
	facts platform.Facts
}

// NewProvider creates a configuration provider resolving default paths
// against f.
func NewProvider(f platform.Facts) Provider {
	return &fileProvider{facts: f}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, p.facts, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
