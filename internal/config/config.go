// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/warp4j/warp4j/internal/issue"
	"github.com/warp4j/warp4j/internal/platform"
	"github.com/warp4j/warp4j/pkg/types"
)

const (
	// AppName is the application name.
	AppName = platform.AppName
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment variable that overrides a key.
	EnvPrefix = "WARP4J"
	// DotEnvFileName is read from the working directory when present.
	DotEnvFileName = ".env"
)

//go:embed config_schema.cue
var configSchema string

var envKeyReplacer = strings.NewReplacer(".", "_")

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		JavaVersion: "17",
		OutputDir:   "warped",
		Concurrency: 4,
		Distributor: DistributorConfig{
			BaseURL:   "https://api.adoptium.net",
			ImageType: "jdk",
			CacheSize: 64,
			Timeout:   30 * time.Second,
		},
	}
}

// EnvName returns the environment variable overriding key, for example
// WARP4J_DISTRIBUTOR_BASE_URL for "distributor.base_url".
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

// ConfigDir returns the warp4j configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir(f platform.Facts) (string, error) {
	var configDir string

	switch f.GOOS() {
	case platform.Windows:
		configDir = f.Getenv("APPDATA")
		if configDir == "" {
			home, err := f.HomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := f.HomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = f.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := f.HomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// FilePath returns the config file loadWithOptions reads for opts, whether
// or not it exists.
func FilePath(f platform.Facts, opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(f); err != nil {
			return "", err
		}
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions resolves the configuration. Precedence, highest first:
// process environment, the .env file, the config file, defaults.
func loadWithOptions(ctx context.Context, f platform.Facts, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("app_data_dir", defaults.AppDataDir)
	v.SetDefault("java_version", string(defaults.JavaVersion))
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("concurrency", int(defaults.Concurrency))
	v.SetDefault("distributor.base_url", string(defaults.Distributor.BaseURL))
	v.SetDefault("distributor.image_type", defaults.Distributor.ImageType)
	v.SetDefault("distributor.cache_size", defaults.Distributor.CacheSize)
	v.SetDefault("distributor.timeout", defaults.Distributor.Timeout)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	cfgPath, err := FilePath(f, opts)
	if err != nil {
		return nil, "", err
	}

	resolvedPath := ""
	switch {
	case fileExists(cfgPath):
		if err := loadCUEIntoViper(v, cfgPath); err != nil {
			return nil, "", issue.NewErrorContext("load configuration").
				WithResource(cfgPath).
				WithHint("Check that the file contains valid CUE syntax").
				WithHint("Verify the configuration values match the expected schema").
				WithHint("Use 'warp4j config init' to see a valid default file").
				WithIssue(issue.ConfigLoadFailedId, types.ExitFailure).
				Wrap(err)
		}
		resolvedPath = cfgPath
	case opts.ConfigFilePath != "":
		// An explicit file must exist; the default location is optional.
		return nil, "", issue.NewErrorContext("load configuration").
			WithResource(opts.ConfigFilePath).
			WithHint("Verify the file path is correct").
			WithHint("Use 'warp4j config show' to see the default configuration").
			WithIssue(issue.ConfigLoadFailedId, types.ExitFailure).
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath))
	}

	if err := loadDotEnv(v, opts.DotEnvPath); err != nil {
		return nil, "", issue.NewErrorContext("load environment file").
			WithResource(dotEnvPath(opts.DotEnvPath)).
			WithHint("Use KEY=value lines, one per line").
			WithIssue(issue.ConfigLoadFailedId, types.ExitFailure).
			Wrap(err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext("validate configuration").
			WithResource(resolvedPath).
			WithHint("Check " + EnvPrefix + "_* environment variables and the .env file").
			Wrap(err)
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// loadDotEnv applies WARP4J_* entries of the .env file for keys whose
// environment variable is unset. The process environment is not modified.
// A missing file is not an error.
func loadDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(dotEnvPath(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	for _, key := range v.AllKeys() {
		name := EnvName(key)
		val, ok := values[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, val)
	}

	applyPackerEnv(v, values)
	return nil
}

// applyPackerEnv sets packer.urls.<host> and packer.hashes.<host> from
// variables such as WARP4J_PACKER_URLS_LINUX_X64. AutomaticEnv cannot see
// these because map keys have no defaults.
func applyPackerEnv(v *viper.Viper, dotEnv map[string]string) {
	env := make(map[string]string, len(dotEnv))
	maps.Copy(env, dotEnv)
	for _, kv := range os.Environ() {
		if name, val, ok := strings.Cut(kv, "="); ok {
			env[name] = val
		}
	}

	for _, section := range []string{"packer.urls", "packer.hashes"} {
		prefix := EnvName(section) + "_"
		for _, name := range slices.Sorted(maps.Keys(env)) {
			if host, ok := strings.CutPrefix(name, prefix); ok && host != "" {
				v.Set(section+"."+strings.ToLower(host), env[name])
			}
		}
	}
}

func dotEnvPath(path string) string {
	if path == "" {
		return DotEnvFileName
	}
	return path
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file unless one exists. It
// returns the file path and whether it was written.
func CreateDefaultConfig(f platform.Facts, opts LoadOptions) (string, bool, error) {
	cfgPath, err := FilePath(f, opts)
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// warp4j configuration file\n\n")

	if cfg.AppDataDir != "" {
		fmt.Fprintf(&sb, "app_data_dir: %q\n", cfg.AppDataDir)
	}
	fmt.Fprintf(&sb, "java_version: %q\n", string(cfg.JavaVersion))
	fmt.Fprintf(&sb, "output_dir: %q\n", cfg.OutputDir)
	fmt.Fprintf(&sb, "concurrency: %d\n", int(cfg.Concurrency))

	sb.WriteString("\ndistributor: {\n")
	fmt.Fprintf(&sb, "\tbase_url: %q\n", string(cfg.Distributor.BaseURL))
	fmt.Fprintf(&sb, "\timage_type: %q\n", cfg.Distributor.ImageType)
	fmt.Fprintf(&sb, "\tcache_size: %d\n", cfg.Distributor.CacheSize)
	fmt.Fprintf(&sb, "\ttimeout: %q\n", cfg.Distributor.Timeout.String())
	sb.WriteString("}\n")

	if len(cfg.Packer.URLs) > 0 || len(cfg.Packer.Hashes) > 0 {
		sb.WriteString("\npacker: {\n")
		writeCUEMap(&sb, "urls", cfg.Packer.URLs)
		writeCUEMap(&sb, "hashes", cfg.Packer.Hashes)
		sb.WriteString("}\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func writeCUEMap(sb *strings.Builder, name string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintf(sb, "\t%s: {\n", name)
	for _, key := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(sb, "\t\t%s: %q\n", key, m[key])
	}
	sb.WriteString("\t}\n")
}
