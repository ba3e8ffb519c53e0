// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

const (
	// MinConcurrency and MaxConcurrency bound the per-stage worker count.
	MinConcurrency Concurrency = 1
	MaxConcurrency Concurrency = 64
)

var (
	// ErrInvalidJavaVersion is the sentinel error wrapped by InvalidJavaVersionError.
	ErrInvalidJavaVersion = errors.New("invalid java version")
	// ErrInvalidConcurrency is the sentinel error wrapped by InvalidConcurrencyError.
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	// ErrInvalidBaseURL is the sentinel error wrapped by InvalidBaseURLError.
	ErrInvalidBaseURL = errors.New("invalid distributor base URL")
	// ErrInvalidPackerKey is returned for packer url or hash keys that do not name a host.
	ErrInvalidPackerKey = errors.New("invalid packer host key")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// JavaVersion is the requested runtime version as typed by the user.
	JavaVersion string

	// InvalidJavaVersionError is returned when a JavaVersion does not parse.
	InvalidJavaVersionError struct {
		Value JavaVersion
		Err   error
	}

	// Concurrency is the number of targets processed at once within a stage.
	Concurrency int

	// InvalidConcurrencyError is returned when Concurrency is out of range.
	InvalidConcurrencyError struct {
		Value Concurrency
	}

	// BaseURL is the runtime distributor's API root.
	BaseURL string

	// InvalidBaseURLError is returned when a BaseURL is not an absolute http(s) URL.
	InvalidBaseURLError struct {
		Value  BaseURL
		Reason string
	}

	// InvalidConfigError collects the field errors of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// AppDataDir overrides the cache root. Empty means the platform default.
		AppDataDir string `json:"app_data_dir" mapstructure:"app_data_dir"`
		// JavaVersion is used when no version flag is given.
		JavaVersion JavaVersion `json:"java_version" mapstructure:"java_version"`
		// OutputDir receives the packed binaries.
		OutputDir string `json:"output_dir" mapstructure:"output_dir"`
		// Concurrency bounds parallel work per pipeline stage.
		Concurrency Concurrency `json:"concurrency" mapstructure:"concurrency"`
		// Distributor configures the runtime download API.
		Distributor DistributorConfig `json:"distributor" mapstructure:"distributor"`
		// Packer configures where warp-packer comes from.
		Packer PackerConfig `json:"packer" mapstructure:"packer"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// DistributorConfig configures the runtime distributor client.
	DistributorConfig struct {
		BaseURL   BaseURL       `json:"base_url" mapstructure:"base_url"`
		ImageType string        `json:"image_type" mapstructure:"image_type"`
		CacheSize int           `json:"cache_size" mapstructure:"cache_size"`
		Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// PackerConfig overrides warp-packer download locations and checksums.
	// Keys are "<platform>_<arch>" host names such as "linux_x64".
	PackerConfig struct {
		URLs   map[string]string `json:"urls" mapstructure:"urls"`
		Hashes map[string]string `json:"hashes" mapstructure:"hashes"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid reports whether the version parses.
func (v JavaVersion) IsValid() (bool, []error) {
	if _, err := version.Parse(string(v)); err != nil {
		return false, []error{&InvalidJavaVersionError{Value: v, Err: err}}
	}
	return true, nil
}

// Parse returns the parsed version.
func (v JavaVersion) Parse() (version.Version, error) {
	parsed, err := version.Parse(string(v))
	if err != nil {
		return version.Version{}, &InvalidJavaVersionError{Value: v, Err: err}
	}
	return parsed, nil
}

func (e *InvalidJavaVersionError) Error() string {
	return fmt.Sprintf("invalid java version %q: %v", e.Value, e.Err)
}

// Unwrap returns ErrInvalidJavaVersion for errors.Is() compatibility.
func (e *InvalidJavaVersionError) Unwrap() error { return ErrInvalidJavaVersion }

// IsValid reports whether c is within [MinConcurrency, MaxConcurrency].
func (c Concurrency) IsValid() (bool, []error) {
	if c < MinConcurrency || c > MaxConcurrency {
		return false, []error{&InvalidConcurrencyError{Value: c}}
	}
	return true, nil
}

func (e *InvalidConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency %d is outside %d..%d", e.Value, MinConcurrency, MaxConcurrency)
}

// Unwrap returns ErrInvalidConcurrency for errors.Is() compatibility.
func (e *InvalidConcurrencyError) Unwrap() error { return ErrInvalidConcurrency }

// IsValid reports whether u is an absolute http or https URL.
func (u BaseURL) IsValid() (bool, []error) {
	parsed, err := url.Parse(string(u))
	switch {
	case err != nil:
		return false, []error{&InvalidBaseURLError{Value: u, Reason: err.Error()}}
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		return false, []error{&InvalidBaseURLError{Value: u, Reason: "scheme must be http or https"}}
	case parsed.Host == "":
		return false, []error{&InvalidBaseURLError{Value: u, Reason: "missing host"}}
	}
	return true, nil
}

func (e *InvalidBaseURLError) Error() string {
	return fmt.Sprintf("invalid distributor base URL %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidBaseURL for errors.Is() compatibility.
func (e *InvalidBaseURLError) Unwrap() error { return ErrInvalidBaseURL }

// PackerKey returns the configuration key naming host t.
func PackerKey(t target.Target) string {
	return t.Platform.String() + "_" + t.Architecture.String()
}

// ParsePackerKey is the inverse of PackerKey.
func ParsePackerKey(key string) (target.Target, error) {
	p, a, ok := strings.Cut(key, "_")
	if !ok {
		return target.Target{}, fmt.Errorf("%w: %q", ErrInvalidPackerKey, key)
	}
	t, err := target.ParseTarget(p + "-" + a)
	if err != nil {
		return target.Target{}, fmt.Errorf("%w: %q: %w", ErrInvalidPackerKey, key, err)
	}
	return t, nil
}

// IsValid checks that every key names a host warp-packer supports.
func (c PackerConfig) IsValid() (bool, []error) {
	var errs []error
	for _, m := range []map[string]string{c.URLs, c.Hashes} {
		for key := range m {
			t, err := ParsePackerKey(key)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !target.PackerSupports(t) {
				errs = append(errs, fmt.Errorf("%w: %q is not supported by warp-packer", ErrInvalidPackerKey, key))
			}
		}
	}
	return len(errs) == 0, errs
}

// Validate checks every field and returns an *InvalidConfigError listing
// all problems.
func (c *Config) Validate() error {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.JavaVersion.IsValid,
		c.Concurrency.IsValid,
		c.Distributor.BaseURL.IsValid,
		c.Packer.IsValid,
	} {
		if ok, fieldErrs := check(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Distributor.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("distributor.cache_size must not be negative, got %d", c.Distributor.CacheSize))
	}
	if c.Distributor.Timeout < 0 {
		errs = append(errs, fmt.Errorf("distributor.timeout must not be negative, got %s", c.Distributor.Timeout))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
