// SPDX-License-Identifier: MPL-2.0

// Package config loads warp4j settings with Viper, using CUE as the file
// format.
//
// The file is config.cue in the user configuration directory
// ($XDG_CONFIG_HOME/warp4j on Linux, ~/Library/Application Support/warp4j on
// macOS, %APPDATA%\warp4j on Windows) unless a path is given explicitly. It is
// validated against the embedded #Config schema (config_schema.cue) before
// being merged over the defaults. Values from a .env file and WARP4J_*
// environment variables take precedence over the file.
package config
