// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the warp4j command line.
//
// The root command packs an application jar into self-contained launchers
// for the selected platforms. The config subcommands inspect and create the
// configuration file. Execute maps failures to process exit codes.
package cmd
