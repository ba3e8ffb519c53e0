// SPDX-License-Identifier: MPL-2.0

// Package archive extracts and creates the zip and tar.gz files warp4j deals
// with: downloaded JDK distributions, application jars and the compressed
// launcher outputs.
//
// Every extracted path is checked to stay inside the destination directory.
// On macOS tarballs the JDK payload lives under "<root>/Contents/Home/"; that
// prefix is stripped so the extracted tree has the same shape on every
// platform.
package archive
