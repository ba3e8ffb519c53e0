// SPDX-License-Identifier: MPL-2.0

// Package optimizer builds trimmed Java runtimes. It asks jdeps which JDK
// modules an application needs and runs jlink to produce a runtime holding
// only those modules for each target.
//
// Analysis never fails hard: when jdeps produces nothing usable the
// optimizer retries without module descriptors and finally falls back to
// linking ALL-MODULE-PATH.
package optimizer
