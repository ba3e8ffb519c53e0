// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zip"
)

// WriteJar creates a jar at path holding entries (name to content). Entries
// are written in name order so the archive is reproducible.
func WriteJar(t testing.TB, path string, entries map[string]string) string {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create jar %s: %v", path, err)
	}
	zw := zip.NewWriter(f)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s to jar: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("failed to write %s to jar: %v", name, err)
		}
	}
	MustClose(t, zw)
	MustClose(t, f)
	return path
}

// WriteFakeJDK lays out a minimal JDK tree under dir: bin/java, bin/jdeps and
// bin/jlink (with suffix appended, e.g. ".exe"), a jmods directory and a
// release file. It returns dir.
func WriteFakeJDK(t testing.TB, dir, suffix string) string {
	t.Helper()
	for _, tool := range []string{"java", "jdeps", "jlink"} {
		MustWriteFile(t, filepath.Join(dir, "bin", tool+suffix), "#!/bin/sh\n", 0o755)
	}
	MustWriteFile(t, filepath.Join(dir, "jmods", "java.base.jmod"), "jmod", 0o644)
	MustWriteFile(t, filepath.Join(dir, "release"), "JAVA_VERSION=\"17.0.13\"\n", 0o644)
	return dir
}
