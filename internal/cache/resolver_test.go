// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/warp4j/warp4j/internal/target"
	"github.com/warp4j/warp4j/internal/version"
)

var linuxX64 = target.New(target.Linux, target.X64)

func TestLayout(t *testing.T) {
	t.Parallel()

	root := filepath.Join("data", "warp4j")
	l := NewLayout(root)
	win := target.New(target.Windows, target.X64)

	tests := []struct {
		got, want string
	}{
		{l.PackerPath(target.Linux), filepath.Join(root, "warp", "warp-packer")},
		{l.PackerPath(target.Windows), filepath.Join(root, "warp", "warp-packer.exe")},
		{l.JDKDir(linuxX64), filepath.Join(root, "jdk", "linux", "x64")},
		{l.CompressedJDK(linuxX64), filepath.Join(root, "jdk", "linux", "x64", "jdk.tar.gz")},
		{l.CompressedJDK(win), filepath.Join(root, "jdk", "windows", "x64", "jdk.zip")},
		{l.BundleJavaDir(target.New(target.MacOS, target.AArch64)), filepath.Join(root, "bundle", "mac", "aarch64", "java")},
		{l.CleanedJar(), filepath.Join(root, "cleaned-jar-file.jar")},
		{l.ExtractedJar(), filepath.Join(root, "extracted-jar")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := "cache"
	layout := NewLayout(root)
	feature := version.Release{Version: version.New(17, 0, 0)}
	exact := version.Release{Version: version.Version{Major: 17, Minor: 0, Patch: 13, Build: 11}, Label: "17.0.13+11-LTS"}

	tests := []struct {
		name          string
		files         []string
		dirs          []string
		rel           version.Release
		wantDownload  bool
		wantExtracted string
	}{
		{
			name: "empty cache",
			rel:  feature,
		},
		{
			name:         "compressed only",
			files:        []string{"jdk.tar.gz"},
			rel:          feature,
			wantDownload: true,
		},
		{
			name:          "extracted feature release",
			dirs:          []string{"jdk-17.0.2+8", "jdk-17.0.13+11"},
			rel:           feature,
			wantExtracted: "jdk-17.0.13+11",
		},
		{
			name:          "exact release ignores other builds",
			dirs:          []string{"jdk-17.0.2+8", "jdk-17.0.13+11"},
			rel:           exact,
			wantExtracted: "jdk-17.0.13+11",
		},
		{
			name: "exact release missing",
			dirs: []string{"jdk-17.0.2+8"},
			rel:  exact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			dir := layout.JDKDir(linuxX64)
			for _, f := range tt.files {
				if err := afero.WriteFile(fs, filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			for _, d := range tt.dirs {
				if err := fs.MkdirAll(filepath.Join(dir, d, "bin"), 0o755); err != nil {
					t.Fatal(err)
				}
			}

			entry, err := NewResolver(layout, WithFs(fs)).Resolve(linuxX64, tt.rel)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if entry.Downloaded != tt.wantDownload {
				t.Errorf("Downloaded = %v, want %v", entry.Downloaded, tt.wantDownload)
			}
			wantPath := ""
			if tt.wantExtracted != "" {
				wantPath = filepath.Join(dir, tt.wantExtracted)
			}
			if entry.ExtractedPath != wantPath {
				t.Errorf("ExtractedPath = %q, want %q", entry.ExtractedPath, wantPath)
			}
			if entry.Extracted != (wantPath != "") {
				t.Errorf("Extracted = %v, want %v", entry.Extracted, wantPath != "")
			}
			if exists, _ := afero.DirExists(fs, dir); !exists {
				t.Errorf("cache directory %s was not created", dir)
			}
		})
	}
}

func TestResolve_ReadOnlyFilesystemFails(t *testing.T) {
	t.Parallel()

	r := NewResolver(NewLayout("cache"), WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))
	if _, err := r.Resolve(linuxX64, version.Release{Version: version.New(21, 0, 0)}); err == nil {
		t.Error("Resolve() expected error when the cache directory cannot be created")
	}
}

func TestJavaHome(t *testing.T) {
	t.Parallel()

	flat := t.TempDir()
	if got := JavaHome(flat); got != flat {
		t.Errorf("JavaHome(flat) = %q, want %q", got, flat)
	}

	nested := t.TempDir()
	home := filepath.Join(nested, "Contents", "Home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := JavaHome(nested); got != home {
		t.Errorf("JavaHome(nested) = %q, want %q", got, home)
	}
}
