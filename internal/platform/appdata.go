// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"path/filepath"
)

// AppName names the application data directory.
const AppName = "warp4j"

// HomeEnvVar overrides the application data directory when set.
const HomeEnvVar = "WARP4J_HOME"

// AppDataDir returns the directory holding the warp4j cache:
//
//	Linux    ~/.local/share/warp4j
//	macOS    ~/Library/Application Support/warp4j
//	Windows  %APPDATA%\warp4j
//	other    ~/warp4j
//
// WARP4J_HOME takes precedence over all of these.
func AppDataDir(f Facts) (string, error) {
	if dir := f.Getenv(HomeEnvVar); dir != "" {
		return filepath.Clean(dir), nil
	}

	if f.GOOS() == Windows {
		if appData := f.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName), nil
		}
	}

	home, err := f.HomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch f.GOOS() {
	case Linux:
		return filepath.Join(home, ".local", "share", AppName), nil
	case Darwin:
		return filepath.Join(home, "Library", "Application Support", AppName), nil
	case Windows:
		return filepath.Join(home, "AppData", "Roaming", AppName), nil
	default:
		return filepath.Join(home, AppName), nil
	}
}
