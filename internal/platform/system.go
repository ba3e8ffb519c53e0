// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"runtime"

	"github.com/warp4j/warp4j/internal/target"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

type (
	// Facts is the narrow view of the host environment used to locate
	// directories. Tests substitute fixed values.
	Facts interface {
		GOOS() string
		HomeDir() (string, error)
		Getenv(key string) string
	}

	// System reports facts about the running process. The zero value is ready to use.
	System struct{}
)

// GOOS returns runtime.GOOS.
func (System) GOOS() string { return runtime.GOOS }

// GOARCH returns runtime.GOARCH.
func (System) GOARCH() string { return runtime.GOARCH }

// HomeDir returns the current user's home directory.
func (System) HomeDir() (string, error) { return os.UserHomeDir() }

// Getenv returns the value of the environment variable key.
func (System) Getenv(key string) string { return os.Getenv(key) }

// Host returns the target describing this machine.
func (s System) Host() (target.Target, error) {
	return target.FromGo(s.GOOS(), s.GOARCH())
}
