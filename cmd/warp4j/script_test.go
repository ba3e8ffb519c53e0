// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"warp4j": func() {
			os.Exit(int(execute(context.Background(), NewApp(Dependencies{}), os.Args[1:])))
		},
	})
}

// TestCLI runs the command scripts under testdata/script against an
// in-process warp4j binary.
func TestCLI(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("XDG_CONFIG_HOME", env.WorkDir+"/xdg")
			env.Setenv("WARP4J_HOME", env.WorkDir+"/data")
			env.Setenv("NO_COLOR", "1")
			return nil
		},
	})
}
