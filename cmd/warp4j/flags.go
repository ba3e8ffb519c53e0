// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/warp4j/warp4j/internal/target"
)

type (
	// runOptions holds the root command's flags.
	runOptions struct {
		jar         string
		javaVersion string
		classPath   []string
		springBoot  bool
		output      string
		prefix      string
		optimize    bool
		addModules  string
		linux       bool
		macos       bool
		windows     bool
		arch        string
		targets     targetsValue
		shorthand   []bool
		silent      bool
		pull        bool
		jvmOptions  string
		jdk         string
		report      string
		concurrency int
	}

	// targetsValue is a repeatable flag accepting comma separated
	// "<platform>-<arch>" values.
	targetsValue struct {
		targets []target.Target
	}
)

// shorthandTargets are the single-target boolean flags.
var shorthandTargets = []struct {
	flag   string
	target target.Target
}{
	{"linux-x64", target.New(target.Linux, target.X64)},
	{"linux-aarch64", target.New(target.Linux, target.AArch64)},
	{"macos-x64", target.New(target.MacOS, target.X64)},
	{"macos-aarch64", target.New(target.MacOS, target.AArch64)},
	{"windows-x64", target.New(target.Windows, target.X64)},
	{"windows-aarch64", target.New(target.Windows, target.AArch64)},
}

var _ pflag.Value = (*targetsValue)(nil)

func newRunOptions() *runOptions {
	return &runOptions{shorthand: make([]bool, len(shorthandTargets))}
}

func (o *runOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.jar, "jar", "", "JAR file to convert; a glob pattern uses the first match")
	flags.StringVarP(&o.javaVersion, "java-version", "j", "17", "Java version to bundle, e.g. 21 or 17.0.13+11 (default from config)")
	flags.StringSliceVar(&o.classPath, "class-path", nil, "additional class paths for jdeps, comma separated")
	flags.BoolVar(&o.springBoot, "spring-boot", false, "add BOOT-INF/lib from the jar to the jdeps class path")
	flags.StringVarP(&o.output, "output", "o", "warped", "output directory (default from config)")
	flags.StringVarP(&o.prefix, "prefix", "p", "", "prefix for the extracted application folder")
	flags.BoolVar(&o.optimize, "optimize", false, "bundle a runtime reduced to the modules the jar needs")
	flags.StringVar(&o.addModules, "add-modules", "", "additional modules for the optimized runtime, comma separated")
	flags.BoolVar(&o.linux, "linux", false, "create binaries for Linux")
	flags.BoolVar(&o.macos, "macos", false, "create binaries for macOS")
	flags.BoolVar(&o.windows, "windows", false, "create binaries for Windows")
	flags.StringVar(&o.arch, "arch", "", "only build this architecture (x64 or aarch64)")
	flags.Var(&o.targets, "target", "target as <platform>-<arch>; repeatable or comma separated")
	for i, st := range shorthandTargets {
		flags.BoolVar(&o.shorthand[i], st.flag, false, "create a binary for "+st.target.String())
	}
	flags.BoolVarP(&o.silent, "silent", "s", false, "start with javaw.exe instead of java.exe (Windows only)")
	flags.BoolVar(&o.pull, "pull", false, "download and extract runtimes again even when cached")
	flags.StringVar(&o.jvmOptions, "jvm-options", "", "options passed to the JVM by the launcher")
	flags.StringVar(&o.jdk, "jdk", "", "local JDK providing jdeps and jlink for --optimize")
	flags.StringVar(&o.report, "report", "", "write a run report; format by extension (.yaml, .toml or .json)")
	flags.IntVar(&o.concurrency, "concurrency", 4, "targets processed in parallel per stage (default from config)")
}

// selection converts the target flags into a target.Selection.
func (o *runOptions) selection() (target.Selection, error) {
	sel := target.Selection{Targets: slices.Clone(o.targets.targets)}

	for i, st := range shorthandTargets {
		if o.shorthand[i] {
			sel.Targets = append(sel.Targets, st.target)
		}
	}

	for _, p := range []struct {
		set      bool
		platform target.Platform
	}{
		{o.linux, target.Linux},
		{o.macos, target.MacOS},
		{o.windows, target.Windows},
	} {
		if p.set {
			sel.Platforms = append(sel.Platforms, p.platform)
		}
	}

	if o.arch != "" {
		a, err := target.ParseArchitecture(o.arch)
		if err != nil {
			return target.Selection{}, err
		}
		if a != target.X64 && a != target.AArch64 {
			return target.Selection{}, fmt.Errorf("--arch %s: warp-packer only builds x64 and aarch64", a)
		}
		sel.Architectures = []target.Architecture{a}
	}

	return sel, nil
}

func (v *targetsValue) String() string {
	parts := make([]string, 0, len(v.targets))
	for _, t := range v.targets {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ",")
}

// Set parses and appends every comma separated target in s.
func (v *targetsValue) Set(s string) error {
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := target.ParseTarget(part)
		if err != nil {
			return err
		}
		v.targets = append(v.targets, t)
	}
	return nil
}

func (v *targetsValue) Type() string { return "targets" }
