// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	JarNotFoundId Id = iota + 1
	HostNotSupportedId
	PackerUnavailableId
	PermissionDeniedId
	InterruptedId
	ConfigLoadFailedId
	InvalidJavaVersionId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation for the issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue as terminal-styled Markdown. stylePath is a
// glamour style name such as "dark" or "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	jarNotFoundIssue = &Issue{
		id: JarNotFoundId,
		mdMsg: `
# No application jar found!

warp4j needs the jar to bundle. The --jar value may be a path or a glob
pattern; the first match is used.

## Things you can try:
- Check the path relative to the current directory:
~~~
$ ls build/libs/*.jar
~~~

- Quote glob patterns so the shell does not expand them:
~~~
$ warp4j --jar 'build/libs/*-all.jar'
~~~`,
	}

	hostNotSupportedIssue = &Issue{
		id: HostNotSupportedId,
		mdMsg: `
# Host not supported!

warp-packer only runs on x64 and aarch64 machines, so this machine cannot
produce launchers.

## Things you can try:
- Run warp4j on a 64-bit Linux, macOS or Windows machine
- Run warp4j inside a container on a supported architecture`,
		extLinks: []HttpLink{"https://github.com/dgiagio/warp"},
	}

	packerUnavailableIssue = &Issue{
		id: PackerUnavailableId,
		mdMsg: `
# warp-packer could not be obtained!

warp4j downloads warp-packer into its data directory on first use, and the
download failed.

## Things you can try:
- Check your network connection and proxy settings
- Point warp4j at a reachable copy in your config file:
~~~cue
packer: urls: linux_x64: "https://example.com/warp-packer"
~~~

- Place the binary in the warp directory under your data directory yourself
  and remove any configured hash for it`,
		extLinks: []HttpLink{"https://github.com/dgiagio/warp/releases"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

warp-packer was downloaded but could not be made executable.

## Things you can try:
- Check that you own the warp4j data directory
- Check that the file system is not mounted noexec
- Use another data directory:
~~~
$ WARP4J_HOME=$HOME/.cache/warp4j warp4j --jar app.jar
~~~`,
	}

	interruptedIssue = &Issue{
		id: InterruptedId,
		mdMsg: `
# Interrupted!

The run was cancelled. Downloads are written to temporary files and stale
runtimes are removed before extraction, so the next run starts cleanly.

## Things you can try:
- Run the same command again; cached runtimes are reused
- Add --pull to refresh every cached runtime`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file does not parse or does not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ warp4j config show
~~~

- Write a fresh default file and compare:
~~~
$ warp4j config init
~~~`,
	}

	invalidJavaVersionIssue = &Issue{
		id: InvalidJavaVersionId,
		mdMsg: `
# Invalid Java version!

Versions are given as a feature release or a full release name.

## Examples:
~~~
$ warp4j --java-version 21 --jar app.jar
$ warp4j --java-version 17.0.13+11 --jar app.jar
$ warp4j --java-version 8u422-b05 --jar app.jar
~~~`,
		extLinks: []HttpLink{"https://api.adoptium.net/q/swagger-ui/"},
	}

	issues = map[Id]*Issue{
		jarNotFoundIssue.Id():        jarNotFoundIssue,
		hostNotSupportedIssue.Id():   hostNotSupportedIssue,
		packerUnavailableIssue.Id():  packerUnavailableIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		interruptedIssue.Id():        interruptedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidJavaVersionIssue.Id(): invalidJavaVersionIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
