// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"
)

// ErrUnsafeValue is returned when a value cannot be embedded in a batch file.
var ErrUnsafeValue = errors.New("value cannot be used in a batch file")

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const batchUnsafe = "\"%^&|<>\r\n"

// Params are the values substituted into a launcher template.
type Params struct {
	// JavaDir is the runtime directory relative to the script.
	JavaDir string
	// Jar is the application jar file name relative to the script.
	Jar string
	// JVMOptions is inserted verbatim before -jar.
	JVMOptions string
}

// RenderPOSIX returns the shell launcher. JavaDir and Jar are shell quoted and
// the whole script must parse as POSIX shell.
func RenderPOSIX(p Params) (string, error) {
	javaDir, err := syntax.Quote(p.JavaDir, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quoting runtime directory: %w", err)
	}
	jar, err := syntax.Quote(p.Jar, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quoting jar name: %w", err)
	}

	script, err := execute("launcher.sh.tmpl", Params{JavaDir: javaDir, Jar: jar, JVMOptions: p.JVMOptions})
	if err != nil {
		return "", err
	}
	if _, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(script), "launcher.sh"); err != nil {
		return "", fmt.Errorf("launcher script syntax error: %w", err)
	}
	return script, nil
}

// RenderWindows returns the batch launcher with CRLF line endings. A silent
// launcher starts javaw detached from the console.
func RenderWindows(p Params, silent bool) (string, error) {
	for _, v := range []string{p.JavaDir, p.Jar} {
		if strings.ContainsAny(v, batchUnsafe) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeValue, v)
		}
	}
	if strings.ContainsAny(p.JVMOptions, "\r\n") {
		return "", fmt.Errorf("%w: JVM options span several lines", ErrUnsafeValue)
	}

	name := "launcher.bat.tmpl"
	if silent {
		name = "launcher_silent.bat.tmpl"
	}
	script, err := execute(name, p)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(script, "\n", "\r\n"), nil
}

func execute(name string, p Params) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, p); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
