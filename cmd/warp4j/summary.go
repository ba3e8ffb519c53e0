// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/warp4j/warp4j/internal/pipeline"
)

// printSummary lists produced and dropped targets. Styles are applied only
// when styled is set.
func printSummary(w io.Writer, s *pipeline.Summary, styled bool) {
	render := func(style lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return style.Render(text)
	}

	fmt.Fprintf(w, "%s %s\n", render(TitleStyle, "warp4j"), render(SubtitleStyle, "java "+s.Version))
	for _, a := range s.Produced {
		fmt.Fprintf(w, "  %s %-16s %s\n", render(SuccessStyle, "✓"), a.Target, render(CmdStyle, a.Binary))
		if a.Archive != "" {
			fmt.Fprintf(w, "    %-16s %s\n", "", render(SubtitleStyle, a.Archive))
		}
	}
	for _, d := range s.Dropped {
		fmt.Fprintf(w, "  %s %-16s %s: %s\n", render(ErrorStyle, "✗"), d.Target, d.Stage, d.Reason)
	}
	if len(s.Produced) == 0 {
		fmt.Fprintln(w, render(WarningStyle, "no binary was produced"))
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
