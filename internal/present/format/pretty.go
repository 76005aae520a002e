package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/thingstocheck/internal/catalog"
	"github.com/mithrel/thingstocheck/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Width(5).Align(lipgloss.Right)
)

const shortDigest = 12

// WritePrettyEntries writes a styled header followed by one line per entry.
func WritePrettyEntries(w io.Writer, entries []catalog.Entry, digest string, width int) error {
	header := titleStyle.Render(fmt.Sprintf("%d things to check", len(entries)))
	if digest != "" {
		if len(digest) > shortDigest {
			digest = digest[:shortDigest]
		}
		header += " " + mutedStyle.Render("("+digest+")")
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, e := range entries {
		line := strings.TrimSpace(e.Markdown)
		if width > 8 {
			line = truncate(line, width-7)
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", indexStyle.Render(fmt.Sprint(e.Index)), line); err != nil {
			return err
		}
	}
	return nil
}

// WritePrettyEntry renders a single entry's markdown for the terminal.
func WritePrettyEntry(w io.Writer, e catalog.Entry, width int) error {
	out, err := render.Terminal(e.Markdown, width)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
