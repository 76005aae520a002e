// Package present writes catalog entries for the command line.
package present

import (
	"io"

	"github.com/mithrel/thingstocheck/internal/catalog"
	"github.com/mithrel/thingstocheck/internal/present/format"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Width is the word wrap width for pretty output.
	Width int
	// Digest is shown in the pretty list header when set.
	Digest string
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModePlain, false
	}
}

// RenderEntries renders a list of entries according to options.
func RenderEntries(w io.Writer, entries []catalog.Entry, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONEntries(w, entries, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONEntries(w, entries)
	case ModePretty:
		return format.WritePrettyEntries(w, entries, opts.Digest, opts.Width)
	default:
		return format.WritePlainEntries(w, entries, opts.Headers)
	}
}

// RenderEntry renders a single entry according to options. Plain output is
// the bare markdown so it can be piped elsewhere.
func RenderEntry(w io.Writer, e catalog.Entry, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONEntry(w, e, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONEntries(w, []catalog.Entry{e})
	case ModePretty:
		return format.WritePrettyEntry(w, e, opts.Width)
	default:
		_, err := io.WriteString(w, e.Markdown+"\n")
		return err
	}
}
