package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/thingstocheck/internal/catalog"
)

func WriteJSONEntries(w io.Writer, entries []catalog.Entry, indent bool) error {
	if entries == nil {
		entries = []catalog.Entry{}
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(entries)
}

func WriteJSONEntry(w io.Writer, e catalog.Entry, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(e)
}
