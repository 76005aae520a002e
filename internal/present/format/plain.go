package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/thingstocheck/internal/catalog"
)

// TSV columns: index, markdown
var headerLine = "index\tthing\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func WritePlainEntries(w io.Writer, entries []catalog.Entry, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\n", e.Index, esc(e.Markdown))
	}
	return tw.Flush()
}
