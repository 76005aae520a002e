package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Both are safe for concurrent use once built.
var (
	md     = goldmark.New()
	policy = bluemonday.UGCPolicy()
)

// HTML renders CommonMark source to sanitized HTML suitable for embedding in a
// page. It never fails: raw HTML in the source is dropped, and if conversion
// itself errors the escaped source is returned as a single paragraph.
func HTML(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + template.HTMLEscapeString(src) + "</p>\n"
	}
	return policy.Sanitize(buf.String())
}
