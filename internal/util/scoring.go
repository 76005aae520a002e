package util

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/thingstocheck/internal/catalog"
)

type entrySource []catalog.Entry

func (s entrySource) String(i int) string { return s[i].Markdown }
func (s entrySource) Len() int            { return len(s) }

// ScoreEntries returns the top n entries fuzzy-matching input, best first.
// An empty input returns entries unchanged; n <= 0 means no limit.
func ScoreEntries(input string, entries []catalog.Entry, n int) []catalog.Entry {
	if input == "" {
		return limit(entries, n)
	}
	matches := fuzzy.FindFrom(input, entrySource(entries))
	if len(matches) == 0 {
		return nil
	}
	out := make([]catalog.Entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index]
	}
	return limit(out, n)
}

func limit(entries []catalog.Entry, n int) []catalog.Entry {
	if n <= 0 || len(entries) < n {
		return entries
	}
	return entries[:n]
}
