// Package catalog holds the ordered, read-only list of things to check.
//
// An entry's index is its position in the source list. Shared links embed that
// index, so sources must only ever be appended to: reordering or removing an
// entry silently changes what old links point at.
package catalog

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/mithrel/thingstocheck/internal/render"
)

// Entry is one suggestion with its markdown source and precomputed HTML.
type Entry struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// Renderer converts a markdown suggestion to HTML. It must not fail.
type Renderer func(markdown string) string

// Catalog is an immutable, ordered set of entries. It is safe for concurrent
// reads; nothing mutates it after Build returns.
type Catalog struct {
	entries []Entry
	digest  string
}

// Build assigns indices 0..n-1 in input order and renders every entry exactly
// once. A nil renderer falls back to render.HTML.
func Build(raw []string, r Renderer) *Catalog {
	if r == nil {
		r = render.HTML
	}
	entries := make([]Entry, len(raw))
	for i, md := range raw {
		entries[i] = Entry{Index: i, Markdown: md, HTML: r(md)}
	}
	return &Catalog{entries: entries, digest: digest(raw)}
}

// Get returns the entry at index. Out-of-range indices report false.
func (c *Catalog) Get(index int) (Entry, bool) {
	if c == nil || index < 0 || index >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[index], true
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func (c *Catalog) IsEmpty() bool { return c.Len() == 0 }

// Entries returns a copy of all entries in index order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Digest is a BLAKE3 fingerprint of the ordered markdown sources. Two catalogs
// share a digest only if they serve the same suggestions at the same indices.
func (c *Catalog) Digest() string {
	if c == nil {
		return digest(nil)
	}
	return c.digest
}

func digest(raw []string) string {
	h := blake3.New()
	var n [8]byte
	for _, s := range raw {
		// length-prefix each entry so ["ab","c"] and ["a","bc"] differ
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}
