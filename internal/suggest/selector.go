// Package suggest picks a thing to check from a catalog.
package suggest

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mithrel/thingstocheck/internal/catalog"
)

var (
	// ErrNotFound means the requested index does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCatalog means a random pick was requested from an empty catalog.
	// It matches ErrNotFound under errors.Is.
	ErrEmptyCatalog = fmt.Errorf("%w: catalog is empty", ErrNotFound)
)

// Request asks for a specific index, or a random entry when HasIndex is false.
type Request struct {
	Index    int
	HasIndex bool
}

// Any requests a random entry.
func Any() Request { return Request{} }

// At requests the entry at index.
func At(index int) Request { return Request{Index: index, HasIndex: true} }

// Selector chooses catalog entries. It keeps no state between calls and is
// safe for concurrent use.
type Selector struct {
	intN func(n int) int
}

type Option func(*Selector)

// WithIntN replaces the random source. f must return a value in [0, n) and be
// safe for concurrent use.
func WithIntN(f func(n int) int) Option {
	return func(s *Selector) { s.intN = f }
}

func New(opts ...Option) *Selector {
	s := &Selector{intN: rand.Intn}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Select resolves req against c. An explicit index is looked up exactly and
// never replaced by a random pick; an unknown index yields ErrNotFound.
func (s *Selector) Select(c *catalog.Catalog, req Request) (catalog.Entry, error) {
	if req.HasIndex {
		e, ok := c.Get(req.Index)
		if !ok {
			return catalog.Entry{}, fmt.Errorf("item %d: %w", req.Index, ErrNotFound)
		}
		return e, nil
	}
	n := c.Len()
	if n == 0 {
		return catalog.Entry{}, ErrEmptyCatalog
	}
	e, ok := c.Get(s.intN(n))
	if !ok {
		return catalog.Entry{}, fmt.Errorf("random source out of range: %w", ErrNotFound)
	}
	return e, nil
}

// Random picks an entry uniformly at random.
func (s *Selector) Random(c *catalog.Catalog) (catalog.Entry, error) {
	return s.Select(c, Any())
}
