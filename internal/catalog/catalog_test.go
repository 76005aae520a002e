package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAssignsPositionalIndices(t *testing.T) {
	c := Build([]string{"**A**", "B", "C"}, nil)
	require.Equal(t, 3, c.Len())
	assert.False(t, c.IsEmpty())

	e, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, "B", e.Markdown)

	first, ok := c.Get(0)
	require.True(t, ok)
	assert.NotContains(t, first.HTML, "**")
	assert.Contains(t, first.HTML, "<strong>A</strong>")

	for i, e := range c.Entries() {
		assert.Equal(t, i, e.Index)
	}
}

func TestBuildRendersEachEntryOnce(t *testing.T) {
	calls := map[string]int{}
	r := func(md string) string {
		calls[md]++
		return "<p>" + md + "</p>"
	}
	c := Build([]string{"a", "b", "c"}, r)
	for i := 0; i < 10; i++ {
		for j := 0; j < c.Len(); j++ {
			_, _ = c.Get(j)
		}
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, calls)
}

func TestGetOutOfRange(t *testing.T) {
	c := Build([]string{"a", "b", "c"}, nil)
	for _, idx := range []int{-1, 3, 5, int(^uint(0) >> 1)} {
		t.Run(fmt.Sprint(idx), func(t *testing.T) {
			e, ok := c.Get(idx)
			assert.False(t, ok)
			assert.Equal(t, Entry{}, e)
		})
	}
}

func TestEmptyCatalog(t *testing.T) {
	for name, c := range map[string]*Catalog{
		"built": Build(nil, nil),
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, c.IsEmpty())
			assert.Equal(t, 0, c.Len())
			_, ok := c.Get(0)
			assert.False(t, ok)
			assert.Empty(t, c.Entries())
		})
	}
}

func TestIndexStableAcrossGrowth(t *testing.T) {
	base := []string{"Is it plugged in?", "Is DNS working?", "`df -h`"}
	extended := append(append([]string{}, base...), "new one", "*another*")

	before := Build(base, nil)
	after := Build(extended, nil)

	for i := 0; i < before.Len(); i++ {
		want, _ := before.Get(i)
		got, ok := after.Get(i)
		require.True(t, ok)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("entry %d changed after append (-before +after):\n%s", i, diff)
		}
	}
	if diff := cmp.Diff(before.Entries(), after.Entries()[:before.Len()]); diff != "" {
		t.Fatalf("prefix changed (-before +after):\n%s", diff)
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := Build([]string{"a"}, nil)
	es := c.Entries()
	es[0].Markdown = "mutated"
	e, _ := c.Get(0)
	assert.Equal(t, "a", e.Markdown)
}

func TestDigest(t *testing.T) {
	a := Build([]string{"ab", "c"}, nil)
	b := Build([]string{"a", "bc"}, nil)
	assert.NotEqual(t, a.Digest(), b.Digest())

	again := Build([]string{"ab", "c"}, func(s string) string { return strings.ToUpper(s) })
	assert.Equal(t, a.Digest(), again.Digest(), "digest covers sources, not rendering")

	grown := Build([]string{"ab", "c", "d"}, nil)
	assert.NotEqual(t, a.Digest(), grown.Digest())
	assert.Len(t, a.Digest(), 64)
}
