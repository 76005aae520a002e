package present

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/thingstocheck/internal/catalog"
)

func sample() []catalog.Entry {
	return catalog.Build([]string{"Is it *plugged* in?", "tab\there\nnewline"}, nil).Entries()
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"plain": ModePlain, "pretty": ModePretty, "json": ModeJSON, "ndjson": ModeNDJSON} {
		got, ok := ParseMode(s)
		assert.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}
	_, ok := ParseMode("tui")
	assert.False(t, ok)
}

func TestRenderEntriesPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEntries(&buf, sample(), Options{Mode: ModePlain, Headers: true}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "index"))
	assert.Contains(t, lines[1], "Is it *plugged* in?")
	assert.Contains(t, lines[2], `tab\there\nnewline`)
}

func TestRenderEntriesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEntries(&buf, sample(), Options{Mode: ModeJSON}))
	var got []catalog.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)

	buf.Reset()
	require.NoError(t, RenderEntries(&buf, nil, Options{Mode: ModeJSON}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderEntriesNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEntries(&buf, sample(), Options{Mode: ModeNDJSON}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	var e catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &e))
	assert.Equal(t, 1, e.Index)
}

func TestRenderEntriesPrettyHeader(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Mode: ModePretty, Digest: "0123456789abcdef0123", Width: 80}
	require.NoError(t, RenderEntries(&buf, sample(), opts))
	out := buf.String()
	assert.Contains(t, out, "2 things to check")
	assert.Contains(t, out, "0123456789ab")
	assert.NotContains(t, out, "0123456789abc")
	assert.Contains(t, out, "plugged")
}

func TestRenderEntryPlainIsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEntry(&buf, sample()[0], Options{Mode: ModePlain}))
	assert.Equal(t, "Is it *plugged* in?\n", buf.String())
}
