package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/thingstocheck/internal/catalog"
	"github.com/mithrel/thingstocheck/internal/config"
	"github.com/mithrel/thingstocheck/internal/keys"
	"github.com/mithrel/thingstocheck/internal/wire"
)

// isolate points config lookups at an empty temp tree and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	t.Setenv("HOME", filepath.Join(tmp, "home"))
	t.Setenv("PORT", "")
	t.Setenv("THINGS_PORT", "")
	t.Setenv("THINGS_PUBLIC_URL", "")
	t.Setenv("THINGS_CATALOG_PATH", "")
	t.Setenv("THINGS_LOG_LEVEL", "error")
	t.Setenv("THINGS_SLACK_KEYRING", "")
	t.Setenv("PAGER", "cat")
	t.Setenv("VISUAL", "")
	// Equivalent of t.Chdir (Go 1.24+) for the Go 1.21 toolchain.
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Setenv("PWD", tmp)
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return tmp
}

func writeCatalog(t *testing.T, dir string, things ...string) string {
	t.Helper()
	var b strings.Builder
	for _, th := range things {
		b.WriteString("- ")
		b.WriteString(th)
		b.WriteString("\n")
	}
	path := filepath.Join(dir, "things.yml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", args...)
}

func runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestShowByIndex(t *testing.T) {
	dir := isolate(t)
	t.Setenv("THINGS_CATALOG_PATH", writeCatalog(t, dir, "first", "second", "third"))

	out, err := run(t, "show", "1")
	require.NoError(t, err)
	assert.Equal(t, "second\n", out)
}

func TestShowRandomComesFromCatalog(t *testing.T) {
	dir := isolate(t)
	t.Setenv("THINGS_CATALOG_PATH", writeCatalog(t, dir, "only"))

	out, err := run(t, "show")
	require.NoError(t, err)
	assert.Equal(t, "only\n", out)
}

func TestShowRejectsBadIndex(t *testing.T) {
	dir := isolate(t)
	t.Setenv("THINGS_CATALOG_PATH", writeCatalog(t, dir, "a", "b"))

	for _, arg := range []string{"2", "abc", "-1"} {
		_, err := run(t, "show", "--", arg)
		assert.Error(t, err, arg)
	}
}

func TestShowLink(t *testing.T) {
	dir := isolate(t)
	t.Setenv("THINGS_CATALOG_PATH", writeCatalog(t, dir, "a", "b"))

	out, err := run(t, "show", "1", "--link")
	require.NoError(t, err)
	assert.Equal(t, "b\nhttp://localhost:3000/?item=1\n", out)

	t.Setenv("THINGS_PUBLIC_URL", "https://check.example.com/tools")
	out, err = run(t, "show", "0", "--link")
	require.NoError(t, err)
	assert.Equal(t, "a\nhttps://check.example.com/tools/?item=0\n", out)
}

func TestShowLinkRejectsRelativePublicURL(t *testing.T) {
	dir := isolate(t)
	t.Setenv("THINGS_CATALOG_PATH", writeCatalog(t, dir, "a", "b"))

	for _, bad := range []string{"check.example.com", "/tools", "ftp://check.example.com"} {
		t.Setenv("THINGS_PUBLIC_URL", bad)
		out, err := run(t, "show", "1", "--link")
		require.Error(t, err, bad)
		assert.ErrorContains(t, err, "must be an absolute http(s) url")
		assert.Empty(t, out, bad)
	}
}

func TestShowJSON(t *testing.T) {
	dir := isolate(t)
	t.Setenv("THINGS_CATALOG_PATH", writeCatalog(t, dir, "a", "*b*"))

	out, err := run(t, "show", "1", "--output", "json")
	require.NoError(t, err)
	var e catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, "*b*", e.Markdown)
	assert.Contains(t, e.HTML, "<em>b</em>")

	_, err = run(t, "show", "--output", "tui")
	assert.Error(t, err)
}

func TestListDefaultCatalog(t *testing.T) {
	isolate(t)

	out, err := run(t, "list", "--noheaders")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	raw, err := catalog.Default()
	require.NoError(t, err)
	require.Len(t, lines, len(raw))
	assert.Contains(t, lines[0], "Is it plugged in?")
}

func TestListSearchAndLimit(t *testing.T) {
	dir := isolate(t)
	t.Setenv("THINGS_CATALOG_PATH", writeCatalog(t, dir, "Is it plugged in?", "Is DNS working?", "Check disk space"))

	out, err := run(t, "list", "--search", "dns", "--output", "json")
	require.NoError(t, err)
	var got []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got)
	assert.Equal(t, 1, got[0].Index)

	out, err = run(t, "list", "--limit", "2", "--output", "ndjson")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 2)
}

func TestBadCatalogFailsCommands(t *testing.T) {
	dir := isolate(t)
	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("- [nested]\n"), 0o600))
	t.Setenv("THINGS_CATALOG_PATH", bad)

	_, err := run(t, "show")
	var le *catalog.LoadError
	assert.ErrorAs(t, err, &le)

	_, err = run(t, "config", "check")
	assert.ErrorAs(t, err, &le)
}

func TestConfigCheck(t *testing.T) {
	isolate(t)

	out, err := run(t, "config", "check")
	require.NoError(t, err)
	assert.Contains(t, out, catalog.DefaultSource)
	assert.Contains(t, out, "OK")

	t.Setenv("PORT", "web")
	_, err = run(t, "config", "check")
	var pe *config.PortError
	assert.ErrorAs(t, err, &pe)
}

func TestConfigGenerateAndUpdate(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "config.toml")

	out, err := run(t, "config", "generate", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.RenderDefaultTOML(), string(data))

	_, err = run(t, "config", "generate", "-o", path)
	assert.Error(t, err)

	out, err = run(t, "config", "generate", "-o", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")

	require.NoError(t, os.WriteFile(path, []byte("port = 8080\nstale = true\n"), 0o600))
	out, err = run(t, "config", "generate", "-o", path, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup: "+path+".bak")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port = 8080")
	assert.Contains(t, string(data), "# OUTDATED")

	_, err = run(t, "config", "generate", "-o", path, "--update", "--overwrite")
	assert.Error(t, err)
}

func TestConfigGenerateDefaultPath(t *testing.T) {
	isolate(t)

	_, err := run(t, "config", "generate")
	require.NoError(t, err)
	_, err = os.Stat(config.DefaultConfigPath())
	assert.NoError(t, err)
}

func TestExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	cat := writeCatalog(t, dir, "from file")
	cfg := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[catalog]\npath = \""+cat+"\"\n"), 0o600))

	out, err := run(t, "--config", cfg, "show", "0")
	require.NoError(t, err)
	assert.Equal(t, "from file\n", out)

	_, err = run(t, "--config", filepath.Join(dir, "missing.toml"), "show")
	assert.Error(t, err)
}

// fakeEditor writes a script that appends line to the file it is given.
func fakeEditor(t *testing.T, line string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ed.sh")
	script := "#!/bin/sh\nprintf '%s\\n' '" + line + "' >> \"$1\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestConfigEditCreatesAndValidates(t *testing.T) {
	isolate(t)
	t.Setenv("EDITOR", fakeEditor(t, "trust_proxy = true"))

	out, err := run(t, "config", "edit")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+config.DefaultConfigPath())
	assert.NotContains(t, out, "Backup:")
	data, err := os.ReadFile(config.DefaultConfigPath())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), config.RenderDefaultTOML()))
}

func TestConfigEditReportsInvalidResult(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("port = 3000\n"), 0o600))
	t.Setenv("EDITOR", fakeEditor(t, "[log]\nformat = \"xml\""))

	out, err := run(t, "--config", cfg, "config", "edit")
	assert.Error(t, err)
	assert.Contains(t, out, "Backup: "+cfg+".bak")
	backup, rerr := os.ReadFile(cfg + ".bak")
	require.NoError(t, rerr)
	assert.Equal(t, "port = 3000\n", string(backup))
}

func TestConfigEditNoChanges(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("port = 3000\n"), 0o600))
	t.Setenv("EDITOR", "true")

	out, err := run(t, "--config", cfg, "config", "edit")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes")
}

func TestConfigSecret(t *testing.T) {
	isolate(t)
	store := &keys.MapStore{}
	prev := wire.Secrets
	wire.Secrets = store
	t.Cleanup(func() { wire.Secrets = prev })

	t.Setenv("THINGS_SLACK_KEYRING", "true")
	_, err := run(t, "config", "check")
	assert.Error(t, err, "keyring enabled with nothing stored")

	_, err = runWithInput(t, "\n", "config", "secret", "set")
	assert.Error(t, err)

	out, err := runWithInput(t, "abc123\n", "config", "secret", "set")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored")
	got, err := store.Get(keys.SigningSecretID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	_, err = run(t, "config", "check")
	assert.NoError(t, err)

	_, err = run(t, "config", "secret", "delete")
	require.NoError(t, err)
	_, err = store.Get(keys.SigningSecretID)
	assert.ErrorIs(t, err, keys.ErrKeyNotFound)
}

func TestExportRoundTrip(t *testing.T) {
	dir := isolate(t)
	raw, err := catalog.Default()
	require.NoError(t, err)

	dbPath := filepath.Join(dir, "things.db")
	out, err := run(t, "export", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, dbPath)

	t.Setenv("THINGS_CATALOG_PATH", dbPath)
	out, err = run(t, "show", "0")
	require.NoError(t, err)
	assert.Equal(t, raw[0]+"\n", out)

	_, err = run(t, "export", dbPath)
	assert.Error(t, err)
}
