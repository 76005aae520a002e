package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mithrel/thingstocheck/internal/db"
)

// Format identifies a catalog source encoding.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatSQLite Format = "sqlite"
)

// DefaultSource names the list compiled into the binary.
const DefaultSource = "embedded things-to-check.yml"

//go:embed things-to-check.yml
var defaultThings []byte

// LoadError reports that a catalog source could not be read or parsed into an
// ordered list of strings. It is fatal at startup.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load things to check from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the catalog source at path and builds it. An empty path selects
// the embedded default list.
func Load(ctx context.Context, path string, r Renderer) (*Catalog, error) {
	var (
		raw []string
		err error
	)
	if strings.TrimSpace(path) == "" {
		raw, err = Default()
	} else {
		raw, err = ReadFile(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	return Build(raw, r), nil
}

// Default parses the embedded list.
func Default() ([]string, error) {
	return parse(DefaultSource, defaultThings, FormatYAML)
}

// Parse decodes an in-memory YAML or TOML source. SQLite sources must be read
// with ReadFile.
func Parse(data []byte, f Format) ([]string, error) {
	return parse(string(f)+" input", data, f)
}

// FormatOf infers a source format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("unsupported catalog extension %q (want .yml, .yaml, .toml, .db, .sqlite or .sqlite3)", filepath.Ext(path))
}

// ReadFile loads the ordered suggestion list from a file on disk.
func ReadFile(ctx context.Context, path string) ([]string, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	if f == FormatSQLite {
		return readSQLite(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return parse(path, data, f)
}

func parse(source string, data []byte, f Format) ([]string, error) {
	var (
		out []string
		err error
	)
	switch f {
	case FormatYAML:
		out, err = parseYAML(data)
	case FormatTOML:
		out, err = parseTOML(data)
	default:
		err = fmt.Errorf("format %q cannot be parsed from memory", f)
	}
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return out, nil
}

// parseYAML accepts only a top-level sequence of scalars. Scalars keep their
// literal text, so `- 42` becomes "42"; nulls and nested nodes are rejected.
func parseYAML(data []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("document is empty; expected a sequence of strings")
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence of strings", seq.Line)
	}
	out := make([]string, 0, len(seq.Content))
	for i, n := range seq.Content {
		if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
			return nil, fmt.Errorf("line %d: item %d is not a string", n.Line, i)
		}
		out = append(out, n.Value)
	}
	return out, nil
}

type tomlSource struct {
	Things *[]string `toml:"things"`
}

func parseTOML(data []byte) ([]string, error) {
	var src tomlSource
	if err := toml.Unmarshal(data, &src); err != nil {
		return nil, err
	}
	if src.Things == nil {
		return nil, errors.New(`missing "things" array`)
	}
	return append([]string{}, (*src.Things)...), nil
}

// readSQLite reads suggestions from table things(position, markdown). Only the
// relative order of position matters; gaps are allowed.
func readSQLite(ctx context.Context, path string) ([]string, error) {
	store, err := db.OpenExisting(ctx, path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer store.Close()

	things, err := store.Things(ctx)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return things, nil
}
