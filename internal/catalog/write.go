package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mithrel/thingstocheck/internal/db"
)

const exportHeader = "Each item's position is its permanent index. Only ever append."

// Encode renders things as a YAML or TOML source that Parse reads back to the
// same list.
func Encode(things []string, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		seq := &yaml.Node{Kind: yaml.SequenceNode, HeadComment: exportHeader}
		for _, md := range things {
			seq.Content = append(seq.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!str",
				Style: yaml.DoubleQuotedStyle,
				Value: md,
			})
		}
		return yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{seq}})
	case FormatTOML:
		if things == nil {
			things = []string{}
		}
		body, err := toml.Marshal(tomlSource{Things: &things})
		if err != nil {
			return nil, err
		}
		return append([]byte("# "+exportHeader+"\n"), body...), nil
	default:
		return nil, fmt.Errorf("format %q cannot be encoded in memory", f)
	}
}

// WriteFile writes things to a new file at path, picking the format from its
// extension. An existing file is never touched.
func WriteFile(ctx context.Context, path string, things []string) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if f == FormatSQLite {
		store, err := db.Open(ctx, path)
		if err != nil {
			return err
		}
		if err := store.Append(ctx, things...); err != nil {
			_ = store.Close()
			return err
		}
		return store.Close()
	}
	data, err := Encode(things, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
