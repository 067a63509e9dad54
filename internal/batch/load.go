package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a batch document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the decoder from the file extension. Unknown
// extensions, including the historical ".conf", are read as TOML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// Load reads and decodes the batch document at path.
func Load(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	format := FormatForPath(path)
	tree, err := Decode(data, format)
	if err != nil {
		if format == FormatTOML && !strings.EqualFold(filepath.Ext(path), ".toml") {
			return nil, fmt.Errorf("parse batch file %s (read as TOML; libconfig syntax is not supported, convert it to TOML, YAML, or JSON): %w", path, err)
		}
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	return tree, nil
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (Tree, error) {
	tree := Tree{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, err
		}
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			tree[k] = v
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported batch format %q", format)
	}
	return tree, nil
}
