// Package catalog loads the portfolio catalog. The built-in sample catalog
// is compiled into the binary; operators may point at a YAML or TOML file
// with the same shape instead.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ganot/atelier/internal/domain/project"
)

//go:embed sample.yaml
var sampleYAML []byte

// Format identifies a catalog file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for catalog files with an unrecognized
// extension.
var ErrUnknownFormat = errors.New("unknown catalog format")

type document struct {
	Projects []project.Project `yaml:"projects" toml:"projects"`
}

// Default returns the compiled-in sample catalog.
func Default() ([]project.Project, error) {
	return Decode(sampleYAML, FormatYAML)
}

// Load reads a catalog file, choosing the decoder from its extension. An
// empty path selects the compiled-in catalog.
func Load(path string) ([]project.Project, error) {
	if path == "" {
		return Default()
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Decode(data, format)
}

// FormatOf maps a file extension to a Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Decode parses and validates a catalog document.
func Decode(data []byte, format Format) ([]project.Project, error) {
	var doc document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse catalog yaml: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("parse catalog toml: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse catalog toml: unknown key %s", undecoded[0])
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err := project.ValidateCatalog(doc.Projects); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return doc.Projects, nil
}
