// Package manifest applies declarative subtype bindings to a container.
//
// A manifest names Types by their registry name:
//
//	bindings:
//	  - type: Kitchen
//	    to: Restaurant
//	eager: [Chef]
//
// The same document in TOML:
//
//	eager = ["Chef"]
//
//	[[bindings]]
//	type = "Kitchen"
//	to = "Restaurant"
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/chefling/framework/container"
)

// Format is the encoding of a manifest document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Binding maps the Type named Type onto its subtype named To.
type Binding struct {
	Type string `yaml:"type" toml:"type"`
	To   string `yaml:"to" toml:"to"`
}

// Manifest is a list of subtype bindings plus the Types to resolve eagerly
// once the bindings are in place.
type Manifest struct {
	Bindings []Binding `yaml:"bindings" toml:"bindings"`
	Eager    []string  `yaml:"eager" toml:"eager"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("manifest %s: unsupported extension", path)
	}
}

// Parse decodes and validates a manifest document.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("toml unmarshal: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads the manifest at path, choosing the format from its extension.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate reports every binding or eager entry with an empty name.
func (m *Manifest) Validate() error {
	var errs []error
	for i, b := range m.Bindings {
		if b.Type == "" || b.To == "" {
			errs = append(errs, fmt.Errorf("binding %d: type and to are required", i))
		}
	}
	for i, name := range m.Eager {
		if name == "" {
			errs = append(errs, fmt.Errorf("eager %d: name is required", i))
		}
	}
	return errors.Join(errs...)
}

// Apply looks every name up in reg, maps the bindings in order and then
// resolves the eager Types. It stops at the first failure; bindings applied
// before it stay in place.
func (m *Manifest) Apply(c *container.Container, reg *container.TypeRegistry) error {
	for i, b := range m.Bindings {
		typ, err := lookup(reg, b.Type)
		if err != nil {
			return fmt.Errorf("binding %d: %w", i, err)
		}
		sub, err := lookup(reg, b.To)
		if err != nil {
			return fmt.Errorf("binding %d: %w", i, err)
		}
		if err := c.MapType(typ, sub); err != nil {
			return fmt.Errorf("binding %d (%s → %s): %w", i, b.Type, b.To, err)
		}
	}

	for _, name := range m.Eager {
		typ, err := lookup(reg, name)
		if err != nil {
			return fmt.Errorf("eager: %w", err)
		}
		if _, err := c.Get(typ); err != nil {
			return fmt.Errorf("eager %s: %w", name, err)
		}
	}
	return nil
}

func lookup(reg *container.TypeRegistry, name string) (*container.Type, error) {
	t, ok := reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", name)
	}
	return t, nil
}
