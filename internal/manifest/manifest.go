// Package manifest loads an inventory from a YAML description: slot types,
// item specifications, the item tree with its slots and installs, and an
// ordered list of install, remove and move events to replay against it.
package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// Demo is a sample manifest: a household inventory with a laptop, a USB
// hub, modems built from a spec, and a few install events.
//
//go:embed demo.yaml
var Demo []byte

// Manifest errors.
var (
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrInvalidEvent    = errors.New("invalid event")
)

// Manifest is the YAML file structure.
type Manifest struct {
	SlotTypes []string            `yaml:"slot_types"`
	Specs     map[string]SpecYAML `yaml:"specs,omitempty"`
	Items     []ItemYAML          `yaml:"items"`
	Events    []EventYAML         `yaml:"events,omitempty"`
}

// SpecYAML describes an item specification.
type SpecYAML struct {
	Name       string         `yaml:"name"`
	Format     string         `yaml:"format,omitempty"`
	FitsInto   string         `yaml:"fits_into,omitempty"`
	Attributes AttrsYAML      `yaml:"attributes,omitempty"`
	Slots      []SlotSpecYAML `yaml:"slots,omitempty"`
}

// SlotSpecYAML declares one slot of a spec.
type SlotSpecYAML struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ItemYAML describes an item and everything below it. An item is built in
// one of three ways: from scratch (name), from a spec (spec), or as a copy
// of an earlier item (duplicate, referencing its key).
type ItemYAML struct {
	Key        string     `yaml:"key,omitempty"`
	Name       string     `yaml:"name,omitempty"`
	Spec       string     `yaml:"spec,omitempty"`
	Duplicate  string     `yaml:"duplicate,omitempty"`
	Format     string     `yaml:"format,omitempty"`
	FitsInto   string     `yaml:"fits_into,omitempty"`
	Attributes AttrsYAML  `yaml:"attributes,omitempty"`
	Contents   []ItemYAML `yaml:"contents,omitempty"`
	Slots      []SlotYAML `yaml:"slots,omitempty"`
}

// SlotYAML declares a slot on an item, optionally with an installed item.
// Slots already created by a spec or duplicate are matched by name and
// only their installed item is applied.
type SlotYAML struct {
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type,omitempty"`
	Date      string    `yaml:"date,omitempty"`
	Installed *ItemYAML `yaml:"installed,omitempty"`
}

// EventYAML is one placement operation. Exactly one of Install, Remove and
// Move names the item key it applies to.
type EventYAML struct {
	Install string `yaml:"install,omitempty"`
	Remove  string `yaml:"remove,omitempty"`
	Move    string `yaml:"move,omitempty"`
	Into    string `yaml:"into,omitempty"`
	Slot    string `yaml:"slot,omitempty"`
	Date    string `yaml:"date,omitempty"`
}

// AttrsYAML decodes a YAML mapping into Attributes, keeping document order.
type AttrsYAML struct {
	types.Attributes
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *AttrsYAML) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: attributes must be a mapping (line %d)", ErrInvalidManifest, value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		var v any
		if err := valNode.Decode(&v); err != nil {
			return fmt.Errorf("attribute %q: %w", keyNode.Value, err)
		}
		if err := a.Set(keyNode.Value, types.ValueOf(v)); err != nil {
			return fmt.Errorf("attribute %q (line %d): %w", keyNode.Value, keyNode.Line, err)
		}
	}
	return nil
}

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &m, nil
}

// ParseBytes decodes a manifest held in memory.
func ParseBytes(data []byte) (*Manifest, error) {
	return Parse(bytes.NewReader(data))
}

// LoadFile reads and decodes the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks each event names exactly one operation.
func (e EventYAML) Validate() error {
	n := 0
	for _, s := range []string{e.Install, e.Remove, e.Move} {
		if s != "" {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%w: exactly one of install, remove, move is required", ErrInvalidEvent)
	}
	if e.Install != "" && (e.Into == "" || e.Slot == "") {
		return fmt.Errorf("%w: install %q needs into and slot", ErrInvalidEvent, e.Install)
	}
	if e.Install == "" && e.Slot != "" {
		return fmt.Errorf("%w: slot is only valid for install", ErrInvalidEvent)
	}
	return nil
}
