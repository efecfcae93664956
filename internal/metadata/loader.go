package metadata

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is one YAML metadata document: a namespace plus the type
// definitions it declares. Documents are the fixture format that drives the
// generator; they describe already-decoded records, not the binary metadata
// container itself.
type Document struct {
	Namespace string    `yaml:"namespace"`
	Types     []TypeDoc `yaml:"types"`
}

// TypeDoc describes one type definition.
type TypeDoc struct {
	Name    string     `yaml:"name"`
	Kind    string     `yaml:"kind,omitempty"`   // struct (default), enum, interface, class, delegate
	WinRT   bool       `yaml:"winrt,omitempty"`
	Layout  string     `yaml:"layout,omitempty"` // sequential (default) or explicit
	Typedef bool       `yaml:"typedef,omitempty"`
	Guid    string     `yaml:"guid,omitempty"`
	Fields  []FieldDoc `yaml:"fields,omitempty"`
	Nested  []TypeDoc  `yaml:"nested,omitempty"`
}

// FieldDoc describes one field record.
type FieldDoc struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Namespace string `yaml:"namespace,omitempty"`
	Pointers  int    `yaml:"pointers,omitempty"`
	Array     int    `yaml:"array,omitempty"`
	Generic   bool   `yaml:"generic,omitempty"`
	Literal   bool   `yaml:"literal,omitempty"`
	Value     any    `yaml:"value,omitempty"`
}

// LoadDocument reads and parses a metadata document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata document: %w", err)
	}
	return ParseDocument(data)
}

// ParseDocument parses a metadata document from raw YAML.
func ParseDocument(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal metadata document: %w", err)
	}
	if d.Namespace == "" {
		return nil, errors.New("metadata document missing namespace")
	}
	return &d, nil
}

// TypeDefs converts the document into type definition records.
func (d *Document) TypeDefs() ([]*TypeDef, error) {
	out := make([]*TypeDef, 0, len(d.Types))
	for _, t := range d.Types {
		def, err := buildDef(t, d.Namespace)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func buildDef(t TypeDoc, namespace string) (*TypeDef, error) {
	if t.Name == "" {
		return nil, fmt.Errorf("namespace %s: type with empty name", namespace)
	}

	kind, err := parseDefKind(t.Kind)
	if err != nil {
		return nil, fmt.Errorf("type %s.%s: %w", namespace, t.Name, err)
	}

	def := &TypeDef{
		Namespace: namespace,
		Name:      t.Name,
		Kind:      kind,
		WinRT:     t.WinRT,
	}

	switch t.Layout {
	case "", "sequential":
	case "explicit":
		def.Explicit = true
	default:
		return nil, fmt.Errorf("type %s.%s: unknown layout %q", namespace, t.Name, t.Layout)
	}

	if t.Typedef {
		def.Attributes = append(def.Attributes, Attribute{Name: AttrNativeTypedef})
	}
	if t.Guid != "" {
		def.Attributes = append(def.Attributes, Attribute{Name: AttrGuid, Value: t.Guid})
	}

	for _, f := range t.Fields {
		fd, err := buildField(f)
		if err != nil {
			return nil, fmt.Errorf("type %s.%s: %w", namespace, t.Name, err)
		}
		def.Fields = append(def.Fields, fd)
	}

	for _, n := range t.Nested {
		child, err := buildDef(n, namespace)
		if err != nil {
			return nil, err
		}
		def.Nested = append(def.Nested, child)
	}

	return def, nil
}

func buildField(f FieldDoc) (FieldDef, error) {
	if f.Name == "" {
		return FieldDef{}, errors.New("field with empty name")
	}

	fd := FieldDef{
		Name:    f.Name,
		Literal: f.Literal,
		Type: TypeRef{
			Name:         f.Type,
			Namespace:    f.Namespace,
			Pointers:     f.Pointers,
			ArrayLen:     f.Array,
			GenericParam: f.Generic,
		},
	}

	if f.Literal {
		if f.Value == nil {
			return FieldDef{}, fmt.Errorf("literal field %s has no value", f.Name)
		}
		fd.Constant = &Constant{Kind: f.Type, Value: f.Value}
	} else if f.Type == "" {
		return FieldDef{}, fmt.Errorf("field %s has no type", f.Name)
	}

	return fd, nil
}

func parseDefKind(s string) (DefKind, error) {
	switch s {
	case "", "struct":
		return DefStruct, nil
	case "enum":
		return DefEnum, nil
	case "interface":
		return DefInterface, nil
	case "class":
		return DefClass, nil
	case "delegate":
		return DefDelegate, nil
	}
	return DefStruct, fmt.Errorf("unknown type kind %q", s)
}
