// Package metadata exposes platform type-definition records (fields,
// attributes, layout flags, nested-type membership) to the model builder.
// Records are read-only after registration.
package metadata

import (
	"sort"
)

// Well-known attribute names consulted during model construction.
const (
	AttrGuid          = "GuidAttribute"
	AttrNativeTypedef = "NativeTypedefAttribute"
)

// DefKind is the category of a type definition.
type DefKind int

const (
	DefStruct DefKind = iota
	DefEnum
	DefInterface
	DefClass
	DefDelegate
)

// TypeRef is a field's declared type as recorded in metadata, before
// semantic resolution.
type TypeRef struct {
	Name         string
	Namespace    string
	Pointers     int
	ArrayLen     int
	GenericParam bool
}

// Constant is a literal field's value paired with its declared kind.
type Constant struct {
	Kind  string
	Value any
}

// FieldDef is one field record of a type definition.
type FieldDef struct {
	Name     string
	Literal  bool
	Constant *Constant
	Type     TypeRef
}

// Attribute is a custom attribute record. Value carries the attribute's
// blob in decoded form; for identity attributes it is the textual GUID.
type Attribute struct {
	Name  string
	Value string
}

// TypeDef is one type definition record.
type TypeDef struct {
	Namespace  string
	Name       string
	Kind       DefKind
	WinRT      bool
	Explicit   bool
	Fields     []FieldDef
	Attributes []Attribute
	Nested     []*TypeDef
}

// QualifiedName returns the namespace-qualified name of the definition.
func (d *TypeDef) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// HasAttribute reports whether a marker attribute is present.
func (d *TypeDef) HasAttribute(name string) bool {
	for _, a := range d.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Attribute returns the named attribute record, if present.
func (d *TypeDef) Attribute(name string) (Attribute, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// IdentityGuid returns the raw identity GUID string, if the definition
// carries one.
func (d *TypeDef) IdentityGuid() (string, bool) {
	a, ok := d.Attribute(AttrGuid)
	if !ok {
		return "", false
	}
	return a.Value, true
}

// ExplicitLayout reports whether the definition's fields share storage.
func (d *TypeDef) ExplicitLayout() bool { return d.Explicit }

// NestedDefs returns anonymous member definitions in declaration order.
func (d *TypeDef) NestedDefs() []*TypeDef { return d.Nested }

// Reader is the registry of top-level type definitions available to the
// resolver. Nested definitions are reachable only through their enclosing
// definition and are never registered directly.
type Reader struct {
	defs map[string]*TypeDef
}

func NewReader() *Reader {
	return &Reader{defs: make(map[string]*TypeDef)}
}

// Add registers a top-level definition, replacing any previous record with
// the same qualified name.
func (r *Reader) Add(def *TypeDef) {
	r.defs[def.QualifiedName()] = def
}

// Resolve looks up a definition by namespace and name. The empty namespace
// falls back to an unqualified lookup.
func (r *Reader) Resolve(namespace, name string) (*TypeDef, bool) {
	key := name
	if namespace != "" {
		key = namespace + "." + name
	}
	def, ok := r.defs[key]
	return def, ok
}

// TypeDefs returns all registered definitions sorted by qualified name.
func (r *Reader) TypeDefs() []*TypeDef {
	keys := make([]string, 0, len(r.defs))
	for k := range r.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*TypeDef, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.defs[k])
	}
	return out
}
