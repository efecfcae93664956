package model

import (
	"sort"

	"github.com/structforge/winmdgen/internal/metadata"
)

// EmissionShape is the closed classification of what a built model compiles
// to. It is computed once at construction time and drives the emitter's
// dispatch; the flags it derives from are never re-tested at emission sites.
type EmissionShape int

const (
	// ShapeFull emits the aggregate, its foreign-call shadow, and all
	// derived structural operations.
	ShapeFull EmissionShape = iota

	// ShapeConstantOnly emits a single named identity constant.
	ShapeConstantOnly

	// ShapeUnion emits overlapping members with no derived operations.
	ShapeUnion

	// ShapePlainNoDerive emits the aggregate body only: a union occurs
	// somewhere in the nested closure, so generic structural behavior
	// cannot be derived safely.
	ShapePlainNoDerive
)

func (s EmissionShape) String() string {
	switch s {
	case ShapeFull:
		return "full"
	case ShapeConstantOnly:
		return "constant-only"
	case ShapeUnion:
		return "union"
	case ShapePlainNoDerive:
		return "plain-no-derive"
	}
	return "unknown"
}

// TypeName is the qualified identifier a model is emitted under. For nested
// models the name is synthetic and positional.
type TypeName struct {
	Namespace string
	Name      string
}

// Field pairs a unique emitted identifier with its resolved type. The
// original metadata name is retained for diagnostics only.
type Field struct {
	Ident        string
	MetadataName string
	Type         Type
}

// Constant pairs an emitted identifier with a literal field's value.
type Constant struct {
	Ident string
	Value metadata.Constant
}

// Layout is the byte footprint of an explicit-layout model: the largest
// member's size rounded up to the strictest member alignment. It sizes the
// shared backing storage of emitted unions.
type Layout struct {
	Size  int
	Align int
}

// Struct is the structural model built once per type definition. It is
// immutable after construction and owns its nested children outright.
// Layout is populated only for explicit-layout definitions; Blittable holds
// the recursive raw-copy verdict over all fields.
type Struct struct {
	Name      TypeName
	Fields    []Field
	Constants []Constant
	Signature string
	IsTypedef bool
	Guid      TypeGuid
	Nested    NestedModels
	Layout    Layout
	Blittable bool
	Shape     EmissionShape
	Def       *metadata.TypeDef
}

// HasExplicitClosure reports whether the model itself or any transitively
// nested model has explicit (overlapping) layout.
func (s *Struct) HasExplicitClosure() bool {
	if s.Def != nil && s.Def.ExplicitLayout() {
		return true
	}
	for _, n := range s.Nested.Values() {
		if n.HasExplicitClosure() {
			return true
		}
	}
	return false
}

// NestedModels maps original metadata names to child models, iterating in
// key-sorted order so repeated runs produce identical output.
type NestedModels struct {
	names  []string
	byName map[string]*Struct
}

// Insert records a child model under its original metadata name.
func (n *NestedModels) Insert(name string, child *Struct) {
	if n.byName == nil {
		n.byName = make(map[string]*Struct)
	}
	if _, ok := n.byName[name]; !ok {
		i := sort.SearchStrings(n.names, name)
		n.names = append(n.names, "")
		copy(n.names[i+1:], n.names[i:])
		n.names[i] = name
	}
	n.byName[name] = child
}

// Get looks up a child model by its original metadata name.
func (n *NestedModels) Get(name string) (*Struct, bool) {
	child, ok := n.byName[name]
	return child, ok
}

func (n *NestedModels) Len() int { return len(n.names) }

// Values returns the child models in key-sorted order.
func (n *NestedModels) Values() []*Struct {
	out := make([]*Struct, 0, len(n.names))
	for _, name := range n.names {
		out = append(out, n.byName[name])
	}
	return out
}
