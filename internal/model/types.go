package model

import (
	"github.com/structforge/winmdgen/internal/metadata"
)

// TypeKind categorizes a resolved semantic type.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindBool
	KindChar // UTF-16 code unit
	KindI8
	KindU8
	KindI16
	KindU16
	KindI32
	KindU32
	KindI64
	KindU64
	KindF32
	KindF64
	KindISize
	KindUSize
	KindString
	KindGuid
	KindObject
	KindStruct
	KindEnum
	KindInterface
	KindClass
	KindDelegate
	KindGenericParam
)

// Type is the semantic description of a field's type as produced by the
// resolver: a kind plus pointer depth, optional fixed-array length, and a
// back-reference to the defining metadata record for user-defined kinds.
type Type struct {
	Kind      TypeKind
	Name      string // emitted identifier for user-defined kinds and generic params
	Namespace string
	WinRT     bool // runtime-class provenance for Class/Interface/Delegate kinds
	Pointers  int
	ArrayLen  int // fixed-size array length, 0 when not an array
	Def       *metadata.TypeDef
}

// IsBlittable reports whether values of this type can be duplicated by raw
// copy with no ownership or indirection concerns. Pointer-typed fields are
// raw addresses and always blittable. The check is kind-level only: a
// struct kind answers true regardless of its own fields, so callers needing
// the transitive verdict use Struct.Blittable, which the builder computes by
// recursing through referenced definitions.
func (t Type) IsBlittable() bool {
	if t.Pointers > 0 {
		return true
	}
	switch t.Kind {
	case KindString, KindObject, KindInterface, KindClass, KindDelegate, KindGenericParam:
		return false
	}
	return true
}

// Dependency returns the metadata definition this type references, or nil
// for primitives and generic parameters.
func (t Type) Dependency() *metadata.TypeDef {
	return t.Def
}

// IsPrimitive reports whether the type is one of the fixed-size scalar kinds.
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case KindBool, KindChar, KindI8, KindU8, KindI16, KindU16,
		KindI32, KindU32, KindI64, KindU64, KindF32, KindF64,
		KindISize, KindUSize:
		return true
	}
	return false
}
