package builder

import (
	"fmt"

	"github.com/structforge/winmdgen/internal/metadata"
	"github.com/structforge/winmdgen/internal/model"
)

// Generated bindings target 64-bit platforms; addresses and size types
// occupy one machine word.
const wordSize = 8

// layoutOf computes the byte size and alignment of a resolved type.
func (b *Builder) layoutOf(t model.Type) (int, int, error) {
	if t.Pointers > 0 {
		return wordSize, wordSize, nil
	}
	if t.ArrayLen > 0 {
		inner := t
		inner.ArrayLen = 0
		s, a, err := b.layoutOf(inner)
		if err != nil {
			return 0, 0, err
		}
		return s * t.ArrayLen, a, nil
	}

	switch t.Kind {
	case model.KindBool, model.KindI8, model.KindU8:
		return 1, 1, nil
	case model.KindChar, model.KindI16, model.KindU16:
		return 2, 2, nil
	case model.KindI32, model.KindU32, model.KindF32, model.KindEnum:
		return 4, 4, nil
	case model.KindI64, model.KindU64, model.KindF64:
		return 8, 8, nil
	case model.KindISize, model.KindUSize, model.KindString,
		model.KindObject, model.KindInterface, model.KindClass, model.KindDelegate:
		return wordSize, wordSize, nil
	case model.KindGuid:
		return 16, 4, nil
	case model.KindStruct:
		if t.Def == nil {
			return 0, 0, fmt.Errorf("no definition to size %s", t.Name)
		}
		return b.defLayout(t.Def)
	}
	return 0, 0, fmt.Errorf("type %s has no storage size", t.Name)
}

// defLayout computes a definition's aggregate size and alignment: the
// maximal member footprint for explicit layouts, ordered members with
// natural padding otherwise. An empty definition occupies one byte.
func (b *Builder) defLayout(def *metadata.TypeDef) (int, int, error) {
	size, align := 0, 1
	for _, f := range def.Fields {
		if f.Literal {
			continue
		}
		fs, fa, err := b.fieldLayout(f.Type, def)
		if err != nil {
			return 0, 0, fmt.Errorf("type %s, field %s: %w", def.QualifiedName(), f.Name, err)
		}
		if fa > align {
			align = fa
		}
		if def.ExplicitLayout() {
			if fs > size {
				size = fs
			}
		} else {
			size = roundUp(size, fa) + fs
		}
	}
	if size == 0 {
		size = 1
	}
	return roundUp(size, align), align, nil
}

// fieldLayout sizes a declared reference, resolving anonymous members
// against the enclosing definition.
func (b *Builder) fieldLayout(ref metadata.TypeRef, enclosing *metadata.TypeDef) (int, int, error) {
	if ref.Pointers > 0 {
		return wordSize, wordSize, nil
	}
	if ref.Namespace == "" && !ref.GenericParam {
		for _, nd := range enclosing.NestedDefs() {
			if nd.Name == ref.Name {
				s, a, err := b.defLayout(nd)
				if err != nil {
					return 0, 0, err
				}
				if ref.ArrayLen > 0 {
					s *= ref.ArrayLen
				}
				return s, a, nil
			}
		}
	}
	t, err := b.resolver.Resolve(ref, enclosing.Namespace, nil)
	if err != nil {
		return 0, 0, err
	}
	return b.layoutOf(t)
}

// blittableType reports whether a resolved type can cross the foreign-call
// boundary by raw copy, recursing through struct definitions.
func (b *Builder) blittableType(t model.Type) (bool, error) {
	if t.Pointers > 0 {
		return true, nil
	}
	if t.Kind == model.KindStruct && t.Def != nil {
		return b.defBlittable(t.Def)
	}
	return t.IsBlittable(), nil
}

func (b *Builder) defBlittable(def *metadata.TypeDef) (bool, error) {
	for _, f := range def.Fields {
		if f.Literal {
			continue
		}
		ok, err := b.fieldBlittable(f.Type, def)
		if err != nil {
			return false, fmt.Errorf("type %s, field %s: %w", def.QualifiedName(), f.Name, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (b *Builder) fieldBlittable(ref metadata.TypeRef, enclosing *metadata.TypeDef) (bool, error) {
	if ref.Pointers > 0 {
		return true, nil
	}
	if ref.Namespace == "" && !ref.GenericParam {
		for _, nd := range enclosing.NestedDefs() {
			if nd.Name == ref.Name {
				return b.defBlittable(nd)
			}
		}
	}
	t, err := b.resolver.Resolve(ref, enclosing.Namespace, nil)
	if err != nil {
		return false, err
	}
	return b.blittableType(t)
}

func roundUp(n, align int) int {
	return (n + align - 1) / align * align
}
