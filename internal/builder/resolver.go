package builder

import (
	"fmt"

	"github.com/structforge/winmdgen/internal/metadata"
	"github.com/structforge/winmdgen/internal/model"
)

// Resolver maps declared type references to semantic types. Nested anonymous
// members of the enclosing definition take precedence over registry lookups
// so that their synthetic names flow into the enclosing field list.
type Resolver struct {
	reader *metadata.Reader
}

func NewResolver(reader *metadata.Reader) *Resolver {
	return &Resolver{reader: reader}
}

var primitiveKinds = map[string]model.TypeKind{
	"void":    model.KindVoid,
	"bool":    model.KindBool,
	"char":    model.KindChar,
	"int8":    model.KindI8,
	"uint8":   model.KindU8,
	"int16":   model.KindI16,
	"uint16":  model.KindU16,
	"int32":   model.KindI32,
	"uint32":  model.KindU32,
	"int64":   model.KindI64,
	"uint64":  model.KindU64,
	"float32": model.KindF32,
	"float64": model.KindF64,
	"isize":   model.KindISize,
	"usize":   model.KindUSize,
	"string":  model.KindString,
	"guid":    model.KindGuid,
	"object":  model.KindObject,
}

// Resolve produces the semantic type for a declared reference. Well-formed
// metadata always resolves; an unresolved reference is a precondition
// violation surfaced as an error.
func (r *Resolver) Resolve(ref metadata.TypeRef, namespace string, nested *model.NestedModels) (model.Type, error) {
	if ref.GenericParam {
		return model.Type{
			Kind:     model.KindGenericParam,
			Name:     ref.Name,
			Pointers: ref.Pointers,
			ArrayLen: ref.ArrayLen,
		}, nil
	}

	if ref.Namespace == "" {
		if kind, ok := primitiveKinds[ref.Name]; ok {
			return model.Type{Kind: kind, Pointers: ref.Pointers, ArrayLen: ref.ArrayLen}, nil
		}
		if nested != nil {
			if child, ok := nested.Get(ref.Name); ok {
				return model.Type{
					Kind:      model.KindStruct,
					Name:      child.Name.Name,
					Namespace: child.Name.Namespace,
					Pointers:  ref.Pointers,
					ArrayLen:  ref.ArrayLen,
					Def:       child.Def,
				}, nil
			}
		}
	}

	defNamespace := ref.Namespace
	if defNamespace == "" {
		defNamespace = namespace
	}

	def, ok := r.reader.Resolve(defNamespace, ref.Name)
	if !ok {
		return model.Type{}, fmt.Errorf("unresolved type reference %s.%s", defNamespace, ref.Name)
	}

	var kind model.TypeKind
	switch def.Kind {
	case metadata.DefStruct:
		kind = model.KindStruct
	case metadata.DefEnum:
		kind = model.KindEnum
	case metadata.DefInterface:
		kind = model.KindInterface
	case metadata.DefClass:
		kind = model.KindClass
	case metadata.DefDelegate:
		kind = model.KindDelegate
	}

	return model.Type{
		Kind:      kind,
		Name:      def.Name,
		Namespace: def.Namespace,
		WinRT:     def.WinRT,
		Pointers:  ref.Pointers,
		ArrayLen:  ref.ArrayLen,
		Def:       def,
	}, nil
}
