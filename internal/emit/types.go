package emit

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/structforge/winmdgen/internal/metadata"
	"github.com/structforge/winmdgen/internal/model"
)

// goType renders a semantic type's in-memory Go representation. Fixed-size
// arrays wrap pointer depth, which wraps the element kind.
func (e *Emitter) goType(t model.Type) *jen.Statement {
	if t.ArrayLen > 0 {
		inner := t
		inner.ArrayLen = 0
		return jen.Index(jen.Lit(t.ArrayLen)).Add(e.goType(inner))
	}
	if t.Pointers > 0 {
		if t.Kind == model.KindVoid && t.Pointers == 1 {
			return jen.Qual("unsafe", "Pointer")
		}
		inner := t
		inner.Pointers--
		return jen.Op("*").Add(e.goType(inner))
	}

	switch t.Kind {
	case model.KindBool:
		return jen.Bool()
	case model.KindChar:
		return jen.Uint16()
	case model.KindI8:
		return jen.Int8()
	case model.KindU8:
		return jen.Uint8()
	case model.KindI16:
		return jen.Int16()
	case model.KindU16:
		return jen.Uint16()
	case model.KindI32:
		return jen.Int32()
	case model.KindU32:
		return jen.Uint32()
	case model.KindI64:
		return jen.Int64()
	case model.KindU64:
		return jen.Uint64()
	case model.KindF32:
		return jen.Float32()
	case model.KindF64:
		return jen.Float64()
	case model.KindISize:
		return jen.Int()
	case model.KindUSize:
		return jen.Uintptr()
	case model.KindString:
		return jen.Qual(e.abiPath, "HString")
	case model.KindGuid:
		return jen.Qual(e.abiPath, "GUID")
	case model.KindObject, model.KindInterface, model.KindClass:
		return jen.Qual(e.abiPath, "IUnknown")
	case model.KindStruct, model.KindEnum, model.KindDelegate, model.KindGenericParam:
		return jen.Id(t.Name)
	}
	// Bare void has no storage representation.
	return jen.Struct()
}

// storageType renders a union's backing storage: an integer unit of the
// union's alignment, repeated to cover its size.
func storageType(l model.Layout) *jen.Statement {
	var unit *jen.Statement
	switch l.Align {
	case 8:
		unit = jen.Uint64()
	case 4:
		unit = jen.Uint32()
	case 2:
		unit = jen.Uint16()
	default:
		unit = jen.Uint8()
	}
	if l.Align > 0 {
		if n := l.Size / l.Align; n > 1 {
			return jen.Index(jen.Lit(n)).Add(unit)
		}
	}
	return unit
}

// abiType renders the foreign-call representation: blittable types keep
// their in-memory form, everything else degrades to a raw address.
func (e *Emitter) abiType(t model.Type) *jen.Statement {
	if t.IsBlittable() {
		return e.goType(t)
	}
	if t.ArrayLen > 0 {
		inner := t
		inner.ArrayLen = 0
		return jen.Index(jen.Lit(t.ArrayLen)).Add(e.abiType(inner))
	}
	return jen.Uintptr()
}

// defaultValue renders a field's value in the default-construction
// operation.
func (e *Emitter) defaultValue(t model.Type) *jen.Statement {
	if t.ArrayLen > 0 {
		return e.goType(t).Values()
	}
	if t.Pointers > 0 {
		return jen.Nil()
	}

	switch t.Kind {
	case model.KindBool:
		return jen.False()
	case model.KindStruct, model.KindGuid:
		return e.goType(t).Values()
	case model.KindString, model.KindObject, model.KindEnum, model.KindDelegate,
		model.KindInterface, model.KindClass:
		return e.goType(t).Call(jen.Lit(0))
	case model.KindGenericParam:
		return jen.Op("*").Add(jen.Id("new").Call(jen.Id(t.Name)))
	}
	return jen.Lit(0)
}

var constKindNames = map[string]string{
	"char":    "uint16",
	"int8":    "int8",
	"uint8":   "uint8",
	"int16":   "int16",
	"uint16":  "uint16",
	"int32":   "int32",
	"uint32":  "uint32",
	"int64":   "int64",
	"uint64":  "uint64",
	"float32": "float32",
	"float64": "float64",
	"isize":   "int",
	"usize":   "uintptr",
}

// constValue renders a literal field's value wrapped in its declared kind.
func (e *Emitter) constValue(v metadata.Constant) *jen.Statement {
	switch v.Kind {
	case "string":
		return jen.Lit(fmt.Sprint(v.Value))
	case "bool":
		b, _ := v.Value.(bool)
		return jen.Lit(b)
	}
	if goName, ok := constKindNames[v.Kind]; ok {
		return jen.Id(goName).Call(litNumber(v.Value))
	}
	return litNumber(v.Value)
}

func litNumber(v any) *jen.Statement {
	switch n := v.(type) {
	case int:
		return jen.Lit(n)
	case int64:
		return jen.Lit(n)
	case uint64:
		return jen.Lit(n)
	case float64:
		return jen.Lit(n)
	case string:
		// Raw numeric token, e.g. a hex literal carried verbatim.
		return jen.Id(n)
	default:
		return jen.Lit(fmt.Sprint(v))
	}
}
