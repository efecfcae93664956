// Package emit renders structural models into Go declarations. The
// emission shape was fixed at model construction; this package only
// dispatches on it and renders.
package emit

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/structforge/winmdgen/internal/model"
)

// DefaultSupportPath is the import path of the runtime support package
// referenced by generated declarations.
const DefaultSupportPath = "github.com/structforge/winmdgen/pkg/abi"

// Emitter renders models. It carries no mutable state; a single Emitter
// may serve any number of models.
type Emitter struct {
	abiPath string
}

// New returns an Emitter. An empty supportPath selects DefaultSupportPath.
func New(supportPath string) *Emitter {
	if supportPath == "" {
		supportPath = DefaultSupportPath
	}
	return &Emitter{abiPath: supportPath}
}

// File assembles the declarations of an ordered model sequence into one
// generated source file.
func (e *Emitter) File(pkgPath, pkgName string, models []*model.Struct) *jen.File {
	f := jen.NewFilePathName(pkgPath, pkgName)
	f.HeaderComment("Code generated by winmdgen. DO NOT EDIT.")
	for _, m := range models {
		for _, d := range e.Decls(m) {
			f.Add(d)
		}
	}
	return f
}

// Decls renders all declarations for one model, including its nested
// models. The dispatch is exhaustive over the emission shapes.
func (e *Emitter) Decls(s *model.Struct) []jen.Code {
	switch s.Shape {
	case model.ShapeConstantOnly:
		return e.guidConst(s)
	case model.ShapeUnion:
		return e.union(s)
	case model.ShapePlainNoDerive:
		return e.plain(s)
	default:
		return e.full(s)
	}
}

// guidConst emits the degenerate shape: a single named identity value.
// Fields, constants and nested models of the definition are deliberately
// not reflected in output.
func (e *Emitter) guidConst(s *model.Struct) []jen.Code {
	d1, d2, d3, d4 := s.Guid.Words()
	bytes := make([]jen.Code, len(d4))
	for i, b := range d4 {
		bytes[i] = hexLit(uint64(b), 2)
	}
	return []jen.Code{
		jen.Var().Id(s.Name.Name).Op("=").Qual(e.abiPath, "GUID").Values(jen.Dict{
			jen.Id("Data1"): hexLit(uint64(d1), 8),
			jen.Id("Data2"): hexLit(uint64(d2), 4),
			jen.Id("Data3"): hexLit(uint64(d3), 4),
			jen.Id("Data4"): jen.Index(jen.Lit(8)).Byte().Values(bytes...),
		}),
	}
}

// union emits overlapping members: a single backing field covering the
// largest member, with every member reached through a typed accessor. No
// structural operations are derived; the active member is the caller's
// knowledge alone.
func (e *Emitter) union(s *model.Struct) []jen.Code {
	name := s.Name.Name

	decls := []jen.Code{
		jen.Commentf("%s is a discriminant-free union; members share storage and the caller selects the active interpretation.", name),
		jen.Type().Id(name).Struct(
			jen.Id("storage").Add(storageType(s.Layout)).Comment("sized and aligned to the largest member"),
		),
	}

	for _, f := range s.Fields {
		t := e.goType(f.Type)
		decls = append(decls,
			jen.Func().Params(jen.Id("v").Op("*").Id(name)).Id(f.Ident).Params().Op("*").Add(e.goType(f.Type)).Block(
				jen.Return(jen.Parens(jen.Op("*").Add(t)).Call(jen.Qual("unsafe", "Pointer").Call(jen.Id("v")))),
			),
		)
	}

	for _, n := range s.Nested.Values() {
		decls = append(decls, e.Decls(n)...)
	}
	return decls
}

// plain emits the aggregate body and constants only: a union occurs in the
// nested closure, so no structural operations can be derived safely.
func (e *Emitter) plain(s *model.Struct) []jen.Code {
	decls := []jen.Code{
		jen.Type().Id(s.Name.Name).Struct(e.fieldDefs(s)...),
	}
	for _, c := range s.Constants {
		decls = append(decls, e.constDecl(s, c))
	}
	for _, n := range s.Nested.Values() {
		decls = append(decls, e.Decls(n)...)
	}
	return decls
}

// full emits the aggregate, its foreign-call shadow, and every derived
// structural operation.
func (e *Emitter) full(s *model.Struct) []jen.Code {
	name := s.Name.Name
	abiName := name + "Abi"

	decls := []jen.Code{
		jen.Type().Id(name).Struct(e.fieldDefs(s)...),
	}

	abiFields := make([]jen.Code, len(s.Fields))
	for i, f := range s.Fields {
		abiFields[i] = jen.Id(fmt.Sprintf("F%d", i)).Add(e.abiType(f.Type))
	}
	decls = append(decls,
		jen.Commentf("%s is the foreign-call shadow of %s.", abiName, name),
		jen.Type().Id(abiName).Struct(abiFields...),
	)

	for _, c := range s.Constants {
		decls = append(decls, e.constDecl(s, c))
	}

	decls = append(decls, e.constructor(s))
	decls = append(decls, e.equal(s))
	decls = append(decls, e.stringer(s))

	if s.Blittable {
		// Marker consumed by the foreign-call layer: values of this type
		// may be duplicated by raw copy.
		decls = append(decls, jen.Func().Params(jen.Id(name)).Id("Blittable").Params().Block())
	}

	if s.Signature != "" {
		decls = append(decls,
			jen.Func().Params(jen.Id(name)).Id("RuntimeSignature").Params().String().Block(
				jen.Return(jen.Lit(s.Signature)),
			),
		)
	}

	for _, n := range s.Nested.Values() {
		decls = append(decls, e.Decls(n)...)
	}
	return decls
}

// fieldDefs renders the aggregate body. Typedef models suppress field names
// at the surface and use positional identifiers instead.
func (e *Emitter) fieldDefs(s *model.Struct) []jen.Code {
	out := make([]jen.Code, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = jen.Id(fieldRef(s, i)).Add(e.goType(f.Type))
	}
	return out
}

// constructor emits the default-construction operation, building every
// field by its type's default rule.
func (e *Emitter) constructor(s *model.Struct) jen.Code {
	name := s.Name.Name
	var value *jen.Statement
	if s.IsTypedef {
		values := make([]jen.Code, len(s.Fields))
		for i, f := range s.Fields {
			values[i] = e.defaultValue(f.Type)
		}
		value = jen.Id(name).Values(values...)
	} else {
		dict := jen.Dict{}
		for _, f := range s.Fields {
			dict[jen.Id(f.Ident)] = e.defaultValue(f.Type)
		}
		value = jen.Id(name).Values(dict)
	}
	return jen.Func().Id("New" + name).Params().Id(name).Block(jen.Return(value))
}

// equal emits pairwise field comparison. Non-WinRT callback fields carry no
// structural identity and are compared as raw addresses instead.
func (e *Emitter) equal(s *model.Struct) jen.Code {
	name := s.Name.Name

	var expr *jen.Statement
	for i, f := range s.Fields {
		ref := fieldRef(s, i)
		var term *jen.Statement
		if f.Type.Kind == model.KindDelegate && !f.Type.WinRT {
			term = callbackAddr("v", ref).Op("==").Add(callbackAddr("o", ref))
		} else {
			term = jen.Id("v").Dot(ref).Op("==").Id("o").Dot(ref)
		}
		if expr == nil {
			expr = term
		} else {
			expr.Op("&&").Add(term)
		}
	}
	if expr == nil {
		expr = jen.True()
	}

	return jen.Func().Params(jen.Id("v").Id(name)).Id("Equal").Params(jen.Id("o").Id(name)).Bool().Block(
		jen.Return(expr),
	)
}

// stringer emits the formatting operation. Non-WinRT callback fields are
// not safely inspectable and are omitted outright; labels are the field
// identifiers, with positional access for typedef models.
func (e *Emitter) stringer(s *model.Struct) jen.Code {
	name := s.Name.Name

	format := name + "{"
	var args []jen.Code
	for i, f := range s.Fields {
		if f.Type.Kind == model.KindDelegate && !f.Type.WinRT {
			continue
		}
		if len(args) > 0 {
			format += ", "
		}
		format += f.Ident + ": %v"
		args = append(args, jen.Id("v").Dot(fieldRef(s, i)))
	}
	format += "}"

	var body *jen.Statement
	if len(args) == 0 {
		body = jen.Return(jen.Lit(format))
	} else {
		body = jen.Return(jen.Qual("fmt", "Sprintf").Call(append([]jen.Code{jen.Lit(format)}, args...)...))
	}

	return jen.Func().Params(jen.Id("v").Id(name)).Id("String").Params().String().Block(body)
}

func (e *Emitter) constDecl(s *model.Struct, c model.Constant) jen.Code {
	return jen.Const().Id(s.Name.Name + "_" + c.Ident).Op("=").Add(e.constValue(c.Value))
}

// fieldRef returns the emitted identifier for field access: positional for
// typedef models, named otherwise.
func fieldRef(s *model.Struct, i int) string {
	if s.IsTypedef {
		return fmt.Sprintf("F%d", i)
	}
	return s.Fields[i].Ident
}

// callbackAddr reinterprets a stored callback as its raw address.
func callbackAddr(recv, field string) *jen.Statement {
	return jen.Op("*").Parens(jen.Op("*").Uintptr()).Call(
		jen.Qual("unsafe", "Pointer").Call(jen.Op("&").Id(recv).Dot(field)),
	)
}

func hexLit(v uint64, width int) *jen.Statement {
	return jen.Id(fmt.Sprintf("0x%0*x", width, v))
}
