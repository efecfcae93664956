// Package builder constructs structural models from type definition
// records: field classification, identifier deduplication, nested-type
// resolution, layout normalization, and identity extraction.
package builder

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/structforge/winmdgen/internal/metadata"
	"github.com/structforge/winmdgen/internal/model"
)

// Builder turns type definitions into immutable structural models.
type Builder struct {
	reader   *metadata.Reader
	resolver *Resolver
}

func New(reader *metadata.Reader) *Builder {
	return &Builder{
		reader:   reader,
		resolver: NewResolver(reader),
	}
}

// Build is the sole construction entry point. The returned model owns its
// nested children and never changes after construction.
func (b *Builder) Build(def *metadata.TypeDef) (*model.Struct, error) {
	return b.build(def, model.TypeName{Namespace: def.Namespace, Name: def.Name})
}

func (b *Builder) build(def *metadata.TypeDef, name model.TypeName) (*model.Struct, error) {
	// Nested members resolve first so their synthetic names are available
	// when the enclosing field list references them.
	var nested model.NestedModels
	for i, nd := range def.NestedDefs() {
		if !strings.HasPrefix(nd.Name, "_") {
			return nil, fmt.Errorf("nested type of %s: name %q does not match the anonymous pattern", def.QualifiedName(), nd.Name)
		}
		synthetic := fmt.Sprintf("%s_%d", name.Name, i)
		child, err := b.build(nd, model.TypeName{Namespace: name.Namespace, Name: synthetic})
		if err != nil {
			return nil, err
		}
		nested.Insert(nd.Name, child)
	}

	var (
		fields    []model.Field
		constants []model.Constant
		assigned  = make(map[string]bool)
	)

	for _, f := range def.Fields {
		if f.Literal {
			if f.Constant != nil {
				constants = append(constants, model.Constant{
					Ident: exportIdent(f.Name),
					Value: *f.Constant,
				})
			}
			continue
		}

		t, err := b.resolver.Resolve(f.Type, name.Namespace, &nested)
		if err != nil {
			return nil, fmt.Errorf("type %s, field %s: %w", def.QualifiedName(), f.Name, err)
		}

		// Metadata records one indirection level too many on delegate
		// fields; compensate here so the emitted layout matches the
		// native struct.
		if t.Kind == model.KindDelegate {
			t.Pointers = 0
		}

		// A few structs have fields whose transliterated names collide,
		// so suffix until the identifier is unique within this model.
		ident := exportIdent(f.Name)
		if assigned[ident] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s%d", ident, n)
				if !assigned[candidate] {
					ident = candidate
					break
				}
			}
		}
		assigned[ident] = true

		fields = append(fields, model.Field{Ident: ident, MetadataName: f.Name, Type: t})
	}

	var guid model.TypeGuid
	if raw, ok := def.IdentityGuid(); ok {
		g, err := model.ParseGuid(raw)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", def.QualifiedName(), err)
		}
		guid = g
	}

	var signature string
	if def.WinRT {
		signature = structSignature(name, fields)
	}

	// The C ABI assumes an aggregate occupies at least one byte, so a
	// definition with no storage fields and no identity gets a single
	// reserved byte.
	if len(fields) == 0 && !guid.Present() {
		fields = append(fields, model.Field{
			Ident:        "Reserved",
			MetadataName: "reserved",
			Type:         model.Type{Kind: model.KindU8},
		})
	}

	var layout model.Layout
	if def.ExplicitLayout() {
		align := 1
		for _, f := range fields {
			fs, fa, err := b.layoutOf(f.Type)
			if err != nil {
				return nil, fmt.Errorf("type %s, field %s: %w", def.QualifiedName(), f.MetadataName, err)
			}
			if fa > align {
				align = fa
			}
			if fs > layout.Size {
				layout.Size = fs
			}
		}
		if layout.Size == 0 {
			layout.Size = 1
		}
		layout.Align = align
		layout.Size = roundUp(layout.Size, align)
	}

	blittable := true
	for _, f := range fields {
		ok, err := b.blittableType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", def.QualifiedName(), err)
		}
		if !ok {
			blittable = false
			break
		}
	}

	s := &model.Struct{
		Name:      name,
		Fields:    fields,
		Constants: constants,
		Signature: signature,
		IsTypedef: def.HasAttribute(metadata.AttrNativeTypedef),
		Guid:      guid,
		Nested:    nested,
		Layout:    layout,
		Blittable: blittable,
		Def:       def,
	}
	s.Shape = classifyShape(s)

	return s, nil
}

// classifyShape computes the emission shape once per model so emission
// sites never re-test layout and attribute flags.
func classifyShape(s *model.Struct) model.EmissionShape {
	switch {
	case s.Guid.Present():
		return model.ShapeConstantOnly
	case s.Def.ExplicitLayout():
		return model.ShapeUnion
	}
	for _, n := range s.Nested.Values() {
		if n.HasExplicitClosure() {
			return model.ShapePlainNoDerive
		}
	}
	return model.ShapeFull
}

// Dependencies flattens the type definitions referenced by the model's own
// and nested fields. Duplicates are preserved and order is not significant;
// callers sort and dedupe for scheduling.
func Dependencies(s *model.Struct) []*metadata.TypeDef {
	var out []*metadata.TypeDef
	for _, f := range s.Fields {
		if d := f.Type.Dependency(); d != nil {
			out = append(out, d)
		}
	}
	for _, n := range s.Nested.Values() {
		out = append(out, Dependencies(n)...)
	}
	return out
}

// exportIdent transliterates a metadata field name into an exported Go
// identifier. Characters outside the identifier alphabet become
// underscores; leading underscores are dropped.
func exportIdent(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	s := strings.TrimLeft(b.String(), "_")
	if s == "" {
		return "Field"
	}
	runes := []rune(s)
	if unicode.IsDigit(runes[0]) {
		return "F" + s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
