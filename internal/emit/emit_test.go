package emit

import (
	"bytes"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/structforge/winmdgen/internal/metadata"
	"github.com/structforge/winmdgen/internal/model"
)

func render(t *testing.T, s *model.Struct) string {
	t.Helper()
	f := jen.NewFile("winapi")
	for _, d := range New("").Decls(s) {
		f.Add(d)
	}
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}

func i32Field(ident string) model.Field {
	return model.Field{Ident: ident, MetadataName: ident, Type: model.Type{Kind: model.KindI32}}
}

func TestFullShape(t *testing.T) {
	s := &model.Struct{
		Name:      model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "POINT"},
		Fields:    []model.Field{i32Field("X"), i32Field("Y")},
		Blittable: true,
		Shape:     model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "type POINT struct {")
	require.Contains(t, out, "X int32")
	require.Contains(t, out, "type POINTAbi struct {")
	require.Contains(t, out, "F0 int32")
	require.Contains(t, out, "func NewPOINT() POINT {")
	require.Contains(t, out, "func (v POINT) Equal(o POINT) bool {")
	require.Contains(t, out, "v.X == o.X && v.Y == o.Y")
	require.Contains(t, out, "func (v POINT) String() string {")
	require.Contains(t, out, `"POINT{X: %v, Y: %v}"`)
	require.Contains(t, out, "func (POINT) Blittable()")
	require.NotContains(t, out, "RuntimeSignature")
}

func TestGuidShape(t *testing.T) {
	guid, err := model.ParseGuid("01234567-89ab-cdef-0123-456789abcdef")
	require.NoError(t, err)

	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Win32.UI.Shell", Name: "CLSID_FileOpenDialog"},
		// Declared fields on an identity-bearing type are not rendered.
		Fields: []model.Field{i32Field("X")},
		Guid:   guid,
		Shape:  model.ShapeConstantOnly,
	}
	out := render(t, s)

	require.Contains(t, out, "var CLSID_FileOpenDialog = abi.GUID{")
	require.Contains(t, out, "Data1: 0x01234567")
	require.Contains(t, out, "Data2: 0x89ab")
	require.Contains(t, out, "Data3: 0xcdef")
	require.Contains(t, out, "Data4: [8]byte{0x01,")
	require.NotContains(t, out, "type CLSID_FileOpenDialog")
	require.NotContains(t, out, "func")
}

func TestUnionShape(t *testing.T) {
	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "VALUE"},
		Fields: []model.Field{
			{Ident: "LVal", MetadataName: "lVal", Type: model.Type{Kind: model.KindI32}},
			{Ident: "FltVal", MetadataName: "fltVal", Type: model.Type{Kind: model.KindF32}},
		},
		Layout: model.Layout{Size: 4, Align: 4},
		Shape:  model.ShapeUnion,
	}
	out := render(t, s)

	require.Contains(t, out, "type VALUE struct {")
	require.Contains(t, out, "storage uint32")
	require.Contains(t, out, "func (v *VALUE) LVal() *int32 {")
	require.Contains(t, out, "return (*int32)(unsafe.Pointer(v))")
	require.Contains(t, out, "func (v *VALUE) FltVal() *float32 {")
	require.NotContains(t, out, "Equal")
	require.NotContains(t, out, "Blittable")
	require.NotContains(t, out, "VALUEAbi")
}

func TestUnionStorageCoversLargestMember(t *testing.T) {
	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "LARGE_VALUE"},
		Fields: []model.Field{
			{Ident: "Tag", MetadataName: "tag", Type: model.Type{Kind: model.KindU8}},
			{Ident: "U64", MetadataName: "u64", Type: model.Type{Kind: model.KindU64}},
		},
		Layout: model.Layout{Size: 8, Align: 8},
		Shape:  model.ShapeUnion,
	}
	out := render(t, s)

	require.Contains(t, out, "storage uint64")
	require.NotContains(t, out, "storage uint8")
	require.Contains(t, out, "func (v *LARGE_VALUE) Tag() *uint8 {")
	require.Contains(t, out, "return (*uint64)(unsafe.Pointer(v))")
}

func TestUnionStorageWiderThanAlignment(t *testing.T) {
	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "BLOB_VALUE"},
		Fields: []model.Field{
			{Ident: "Bytes", MetadataName: "bytes", Type: model.Type{Kind: model.KindU8, ArrayLen: 12}},
			{Ident: "U64", MetadataName: "u64", Type: model.Type{Kind: model.KindU64}},
		},
		Layout: model.Layout{Size: 16, Align: 8},
		Shape:  model.ShapeUnion,
	}
	out := render(t, s)

	require.Contains(t, out, "storage [2]uint64")
}

func TestPlainShapeDerivesNothing(t *testing.T) {
	s := &model.Struct{
		Name:   model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "VARIANT"},
		Fields: []model.Field{i32Field("Vt")},
		Shape:  model.ShapePlainNoDerive,
	}
	out := render(t, s)

	require.Contains(t, out, "type VARIANT struct {")
	require.Contains(t, out, "Vt int32")
	require.NotContains(t, out, "Equal")
	require.NotContains(t, out, "String")
	require.NotContains(t, out, "Blittable")
	require.NotContains(t, out, "VARIANTAbi")
}

func TestCopyGating(t *testing.T) {
	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Foundation", Name: "Holder"},
		Fields: []model.Field{
			{Ident: "Label", MetadataName: "label", Type: model.Type{Kind: model.KindString}},
		},
		Shape: model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "Label abi.HString")
	require.Contains(t, out, "F0 uintptr")
	require.NotContains(t, out, "Blittable")
}

func TestDelegateFieldPolicy(t *testing.T) {
	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Win32.UI.WindowsAndMessaging", Name: "WNDCLASS"},
		Fields: []model.Field{
			{Ident: "Style", MetadataName: "style", Type: model.Type{Kind: model.KindU32}},
			{Ident: "LpfnWndProc", MetadataName: "lpfnWndProc", Type: model.Type{Kind: model.KindDelegate, Name: "WNDPROC"}},
		},
		Shape: model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "LpfnWndProc WNDPROC")
	require.Contains(t, out, "*(*uintptr)(unsafe.Pointer(&v.LpfnWndProc)) == *(*uintptr)(unsafe.Pointer(&o.LpfnWndProc))")
	require.Contains(t, out, `"WNDCLASS{Style: %v}"`)
	require.NotContains(t, out, "Blittable")
}

func TestWinRTDelegateComparedStructurally(t *testing.T) {
	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Foundation", Name: "Handler"},
		Fields: []model.Field{
			{Ident: "Cb", MetadataName: "cb", Type: model.Type{Kind: model.KindDelegate, Name: "AsyncActionCompletedHandler", WinRT: true}},
		},
		Shape: model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "v.Cb == o.Cb")
	require.Contains(t, out, `"Handler{Cb: %v}"`)
}

func TestTypedefShape(t *testing.T) {
	s := &model.Struct{
		Name:      model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "HWND"},
		Fields:    []model.Field{{Ident: "Value", MetadataName: "Value", Type: model.Type{Kind: model.KindUSize}}},
		IsTypedef: true,
		Blittable: true,
		Shape:     model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "F0 uintptr")
	require.NotContains(t, out, "Value uintptr")
	require.Contains(t, out, "return HWND{0}")
	require.Contains(t, out, "v.F0 == o.F0")
	require.Contains(t, out, `"HWND{Value: %v}"`)
}

func TestRuntimeSignature(t *testing.T) {
	s := &model.Struct{
		Name:      model.TypeName{Namespace: "Windows.Foundation", Name: "Rect"},
		Fields:    []model.Field{{Ident: "X", Type: model.Type{Kind: model.KindF32}}},
		Signature: "struct(Windows.Foundation.Rect;f4)",
		Shape:     model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "func (Rect) RuntimeSignature() string {")
	require.Contains(t, out, `return "struct(Windows.Foundation.Rect;f4)"`)
}

func TestConstants(t *testing.T) {
	s := &model.Struct{
		Name:   model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "CAPS"},
		Fields: []model.Field{i32Field("Flags")},
		Constants: []model.Constant{
			{Ident: "MAX_PATH", Value: metadata.Constant{Kind: "int32", Value: 260}},
			{Ident: "LABEL", Value: metadata.Constant{Kind: "string", Value: "default"}},
		},
		Shape: model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "const CAPS_MAX_PATH = int32(260)")
	require.Contains(t, out, `const CAPS_LABEL = "default"`)
}

func TestNestedModelsRenderAfterOwner(t *testing.T) {
	var nested model.NestedModels
	nested.Insert("_inner_e__Struct", &model.Struct{
		Name:   model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "OUTER_0"},
		Fields: []model.Field{i32Field("Dx")},
		Shape:  model.ShapeFull,
	})
	s := &model.Struct{
		Name: model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "OUTER"},
		Fields: []model.Field{
			{Ident: "Inner", MetadataName: "inner", Type: model.Type{Kind: model.KindStruct, Name: "OUTER_0"}},
		},
		Nested: nested,
		Shape:  model.ShapeFull,
	}
	out := render(t, s)

	require.Contains(t, out, "type OUTER struct {")
	require.Contains(t, out, "Inner OUTER_0")
	require.Contains(t, out, "type OUTER_0 struct {")
	require.Less(t, bytes.Index([]byte(out), []byte("type OUTER struct")), bytes.Index([]byte(out), []byte("type OUTER_0 struct")))
}

func TestTypeRendering(t *testing.T) {
	e := New("")
	tests := []struct {
		name string
		typ  model.Type
		want string
	}{
		{"void pointer", model.Type{Kind: model.KindVoid, Pointers: 1}, "unsafe.Pointer"},
		{"double pointer", model.Type{Kind: model.KindU16, Pointers: 2}, "**uint16"},
		{"fixed array", model.Type{Kind: model.KindU16, ArrayLen: 32}, "[32]uint16"},
		{"array of pointers", model.Type{Kind: model.KindI32, Pointers: 1, ArrayLen: 4}, "[4]*int32"},
		{"wide char", model.Type{Kind: model.KindChar}, "uint16"},
		{"interface", model.Type{Kind: model.KindInterface, Name: "IUnknown"}, "abi.IUnknown"},
		{"guid", model.Type{Kind: model.KindGuid}, "abi.GUID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, e.goType(tt.typ).GoString())
		})
	}
}

func TestAbiTypeDegradesNonBlittable(t *testing.T) {
	e := New("")
	require.Equal(t, "uintptr", e.abiType(model.Type{Kind: model.KindString}).GoString())
	require.Equal(t, "[4]uintptr", e.abiType(model.Type{Kind: model.KindString, ArrayLen: 4}).GoString())
	require.Equal(t, "int32", e.abiType(model.Type{Kind: model.KindI32}).GoString())
}

func TestFileRenderDeterminism(t *testing.T) {
	models := []*model.Struct{
		{
			Name:   model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "SIZE"},
			Fields: []model.Field{i32Field("Cx"), i32Field("Cy")},
			Shape:  model.ShapeFull,
		},
		{
			Name:   model.TypeName{Namespace: "Windows.Win32.Foundation", Name: "POINT"},
			Fields: []model.Field{i32Field("X"), i32Field("Y")},
			Shape:  model.ShapeFull,
		},
	}

	e := New("")
	renderFile := func() string {
		var buf bytes.Buffer
		require.NoError(t, e.File("example.test/winapi", "winapi", models).Render(&buf))
		return buf.String()
	}

	first := renderFile()
	require.Contains(t, first, "Code generated by winmdgen. DO NOT EDIT.")
	require.Equal(t, first, renderFile())
}
