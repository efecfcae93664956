package builder

import (
	"strings"

	"github.com/structforge/winmdgen/internal/model"
)

// structSignature builds the structural signature used by the runtime
// type-identity scheme: the qualified name followed by each field's element
// signature.
func structSignature(name model.TypeName, fields []model.Field) string {
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, name.Namespace+"."+name.Name)
	for _, f := range fields {
		parts = append(parts, typeSignature(f.Type))
	}
	return "struct(" + strings.Join(parts, ";") + ")"
}

var elementSignatures = map[model.TypeKind]string{
	model.KindBool:   "b1",
	model.KindChar:   "c2",
	model.KindI8:     "i1",
	model.KindU8:     "u1",
	model.KindI16:    "i2",
	model.KindU16:    "u2",
	model.KindI32:    "i4",
	model.KindU32:    "u4",
	model.KindI64:    "i8",
	model.KindU64:    "u8",
	model.KindF32:    "f4",
	model.KindF64:    "f8",
	model.KindString: "string",
	model.KindGuid:   "g16",
	model.KindObject: "cinterface(IInspectable)",
}

func typeSignature(t model.Type) string {
	if sig, ok := elementSignatures[t.Kind]; ok {
		return sig
	}
	qualified := t.Name
	if t.Namespace != "" {
		qualified = t.Namespace + "." + t.Name
	}
	switch t.Kind {
	case model.KindEnum:
		return "enum(" + qualified + ";i4)"
	case model.KindStruct:
		return "struct(" + qualified + ")"
	}
	return qualified
}
