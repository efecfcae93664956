package model

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// TypeGuid is a 128-bit type identity, or the absent sentinel when the
// defining record carries no identity attribute.
type TypeGuid struct {
	value   uuid.UUID
	present bool
}

// ParseGuid parses a canonical textual GUID into a present TypeGuid.
func ParseGuid(s string) (TypeGuid, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TypeGuid{}, fmt.Errorf("parse guid %q: %w", s, err)
	}
	return TypeGuid{value: u, present: true}, nil
}

// Present reports whether an identity GUID exists for the type.
func (g TypeGuid) Present() bool { return g.present }

func (g TypeGuid) String() string {
	if !g.present {
		return ""
	}
	return g.value.String()
}

// Words splits the GUID into its registry-format components
// (Data1, Data2, Data3, Data4) for emission.
func (g TypeGuid) Words() (uint32, uint16, uint16, [8]byte) {
	b := g.value[:]
	var d4 [8]byte
	copy(d4[:], b[8:16])
	return binary.BigEndian.Uint32(b[0:4]),
		binary.BigEndian.Uint16(b[4:6]),
		binary.BigEndian.Uint16(b[6:8]),
		d4
}
