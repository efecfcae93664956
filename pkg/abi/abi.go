// Package abi carries the small set of value types that generated
// declarations reference at foreign-call boundaries.
package abi

import "fmt"

// GUID is a 128-bit type identity in registry component order.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

func (g GUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// HString is a runtime string handle. The zero value is the empty string.
type HString uintptr

// IUnknown is a raw interface or runtime-class reference. Generated
// aggregates store these as plain addresses; lifetime management belongs to
// the caller.
type IUnknown uintptr
