package comrt

import (
	"github.com/google/uuid"
)

// InterfaceID is an opaque 128-bit value uniquely identifying one
// interface contract. IDs are immutable and compared by bitwise
// equality (==). The textual form is the usual GUID notation.
type InterfaceID [16]byte

// NilID is the zero InterfaceID. It never identifies an interface.
var NilID InterfaceID

// IdentityID identifies the identity interface (the three operations
// QueryInterface, AddRef, Release that every dispatch table begins
// with). It is the well-known IUnknown GUID.
var IdentityID = MustID("00000000-0000-0000-c000-000000000046")

// ParseID parses an InterfaceID from GUID text form.
func ParseID(s string) (InterfaceID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, err
	}
	return InterfaceID(u), nil
}

// MustID parses an InterfaceID and panics on malformed input. For use
// in static interface declarations.
func MustID(s string) InterfaceID {
	id, err := ParseID(s)
	if err != nil {
		panic("comrt: invalid interface id " + s + ": " + err.Error())
	}
	return id
}

// NewID returns a freshly generated random InterfaceID.
func NewID() InterfaceID {
	return InterfaceID(uuid.New())
}

// IsNil reports whether the id is the zero value.
func (id InterfaceID) IsNil() bool {
	return id == NilID
}

// String returns the GUID text form of the id.
func (id InterfaceID) String() string {
	return uuid.UUID(id).String()
}
