package object

import (
	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/errors"
)

// Unknown is the identity contract every dispatch table begins with:
// query, add-ref and release, in that fixed order.
type Unknown interface {
	// QueryInterface resolves id to a dispatch table. On success the
	// returned table carries exactly one new reference owned by the
	// caller. On failure the error satisfies errors.IsNoInterface and
	// no state has changed.
	QueryInterface(id comrt.InterfaceID) (*DispatchTable, error)

	// AddRef takes one reference and returns the new count.
	AddRef() uint32

	// Release drops one reference and returns the new count. A return
	// of 0 means the object has been destroyed; the caller must not
	// touch it again.
	Release() uint32
}

// Slot is one operation entry point in a dispatch table, bound over
// the instance state at construction time.
type Slot func(args ...any) (any, error)

// DispatchTable implements one interface's operations for one object
// instance, plus the identity operations. Tables are built once at
// construction and never rebound.
type DispatchTable struct {
	desc          *comrt.Descriptor
	core          *Core
	slots         []Slot
	nonDelegating bool
}

// Descriptor returns the static metadata of the interface this table
// implements. The non-delegating identity table reports the identity
// interface.
func (t *DispatchTable) Descriptor() *comrt.Descriptor {
	return t.desc
}

// Instance returns the instance state of the owning object. This is
// the explicit replacement for recovering "this" by fixed-offset
// pointer arithmetic from the table address.
func (t *DispatchTable) Instance() any {
	return t.core.state
}

// NumSlots returns the number of operation entry points (identity
// operations excluded).
func (t *DispatchTable) NumSlots() int {
	return len(t.slots)
}

// Call invokes operation slot i.
func (t *DispatchTable) Call(i int, args ...any) (any, error) {
	if i < 0 || i >= len(t.slots) {
		return nil, errors.OutOfRange(i, len(t.slots))
	}
	return t.slots[i](args...)
}

// QueryInterface resolves id against the owning object. Through a
// delegating table the call routes to the active public identity;
// through the non-delegating identity it resolves against the
// object's true interface surface.
func (t *DispatchTable) QueryInterface(id comrt.InterfaceID) (*DispatchTable, error) {
	if t.nonDelegating {
		return t.core.resolve(id)
	}
	return t.core.public().QueryInterface(id)
}

// AddRef takes one reference on the object's active identity.
func (t *DispatchTable) AddRef() uint32 {
	if t.nonDelegating {
		return t.core.addRef()
	}
	return t.core.public().AddRef()
}

// Release drops one reference on the object's active identity.
func (t *DispatchTable) Release() uint32 {
	if t.nonDelegating {
		return t.core.release()
	}
	return t.core.public().Release()
}
