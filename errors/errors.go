package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/lemonbalms/comrt"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve   Phase = "resolve"   // interface query resolution
	PhaseConstruct Phase = "construct" // object core construction
	PhaseRegistry  Phase = "registry"  // class/interface registration
	PhaseManifest  Phase = "manifest"  // manifest parsing and validation
	PhaseInvoke    Phase = "invoke"    // dispatch table slot invocation
)

// Kind categorizes the error
type Kind string

const (
	KindNoInterface       Kind = "no_interface"
	KindUnwiredAggregate  Kind = "unwired_aggregate"
	KindDuplicate         Kind = "duplicate"
	KindNotFound          Kind = "not_found"
	KindInvalidID         Kind = "invalid_id"
	KindAlreadySet        Kind = "already_set"
	KindInvalidDefinition Kind = "invalid_definition"
	KindOutOfRange        Kind = "out_of_range"
	KindInvalidData       Kind = "invalid_data"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string
	Iface  comrt.InterfaceID
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" {
		b.WriteString(" class ")
		b.WriteString(e.Class)
	}
	if !e.Iface.IsNil() {
		b.WriteString(" interface ")
		b.WriteString(e.Iface.String())
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Iface sets the interface id involved
func (b *Builder) Iface(id comrt.InterfaceID) *Builder {
	b.err.Iface = id
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NoInterface reports that a query could not be satisfied by the
// object's own interfaces or by any aggregated inner. It is ordinary
// control flow, never a defect.
func NoInterface(id comrt.InterfaceID) *Error {
	return &Error{
		Phase: PhaseResolve,
		Kind:  KindNoInterface,
		Iface: id,
	}
}

// IsNoInterface reports whether err (or anything it wraps) is a failed
// interface resolution.
func IsNoInterface(err error) bool {
	return stderrors.Is(err, &Error{Phase: PhaseResolve, Kind: KindNoInterface})
}

// UnwiredAggregate reports a query path reaching an aggregated field
// that was never wired. Treated identically to a failed forward.
func UnwiredAggregate(field string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnwiredAggregate,
		Detail: fmt.Sprintf("aggregated field %q not wired", field),
	}
}

// Duplicate creates a duplicate registration error
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already registered", what, name),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// AlreadySet reports a second write to a set-at-most-once field
func AlreadySet(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadySet,
		Detail: fmt.Sprintf("%s already set", what),
	}
}

// InvalidDefinition creates a class/interface definition error
func InvalidDefinition(phase Phase, class, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidDefinition,
		Class:  class,
		Detail: detail,
	}
}

// OutOfRange creates a slot index error
func OutOfRange(index, length int) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("slot %d out of range (table has %d)", index, length),
	}
}

// InvalidID creates a malformed interface id error
func InvalidID(phase Phase, text string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidID,
		Detail: fmt.Sprintf("invalid interface id %q", text),
		Cause:  cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
