// Package errors provides structured error types for the comrt
// library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the class name and
// interface id involved, a human-readable detail and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegistry, errors.KindInvalidDefinition).
//		Class("file_manager").
//		Detail("binder missing for implemented interface").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NoInterface(id)
//	err := errors.NotFound(errors.PhaseRegistry, "class", name)
//
// All errors implement the standard error interface and support
// errors.Is/As; two *Error values match when Phase and Kind agree.
//
// Failed interface resolution is ordinary control flow, not a defect:
// test for it with IsNoInterface. Reference-count overflow/underflow
// and use-after-destroy are defects and panic instead of returning an
// error; see the refcount and object packages.
package errors
