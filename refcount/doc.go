// Package refcount provides the intrusive reference-count engine used
// by the object core.
//
// A Counter is a checked atomic counter with a single-fire drop action.
// Increment and Decrement are safe under concurrent use from multiple
// goroutines holding independent references to the same object. The
// unique decrement that takes the count from 1 to 0 runs the drop
// action exactly once, synchronously, on the calling goroutine; there
// is no finalizer queue and no deferred collection.
//
// Overflow and underflow are not recoverable errors: an unbalanced
// Increment/Decrement pair is a defect in the caller, and continuing
// with a corrupted count would corrupt lifetime tracking. Both panic.
package refcount
