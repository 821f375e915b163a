// Package object implements the interface-dispatch and lifetime engine:
// object cores, per-instance dispatch tables, the query resolver, the
// non-delegating identity and aggregation wiring.
//
// # Dispatch Tables
//
// An interface pointer in this model is a *DispatchTable. Its first
// three operations are always QueryInterface, AddRef and Release, in
// that order, regardless of which interface the table implements; the
// remaining operations are the interface's own entry points, invoked
// by slot index:
//
//	ptr, err := identity.QueryInterface(IFileManager.ID)
//	if err != nil {
//		// errors.IsNoInterface(err)
//	}
//	defer ptr.Release()
//	res, err := ptr.Call(0, "report.txt")
//
// Each table carries an explicit back-reference to its owning Core, so
// the instance behind any interface pointer is recoverable in O(1)
// without pointer arithmetic.
//
// # Identity Routing
//
// Every core owns exactly one non-delegating identity table operating
// on its true reference count and interface set. All other tables are
// delegating: their identity operations route to the core's active
// public identity, which is the aggregating outer object when one has
// been set and the non-delegating identity otherwise.
//
// When an object is aggregated, external callers holding any of its
// interface pointers therefore observe the outer object's identity,
// while the object's own plumbing (and its aggregator) manages the
// true lifetime through the non-delegating table. This dual-identity
// split is what prevents an aggregated object from forwarding a query
// back out to its own outer forever.
//
// # Aggregation Protocol
//
// The aggregating object attaches the inner's non-delegating identity
// under a declared field name. A query the outer cannot satisfy is
// forwarded to each attached inner in declaration order. The inner's
// query increments the inner's own count on success, so the resolver
// immediately issues one matching release on the inner to hand
// accounting over to the outer; the caller's outstanding reference is
// tracked by the outer's count alone.
//
// Which call sites must use which identity is a protocol, not a type
// distinction: the inner's public identity must only ever be exercised
// by the outer's resolver and teardown path. AttachInner takes the one
// construction-time reference on the inner; the core's teardown
// releases it.
package object
