// Package registry provides the runtime-built registration table the
// object model is constructed from: interface descriptors, class
// definitions and the allocate entry point.
//
// The original mechanism this replaces produced per-type dispatch
// wiring at build time. Here a class is described declaratively — the
// interfaces it implements, the binders producing its operation slots,
// and the named inner objects it aggregates — and the wiring is built
// at allocation time:
//
//	reg := registry.New()
//	reg.MustRegisterInterface(ILocalFileManager)
//	reg.MustRegisterClass(&registry.Class{
//		Name:       "local_file_manager",
//		Implements: []comrt.InterfaceID{ILocalFileManager.ID},
//		Binders: map[comrt.InterfaceID]registry.Binder{
//			ILocalFileManager.ID: bindLocalFileManager,
//		},
//	})
//
//	core, err := reg.Allocate("local_file_manager", initRec, nil)
//
// Allocate recursively allocates and attaches declared aggregates:
// each inner is created with the outer's public identity, so the
// inner's public surface forwards out, and the outer holds the inner's
// non-delegating identity for forwarding and teardown.
//
// CreateInstance is the class-factory convenience: allocate a
// standalone instance and hand back the requested interface with one
// reference. CreateAggregated is the aggregated activation path and
// only ever hands back the non-delegating identity.
//
// # Manifests
//
// Interface and class topology can be declared in a TOML manifest and
// applied to a registry together with the in-code implementations
// (constructors and binders). See Manifest.
package registry
