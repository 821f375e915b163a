// Package comrt implements the runtime object model of a COM-style
// binary interface standard: objects expose independently versioned
// interfaces through per-instance dispatch tables, are identified by
// opaque 128-bit interface identifiers, are lifetime-managed by
// intrusive reference counting, and support aggregation (one object
// forwarding part of its interface surface to an inner object while
// presenting a single outer identity).
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	comrt/        Root package with InterfaceID and Descriptor
//	├── object/   Object core, dispatch tables, query resolution,
//	│             non-delegating identity, aggregation wiring
//	├── refcount/ Atomic checked reference counter with a single-fire
//	│             teardown action at the zero crossing
//	├── registry/ Runtime-built class/interface registration, the
//	│             allocate entry point, TOML manifests
//	└── errors/   Structured error types for resolution and
//	              registration failures
//
// # Quick Start
//
// Declare an interface, register a class, create an instance:
//
//	var IClock = comrt.NewDescriptor("IClock",
//		comrt.MustID("c44bd6a0-8c4a-41d1-9ec8-8e6e588fb9a8"))
//
//	reg := registry.New()
//	reg.MustRegisterInterface(IClock)
//	reg.MustRegisterClass(&registry.Class{
//		Name:        "clock",
//		Implements:  []comrt.InterfaceID{IClock.ID},
//		Constructor: func(init any) any { return &clockState{} },
//		Binders: map[comrt.InterfaceID]registry.Binder{
//			IClock.ID: bindClock,
//		},
//	})
//
//	ptr, err := reg.CreateInstance("clock", nil, IClock.ID)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ptr.Release()
//
// Every interface pointer is a *object.DispatchTable whose first three
// operations are always QueryInterface, AddRef and Release, regardless
// of the interface behind it.
//
// # Aggregation
//
// A class may declare aggregated inner objects. Queries the outer
// cannot satisfy itself are forwarded to the inners in declaration
// order; the inner's public identity forwards back out to the outer,
// and the inner manages its own lifetime through a private
// non-delegating identity. See the object package for the protocol.
package comrt
