package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/errors"
	"github.com/lemonbalms/comrt/object"
)

// Binder produces the operation slots of one implemented interface,
// closed over the instance state. It is the runtime stand-in for the
// generated vtable thunks of the original build-time mechanism.
type Binder func(state any) []object.Slot

// Aggregate declares one named inner object a class composes.
type Aggregate struct {
	// Field names the aggregated slot; resolver forward order is the
	// declaration order of the Aggregates slice.
	Field string

	// Class names the registered class to allocate as the inner.
	Class string

	// Forwards optionally restricts which interface requests are
	// forwarded through this field. Empty means forward everything the
	// outer could not satisfy itself.
	Forwards []comrt.InterfaceID

	// Init, if non-nil, derives the inner's init record from the
	// outer's. The inner receives nil otherwise.
	Init func(outerInit any) any
}

// Class is the declarative description of an object type.
type Class struct {
	Name string

	// Implements lists the directly implemented interface ids in
	// declaration order (the resolver's probe order).
	Implements []comrt.InterfaceID

	// Constructor builds the instance state from the caller's init
	// record. When nil, the init record itself becomes the state.
	Constructor func(init any) any

	// Binders maps each implemented interface to its slot binder. An
	// interface without a binder gets an empty slot set.
	Binders map[comrt.InterfaceID]Binder

	// Aggregates lists the named inner objects in declaration order.
	Aggregates []Aggregate

	// Destructor, if non-nil, runs during teardown after the inners
	// have been released.
	Destructor func(state any)
}

// Registry is the runtime registration table: interface descriptors by
// id and class definitions by name.
type Registry struct {
	mu         sync.RWMutex
	interfaces map[comrt.InterfaceID]*comrt.Descriptor
	classes    map[string]*Class
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		interfaces: make(map[comrt.InterfaceID]*comrt.Descriptor),
		classes:    make(map[string]*Class),
	}
}

// RegisterInterface records an interface descriptor.
func (r *Registry) RegisterInterface(d *comrt.Descriptor) error {
	if d == nil || d.ID.IsNil() {
		return errors.New(errors.PhaseRegistry, errors.KindInvalidDefinition).
			Detail("interface descriptor missing or without id").
			Build()
	}
	if d.ID == comrt.IdentityID {
		return errors.InvalidDefinition(errors.PhaseRegistry, "", "the identity interface is implicit and cannot be registered")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.interfaces[d.ID]; dup {
		return errors.Duplicate(errors.PhaseRegistry, "interface", d.Name)
	}
	r.interfaces[d.ID] = d
	Logger().Debug("registered interface",
		zap.String("iface", d.Name),
		zap.String("id", d.ID.String()))
	return nil
}

// MustRegisterInterface is RegisterInterface panicking on error. For
// static registration at program start.
func (r *Registry) MustRegisterInterface(d *comrt.Descriptor) {
	if err := r.RegisterInterface(d); err != nil {
		panic(err)
	}
}

// Interface looks up a registered descriptor by id.
func (r *Registry) Interface(id comrt.InterfaceID) (*comrt.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.interfaces[id]
	return d, ok
}

// Interfaces returns the registered descriptors sorted by name.
func (r *Registry) Interfaces() []*comrt.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*comrt.Descriptor, 0, len(r.interfaces))
	for _, d := range r.interfaces {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegisterClass records a class definition. Every implemented
// interface and every forwarded interface must already be registered;
// aggregate classes may be registered later (mutual references are
// allowed) and are resolved at allocation time.
func (r *Registry) RegisterClass(c *Class) error {
	if c == nil || c.Name == "" {
		return errors.InvalidDefinition(errors.PhaseRegistry, "", "class missing or unnamed")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.classes[c.Name]; dup {
		return errors.Duplicate(errors.PhaseRegistry, "class", c.Name)
	}

	seen := make(map[comrt.InterfaceID]struct{}, len(c.Implements))
	for _, id := range c.Implements {
		if _, ok := r.interfaces[id]; !ok {
			return errors.New(errors.PhaseRegistry, errors.KindNotFound).
				Class(c.Name).
				Iface(id).
				Detail("implemented interface not registered").
				Build()
		}
		if _, dup := seen[id]; dup {
			return errors.New(errors.PhaseRegistry, errors.KindDuplicate).
				Class(c.Name).
				Iface(id).
				Detail("interface implemented twice").
				Build()
		}
		seen[id] = struct{}{}
	}
	for id := range c.Binders {
		if _, ok := seen[id]; !ok {
			return errors.New(errors.PhaseRegistry, errors.KindInvalidDefinition).
				Class(c.Name).
				Iface(id).
				Detail("binder for an interface the class does not implement").
				Build()
		}
	}

	fields := make(map[string]struct{}, len(c.Aggregates))
	for _, ag := range c.Aggregates {
		if ag.Field == "" || ag.Class == "" {
			return errors.InvalidDefinition(errors.PhaseRegistry, c.Name, "aggregate needs field and class")
		}
		if _, dup := fields[ag.Field]; dup {
			return errors.InvalidDefinition(errors.PhaseRegistry, c.Name, "aggregated field "+ag.Field+" declared twice")
		}
		fields[ag.Field] = struct{}{}
		for _, id := range ag.Forwards {
			if _, ok := r.interfaces[id]; !ok {
				return errors.New(errors.PhaseRegistry, errors.KindNotFound).
					Class(c.Name).
					Iface(id).
					Detail("forwarded interface not registered").
					Build()
			}
		}
	}

	r.classes[c.Name] = c
	Logger().Debug("registered class",
		zap.String("class", c.Name),
		zap.Int("interfaces", len(c.Implements)),
		zap.Int("aggregates", len(c.Aggregates)))
	return nil
}

// MustRegisterClass is RegisterClass panicking on error.
func (r *Registry) MustRegisterClass(c *Class) {
	if err := r.RegisterClass(c); err != nil {
		panic(err)
	}
}

// Class looks up a registered class definition by name.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Classes returns the registered class names, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for name := range r.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Allocate builds an instance of a registered class with reference
// count 0 and returns its core. When outer is non-nil the instance is
// aggregated: its public identity forwards to outer. Declared
// aggregates are allocated and attached recursively, each with this
// instance's public identity as its outer.
func (r *Registry) Allocate(name string, init any, outer object.Unknown) (*object.Core, error) {
	r.mu.RLock()
	cls, ok := r.classes[name]
	if !ok {
		r.mu.RUnlock()
		return nil, errors.NotFound(errors.PhaseRegistry, "class", name)
	}
	specs := make([]object.TableSpec, 0, len(cls.Implements))
	descs := make([]*comrt.Descriptor, 0, len(cls.Implements))
	for _, id := range cls.Implements {
		descs = append(descs, r.interfaces[id])
	}
	aggSpecs := make([]object.AggregateSpec, 0, len(cls.Aggregates))
	for _, ag := range cls.Aggregates {
		spec := object.AggregateSpec{Field: ag.Field}
		for _, id := range ag.Forwards {
			spec.Forwards = append(spec.Forwards, r.interfaces[id])
		}
		aggSpecs = append(aggSpecs, spec)
	}
	r.mu.RUnlock()

	state := init
	if cls.Constructor != nil {
		state = cls.Constructor(init)
	}
	for i, id := range cls.Implements {
		var slots []object.Slot
		if b := cls.Binders[id]; b != nil {
			slots = b(state)
		}
		specs = append(specs, object.TableSpec{Desc: descs[i], Slots: slots})
	}

	core, err := object.New(object.Config{
		Name:       cls.Name,
		State:      state,
		Interfaces: specs,
		Aggregates: aggSpecs,
		OnDestroy:  cls.Destructor,
	})
	if err != nil {
		return nil, err
	}
	if outer != nil {
		if err := core.SetOuter(outer); err != nil {
			return nil, err
		}
	}

	var wired []object.Unknown
	unwind := func() {
		for _, identity := range wired {
			identity.Release()
		}
	}
	for _, ag := range cls.Aggregates {
		var innerInit any
		if ag.Init != nil {
			innerInit = ag.Init(init)
		}
		innerCore, err := r.Allocate(ag.Class, innerInit, core.PublicIdentity())
		if err != nil {
			unwind()
			return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidDefinition).
				Class(cls.Name).
				Cause(err).
				Detail("allocate aggregated field %q", ag.Field).
				Build()
		}
		identity := innerCore.NonDelegatingIdentity()
		if err := core.AttachInner(ag.Field, identity); err != nil {
			unwind()
			return nil, err
		}
		wired = append(wired, identity)
	}
	if err := core.CheckWired(); err != nil {
		unwind()
		return nil, err
	}

	Logger().Debug("allocated instance",
		zap.String("class", cls.Name),
		zap.Bool("aggregated", outer != nil))
	return core, nil
}

// CreateInstance is the class-factory path: allocate a standalone
// instance and return the requested interface carrying one reference.
func (r *Registry) CreateInstance(name string, init any, id comrt.InterfaceID) (*object.DispatchTable, error) {
	core, err := r.Allocate(name, init, nil)
	if err != nil {
		return nil, err
	}
	pub := core.PublicIdentity()
	ptr, err := pub.QueryInterface(id)
	if err != nil {
		// The instance was never handed out. Drive it through the zero
		// crossing so its aggregated inners are released.
		pub.AddRef()
		pub.Release()
		return nil, err
	}
	return ptr, nil
}

// CreateAggregated is the aggregated activation path: allocate an
// instance controlled by outer and return its non-delegating identity
// carrying one reference. Aggregated activation never hands out any
// other interface; the aggregator reaches the rest of the surface
// through that identity.
//
// The aggregator attaches the identity with AttachInner (which takes
// its own reference) and then releases the creation reference.
func (r *Registry) CreateAggregated(name string, init any, outer object.Unknown) (object.Unknown, error) {
	if outer == nil {
		return nil, errors.InvalidDefinition(errors.PhaseRegistry, name, "aggregated activation requires an outer identity")
	}
	core, err := r.Allocate(name, init, outer)
	if err != nil {
		return nil, err
	}
	identity := core.NonDelegatingIdentity()
	identity.AddRef()
	return identity, nil
}
