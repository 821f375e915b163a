package object

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/errors"
	"github.com/lemonbalms/comrt/refcount"
)

// identityDesc is the descriptor behind every non-delegating identity
// table.
var identityDesc = &comrt.Descriptor{Name: "IUnknown", ID: comrt.IdentityID}

// TableSpec declares one implemented interface for construction: its
// descriptor and the operation slots bound over the instance state.
type TableSpec struct {
	Desc  *comrt.Descriptor
	Slots []Slot
}

// AggregateSpec declares one named aggregated inner field. The field
// is wired later with AttachInner; until then queries treat it as a
// failed forward. A non-empty Forwards list restricts which requests
// are forwarded through this field; an empty list forwards everything
// the outer could not satisfy itself.
type AggregateSpec struct {
	Field    string
	Forwards []*comrt.Descriptor
}

// Config describes an object instance to construct.
type Config struct {
	// Name is a diagnostic label, typically the class name.
	Name string

	// State is the non-interface instance state produced from the
	// caller's init record. Slots close over it; Instance returns it.
	State any

	// Interfaces lists the directly implemented interfaces in
	// declaration order. The order is observable: it is the resolver's
	// probe order.
	Interfaces []TableSpec

	// Aggregates lists the named aggregated inner fields in
	// declaration order, which is also the resolver's forward order.
	Aggregates []AggregateSpec

	// OnDestroy, if non-nil, runs during teardown after the attached
	// inners have been released.
	OnDestroy func(state any)
}

type aggregated struct {
	field    string
	identity Unknown
	forwards []*comrt.Descriptor
}

func (a *aggregated) forwardable(id comrt.InterfaceID) bool {
	if len(a.forwards) == 0 {
		return true
	}
	for _, d := range a.forwards {
		if d.Satisfies(id) {
			return true
		}
	}
	return false
}

// Core is the identity and lifetime state of one object instance: the
// true reference count, the dispatch tables it owns, the private
// non-delegating identity, the optional outer identity and the
// aggregated inners it forwards to.
type Core struct {
	name      string
	state     any
	refs      *refcount.Counter
	tables    []*DispatchTable
	nonDel    *DispatchTable
	outer     Unknown
	inners    []*aggregated
	onDestroy func(state any)
	destroyed atomic.Bool
}

// New constructs an object core with reference count 0. All tables,
// including the non-delegating identity, are built here and never
// rebound. Ownership of the instance is returned to the caller, who
// typically calls SetOuter immediately when aggregating.
func New(cfg Config) (*Core, error) {
	c := &Core{
		name:      cfg.Name,
		state:     cfg.State,
		onDestroy: cfg.OnDestroy,
	}
	c.refs = refcount.New(c.destroy)

	seen := make(map[comrt.InterfaceID]struct{}, len(cfg.Interfaces))
	for _, spec := range cfg.Interfaces {
		if spec.Desc == nil {
			return nil, errors.InvalidDefinition(errors.PhaseConstruct, cfg.Name, "interface descriptor is nil")
		}
		if spec.Desc.ID == comrt.IdentityID {
			return nil, errors.InvalidDefinition(errors.PhaseConstruct, cfg.Name, "identity interface is implicit and cannot be declared")
		}
		if _, dup := seen[spec.Desc.ID]; dup {
			return nil, errors.New(errors.PhaseConstruct, errors.KindDuplicate).
				Class(cfg.Name).
				Iface(spec.Desc.ID).
				Detail("interface implemented twice").
				Build()
		}
		seen[spec.Desc.ID] = struct{}{}
		c.tables = append(c.tables, &DispatchTable{
			desc:  spec.Desc,
			core:  c,
			slots: spec.Slots,
		})
	}

	fields := make(map[string]struct{}, len(cfg.Aggregates))
	for _, ag := range cfg.Aggregates {
		if ag.Field == "" {
			return nil, errors.InvalidDefinition(errors.PhaseConstruct, cfg.Name, "aggregated field name is empty")
		}
		if _, dup := fields[ag.Field]; dup {
			return nil, errors.InvalidDefinition(errors.PhaseConstruct, cfg.Name, "aggregated field "+ag.Field+" declared twice")
		}
		fields[ag.Field] = struct{}{}
		c.inners = append(c.inners, &aggregated{field: ag.Field, forwards: ag.Forwards})
	}

	c.nonDel = &DispatchTable{desc: identityDesc, core: c, nonDelegating: true}

	Logger().Debug("allocated object core",
		zap.String("object", c.name),
		zap.Int("interfaces", len(c.tables)),
		zap.Int("aggregates", len(c.inners)))
	return c, nil
}

// Name returns the diagnostic label given at construction.
func (c *Core) Name() string {
	return c.name
}

// State returns the instance state.
func (c *Core) State() any {
	return c.state
}

// RefCount returns the current true reference count. Diagnostic; the
// value may be stale as soon as it is read.
func (c *Core) RefCount() uint32 {
	return c.refs.Load()
}

// SetOuter records the aggregating outer identity. Callable at most
// once, before the instance is published to any caller. Once set, the
// public identity operations of every delegating table forward to
// outer; only the non-delegating identity keeps operating on the true
// state.
func (c *Core) SetOuter(outer Unknown) error {
	if c.outer != nil {
		return errors.AlreadySet(errors.PhaseConstruct, "outer identity")
	}
	if outer != nil {
		c.outer = outer
	}
	return nil
}

// NonDelegatingIdentity returns the private identity surface operating
// on the core's true state.
//
// Protocol: this is for aggregation wiring and for the object's own
// implementation code. Handing it to external callers defeats the
// outer identity; they must only ever see delegating tables obtained
// through QueryInterface.
func (c *Core) NonDelegatingIdentity() Unknown {
	return c.nonDel
}

// PublicIdentity returns the identity surface external callers
// observe: the outer identity when aggregated, the non-delegating
// identity otherwise.
func (c *Core) PublicIdentity() Unknown {
	return c.public()
}

// AttachInner wires an allocated inner object into a declared
// aggregated field. Callable at most once per field, before the
// instance is published. identity must be the inner's non-delegating
// identity; AttachInner takes the one construction-time reference on
// it, released again during this core's teardown.
func (c *Core) AttachInner(field string, identity Unknown) error {
	if identity == nil {
		return errors.InvalidDefinition(errors.PhaseConstruct, c.name, "inner identity is nil")
	}
	for _, in := range c.inners {
		if in.field != field {
			continue
		}
		if in.identity != nil {
			return errors.AlreadySet(errors.PhaseConstruct, "aggregated field "+field)
		}
		identity.AddRef()
		in.identity = identity
		Logger().Debug("attached aggregated inner",
			zap.String("object", c.name),
			zap.String("field", field))
		return nil
	}
	return errors.NotFound(errors.PhaseConstruct, "aggregated field", field)
}

// CheckWired reports the first declared aggregated field with no inner
// attached. Wiring flows call this before publishing the instance;
// afterwards an unwired field is silently treated as a failed forward.
func (c *Core) CheckWired() error {
	for _, in := range c.inners {
		if in.identity == nil {
			return errors.UnwiredAggregate(in.field)
		}
	}
	return nil
}

func (c *Core) public() Unknown {
	if c.outer != nil {
		return c.outer
	}
	return c.nonDel
}

func (c *Core) addRef() uint32 {
	c.checkLive()
	n := c.refs.Increment()
	Logger().Debug("add ref",
		zap.String("object", c.name),
		zap.Uint32("refs", n))
	return n
}

func (c *Core) release() uint32 {
	c.checkLive()
	n := c.refs.Decrement()
	Logger().Debug("release",
		zap.String("object", c.name),
		zap.Uint32("refs", n))
	return n
}

// destroy is the single-fire drop action, run on the goroutine whose
// release observed the zero crossing.
func (c *Core) destroy() {
	if c.destroyed.Swap(true) {
		return
	}
	Logger().Debug("destroying object", zap.String("object", c.name))
	for _, in := range c.inners {
		if in.identity != nil {
			in.identity.Release()
		}
	}
	if c.onDestroy != nil {
		c.onDestroy(c.state)
	}
}

// checkLive asserts the instance has not been torn down. Any identity
// operation after the count reached zero is an unbalanced-reference
// defect in the caller.
func (c *Core) checkLive() {
	if c.destroyed.Load() {
		panic("object: operation on destroyed instance " + c.name)
	}
}
