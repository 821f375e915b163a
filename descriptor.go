package comrt

// Descriptor is the static, per-interface-type metadata: the
// interface's id and the ordered chain of ancestor ids it is
// substitutable for, most-derived first. Descriptors are shared by
// every instance of every class implementing the interface and are
// never mutated after construction.
type Descriptor struct {
	// Name is a diagnostic label (e.g. "IFileManager"). It plays no
	// part in resolution.
	Name string

	// ID identifies this interface contract.
	ID InterfaceID

	// Ancestors lists the ids this interface inherits from,
	// most-derived first. The identity interface is implicit and must
	// not appear here.
	Ancestors []InterfaceID
}

// NewDescriptor builds a Descriptor for a root interface (one deriving
// only from the identity interface).
func NewDescriptor(name string, id InterfaceID) *Descriptor {
	return &Descriptor{Name: name, ID: id}
}

// Derive builds a Descriptor for an interface extending d. The new
// interface's ancestor chain is d followed by d's own ancestors.
func (d *Descriptor) Derive(name string, id InterfaceID) *Descriptor {
	chain := make([]InterfaceID, 0, len(d.Ancestors)+1)
	chain = append(chain, d.ID)
	chain = append(chain, d.Ancestors...)
	return &Descriptor{Name: name, ID: id, Ancestors: chain}
}

// Satisfies reports whether a request for id can be served by a table
// implementing this interface: the id names the interface itself or
// any interface in its ancestor chain.
func (d *Descriptor) Satisfies(id InterfaceID) bool {
	if id == d.ID {
		return true
	}
	for _, a := range d.Ancestors {
		if id == a {
			return true
		}
	}
	return false
}
