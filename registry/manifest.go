package registry

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lemonbalms/comrt"
	"github.com/lemonbalms/comrt/errors"
)

// Manifest is the TOML-declared interface and class topology. It
// carries everything about a class except the code: constructors and
// binders are supplied at Apply time.
//
//	[[interface]]
//	name = "IFileManager"
//	id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f50"
//
//	[[interface]]
//	name = "ILocalFileManager"
//	id = "4fd9cbb1-5f03-4f86-9b5c-70d4a8e6f1a2"
//
//	[[class]]
//	name = "file_manager"
//	implements = ["IFileManager"]
//
//	  [[class.aggregate]]
//	  field = "local"
//	  class = "local_file_manager"
//	  forwards = ["ILocalFileManager"]
type Manifest struct {
	Interfaces []ManifestInterface `toml:"interface"`
	Classes    []ManifestClass     `toml:"class"`
}

// ManifestInterface declares one interface: its GUID and, optionally,
// the interface it extends (single inheritance; the ancestor chain is
// the extends path).
type ManifestInterface struct {
	Name    string `toml:"name"`
	ID      string `toml:"id"`
	Extends string `toml:"extends"`
}

// ManifestClass declares one class: the interfaces it implements and
// the inner objects it aggregates, both in declaration order.
type ManifestClass struct {
	Name       string              `toml:"name"`
	Implements []string            `toml:"implements"`
	Aggregates []ManifestAggregate `toml:"aggregate"`
}

// ManifestAggregate declares one aggregated inner field.
type ManifestAggregate struct {
	Field    string   `toml:"field"`
	Class    string   `toml:"class"`
	Forwards []string `toml:"forwards"`
}

// ParseManifest decodes and validates a TOML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.InvalidData(errors.PhaseManifest, "decode manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses a TOML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidData(errors.PhaseManifest, "read manifest "+path, err)
	}
	return ParseManifest(data)
}

// Validate checks the manifest's internal consistency: unique names,
// well-formed GUIDs, resolvable acyclic extends chains and resolvable
// interface references.
func (m *Manifest) Validate() error {
	byName := make(map[string]*ManifestInterface, len(m.Interfaces))
	for i := range m.Interfaces {
		mi := &m.Interfaces[i]
		if mi.Name == "" {
			return errors.InvalidDefinition(errors.PhaseManifest, "", "interface without name")
		}
		if _, dup := byName[mi.Name]; dup {
			return errors.Duplicate(errors.PhaseManifest, "interface", mi.Name)
		}
		if _, err := comrt.ParseID(mi.ID); err != nil {
			return errors.InvalidID(errors.PhaseManifest, mi.ID, err)
		}
		byName[mi.Name] = mi
	}
	for i := range m.Interfaces {
		if err := m.walkExtends(&m.Interfaces[i], byName); err != nil {
			return err
		}
	}

	classes := make(map[string]struct{}, len(m.Classes))
	for i := range m.Classes {
		mc := &m.Classes[i]
		if mc.Name == "" {
			return errors.InvalidDefinition(errors.PhaseManifest, "", "class without name")
		}
		if _, dup := classes[mc.Name]; dup {
			return errors.Duplicate(errors.PhaseManifest, "class", mc.Name)
		}
		classes[mc.Name] = struct{}{}
		for _, name := range mc.Implements {
			if _, ok := byName[name]; !ok {
				return errors.InvalidDefinition(errors.PhaseManifest, mc.Name, "implements unknown interface "+name)
			}
		}
		fields := make(map[string]struct{}, len(mc.Aggregates))
		for _, ag := range mc.Aggregates {
			if ag.Field == "" || ag.Class == "" {
				return errors.InvalidDefinition(errors.PhaseManifest, mc.Name, "aggregate needs field and class")
			}
			if _, dup := fields[ag.Field]; dup {
				return errors.InvalidDefinition(errors.PhaseManifest, mc.Name, "aggregated field "+ag.Field+" declared twice")
			}
			fields[ag.Field] = struct{}{}
			for _, name := range ag.Forwards {
				if _, ok := byName[name]; !ok {
					return errors.InvalidDefinition(errors.PhaseManifest, mc.Name, "forwards unknown interface "+name)
				}
			}
		}
	}
	return nil
}

func (m *Manifest) walkExtends(mi *ManifestInterface, byName map[string]*ManifestInterface) error {
	seen := map[string]struct{}{mi.Name: {}}
	for cur := mi; cur.Extends != ""; {
		next, ok := byName[cur.Extends]
		if !ok {
			return errors.InvalidDefinition(errors.PhaseManifest, "", fmt.Sprintf("interface %s extends unknown interface %s", cur.Name, cur.Extends))
		}
		if _, cyc := seen[next.Name]; cyc {
			return errors.InvalidDefinition(errors.PhaseManifest, "", "extends cycle through interface "+next.Name)
		}
		seen[next.Name] = struct{}{}
		cur = next
	}
	return nil
}

// Descriptors builds the descriptor set the manifest declares, keyed
// by interface name, with ancestor chains derived from the extends
// paths (most-derived first).
func (m *Manifest) Descriptors() (map[string]*comrt.Descriptor, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	byName := make(map[string]*ManifestInterface, len(m.Interfaces))
	for i := range m.Interfaces {
		byName[m.Interfaces[i].Name] = &m.Interfaces[i]
	}

	out := make(map[string]*comrt.Descriptor, len(m.Interfaces))
	for i := range m.Interfaces {
		mi := &m.Interfaces[i]
		id, err := comrt.ParseID(mi.ID)
		if err != nil {
			return nil, errors.InvalidID(errors.PhaseManifest, mi.ID, err)
		}
		d := &comrt.Descriptor{Name: mi.Name, ID: id}
		for cur := mi; cur.Extends != ""; {
			parent := byName[cur.Extends]
			pid, err := comrt.ParseID(parent.ID)
			if err != nil {
				return nil, errors.InvalidID(errors.PhaseManifest, parent.ID, err)
			}
			d.Ancestors = append(d.Ancestors, pid)
			cur = parent
		}
		out[mi.Name] = d
	}
	return out, nil
}

// ClassImpl supplies the code half of a manifest-declared class,
// keyed to the manifest by names.
type ClassImpl struct {
	// Constructor builds instance state from the init record.
	Constructor func(init any) any

	// Binders by interface name, as declared in the manifest.
	Binders map[string]Binder

	// Inits derives aggregated inner init records, by field name.
	Inits map[string]func(outerInit any) any

	// Destructor runs at teardown.
	Destructor func(state any)
}

// Apply registers the manifest's interfaces and classes with r,
// attaching the given implementations. A declared class without an
// implementation entry is registered bare: no constructor, no slots —
// useful for aggregation-only composites.
func (m *Manifest) Apply(r *Registry, impls map[string]ClassImpl) error {
	descs, err := m.Descriptors()
	if err != nil {
		return err
	}
	for i := range m.Interfaces {
		if err := r.RegisterInterface(descs[m.Interfaces[i].Name]); err != nil {
			return err
		}
	}

	for i := range m.Classes {
		mc := &m.Classes[i]
		impl := impls[mc.Name]

		cls := &Class{
			Name:        mc.Name,
			Constructor: impl.Constructor,
			Destructor:  impl.Destructor,
		}
		for _, name := range mc.Implements {
			cls.Implements = append(cls.Implements, descs[name].ID)
		}
		if len(impl.Binders) > 0 {
			cls.Binders = make(map[comrt.InterfaceID]Binder, len(impl.Binders))
			for name, b := range impl.Binders {
				d, ok := descs[name]
				if !ok {
					return errors.InvalidDefinition(errors.PhaseManifest, mc.Name, "binder for unknown interface "+name)
				}
				cls.Binders[d.ID] = b
			}
		}
		for _, ag := range mc.Aggregates {
			a := Aggregate{Field: ag.Field, Class: ag.Class}
			for _, name := range ag.Forwards {
				a.Forwards = append(a.Forwards, descs[name].ID)
			}
			if impl.Inits != nil {
				a.Init = impl.Inits[ag.Field]
			}
			cls.Aggregates = append(cls.Aggregates, a)
		}
		if err := r.RegisterClass(cls); err != nil {
			return err
		}
	}
	return nil
}
