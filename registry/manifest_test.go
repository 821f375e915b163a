package registry

import (
	"strings"
	"testing"

	"github.com/lemonbalms/comrt/object"
)

const demoManifest = `
[[interface]]
name = "IFileManager"
id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f50"

[[interface]]
name = "ILocalFileManager"
id = "4fd9cbb1-5f03-4f86-9b5c-70d4a8e6f1a2"

[[interface]]
name = "IFastLocalFileManager"
id = "b3a4a7c2-98a4-4a3e-8f5e-2f6f1b0d9c21"
extends = "ILocalFileManager"

[[class]]
name = "local_file_manager"
implements = ["IFastLocalFileManager"]

[[class]]
name = "file_manager"
implements = ["IFileManager"]

  [[class.aggregate]]
  field = "local"
  class = "local_file_manager"
  forwards = ["ILocalFileManager"]
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(demoManifest))
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}
	if len(m.Interfaces) != 3 || len(m.Classes) != 2 {
		t.Fatalf("Unexpected shape: %d interfaces, %d classes", len(m.Interfaces), len(m.Classes))
	}

	descs, err := m.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors failed: %v", err)
	}
	fast := descs["IFastLocalFileManager"]
	if len(fast.Ancestors) != 1 {
		t.Fatalf("Expected one ancestor, got %v", fast.Ancestors)
	}
	if fast.Ancestors[0] != descs["ILocalFileManager"].ID {
		t.Fatal("Ancestor chain does not follow extends")
	}
	if !fast.Satisfies(descs["ILocalFileManager"].ID) {
		t.Fatal("Derived interface must satisfy its parent")
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad id": `
[[interface]]
name = "IThing"
id = "not-a-guid"`,
		"unknown extends": `
[[interface]]
name = "IThing"
id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f50"
extends = "INothing"`,
		"extends cycle": `
[[interface]]
name = "IA"
id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f51"
extends = "IB"

[[interface]]
name = "IB"
id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f52"
extends = "IA"`,
		"duplicate interface": `
[[interface]]
name = "IThing"
id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f53"

[[interface]]
name = "IThing"
id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f54"`,
		"unknown implements": `
[[class]]
name = "thing"
implements = ["INothing"]`,
		"duplicate aggregate field": `
[[interface]]
name = "IThing"
id = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f55"

[[class]]
name = "thing"

  [[class.aggregate]]
  field = "x"
  class = "a"

  [[class.aggregate]]
  field = "x"
  class = "b"`,
	}

	for name, src := range cases {
		if _, err := ParseManifest([]byte(src)); err == nil {
			t.Fatalf("Case %q: expected validation error", name)
		}
	}
}

func TestManifest_Apply(t *testing.T) {
	m, err := ParseManifest([]byte(demoManifest))
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}

	r := New()
	err = m.Apply(r, map[string]ClassImpl{
		"local_file_manager": {
			Constructor: func(init any) any { return &localFMState{} },
			Binders:     map[string]Binder{"IFastLocalFileManager": bindLocalFM},
		},
		"file_manager": {
			Constructor: func(init any) any { return &fileManagerState{init: init} },
			Binders:     map[string]Binder{"IFileManager": bindFileManager},
		},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if got := r.Classes(); strings.Join(got, ",") != "file_manager,local_file_manager" {
		t.Fatalf("Classes = %v", got)
	}

	descs, _ := m.Descriptors()
	ptr, err := r.CreateInstance("file_manager", nil, descs["IFileManager"].ID)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	defer ptr.Release()

	// Forwarded through the aggregate: the manifest forwards
	// ILocalFileManager, which the inner satisfies via its derived
	// interface.
	local, err := ptr.QueryInterface(descs["ILocalFileManager"].ID)
	if err != nil {
		t.Fatalf("Forwarded query failed: %v", err)
	}
	defer local.Release()
	if _, err := local.Call(0, "report.txt"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
}

func TestManifest_ApplyBinderForUnknownInterface(t *testing.T) {
	m, err := ParseManifest([]byte(demoManifest))
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}

	r := New()
	err = m.Apply(r, map[string]ClassImpl{
		"file_manager": {
			Binders: map[string]Binder{"INothing": bindFileManager},
		},
	})
	if err == nil {
		t.Fatal("Expected error for binder referencing unknown interface")
	}
}

func TestManifest_DeclarationOrderIsForwardOrder(t *testing.T) {
	const src = `
[[interface]]
name = "IThing"
id = "8c5f7a3e-1b2d-4e6f-9a0c-3d5e7f9b1c01"

[[class]]
name = "inner_a"
implements = ["IThing"]

[[class]]
name = "inner_b"
implements = ["IThing"]

[[class]]
name = "outer"

  [[class.aggregate]]
  field = "a"
  class = "inner_a"

  [[class.aggregate]]
  field = "b"
  class = "inner_b"
`
	m, err := ParseManifest([]byte(src))
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}

	r := New()
	mkImpl := func(tag string) ClassImpl {
		return ClassImpl{Constructor: func(any) any { return tag }}
	}
	err = m.Apply(r, map[string]ClassImpl{
		"inner_a": mkImpl("a"),
		"inner_b": mkImpl("b"),
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	core, err := r.Allocate("outer", nil, nil)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	core.PublicIdentity().AddRef()
	defer core.PublicIdentity().Release()

	descs, _ := m.Descriptors()
	var ptr *object.DispatchTable
	ptr, err = core.PublicIdentity().QueryInterface(descs["IThing"].ID)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer ptr.Release()
	if got := ptr.Instance(); got != "a" {
		t.Fatalf("Expected the first-declared aggregate to win, got %v", got)
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	if _, err := LoadManifest("/nonexistent/manifest.toml"); err == nil {
		t.Fatal("Expected error for missing file")
	}
}
