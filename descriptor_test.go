package comrt

import (
	"testing"
)

func TestDescriptor_Satisfies(t *testing.T) {
	animal := NewDescriptor("IAnimal", MustID("5b8b3f0e-3a9d-4d6e-9c57-1f7d3b7a1a01"))
	cat := animal.Derive("ICat", MustID("5b8b3f0e-3a9d-4d6e-9c57-1f7d3b7a1a02"))
	lion := cat.Derive("ILion", MustID("5b8b3f0e-3a9d-4d6e-9c57-1f7d3b7a1a03"))

	if !animal.Satisfies(animal.ID) {
		t.Fatal("Interface must satisfy its own id")
	}
	if animal.Satisfies(cat.ID) {
		t.Fatal("Ancestor must not satisfy a descendant")
	}
	if !lion.Satisfies(cat.ID) || !lion.Satisfies(animal.ID) {
		t.Fatal("Descendant must satisfy the whole chain")
	}
	if lion.Satisfies(NewID()) {
		t.Fatal("Unrelated id satisfied")
	}
}

func TestDescriptor_DeriveChainOrder(t *testing.T) {
	a := NewDescriptor("IA", MustID("5b8b3f0e-3a9d-4d6e-9c57-1f7d3b7a1b01"))
	b := a.Derive("IB", MustID("5b8b3f0e-3a9d-4d6e-9c57-1f7d3b7a1b02"))
	c := b.Derive("IC", MustID("5b8b3f0e-3a9d-4d6e-9c57-1f7d3b7a1b03"))

	if len(c.Ancestors) != 2 {
		t.Fatalf("Chain length = %d", len(c.Ancestors))
	}
	// Most-derived first.
	if c.Ancestors[0] != b.ID || c.Ancestors[1] != a.ID {
		t.Fatalf("Chain order wrong: %v", c.Ancestors)
	}

	// Deriving must not mutate the parent.
	if len(b.Ancestors) != 1 || b.Ancestors[0] != a.ID {
		t.Fatalf("Parent chain mutated: %v", b.Ancestors)
	}
}
