package comrt

import (
	"testing"
)

func TestParseID(t *testing.T) {
	const text = "712a57c6-cb21-4a1f-8c1c-6a1b2e3d4f50"
	id, err := ParseID(text)
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	if id.String() != text {
		t.Fatalf("Round trip: %s", id.String())
	}
	if id.IsNil() {
		t.Fatal("Parsed id reads as nil")
	}

	if _, err := ParseID("not-a-guid"); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestMustID_PanicsOnBadInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic")
		}
	}()
	MustID("garbage")
}

func TestIdentityID(t *testing.T) {
	if IdentityID.String() != "00000000-0000-0000-c000-000000000046" {
		t.Fatalf("IdentityID = %s", IdentityID)
	}
}

func TestNewID_Unique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("Generated ids collided")
	}
	if a.IsNil() || b.IsNil() {
		t.Fatal("Generated id is nil")
	}
}
