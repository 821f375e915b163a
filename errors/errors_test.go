package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lemonbalms/comrt"
)

func TestError_Message(t *testing.T) {
	id := comrt.MustID("12345678-1234-1234-1234-123456789abc")
	err := New(PhaseResolve, KindNoInterface).
		Class("file_manager").
		Iface(id).
		Detail("nothing matched").
		Build()

	msg := err.Error()
	for _, want := range []string{"[resolve]", "no_interface", "file_manager", id.String(), "nothing matched"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("Message %q missing %q", msg, want)
		}
	}
}

func TestError_Is(t *testing.T) {
	a := NoInterface(comrt.NewID())
	b := NoInterface(comrt.NewID())
	if !stderrors.Is(a, b) {
		t.Fatal("Expected NoInterface errors to match on Phase+Kind")
	}

	c := NotFound(PhaseRegistry, "class", "x")
	if stderrors.Is(a, c) {
		t.Fatal("Different Phase/Kind should not match")
	}
}

func TestIsNoInterface(t *testing.T) {
	err := NoInterface(comrt.NewID())
	if !IsNoInterface(err) {
		t.Fatal("IsNoInterface failed on direct error")
	}

	wrapped := fmt.Errorf("query failed: %w", err)
	if !IsNoInterface(wrapped) {
		t.Fatal("IsNoInterface failed on wrapped error")
	}

	if IsNoInterface(UnwiredAggregate("inner")) {
		t.Fatal("UnwiredAggregate should not read as NoInterface")
	}
	if IsNoInterface(nil) {
		t.Fatal("nil should not read as NoInterface")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := InvalidData(PhaseManifest, "parse manifest", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("Expected cause to be reachable via errors.Is")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatal("Expected cause in message")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got := UnwiredAggregate("fs").Kind; got != KindUnwiredAggregate {
		t.Fatalf("UnwiredAggregate kind = %s", got)
	}
	if got := Duplicate(PhaseRegistry, "interface", "IClock").Kind; got != KindDuplicate {
		t.Fatalf("Duplicate kind = %s", got)
	}
	if got := AlreadySet(PhaseConstruct, "outer identity").Kind; got != KindAlreadySet {
		t.Fatalf("AlreadySet kind = %s", got)
	}
	if got := OutOfRange(4, 2).Kind; got != KindOutOfRange {
		t.Fatalf("OutOfRange kind = %s", got)
	}

	var e *Error
	if !stderrors.As(OutOfRange(4, 2), &e) {
		t.Fatal("errors.As failed")
	}
	if e.Phase != PhaseInvoke {
		t.Fatalf("OutOfRange phase = %s", e.Phase)
	}
}
