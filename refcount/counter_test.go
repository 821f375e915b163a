package refcount

import (
	"sync"
	"testing"
)

func TestCounter_IncrementDecrement(t *testing.T) {
	c := New(nil)

	if got := c.Increment(); got != 1 {
		t.Fatalf("Expected count 1, got %d", got)
	}
	if got := c.Increment(); got != 2 {
		t.Fatalf("Expected count 2, got %d", got)
	}
	if got := c.Decrement(); got != 1 {
		t.Fatalf("Expected count 1, got %d", got)
	}
	if got := c.Load(); got != 1 {
		t.Fatalf("Load: expected 1, got %d", got)
	}
}

func TestCounter_DropFiresOnceAtZero(t *testing.T) {
	drops := 0
	c := New(func() { drops++ })

	const n = 5
	for i := 0; i < n; i++ {
		c.Increment()
	}
	for i := 0; i < n; i++ {
		got := c.Decrement()
		if i < n-1 {
			if got == 0 {
				t.Fatalf("Premature zero at decrement %d", i)
			}
			if drops != 0 {
				t.Fatalf("Drop fired early at decrement %d", i)
			}
		}
	}
	if drops != 1 {
		t.Fatalf("Expected drop to fire once, fired %d times", drops)
	}
	if c.Load() != 0 {
		t.Fatalf("Expected count 0, got %d", c.Load())
	}
}

func TestCounter_UnderflowPanics(t *testing.T) {
	c := New(nil)

	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on decrement at zero")
		}
	}()
	c.Decrement()
}

func TestCounter_ConcurrentBalance(t *testing.T) {
	drops := 0
	c := New(func() { drops++ })
	c.Increment() // anchor reference held for the duration

	const workers = 8
	const rounds = 1000

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				c.Increment()
				c.Decrement()
			}
		}()
	}
	wg.Wait()

	if drops != 0 {
		t.Fatalf("Drop fired %d times with anchor still held", drops)
	}
	if got := c.Load(); got != 1 {
		t.Fatalf("Expected count 1 after balanced churn, got %d", got)
	}

	c.Decrement()
	if drops != 1 {
		t.Fatalf("Expected drop once after final release, fired %d times", drops)
	}
}
