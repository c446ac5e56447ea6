package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7_Unique(t *testing.T) {
	// WHAT: Consecutive IDs differ.
	// WHY: Profile and scrape-log rows key on these.
	gen := UUIDv7()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen()
		if seen[id] {
			t.Fatalf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("prof_", UUIDv7())
	id := gen()
	if !strings.HasPrefix(id, "prof_") {
		t.Errorf("got %q, want prof_ prefix", id)
	}
}

func TestNanoID_LengthAndAlphabet(t *testing.T) {
	gen := NanoID(12)
	id := gen()
	if len(id) != 12 {
		t.Errorf("got length %d, want 12", len(id))
	}
	for _, r := range id {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'z')) {
			t.Errorf("unexpected character %q in %q", r, id)
		}
	}
}
