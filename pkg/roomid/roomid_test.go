package roomid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if len(id) != length {
			t.Fatalf("id %q: got length %d, want %d", id, len(id), length)
		}
		for _, r := range id {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("id %q contains %q outside the alphabet", id, r)
			}
		}
		seen[id] = true
	}

	// 100 draws from a 36^5 space colliding down to a handful would mean
	// the generator is broken, not unlucky.
	if len(seen) < 95 {
		t.Errorf("got only %d distinct ids out of 100", len(seen))
	}
}
