package cregs

import "testing"

func TestFloatingEnableBit(t *testing.T) {
	f := NewMutexFile()
	if !f.FloatingEnabled() {
		t.Fatalf("floating execution should default to enabled")
	}

	f.SetFloatingEnabled(false)
	if f.FloatingEnabled() {
		t.Fatalf("enable bit not cleared")
	}

	f.SetFloatingEnabled(true)
	if !f.FloatingEnabled() {
		t.Fatalf("enable bit not restored")
	}
}
