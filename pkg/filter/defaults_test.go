package filter

import "testing"

// TestGetDefaultsIsEmptyAndSafeToMutate documents the deliberate choice to
// ship no default symbol exclusions (see defaults.go) while still proving
// GetDefaults returns an independent copy each call.
func TestGetDefaultsIsEmptyAndSafeToMutate(t *testing.T) {
	d := GetDefaults()
	if len(d) != 0 {
		t.Fatalf("GetDefaults() = %v, want empty", d)
	}

	d = append(d, "mutated")
	d2 := GetDefaults()
	if len(d2) != 0 {
		t.Error("GetDefaults returned a reference to mutable global state")
	}
}
