package names

import "testing"

func TestBindingsNoCapture(t *testing.T) {
	used := map[string]bool{"acc": true, "n": true, "k": true}
	b := NewBindings([]string{"acc", "n", "k"}, used)

	for _, p := range b.Params() {
		local, ok := b.Local(p)
		if !ok {
			t.Fatalf("Local(%q) not found", p)
		}
		if used[local] {
			t.Errorf("minted local %q collides with an existing identifier", local)
		}
	}
}

func TestTrampolineLabelDerivedFromPrefix(t *testing.T) {
	b := NewBindings([]string{"n"}, map[string]bool{})
	label := b.TrampolineLabel()
	if label != b.Prefix+"_trampoline" {
		t.Errorf("TrampolineLabel() = %q, want %q", label, b.Prefix+"_trampoline")
	}
}
