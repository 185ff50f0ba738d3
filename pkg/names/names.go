// Package names mints the fresh identifiers a single decoration needs: the
// parameter-binding table B from spec §3, and the trampoline loop's own
// label. Each Bindings draws its prefix from a freshly generated UUID, checked
// against every identifier already present in the target function's source
// (I2); the trampoline label reuses that same prefix with a distinct suffix.
//
// spec §3 also names a loop-sentinel table L, used by the reference
// algorithm to propagate a "resume the trampoline" signal outward through
// however many enclosing loops separate a tail call from the trampoline
// itself. Go's for statements accept a label on continue, and a labeled
// continue reaches an arbitrarily-nested enclosing for loop directly (Go
// spec, "For statements") — so pkg/transform's tail-call rewrite targets
// the trampoline's label from every nesting depth in one statement, and L
// has no work left to do. See DESIGN.md for the decision record.
package names

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// freshPrefix mints an identifier-safe prefix with at least 64 bits of
// entropy (spec §3), retrying against used if a pathological collision
// occurs (astronomically unlikely with a UUIDv4, but the contract is
// absolute, not probabilistic).
func freshPrefix(used map[string]bool) string {
	for {
		id := uuid.New()
		// Strip hyphens so the result is a legal identifier fragment, and
		// prefix with a letter in case the hex happens to start with a
		// digit (identifiers cannot begin with a digit). The version nibble
		// (raw[12]) and variant nibble (raw[16]) are fixed in a UUIDv4, so
		// they are skipped: the 16 hex digits kept carry 64 random bits.
		raw := strings.ReplaceAll(id.String(), "-", "")
		prefix := "tco" + raw[:12] + raw[13:16] + raw[17:18]
		if !used[prefix] {
			return prefix
		}
	}
}

// Bindings maps each original parameter name to its fresh hoisted local.
type Bindings struct {
	Prefix string
	table  map[string]string
	order  []string
}

// NewBindings mints a fresh prefix (distinct from every identifier in used)
// and a hoisted local name for each parameter in params, in order.
func NewBindings(params []string, used map[string]bool) *Bindings {
	prefix := freshPrefix(used)
	b := &Bindings{Prefix: prefix, table: make(map[string]string, len(params)), order: append([]string(nil), params...)}
	for _, p := range params {
		b.table[p] = fmt.Sprintf("%s_%s", prefix, p)
	}
	return b
}

// Local returns the hoisted local name for original parameter name p, and
// whether p is in fact one of the bound parameters.
func (b *Bindings) Local(p string) (string, bool) {
	v, ok := b.table[p]
	return v, ok
}

// Params returns the original parameter names in declaration order.
func (b *Bindings) Params() []string {
	return append([]string(nil), b.order...)
}

// Locals returns the hoisted local names in the same order as Params.
func (b *Bindings) Locals() []string {
	out := make([]string, len(b.order))
	for i, p := range b.order {
		out[i] = b.table[p]
	}
	return out
}

// TrampolineLabel derives the trampoline loop's synthesized label from the
// Bindings prefix (reusing it rather than minting a second independent
// prefix is safe: the label occupies Go's distinct label namespace, which
// never collides with the identifier namespace the B locals live in).
func (b *Bindings) TrampolineLabel() string {
	return b.Prefix + "_trampoline"
}
