package filter

// DefaultSymbolGlobs is intentionally empty. The teacher's equivalent list
// excluded functions (fmt.Print*, log.Print*, ...) whose unchecked errors are
// conventionally safe to ignore — that default makes sense for an
// error-handling inserter, but there is no tail-call analogue: any
// package-level function, however named, might legitimately carry the
// //tco:optimize directive, and nothing about a name alone predicts whether
// its body is tail-recursive. --use-default-exclusions is accepted for
// interface symmetry with the rest of the batch-mode flag set, but with this
// list empty it is a no-op until a real default exclusion pattern turns up
// (generated-code markers, say) that every caller would actually want.
var DefaultSymbolGlobs []string

// GetDefaults returns the default symbol globs.
func GetDefaults() []string {
	dst := make([]string, len(DefaultSymbolGlobs))
	copy(dst, DefaultSymbolGlobs)
	return dst
}
