package engine

import (
	"github.com/weftlabs/weft/internal/metadata"
	"github.com/weftlabs/weft/internal/rules"
)

// ModuleRecord is the per-module state built during load handling:
// the subsequence of catalog integrations applicable to the module and
// the member-reference tokens pre-emitted for every wrapper those
// integrations can redirect to, keyed by the wrapper's cache key.
//
// INVARIANTS:
//   - A record exists in the Registry iff its module is currently
//     loaded and preparation succeeded with at least one applicable
//     integration.
//   - Records are immutable after insertion. Compilation events read
//     them concurrently without locks.
//   - Every wrapper named by an applicable integration's rules has an
//     entry in wrapperRefs.
type ModuleRecord struct {
	// Module is the id this record was built for.
	Module ModuleID

	// AssemblyName is the module's human-readable assembly name.
	AssemblyName string

	// Integrations is the applicable subsequence of the catalog, in
	// catalog declaration order.
	Integrations []rules.Integration

	// imports is the module's metadata read surface, captured at
	// preparation time so compilation events resolve against the same
	// scope the wrapper references were emitted into.
	imports metadata.Import

	wrapperRefs map[string]metadata.Token
}

// WrapperRef returns the pre-emitted member reference for the wrapper
// with the given cache key.
func (r *ModuleRecord) WrapperRef(cacheKey string) (metadata.Token, bool) {
	tok, ok := r.wrapperRefs[cacheKey]
	return tok, ok
}

// WrapperCount returns the number of distinct wrapper references the
// record caches.
func (r *ModuleRecord) WrapperCount() int {
	return len(r.wrapperRefs)
}
