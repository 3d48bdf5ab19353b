package engine

import (
	"github.com/weftlabs/weft/internal/il"
	"github.com/weftlabs/weft/internal/metadata"
)

// ModuleID identifies a loaded module for the duration of one
// load/unload cycle. IDs are unique per load and never reused while
// the module is alive.
type ModuleID uint64

// Host exposes the runtime facilities the engine calls out to. All
// methods must be re-entrant-safe: the engine holds no locks across
// Host calls and may invoke them concurrently for different modules.
type Host interface {
	// ModuleScope opens the metadata surface of a loaded module.
	ModuleScope(module ModuleID) (metadata.Scope, error)

	// MethodBody imports an editable view of a method's instruction
	// stream. The view is owned by the caller until it commits or
	// discards it.
	MethodBody(module ModuleID, method metadata.Token) (il.Editor, error)
}
