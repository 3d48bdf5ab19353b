package engine

import (
	"fmt"
	"sync"
)

// Registry is the process-wide mapping from module id to module record.
//
// Thread-safety model:
//   - Lookup: safe from any goroutine, concurrent with Insert/Remove
//     for other modules
//   - Insert/Remove: safe from any goroutine; a given id is only ever
//     inserted and removed by its own load/unload pair
//
// Once Remove(id) returns, no new Lookup(id) observes the removed
// record. A lookup that already returned the record may keep using it:
// records are immutable and garbage collection provides the quiescence
// guarantee, so destruction never invalidates an in-flight rewrite.
type Registry struct {
	mu      sync.RWMutex
	records map[ModuleID]*ModuleRecord
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[ModuleID]*ModuleRecord)}
}

// Insert registers a record under its module id. Inserting an id that
// already has a record is a logic error (module ids are unique per
// load) and is rejected without replacing the existing record.
func (g *Registry) Insert(id ModuleID, rec *ModuleRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.records[id]; exists {
		return &EngineError{
			Code:    ErrCodeDuplicateModule,
			Message: fmt.Sprintf("module %d already registered", id),
			Module:  id,
		}
	}
	g.records[id] = rec
	return nil
}

// Lookup returns the record for a module id, or false when the module
// was never prepared or has been unloaded. This is the fast path taken
// by every compilation notification.
func (g *Registry) Lookup(id ModuleID) (*ModuleRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rec, ok := g.records[id]
	return rec, ok
}

// Remove drops the record for a module id and returns it, or false
// when no record existed.
func (g *Registry) Remove(id ModuleID) (*ModuleRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.records[id]
	if ok {
		delete(g.records, id)
	}
	return rec, ok
}

// Len returns the number of registered modules.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.records)
}
