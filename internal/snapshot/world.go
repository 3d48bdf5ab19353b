package snapshot

import (
	"fmt"
	"sort"

	"github.com/weftlabs/weft/internal/engine"
	"github.com/weftlabs/weft/internal/il"
	"github.com/weftlabs/weft/internal/metadata"
)

// Module is a materialized snapshot module.
type Module struct {
	ID       uint64
	Assembly string
	Scope    *metadata.Memory
	Methods  map[metadata.Token]*il.Method

	methods  map[string]metadata.Token // "Type.Method" -> MethodDef
	typeDefs map[string]metadata.Token
	typeRefs map[string]metadata.Token
}

// MethodToken returns the MethodDef token for "Type.Method" names.
func (m *Module) MethodToken(typeName, methodName string) (metadata.Token, bool) {
	tok, ok := m.methods[typeName+"."+methodName]
	return tok, ok
}

// MethodNames returns the module's "Type.Method" names sorted for
// deterministic iteration.
func (m *Module) MethodNames() []string {
	names := make([]string, 0, len(m.methods))
	for name := range m.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Module) methodToken(spec *MethodDefSpec) (metadata.Token, error) {
	if spec == nil || spec.Type == "" || spec.Method == "" {
		return metadata.NilToken, fmt.Errorf("method_def requires type and method")
	}
	tok, ok := m.methods[spec.Type+"."+spec.Method]
	if !ok {
		return metadata.NilToken, fmt.Errorf("unknown method %s.%s", spec.Type, spec.Method)
	}
	return tok, nil
}

// World is a set of materialized modules. It implements engine.Host,
// so an Engine constructed over it drives snapshots through the exact
// production code path.
type World struct {
	Name    string
	Modules []*Module

	byID map[uint64]*Module
}

// Module returns the module with the given id.
func (w *World) Module(id uint64) (*Module, bool) {
	mod, ok := w.byID[id]
	return mod, ok
}

// ModuleScope implements engine.Host.
func (w *World) ModuleScope(id engine.ModuleID) (metadata.Scope, error) {
	mod, ok := w.byID[uint64(id)]
	if !ok {
		return nil, fmt.Errorf("snapshot: no module %d", id)
	}
	return mod.Scope, nil
}

// MethodBody implements engine.Host.
func (w *World) MethodBody(id engine.ModuleID, method metadata.Token) (il.Editor, error) {
	mod, ok := w.byID[uint64(id)]
	if !ok {
		return nil, fmt.Errorf("snapshot: no module %d", id)
	}
	body, ok := mod.Methods[method]
	if !ok {
		return nil, fmt.Errorf("snapshot: module %d has no method %s", id, method)
	}
	return body.Edit()
}
