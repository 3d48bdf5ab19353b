package engine

import (
	"fmt"

	"github.com/weftlabs/weft/internal/il"
	"github.com/weftlabs/weft/internal/metadata"
	"github.com/weftlabs/weft/internal/rules"
)

// testHost is a minimal engine.Host over in-memory modules.
type testHost struct {
	scopes    map[ModuleID]*metadata.Memory
	bodies    map[ModuleID]map[metadata.Token]*il.Method
	scopeErrs map[ModuleID]error
}

func newTestHost() *testHost {
	return &testHost{
		scopes:    make(map[ModuleID]*metadata.Memory),
		bodies:    make(map[ModuleID]map[metadata.Token]*il.Method),
		scopeErrs: make(map[ModuleID]error),
	}
}

func (h *testHost) ModuleScope(id ModuleID) (metadata.Scope, error) {
	if err := h.scopeErrs[id]; err != nil {
		return nil, err
	}
	scope, ok := h.scopes[id]
	if !ok {
		return nil, fmt.Errorf("no module %d", id)
	}
	return scope, nil
}

func (h *testHost) MethodBody(id ModuleID, method metadata.Token) (il.Editor, error) {
	body, ok := h.bodies[id][method]
	if !ok {
		return nil, fmt.Errorf("module %d has no method %s", id, method)
	}
	return body.Edit()
}

func (h *testHost) addModule(id ModuleID, scope *metadata.Memory) {
	h.scopes[id] = scope
	h.bodies[id] = make(map[metadata.Token]*il.Method)
}

// appModule is the standard fixture: assembly "App" with a local type
// Thing.Do, a local type Other.Do, and a Program type whose methods
// call them through various token encodings.
type appModule struct {
	scope *metadata.Memory

	thingDef, otherDef, programDef metadata.Token
	thingDo, otherDo               metadata.Token
	programRun, programHelper      metadata.Token

	// Call-site operand tokens.
	thingDoViaTypeRef   metadata.Token // memberref -> typeref "Thing"
	thingDoViaTypeDef   metadata.Token // memberref -> typedef Thing
	thingDoViaMethodRef metadata.Token // memberref -> methoddef Thing.Do
	otherDoViaTypeRef   metadata.Token // memberref -> typeref "Other"
}

func buildAppModule() *appModule {
	m := &appModule{scope: metadata.NewMemory()}

	m.thingDef = m.scope.AddTypeDef("Thing")
	m.thingDo = m.scope.AddMethodDef(m.thingDef, "Do")
	m.otherDef = m.scope.AddTypeDef("Other")
	m.otherDo = m.scope.AddMethodDef(m.otherDef, "Do")
	m.programDef = m.scope.AddTypeDef("Program")
	m.programRun = m.scope.AddMethodDef(m.programDef, "Run")
	m.programHelper = m.scope.AddMethodDef(m.programDef, "Helper")

	thingRef := m.scope.AddTypeRef(metadata.NilToken, "Thing")
	otherRef := m.scope.AddTypeRef(metadata.NilToken, "Other")
	m.thingDoViaTypeRef = m.scope.AddMemberRef(thingRef, "Do")
	m.thingDoViaTypeDef = m.scope.AddMemberRef(m.thingDef, "Do")
	m.thingDoViaMethodRef = m.scope.AddMemberRef(m.thingDo, "Do")
	m.otherDoViaTypeRef = m.scope.AddMemberRef(otherRef, "Do")

	return m
}

// callBody builds "ldarg.0; callvirt <operand>; ret".
func callBody(operand metadata.Token) *il.Method {
	return il.NewMethod(
		il.Instruction{Opcode: il.Ldarg0},
		il.Instruction{Opcode: il.CallVirt, Operand: operand},
		il.Instruction{Opcode: il.Ret},
	)
}

func makeWrapper() rules.WrapperMethod {
	return rules.WrapperMethod{
		Assembly:  metadata.AssemblyIdentity{Name: "Instr", Version: "1.0.0"},
		Type:      "ThingWrapper",
		Method:    "Do",
		Signature: "(object)object",
	}
}

// makeIntegration builds a one-rule integration targeting Thing.Do.
func makeIntegration(name string, caller rules.CallerFilter) rules.Integration {
	return rules.Integration{
		Name: name,
		MethodReplacements: []rules.MethodReplacement{
			{
				Caller:  caller,
				Target:  rules.TargetMethod{Type: "Thing", Method: "Do"},
				Wrapper: makeWrapper(),
			},
		},
	}
}
