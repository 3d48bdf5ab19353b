package metadata

import (
	"fmt"
	"sync"
)

// Memory is an in-memory Scope. It backs the snapshot simulator and
// the test suite; the host runtime provides the production Scope.
//
// Thread-safety model:
//   - Import lookups: safe from any goroutine
//   - Emit and Add* builders: safe from any goroutine, serialized by mutex
type Memory struct {
	mu sync.RWMutex

	typeDefs   []string
	methodDefs []methodRow
	typeRefs   []typeRefRow
	memberRefs []memberRefRow
	asmRefs    []AssemblyIdentity

	// Dedup indexes for idempotent emission.
	asmRefIndex    map[string]Token
	typeRefIndex   map[string]Token
	memberRefIndex map[string]Token

	readOnly bool
	emitErr  error
}

type methodRow struct {
	name          string
	declaringType Token
}

type typeRefRow struct {
	scope Token
	name  string
}

type memberRefRow struct {
	parent    Token
	name      string
	signature string
}

// NewMemory creates an empty writable metadata scope.
func NewMemory() *Memory {
	return &Memory{
		asmRefIndex:    make(map[string]Token),
		typeRefIndex:   make(map[string]Token),
		memberRefIndex: make(map[string]Token),
	}
}

// SetWritable toggles the scope's writability. Read-only scopes reject
// all Emit calls, modeling module kinds that expose no writable metadata.
func (m *Memory) SetWritable(w bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly = !w
}

// FailEmit forces every subsequent Emit call to return err.
// Pass nil to clear. Test hook for fail-closed preparation paths.
func (m *Memory) FailEmit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitErr = err
}

// Writable implements Scope.
func (m *Memory) Writable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.readOnly
}

// AddTypeDef defines a type in this module and returns its TypeDef token.
func (m *Memory) AddTypeDef(name string) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typeDefs = append(m.typeDefs, name)
	return NewToken(KindTypeDef, uint32(len(m.typeDefs)))
}

// AddMethodDef defines a method on a previously added TypeDef.
func (m *Memory) AddMethodDef(declaringType Token, name string) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.methodDefs = append(m.methodDefs, methodRow{name: name, declaringType: declaringType})
	return NewToken(KindMethodDef, uint32(len(m.methodDefs)))
}

// AddTypeRef records a reference to a type defined elsewhere. The scope
// token may be nil for snapshot-built modules that do not model the
// referenced assembly.
func (m *Memory) AddTypeRef(scope Token, name string) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typeRefs = append(m.typeRefs, typeRefRow{scope: scope, name: name})
	return NewToken(KindTypeRef, uint32(len(m.typeRefs)))
}

// AddMemberRef records a member reference with an arbitrary parent token.
// Builder counterpart of MemberRefForMethod used to construct call-site
// operands whose parent is a TypeRef, TypeDef, or MethodDef.
func (m *Memory) AddMemberRef(parent Token, name string) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberRefs = append(m.memberRefs, memberRefRow{parent: parent, name: name})
	return NewToken(KindMemberRef, uint32(len(m.memberRefs)))
}

// MemberRef implements Import.
func (m *Memory) MemberRef(tok Token) (MemberRefProps, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tok.Kind() != KindMemberRef || tok.IsNil() || int(tok.Row()) > len(m.memberRefs) {
		return MemberRefProps{}, lookupError(tok)
	}
	row := m.memberRefs[tok.Row()-1]
	return MemberRefProps{Name: row.name, Parent: row.parent}, nil
}

// Method implements Import.
func (m *Memory) Method(tok Token) (MethodProps, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tok.Kind() != KindMethodDef || tok.IsNil() || int(tok.Row()) > len(m.methodDefs) {
		return MethodProps{}, lookupError(tok)
	}
	row := m.methodDefs[tok.Row()-1]
	return MethodProps{Name: row.name, DeclaringType: row.declaringType}, nil
}

// TypeRefName implements Import.
func (m *Memory) TypeRefName(tok Token) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tok.Kind() != KindTypeRef || tok.IsNil() || int(tok.Row()) > len(m.typeRefs) {
		return "", lookupError(tok)
	}
	return m.typeRefs[tok.Row()-1].name, nil
}

// TypeDefName implements Import.
func (m *Memory) TypeDefName(tok Token) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tok.Kind() != KindTypeDef || tok.IsNil() || int(tok.Row()) > len(m.typeDefs) {
		return "", lookupError(tok)
	}
	return m.typeDefs[tok.Row()-1], nil
}

// AssemblyRef implements Emit. Identical identities return the token
// minted on first emission.
func (m *Memory) AssemblyRef(asm AssemblyIdentity) (Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.emitAllowed(); err != nil {
		return NilAssemblyRef, err
	}
	key := asm.Name + "\x00" + asm.Version + "\x00" + asm.PublicKeyToken
	if tok, ok := m.asmRefIndex[key]; ok {
		return tok, nil
	}
	m.asmRefs = append(m.asmRefs, asm)
	tok := NewToken(KindAssemblyRef, uint32(len(m.asmRefs)))
	m.asmRefIndex[key] = tok
	return tok, nil
}

// TypeRef implements Emit.
func (m *Memory) TypeRef(scope Token, typeName string) (Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.emitAllowed(); err != nil {
		return NilTypeRef, err
	}
	key := scope.String() + "\x00" + typeName
	if tok, ok := m.typeRefIndex[key]; ok {
		return tok, nil
	}
	m.typeRefs = append(m.typeRefs, typeRefRow{scope: scope, name: typeName})
	tok := NewToken(KindTypeRef, uint32(len(m.typeRefs)))
	m.typeRefIndex[key] = tok
	return tok, nil
}

// MemberRefForMethod implements Emit.
func (m *Memory) MemberRefForMethod(typeRef Token, methodName, signature string) (Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.emitAllowed(); err != nil {
		return NilMemberRef, err
	}
	key := typeRef.String() + "\x00" + methodName + "\x00" + signature
	if tok, ok := m.memberRefIndex[key]; ok {
		return tok, nil
	}
	m.memberRefs = append(m.memberRefs, memberRefRow{parent: typeRef, name: methodName, signature: signature})
	tok := NewToken(KindMemberRef, uint32(len(m.memberRefs)))
	m.memberRefIndex[key] = tok
	return tok, nil
}

func (m *Memory) emitAllowed() error {
	if m.emitErr != nil {
		return m.emitErr
	}
	if m.readOnly {
		return fmt.Errorf("metadata: scope is read-only")
	}
	return nil
}
