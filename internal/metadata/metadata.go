package metadata

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Import lookups for tokens that do not
// address a live row in the expected table.
var ErrNotFound = errors.New("metadata: token not found")

// AssemblyIdentity names an assembly well enough to emit a reference
// to it. PublicKeyToken is an opaque hex string and may be empty for
// unsigned assemblies.
type AssemblyIdentity struct {
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	PublicKeyToken string `json:"public_key_token,omitempty"`
}

// MemberRefProps is the read-side view of a member reference row:
// the member's name and the token of its declaring parent. The parent
// is usually a TypeRef or TypeDef, but some encodings permit a
// MethodDef in the parent slot.
type MemberRefProps struct {
	Name   string
	Parent Token
}

// MethodProps is the read-side view of a method definition row.
type MethodProps struct {
	Name          string
	DeclaringType Token // always a TypeDef
}

// Import provides read access to a module's metadata tables.
// Implementations must be safe for concurrent readers.
type Import interface {
	// MemberRef resolves a MemberRef token to its name and parent.
	MemberRef(tok Token) (MemberRefProps, error)

	// Method resolves a MethodDef token to its name and declaring type.
	Method(tok Token) (MethodProps, error)

	// TypeRefName resolves a TypeRef token to the referenced type's name.
	TypeRefName(tok Token) (string, error)

	// TypeDefName resolves a TypeDef token to the defined type's name.
	TypeDefName(tok Token) (string, error)
}

// Emit provides write access to a module's reference tables. Every
// method is idempotent: emitting a definition identical to an earlier
// one returns the previously minted token.
type Emit interface {
	// AssemblyRef emits a reference to an external assembly.
	AssemblyRef(asm AssemblyIdentity) (Token, error)

	// TypeRef emits a reference to a type resolved in the scope of an
	// AssemblyRef token.
	TypeRef(scope Token, typeName string) (Token, error)

	// MemberRefForMethod emits a member reference to a method declared
	// on the given TypeRef, with the given opaque signature descriptor.
	MemberRefForMethod(typeRef Token, methodName, signature string) (Token, error)
}

// Scope is the full metadata surface of one module.
type Scope interface {
	Import
	Emit

	// Writable reports whether reference emission is permitted.
	// Some module kinds only expose read-only metadata; those modules
	// cannot be instrumented and are skipped at load time.
	Writable() bool
}

// lookupError decorates ErrNotFound with the offending token.
func lookupError(tok Token) error {
	return fmt.Errorf("%w: %s", ErrNotFound, tok)
}
