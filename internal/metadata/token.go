package metadata

import "fmt"

// Token identifies an entry in a module's metadata tables.
// The high byte selects the table (the token's Kind); the low three
// bytes are the row index within that table, starting at 1.
// Row 0 of any table is the nil token for that kind.
type Token uint32

// Kind is a metadata table selector.
type Kind uint32

const (
	KindModule      Kind = 0x00000000
	KindTypeRef     Kind = 0x01000000
	KindTypeDef     Kind = 0x02000000
	KindMethodDef   Kind = 0x06000000
	KindMemberRef   Kind = 0x0A000000
	KindAssemblyRef Kind = 0x23000000
)

// Nil tokens, one per table.
const (
	NilToken       Token = 0
	NilTypeRef           = Token(KindTypeRef)
	NilTypeDef           = Token(KindTypeDef)
	NilMethodDef         = Token(KindMethodDef)
	NilMemberRef         = Token(KindMemberRef)
	NilAssemblyRef       = Token(KindAssemblyRef)
)

// Kind returns the table selector encoded in the token's high byte.
func (t Token) Kind() Kind {
	return Kind(t & 0xFF000000)
}

// Row returns the row index encoded in the token's low three bytes.
func (t Token) Row() uint32 {
	return uint32(t & 0x00FFFFFF)
}

// IsNil reports whether the token addresses row 0 of its table.
func (t Token) IsNil() bool {
	return t.Row() == 0
}

// NewToken builds a token from a table selector and row index.
func NewToken(kind Kind, row uint32) Token {
	return Token(uint32(kind) | row&0x00FFFFFF)
}

// String renders the token as kind:row for logs and errors.
func (t Token) String() string {
	return fmt.Sprintf("%s:%d", t.Kind(), t.Row())
}

// String names the table a kind selects.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindTypeRef:
		return "TypeRef"
	case KindTypeDef:
		return "TypeDef"
	case KindMethodDef:
		return "MethodDef"
	case KindMemberRef:
		return "MemberRef"
	case KindAssemblyRef:
		return "AssemblyRef"
	default:
		return fmt.Sprintf("Kind(0x%08X)", uint32(k))
	}
}
