package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToken_KindAndRow(t *testing.T) {
	testCases := []struct {
		name string
		tok  Token
		kind Kind
		row  uint32
	}{
		{"typedef row 1", NewToken(KindTypeDef, 1), KindTypeDef, 1},
		{"memberref row 42", NewToken(KindMemberRef, 42), KindMemberRef, 42},
		{"methoddef max row", NewToken(KindMethodDef, 0x00FFFFFF), KindMethodDef, 0x00FFFFFF},
		{"assemblyref row 7", NewToken(KindAssemblyRef, 7), KindAssemblyRef, 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.tok.Kind())
			assert.Equal(t, tc.row, tc.tok.Row())
			assert.False(t, tc.tok.IsNil())
		})
	}
}

func TestToken_Nil(t *testing.T) {
	assert.True(t, NilToken.IsNil())
	assert.True(t, NilTypeRef.IsNil())
	assert.True(t, NilMemberRef.IsNil())

	// Nil tokens still carry their table selector.
	assert.Equal(t, KindTypeRef, NilTypeRef.Kind())
	assert.Equal(t, KindMemberRef, NilMemberRef.Kind())
}

func TestToken_RowOverflowMasked(t *testing.T) {
	// Rows are 24-bit; anything above is masked off.
	tok := NewToken(KindTypeDef, 0x01FFFFFF)
	assert.Equal(t, uint32(0x00FFFFFF), tok.Row())
	assert.Equal(t, KindTypeDef, tok.Kind())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "TypeDef", KindTypeDef.String())
	assert.Equal(t, "MemberRef", KindMemberRef.String())
	assert.Equal(t, "TypeDef:3", NewToken(KindTypeDef, 3).String())
}
