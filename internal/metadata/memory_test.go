package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_DefinitionsAndLookups(t *testing.T) {
	m := NewMemory()

	thing := m.AddTypeDef("Thing")
	do := m.AddMethodDef(thing, "Do")

	name, err := m.TypeDefName(thing)
	require.NoError(t, err)
	assert.Equal(t, "Thing", name)

	props, err := m.Method(do)
	require.NoError(t, err)
	assert.Equal(t, "Do", props.Name)
	assert.Equal(t, thing, props.DeclaringType)
}

func TestMemory_MemberRefThroughTypeRef(t *testing.T) {
	m := NewMemory()

	ref := m.AddTypeRef(NilToken, "HttpClient")
	site := m.AddMemberRef(ref, "SendAsync")

	props, err := m.MemberRef(site)
	require.NoError(t, err)
	assert.Equal(t, "SendAsync", props.Name)
	assert.Equal(t, ref, props.Parent)

	typeName, err := m.TypeRefName(ref)
	require.NoError(t, err)
	assert.Equal(t, "HttpClient", typeName)
}

func TestMemory_LookupFailures(t *testing.T) {
	m := NewMemory()
	m.AddTypeDef("Thing")

	testCases := []struct {
		name   string
		lookup func() error
	}{
		{"wrong kind", func() error { _, err := m.Method(NewToken(KindTypeDef, 1)); return err }},
		{"nil row", func() error { _, err := m.MemberRef(NilMemberRef); return err }},
		{"row out of range", func() error { _, err := m.TypeDefName(NewToken(KindTypeDef, 99)); return err }},
		{"typeref on empty table", func() error { _, err := m.TypeRefName(NewToken(KindTypeRef, 1)); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.lookup()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemory_EmitIdempotent(t *testing.T) {
	m := NewMemory()
	asm := AssemblyIdentity{Name: "Instr", Version: "1.0.0"}

	asmRef, err := m.AssemblyRef(asm)
	require.NoError(t, err)
	again, err := m.AssemblyRef(asm)
	require.NoError(t, err)
	assert.Equal(t, asmRef, again, "identical assembly identities share one token")

	typeRef, err := m.TypeRef(asmRef, "ThingWrapper")
	require.NoError(t, err)
	typeRefAgain, err := m.TypeRef(asmRef, "ThingWrapper")
	require.NoError(t, err)
	assert.Equal(t, typeRef, typeRefAgain)

	member, err := m.MemberRefForMethod(typeRef, "Do", "(object)object")
	require.NoError(t, err)
	memberAgain, err := m.MemberRefForMethod(typeRef, "Do", "(object)object")
	require.NoError(t, err)
	assert.Equal(t, member, memberAgain)

	// Different signature mints a new reference.
	other, err := m.MemberRefForMethod(typeRef, "Do", "(string)object")
	require.NoError(t, err)
	assert.NotEqual(t, member, other)
}

func TestMemory_EmittedRefsResolvable(t *testing.T) {
	m := NewMemory()

	asmRef, err := m.AssemblyRef(AssemblyIdentity{Name: "Instr"})
	require.NoError(t, err)
	typeRef, err := m.TypeRef(asmRef, "ThingWrapper")
	require.NoError(t, err)
	member, err := m.MemberRefForMethod(typeRef, "Do", "(object)object")
	require.NoError(t, err)

	props, err := m.MemberRef(member)
	require.NoError(t, err)
	assert.Equal(t, "Do", props.Name)

	typeName, err := m.TypeRefName(props.Parent)
	require.NoError(t, err)
	assert.Equal(t, "ThingWrapper", typeName)
}

func TestMemory_ReadOnlyRejectsEmit(t *testing.T) {
	m := NewMemory()
	m.SetWritable(false)

	assert.False(t, m.Writable())
	_, err := m.AssemblyRef(AssemblyIdentity{Name: "Instr"})
	assert.Error(t, err)

	m.SetWritable(true)
	assert.True(t, m.Writable())
	_, err = m.AssemblyRef(AssemblyIdentity{Name: "Instr"})
	assert.NoError(t, err)
}

func TestMemory_FailEmit(t *testing.T) {
	m := NewMemory()
	boom := errors.New("emit failed")
	m.FailEmit(boom)

	_, err := m.AssemblyRef(AssemblyIdentity{Name: "Instr"})
	assert.ErrorIs(t, err, boom)

	m.FailEmit(nil)
	_, err = m.AssemblyRef(AssemblyIdentity{Name: "Instr"})
	assert.NoError(t, err)
}
