package engine

import "github.com/weftlabs/weft/internal/metadata"

// ResolvedSymbol is the symbolic identity of a method: its declaring
// type's name and its own name. Stack-local; created and discarded
// within a single compilation event.
type ResolvedSymbol struct {
	TypeName   string
	MethodName string
}

// resolveCallTarget traces a call instruction's operand token to the
// (type name, method name) pair it invokes.
//
// The operand is one of two shapes: a MemberRef, whose parent token may
// itself be a TypeRef, a TypeDef, or (in some encodings) a MethodDef;
// or directly a MethodDef carrying its declaring TypeDef. Resolution is
// a decision tree over the token kind, with every path terminating in
// a type-name lookup:
//
//	MemberRef -> parent TypeRef   -> type ref name         (done)
//	MemberRef -> parent TypeDef   -> shared TypeDef tail   (done)
//	MemberRef -> parent MethodDef -> MethodDef branch below
//	MethodDef -> declaring TypeDef -> shared TypeDef tail  (done)
//
// Any lookup failure at any step, and any unsupported token kind,
// yields ok == false: the call site is treated as unresolved and left
// untouched by the caller.
func resolveCallTarget(imp metadata.Import, tok metadata.Token) (ResolvedSymbol, bool) {
	switch tok.Kind() {
	case metadata.KindMemberRef:
		props, err := imp.MemberRef(tok)
		if err != nil {
			return ResolvedSymbol{}, false
		}
		switch props.Parent.Kind() {
		case metadata.KindTypeRef:
			typeName, err := imp.TypeRefName(props.Parent)
			if err != nil {
				return ResolvedSymbol{}, false
			}
			return ResolvedSymbol{TypeName: typeName, MethodName: props.Name}, true
		case metadata.KindTypeDef:
			return resolveWithTypeDef(imp, props.Parent, props.Name)
		case metadata.KindMethodDef:
			// The member reference's parent slot holds a method. The
			// method definition carries the authoritative name, so the
			// member reference's own name is discarded.
			return resolveMethodDef(imp, props.Parent)
		default:
			return ResolvedSymbol{}, false
		}

	case metadata.KindMethodDef:
		return resolveMethodDef(imp, tok)

	default:
		return ResolvedSymbol{}, false
	}
}

// resolveMethodDef resolves a MethodDef token to its symbolic identity
// through its declaring type definition.
func resolveMethodDef(imp metadata.Import, tok metadata.Token) (ResolvedSymbol, bool) {
	props, err := imp.Method(tok)
	if err != nil {
		return ResolvedSymbol{}, false
	}
	return resolveWithTypeDef(imp, props.DeclaringType, props.Name)
}

// resolveWithTypeDef is the shared resolution tail: every branch of the
// decision tree that ends at a TypeDef converges here to look up the
// type's name.
func resolveWithTypeDef(imp metadata.Import, typeDef metadata.Token, methodName string) (ResolvedSymbol, bool) {
	typeName, err := imp.TypeDefName(typeDef)
	if err != nil {
		return ResolvedSymbol{}, false
	}
	return ResolvedSymbol{TypeName: typeName, MethodName: methodName}, true
}
