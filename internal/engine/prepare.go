package engine

import (
	"github.com/weftlabs/weft/internal/metadata"
	"github.com/weftlabs/weft/internal/rules"
)

// applicableIntegrations selects the subsequence of the catalog whose
// rules can fire inside the named assembly: an integration applies when
// at least one of its rules has a caller filter whose assembly field is
// empty or equal to assemblyName. Catalog order is preserved.
func applicableIntegrations(catalog []rules.Integration, assemblyName string) []rules.Integration {
	var applicable []rules.Integration
	for _, integ := range catalog {
		for _, mr := range integ.MethodReplacements {
			if mr.Caller.MatchesAssembly(assemblyName) {
				applicable = append(applicable, integ)
				break
			}
		}
	}
	return applicable
}

// prepareModule builds the module record for a freshly loaded module:
// it selects the applicable integrations and pre-emits, per wrapper, an
// assembly reference to the wrapper's home assembly, a type reference
// in that scope, and a member reference for the wrapper method. The
// member reference is cached under the wrapper's cache key; rules that
// name the same wrapper share the one emitted reference.
//
// Returns (nil, nil) when no integration applies: the module is skipped
// and no record is created.
//
// Fail-closed: any emission failure aborts preparation for the whole
// module. A module that cannot get its wrapper references cannot be
// safely rewritten, so it is left unregistered and compiles
// uninstrumented.
func prepareModule(scope metadata.Scope, id ModuleID, assemblyName string, catalog []rules.Integration) (*ModuleRecord, error) {
	applicable := applicableIntegrations(catalog, assemblyName)
	if len(applicable) == 0 {
		return nil, nil
	}

	rec := &ModuleRecord{
		Module:       id,
		AssemblyName: assemblyName,
		Integrations: applicable,
		imports:      scope,
		wrapperRefs:  make(map[string]metadata.Token),
	}

	for _, integ := range applicable {
		for _, mr := range integ.MethodReplacements {
			key := mr.Wrapper.CacheKey()
			if _, done := rec.wrapperRefs[key]; done {
				continue
			}

			asmRef, err := scope.AssemblyRef(mr.Wrapper.Assembly)
			if err != nil {
				return nil, newPrepareError(id, assemblyName, err)
			}
			typeRef, err := scope.TypeRef(asmRef, mr.Wrapper.Type)
			if err != nil {
				return nil, newPrepareError(id, assemblyName, err)
			}
			memberRef, err := scope.MemberRefForMethod(typeRef, mr.Wrapper.Method, mr.Wrapper.Signature)
			if err != nil {
				return nil, newPrepareError(id, assemblyName, err)
			}

			rec.wrapperRefs[key] = memberRef
		}
	}

	return rec, nil
}
