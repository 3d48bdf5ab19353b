package rules

import "github.com/weftlabs/weft/internal/metadata"

// Integration is a named group of method replacement rules.
// The rule order within an integration is declaration order and is
// preserved: the engine evaluates rules in this order.
type Integration struct {
	Name               string              `json:"name"`
	MethodReplacements []MethodReplacement `json:"method_replacements"`
}

// MethodReplacement redirects call sites of Target to Wrapper, for
// callers matching Caller.
type MethodReplacement struct {
	Caller  CallerFilter  `json:"caller,omitempty"`
	Target  TargetMethod  `json:"target"`
	Wrapper WrapperMethod `json:"wrapper"`
}

// CallerFilter restricts a rule to call sites inside matching enclosing
// methods. Empty fields match anything, so the zero value matches every
// caller.
type CallerFilter struct {
	Assembly string `json:"assembly,omitempty"`
	Type     string `json:"type,omitempty"`
	Method   string `json:"method,omitempty"`
}

// MatchesAssembly reports whether the filter admits callers in the
// named assembly.
func (f CallerFilter) MatchesAssembly(assemblyName string) bool {
	return f.Assembly == "" || f.Assembly == assemblyName
}

// MatchesCaller reports whether the filter admits the enclosing method
// identified by its declaring type name and method name.
func (f CallerFilter) MatchesCaller(typeName, methodName string) bool {
	if f.Type != "" && f.Type != typeName {
		return false
	}
	if f.Method != "" && f.Method != methodName {
		return false
	}
	return true
}

// TargetMethod names the method whose call sites are intercepted.
// Both fields are required. Matching is by exact name equality; no
// signature or overload disambiguation is attempted, so all overloads
// sharing the name are redirected to the same wrapper.
type TargetMethod struct {
	Type   string `json:"type"`
	Method string `json:"method"`
}

// WrapperMethod identifies the instrumentation method that replaces the
// target, including the assembly it lives in and a signature descriptor.
// The signature is opaque to the engine: it is forwarded verbatim to
// reference emission and folded into the cache key.
type WrapperMethod struct {
	Assembly  metadata.AssemblyIdentity `json:"assembly"`
	Type      string                    `json:"type"`
	Method    string                    `json:"method"`
	Signature string                    `json:"signature"`
}
