package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/metadata"
)

func makeValidIntegration(name string) Integration {
	return Integration{
		Name: name,
		MethodReplacements: []MethodReplacement{
			{
				Target: TargetMethod{Type: "Thing", Method: "Do"},
				Wrapper: WrapperMethod{
					Assembly:  metadata.AssemblyIdentity{Name: "Instr"},
					Type:      "ThingWrapper",
					Method:    "Do",
					Signature: "(object)object",
				},
			},
		},
	}
}

func TestValidate_ValidCatalog(t *testing.T) {
	catalog := []Integration{makeValidIntegration("a"), makeValidIntegration("b")}
	assert.Empty(t, Validate(catalog))
}

func TestValidate_EmptyCallerFilterIsValid(t *testing.T) {
	integ := makeValidIntegration("a")
	integ.MethodReplacements[0].Caller = CallerFilter{}
	assert.Empty(t, Validate([]Integration{integ}))
}

func TestValidate_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Integration)
		field  string
	}{
		{"missing integration name", func(i *Integration) { i.Name = "" }, "name"},
		{"no replacements", func(i *Integration) { i.MethodReplacements = nil }, "method_replacements"},
		{"missing target type", func(i *Integration) { i.MethodReplacements[0].Target.Type = "" }, "method_replacements[0].target.type"},
		{"missing target method", func(i *Integration) { i.MethodReplacements[0].Target.Method = "" }, "method_replacements[0].target.method"},
		{"missing wrapper assembly", func(i *Integration) { i.MethodReplacements[0].Wrapper.Assembly.Name = "" }, "method_replacements[0].wrapper.assembly.name"},
		{"missing wrapper type", func(i *Integration) { i.MethodReplacements[0].Wrapper.Type = "" }, "method_replacements[0].wrapper.type"},
		{"missing wrapper method", func(i *Integration) { i.MethodReplacements[0].Wrapper.Method = "" }, "method_replacements[0].wrapper.method"},
		{"missing wrapper signature", func(i *Integration) { i.MethodReplacements[0].Wrapper.Signature = "" }, "method_replacements[0].wrapper.signature"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			integ := makeValidIntegration("a")
			tc.mutate(&integ)
			errs := Validate([]Integration{integ})
			require.Len(t, errs, 1)
			assert.Equal(t, tc.field, errs[0].Field)
		})
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	catalog := []Integration{makeValidIntegration("a"), makeValidIntegration("a")}
	errs := Validate(catalog)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	integ := makeValidIntegration("a")
	integ.MethodReplacements[0].Target.Type = ""
	integ.MethodReplacements[0].Wrapper.Method = ""
	errs := Validate([]Integration{integ})
	assert.Len(t, errs, 2)
}

func TestCallerFilter_Matching(t *testing.T) {
	testCases := []struct {
		name       string
		filter     CallerFilter
		typeName   string
		methodName string
		want       bool
	}{
		{"empty matches anything", CallerFilter{}, "Program", "Run", true},
		{"type match", CallerFilter{Type: "Program"}, "Program", "Run", true},
		{"type mismatch", CallerFilter{Type: "Program"}, "Other", "Run", false},
		{"method match", CallerFilter{Method: "Run"}, "Program", "Run", true},
		{"method mismatch", CallerFilter{Method: "Run"}, "Program", "Helper", false},
		{"both match", CallerFilter{Type: "Program", Method: "Run"}, "Program", "Run", true},
		{"both, method mismatch", CallerFilter{Type: "Program", Method: "Run"}, "Program", "Helper", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.MatchesCaller(tc.typeName, tc.methodName))
		})
	}
}

func TestCallerFilter_MatchesAssembly(t *testing.T) {
	assert.True(t, CallerFilter{}.MatchesAssembly("App"))
	assert.True(t, CallerFilter{Assembly: "App"}.MatchesAssembly("App"))
	assert.False(t, CallerFilter{Assembly: "App"}.MatchesAssembly("Lib"))
}
