package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCatalog writes a single-file CUE catalog into a temp directory.
func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

const validCatalog = `
integrations: {
	"http-client": {
		method_replacements: [{
			caller: {assembly: "App"}
			target: {type: "Thing", method: "Do"}
			wrapper: {
				assembly: {name: "Instr", version: "1.0.0"}
				type:      "ThingWrapper"
				method:    "Do"
				signature: "(object)object"
			}
		}]
	}
}
`

func TestLoadCatalog_Valid(t *testing.T) {
	dir := writeCatalog(t, validCatalog)

	result, errs := LoadCatalog(dir)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Integrations, 1)

	integ := result.Integrations[0]
	assert.Equal(t, "http-client", integ.Name)
	require.Len(t, integ.MethodReplacements, 1)

	mr := integ.MethodReplacements[0]
	assert.Equal(t, CallerFilter{Assembly: "App"}, mr.Caller)
	assert.Equal(t, TargetMethod{Type: "Thing", Method: "Do"}, mr.Target)
	assert.Equal(t, "Instr", mr.Wrapper.Assembly.Name)
	assert.Equal(t, "1.0.0", mr.Wrapper.Assembly.Version)
	assert.Equal(t, "ThingWrapper", mr.Wrapper.Type)
	assert.Equal(t, "(object)object", mr.Wrapper.Signature)
}

func TestLoadCatalog_OptionalCallerOmitted(t *testing.T) {
	dir := writeCatalog(t, `
integrations: {
	anywhere: {
		method_replacements: [{
			target: {type: "Thing", method: "Do"}
			wrapper: {
				assembly: {name: "Instr"}
				type:      "ThingWrapper"
				method:    "Do"
				signature: "(object)object"
			}
		}]
	}
}
`)

	result, errs := LoadCatalog(dir)
	require.Empty(t, errs)
	require.Len(t, result.Integrations, 1)
	assert.Equal(t, CallerFilter{}, result.Integrations[0].MethodReplacements[0].Caller)
}

func TestLoadCatalog_MultipleIntegrations(t *testing.T) {
	dir := writeCatalog(t, `
integrations: {
	first: {
		method_replacements: [{
			target: {type: "Thing", method: "Do"}
			wrapper: {
				assembly: {name: "Instr"}
				type:      "ThingWrapper"
				method:    "Do"
				signature: "(object)object"
			}
		}]
	}
	second: {
		method_replacements: [{
			target: {type: "Other", method: "Go"}
			wrapper: {
				assembly: {name: "Instr"}
				type:      "OtherWrapper"
				method:    "Go"
				signature: "()void"
			}
		}]
	}
}
`)

	result, errs := LoadCatalog(dir)
	require.Empty(t, errs)
	require.Len(t, result.Integrations, 2)

	names := []string{result.Integrations[0].Name, result.Integrations[1].Name}
	assert.ElementsMatch(t, []string{"first", "second"}, names)
}

func TestLoadCatalog_DirectoryErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		result, errs := LoadCatalog(filepath.Join(t.TempDir(), "nope"))
		assert.Nil(t, result)
		require.Len(t, errs, 1)
		assertLoadCode(t, errs[0], ErrCodeNotFound)
	})

	t.Run("no cue files", func(t *testing.T) {
		result, errs := LoadCatalog(t.TempDir())
		assert.Nil(t, result)
		require.Len(t, errs, 1)
		assertLoadCode(t, errs[0], ErrCodeNoFiles)
	})
}

func TestLoadCatalog_MissingRequiredField(t *testing.T) {
	dir := writeCatalog(t, `
integrations: {
	broken: {
		method_replacements: [{
			target: {type: "Thing"}
			wrapper: {
				assembly: {name: "Instr"}
				type:      "ThingWrapper"
				method:    "Do"
				signature: "(object)object"
			}
		}]
	}
}
`)

	result, errs := LoadCatalog(dir)
	require.NotNil(t, result)
	require.Len(t, errs, 1)
	assertLoadCode(t, errs[0], ErrCodeBadField)
	assert.Contains(t, errs[0].Error(), "method is required")
	assert.Empty(t, result.Integrations, "broken integration is not decoded")
}

func TestLoadCatalog_NoIntegrations(t *testing.T) {
	dir := writeCatalog(t, `something_else: {}`)

	_, errs := LoadCatalog(dir)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no integrations")
}

func assertLoadCode(t *testing.T, err error, code string) {
	t.Helper()
	loadErr, ok := err.(*LoadError)
	require.True(t, ok, "expected *LoadError, got %T", err)
	assert.Equal(t, code, loadErr.Code)
}
