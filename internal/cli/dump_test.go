package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpCatalogText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDumpCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog-valid")})

	err := cmd.Execute()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "dump-catalog", buf.Bytes())
}

func TestDumpCatalogJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewDumpCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog-valid")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CatalogDump `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Integrations, 2)

	cacheGet := resp.Data.Integrations[0]
	assert.Equal(t, "cache-get", cacheGet.Name)
	require.Len(t, cacheGet.Rules, 1)
	assert.Equal(t, "Cache.Get", cacheGet.Rules[0].Target)
	assert.Empty(t, cacheGet.Rules[0].CallerAssembly)
	assert.Len(t, cacheGet.Rules[0].WrapperKey, 64, "cache key is hex sha256")

	httpClient := resp.Data.Integrations[1]
	assert.Equal(t, "http-client", httpClient.Name)
	assert.Equal(t, "App", httpClient.Rules[0].CallerAssembly)
	assert.NotEqual(t, cacheGet.Rules[0].WrapperKey, httpClient.Rules[0].WrapperKey)
}

func TestDumpNonExistentDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewDumpCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/catalog"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E005")
}
