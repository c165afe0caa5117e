package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuumbleweed/xerr"
)

type sampleSection struct {
	Name  string `json:"name,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

func TestPackageFromFuncName(t *testing.T) {
	assert.Equal(t, "echo-middleware", packageFromFuncName("statement-analyzer/src/pkg/echo-middleware.InitializeConfig.func1"))
	assert.Equal(t, "layout", packageFromFuncName("statement-analyzer/src/pkg/report/layout.Plan"))
	assert.Equal(t, "main", packageFromFuncName("main.main"))
}

func TestGetPackageName(t *testing.T) {
	assert.Equal(t, "config", GetPackageName())
}

func TestDecodeSectionAbsent(t *testing.T) {
	section, e := DecodeSection[sampleSection]("sample", nil)
	assert.Nil(t, e)
	assert.Nil(t, section)
}

func TestDecodeSectionPresent(t *testing.T) {
	section, e := DecodeSection[sampleSection]("sample", json.RawMessage(`{"name":"x","limit":4}`))
	require.Nil(t, e)
	require.NotNil(t, section)
	assert.Equal(t, sampleSection{Name: "x", Limit: 4}, *section)
}

func TestDecodeSectionInvalid(t *testing.T) {
	_, e := DecodeSection[sampleSection]("sample", json.RawMessage(`{"limit":"four"}`))
	assert.NotNil(t, e)
}

func TestLoadConfigDispatchesSections(t *testing.T) {
	var received *sampleSection
	RegisterSection("sample-test", func(raw json.RawMessage) (e *xerr.Error) {
		received, e = DecodeSection[sampleSection]("sample-test", raw)
		return e
	})

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sample-test":{"name":"from-file"}}`), 0o644))

	e := LoadConfig(path)
	require.Nil(t, e)
	require.NotNil(t, received)
	assert.Equal(t, "from-file", received.Name)
}

func TestLoadConfigMissingFileKeepsDefaults(t *testing.T) {
	called := false
	RegisterSection("sample-missing", func(raw json.RawMessage) *xerr.Error {
		called = true
		assert.Nil(t, raw)
		return nil
	})

	e := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Nil(t, e)
	assert.True(t, called)
}

func TestLoadConfigRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sample":`), 0o644))
	assert.NotNil(t, LoadConfig(path))
}

func TestCheckIfEnvVarsPresent(t *testing.T) {
	t.Setenv("STATEMENT_ANALYZER_PRESENT", "yes")
	t.Setenv("STATEMENT_ANALYZER_ABSENT", "")
	missing := CheckIfEnvVarsPresent("STATEMENT_ANALYZER_PRESENT", "STATEMENT_ANALYZER_ABSENT")
	assert.Equal(t, []string{"STATEMENT_ANALYZER_ABSENT"}, missing)
}
