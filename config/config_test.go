/*
File    : golox/config/config_test.go
*/
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ValidFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, `{"prompt": "lox> ", "color": false}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "lox> ", cfg.Prompt)
	assert.False(t, cfg.Color)
	assert.Equal(t, Default().WatchDebounceMS, cfg.WatchDebounceMS)
}

func TestLoad_UnknownFieldFailsSchemaValidation(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, `{"prompt": "lox> ", "unknownField": true}`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestLoad_WrongTypeFailsSchemaValidation(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, `{"watchDebounceMs": "fast"}`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_NegativeDebounceFailsSchemaValidation(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, `{"watchDebounceMs": -1}`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_MalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, `{not json`)

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func writeRC(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".loxrc.json"), []byte(contents), 0o644))
}
