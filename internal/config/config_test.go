package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/renamer"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "glslx.json", `{
		"format": "js",
		"renaming": "internal-only",
		"keepSymbols": true
	}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Format)
	assert.Equal(t, "js", *cfg.Format)
	require.NotNil(t, cfg.Renaming)
	assert.Equal(t, "internal-only", *cfg.Renaming)
	require.NotNil(t, cfg.KeepSymbols)
	assert.True(t, *cfg.KeepSymbols)
}

func TestLoadWalksUpToParentDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "project", "shaders")
	require.NoError(t, os.MkdirAll(sub, 0755))
	writeConfig(t, filepath.Join(root, "project"), "glslx.json", `{"renaming": "none"}`)

	cfg, foundPath, err := Load(sub)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(root, "project", "glslx.json"), foundPath)
	require.NotNil(t, cfg.Renaming)
	assert.Equal(t, "none", *cfg.Renaming)
}

func TestLoadNoConfigFound(t *testing.T) {
	dir := t.TempDir()
	cfg, path, err := Load(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Empty(t, path)
}

func TestConfigFileNamePriority(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".glslxrc", `{"format": "rust"}`)

	cfg, foundPath, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ".glslxrc", filepath.Base(foundPath))

	writeConfig(t, dir, "glslx.json", `{"format": "skew"}`)
	cfg, foundPath, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "glslx.json", filepath.Base(foundPath))
	require.NotNil(t, cfg.Format)
	assert.Equal(t, "skew", *cfg.Format)
}

func TestMergeDefaultsWithNoConfigOrCLI(t *testing.T) {
	r, err := (*Config)(nil).Merge(CLI{})
	require.NoError(t, err)
	assert.Equal(t, "json", r.Format)
	assert.Equal(t, renamer.ModeAll, r.RenamingMode)
	assert.False(t, r.DisableRewriting)
	assert.False(t, r.KeepSymbols)
}

func TestMergeCLIOverridesConfig(t *testing.T) {
	fileRenaming := "none"
	cfg := &Config{Renaming: &fileRenaming}

	r, err := cfg.Merge(CLI{Renaming: "internal-only"})
	require.NoError(t, err)
	assert.Equal(t, renamer.ModeInternalOnly, r.RenamingMode)
}

func TestMergeConfigAppliesWhenCLIUnset(t *testing.T) {
	keepSymbols := true
	cfg := &Config{KeepSymbols: &keepSymbols}

	r, err := cfg.Merge(CLI{})
	require.NoError(t, err)
	assert.True(t, r.KeepSymbols)
}

func TestMergeCLISourceMapOverridesConfig(t *testing.T) {
	fileSourceMap := false
	cfg := &Config{SourceMap: &fileSourceMap}

	r, err := cfg.Merge(CLI{SourceMap: true})
	require.NoError(t, err)
	assert.True(t, r.SourceMap)
}

func TestMergeRejectsInvalidFormat(t *testing.T) {
	_, err := (*Config)(nil).Merge(CLI{Format: "xml"})
	assert.Error(t, err)
}

func TestMergeRejectsInvalidRenamingMode(t *testing.T) {
	_, err := (*Config)(nil).Merge(CLI{Renaming: "everything"})
	assert.Error(t, err)
}
