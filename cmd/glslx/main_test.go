package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempShader(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunWithNoSourcesPrintsUsageAndSucceeds(t *testing.T) {
	assert.NoError(t, run([]string{}))
}

func TestRunCompilesToOutputFile(t *testing.T) {
	dir := t.TempDir()
	src := writeTempShader(t, dir, "frag.glsl", "void main() { gl_FragColor = vec4(0.0); }\n")
	out := filepath.Join(dir, "out.json")

	err := run([]string{"--no-config", "--output", out, src})
	require.NoError(t, err)

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"shaders"`)
	assert.Contains(t, string(contents), "gl_FragColor")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	src := writeTempShader(t, dir, "frag.glsl", "void main() { gl_FragColor = vec4(0.0); }\n")

	err := run([]string{"--no-config", "--format", "bogus", src})
	assert.Error(t, err)
}

func TestRunReportsCompileErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeTempShader(t, dir, "bad.glsl", "void main() { undeclaredThing(); }\n")

	err := run([]string{"--no-config", src})
	assert.Error(t, err)
}

func TestRunFailsOnMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.glsl")

	err := run([]string{"--no-config", missing})
	assert.Error(t, err)
}

func TestRunSourceMapFlagAddsSourceMapsToOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeTempShader(t, dir, "frag.glsl", "void main() { gl_FragColor = vec4(0.0); }\n")
	out := filepath.Join(dir, "out.json")

	err := run([]string{"--no-config", "--source-map", "--output", out, src})
	require.NoError(t, err)

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"sourceMaps"`)
}

func TestRunPrettyPrintKeepsMultipleSources(t *testing.T) {
	dir := t.TempDir()
	vert := writeTempShader(t, dir, "a.vert", "attribute vec3 aPos;\nvoid main() { gl_Position = vec4(aPos, 1.0); }\n")
	frag := writeTempShader(t, dir, "a.frag", "void main() { gl_FragColor = vec4(1.0); }\n")
	out := filepath.Join(dir, "out.json")

	err := run([]string{"--no-config", "--pretty-print", "--output", out, vert, frag})
	require.NoError(t, err)

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "a.vert")
	assert.Contains(t, string(contents), "a.frag")
}
