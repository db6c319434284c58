package api

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/renamer"
)

const sampleVertex = `
uniform mat4 uModel;
attribute vec3 aPosition;
varying vec3 vColor;

void main() {
  vColor = aPosition;
  gl_Position = uModel * vec4(aPosition, 1.0);
}
`

func TestCompileProducesJSONByDefault(t *testing.T) {
	result := Compile([]Shader{{Name: "vertex.glsl", Contents: sampleVertex}}, Options{})
	require.True(t, result.OK)
	assert.Empty(t, result.Log)

	var out jsonOutput
	require.NoError(t, json.Unmarshal([]byte(result.Output), &out))
	require.Len(t, out.Shaders, 1)
	assert.Equal(t, "vertex.glsl", out.Shaders[0].Name)
	assert.Contains(t, out.Shaders[0].Contents, "void main")
	assert.True(t, strings.HasSuffix(result.Output, "\n"))
}

func TestCompileReportsErrorsWithoutOutput(t *testing.T) {
	result := Compile([]Shader{{Name: "bad.glsl", Contents: "void main() { undeclaredThing(); }"}}, Options{})
	assert.False(t, result.OK)
	assert.Empty(t, result.Output)
	assert.NotEmpty(t, result.Log)
}

func TestCompileRenamesAttributesAndUniformsWhenModeAll(t *testing.T) {
	result := Compile([]Shader{{Name: "vertex.glsl", Contents: sampleVertex}}, Options{Renaming: renamer.ModeAll})
	require.True(t, result.OK)

	var out jsonOutput
	require.NoError(t, json.Unmarshal([]byte(result.Output), &out))
	assert.NotEmpty(t, out.Renaming)
}

func TestCompileReportsReflectionForInterfaceVariables(t *testing.T) {
	result := Compile([]Shader{{Name: "vertex.glsl", Contents: sampleVertex}}, Options{})
	require.True(t, result.OK)

	var out jsonOutput
	require.NoError(t, json.Unmarshal([]byte(result.Output), &out))
	byQualifier := make(map[string]string)
	for _, v := range out.Reflection {
		byQualifier[v.Name] = v.Qualifier
	}
	assert.Equal(t, "uniform", byQualifier["uModel"])
	assert.Equal(t, "attribute", byQualifier["aPosition"])
	assert.Equal(t, "varying", byQualifier["vColor"])
}

func TestCompileSourceMapProducesAMappingPerShader(t *testing.T) {
	result := Compile([]Shader{{Name: "vertex.glsl", Contents: sampleVertex}}, Options{SourceMap: true})
	require.True(t, result.OK)

	var out jsonOutput
	require.NoError(t, json.Unmarshal([]byte(result.Output), &out))
	require.Len(t, out.SourceMaps, 1)
	assert.Equal(t, []string{"vertex.glsl"}, out.SourceMaps[0].Sources)
	assert.NotEmpty(t, out.SourceMaps[0].Mappings)
}

func TestCompileWithoutSourceMapOmitsTheField(t *testing.T) {
	result := Compile([]Shader{{Name: "vertex.glsl", Contents: sampleVertex}}, Options{})
	require.True(t, result.OK)
	assert.NotContains(t, result.Output, `"sourceMaps"`)
}

func TestCompileDisableRewritingKeepsHelperFunctions(t *testing.T) {
	src := `
float unused() { return 1.0; }
void main() { gl_FragColor = vec4(0.0); }
`
	kept := Compile([]Shader{{Name: "frag.glsl", Contents: src}}, Options{Renaming: renamer.ModeNone, DisableRewriting: true, PrettyPrint: true})
	require.True(t, kept.OK)
	var keptOut jsonOutput
	require.NoError(t, json.Unmarshal([]byte(kept.Output), &keptOut))
	assert.Contains(t, keptOut.Shaders[0].Contents, "unused")

	pruned := Compile([]Shader{{Name: "frag.glsl", Contents: src}}, Options{Renaming: renamer.ModeNone, PrettyPrint: true})
	require.True(t, pruned.OK)
	var prunedOut jsonOutput
	require.NoError(t, json.Unmarshal([]byte(pruned.Output), &prunedOut))
	assert.NotContains(t, prunedOut.Shaders[0].Contents, "unused")
}

func TestCompileJSFormatEmitsSourceConstant(t *testing.T) {
	result := Compile([]Shader{{Name: "myShader.glsl", Contents: "void main() { gl_FragColor = vec4(0.0); }"}}, Options{Format: "js"})
	require.True(t, result.OK)
	assert.Contains(t, result.Output, "export const GLSLX_SOURCE_MY_SHADER")
}

func TestCompileCppFormatWrapsIncludeGuard(t *testing.T) {
	result := Compile([]Shader{{Name: "a.glsl", Contents: "void main() { gl_FragColor = vec4(0.0); }"}}, Options{Format: "c++"})
	require.True(t, result.OK)
	assert.Contains(t, result.Output, "#ifndef GLSLX_STRINGS_H")
	assert.Contains(t, result.Output, "static const char *GLSLX_SOURCE_A")
}

func TestCompileRustFormatEmitsPubStatic(t *testing.T) {
	result := Compile([]Shader{{Name: "a.glsl", Contents: "void main() { gl_FragColor = vec4(0.0); }"}}, Options{Format: "rust"})
	require.True(t, result.OK)
	assert.Contains(t, result.Output, "pub static GLSLX_SOURCE_A : &str =")
}

func TestCompileRejectsUnknownFormat(t *testing.T) {
	result := Compile([]Shader{{Name: "a.glsl", Contents: "void main() {}\n"}}, Options{Format: "xml"})
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Log)
}

func TestUpperSnakeInsertsUnderscoreAtCaseTransitions(t *testing.T) {
	assert.Equal(t, "VERTEX_MAIN", upperSnake("vertexMain"))
	assert.Equal(t, "A", upperSnake("a"))
	assert.Equal(t, "MY_SHADER", upperSnake("myShader"))
}

func TestCompileIDEReportsUnusedSymbols(t *testing.T) {
	src := `
float unused() { return 1.0; }
void main() { gl_FragColor = vec4(0.0); }
`
	result := CompileIDE([]Shader{{Name: "frag.glsl", Contents: src}})
	assert.Contains(t, result.UnusedSymbols, "unused")
}

func TestCompileIDETooltipQueryFindsVariable(t *testing.T) {
	src := "void main() {\n  float total = 1.0;\n}\n"
	result := CompileIDE([]Shader{{Name: "frag.glsl", Contents: src}})

	info, ok := result.TooltipQuery("frag.glsl", 2, 9)
	require.True(t, ok)
	assert.Equal(t, "total", info.Name)
}

func TestCompileIDESignatureQueryTracksActiveArgument(t *testing.T) {
	src := "void main() {\n  float a = clamp(1.0, 0.0, 1.0);\n}\n"
	result := CompileIDE([]Shader{{Name: "frag.glsl", Contents: src}})

	info, ok := result.SignatureQuery("frag.glsl", 2, 28)
	require.True(t, ok)
	assert.Equal(t, "clamp", info.Name)
	assert.Equal(t, 2, info.ArgIndex)
}

func TestCompileIDEUnknownSourceNameReturnsFalse(t *testing.T) {
	result := CompileIDE([]Shader{{Name: "frag.glsl", Contents: "void main() {}\n"}})
	_, ok := result.TooltipQuery("missing.glsl", 1, 1)
	assert.False(t, ok)
}

func TestFormatReindentsSourceText(t *testing.T) {
	out := Format("void main() {\nfloat a = 1.0;\n}\n", FormatOptions{})
	assert.Equal(t, "void main() {\n    float a = 1.0;\n}\n", out)
}
