package reflect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/parser"
	"github.com/HugoDaniel/glslx/internal/resolver"
	"github.com/HugoDaniel/glslx/internal/source"
)

func resolveString(t *testing.T, text string) *ast.Node {
	t.Helper()
	src := source.New("<test>", text)
	cd := ast.NewCompilerData()
	log := diagnostic.NewLog()
	root := parser.ParseProgram(src, cd, log)
	resolver.Resolve(root, cd, log)
	require.False(t, log.HasErrors())
	return root
}

func TestReflectCollectsAttributeUniformAndVarying(t *testing.T) {
	root := resolveString(t, `
uniform mat4 uModel;
attribute vec3 aPosition;
varying vec3 vColor;

void main() {
  vColor = aPosition;
  gl_Position = uModel * vec4(aPosition, 1.0);
}
`)

	result := Reflect(root, nil)
	byName := make(map[string]Variable)
	for _, v := range result.Variables {
		byName[v.Name] = v
	}

	require.Contains(t, byName, "uModel")
	assert.Equal(t, "uniform", byName["uModel"].Qualifier)

	require.Contains(t, byName, "aPosition")
	assert.Equal(t, "attribute", byName["aPosition"].Qualifier)

	require.Contains(t, byName, "vColor")
	assert.Equal(t, "varying", byName["vColor"].Qualifier)
}

func TestReflectIgnoresLocalsAndFunctions(t *testing.T) {
	root := resolveString(t, `
float helper() { return 1.0; }
void main() {
  float total = helper();
  gl_FragColor = vec4(total);
}
`)

	result := Reflect(root, nil)
	assert.Empty(t, result.Variables)
}

func TestReflectFillsInRenamedNameWhenProvided(t *testing.T) {
	root := resolveString(t, `
uniform mat4 uModel;
void main() { gl_Position = uModel * vec4(0.0); }
`)

	result := Reflect(root, map[string]string{"uModel": "a"})
	require.Len(t, result.Variables, 1)
	assert.Equal(t, "uModel", result.Variables[0].Original)
	assert.Equal(t, "a", result.Variables[0].Renamed)
}

func TestReflectLeavesRenamedBlankWithoutMapping(t *testing.T) {
	root := resolveString(t, `
attribute vec3 aPosition;
void main() { gl_Position = vec4(aPosition, 1.0); }
`)

	result := Reflect(root, nil)
	require.Len(t, result.Variables, 1)
	assert.Empty(t, result.Variables[0].Renamed)
}
