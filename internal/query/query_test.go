package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/parser"
	"github.com/HugoDaniel/glslx/internal/resolver"
	"github.com/HugoDaniel/glslx/internal/source"
	"github.com/HugoDaniel/glslx/internal/types"
)

func buildTree(t *testing.T, text string) *ast.Node {
	t.Helper()
	src := source.New("<test>", text)
	cd := ast.NewCompilerData()
	log := diagnostic.NewLog()
	root := parser.Parse(src, cd, log)
	resolver.Resolve(root, cd, log)
	require.False(t, log.HasErrors())
	return root
}

func indexOf(t *testing.T, text, needle string) int {
	t.Helper()
	i := strings.Index(text, needle)
	require.GreaterOrEqual(t, i, 0, "needle %q not found in %q", needle, text)
	return i
}

func TestSymbolFindsVariableDeclaration(t *testing.T) {
	text := "void main() {\n  float myVar = 1.0;\n  float other = myVar;\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "myVar;") // the reference, not the declaration
	info, ok := Symbol(root, pos)
	require.True(t, ok)
	assert.Equal(t, SymbolVariable, info.Kind)
	assert.Equal(t, "myVar", info.Name)
	require.NotNil(t, info.Symbol)
	assert.Equal(t, types.Float, info.Type)
}

func TestSymbolRecognizesFunctionName(t *testing.T) {
	text := "float helper() {\n  return 1.0;\n}\nvoid main() {\n  float a = helper();\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "helper()") + 1
	info, ok := Symbol(root, pos)
	require.True(t, ok)
	assert.Equal(t, SymbolFunction, info.Kind)
	assert.Equal(t, "helper", info.Name)
}

func TestSymbolRecognizesSwizzle(t *testing.T) {
	text := "void main() {\n  vec3 a = vec3(1.0, 2.0, 3.0);\n  float b = a.xy.x;\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, ".xy") + 1
	info, ok := Symbol(root, pos)
	require.True(t, ok)
	assert.Equal(t, SymbolSwizzle, info.Kind)
	assert.Equal(t, "xy", info.SwizzleName)
	assert.Equal(t, types.Vec(2, types.Float.(*types.Scalar)), info.Type)
}

func TestSymbolsListsTopLevelDeclarations(t *testing.T) {
	text := "uniform float u_time;\nfloat helper() {\n  return 1.0;\n}\nvoid main() {\n}\n"
	root := buildTree(t, text)
	names := map[string]bool{}
	for _, sym := range Symbols(root) {
		names[sym.Name] = true
	}
	assert.True(t, names["u_time"])
	assert.True(t, names["helper"])
	assert.True(t, names["main"])
}

func TestRenameCollectsAllReferences(t *testing.T) {
	text := "void main() {\n  float count = 1.0;\n  float next = count + count;\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "count =")
	ranges := Rename(root, pos)
	// the declaration plus the two uses in `count + count`
	assert.Len(t, ranges, 3)
}

func TestRenameFollowsForwardDeclarationSibling(t *testing.T) {
	text := "float helper();\nvoid main() {\n  float a = helper();\n}\nfloat helper() {\n  return 1.0;\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "helper();\nvoid") // on the forward declaration's name
	ranges := Rename(root, pos)
	// forward decl name, call-site reference, definition name
	assert.Len(t, ranges, 3)
}

func TestCompletionsIncludeKeywordsTypesAndLocals(t *testing.T) {
	text := "void main() {\n  float localVar = 1.0;\n  \n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "\n}\n")
	items := Completions(root, pos)
	assert.Contains(t, items, "if")
	assert.Contains(t, items, "vec3")
	assert.Contains(t, items, "sin")
	assert.Contains(t, items, "gl_Position")
	assert.Contains(t, items, "localVar")
	assert.Equal(t, CompletionVariable, items["localVar"].Kind)
}

func TestCompletionsAfterDotOfferSwizzlesOnly(t *testing.T) {
	text := "void main() {\n  vec3 a = vec3(1.0, 2.0, 3.0);\n  float b = a.x;\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, ".x") + 1
	items := Completions(root, pos)
	assert.Contains(t, items, "x")
	assert.Contains(t, items, "xy")
	assert.Contains(t, items, "xyz")
	assert.NotContains(t, items, "if")
	for _, it := range items {
		assert.Equal(t, CompletionSwizzle, it.Kind)
	}
}

func TestCompletionsAfterDotOfferStructFields(t *testing.T) {
	text := "struct Light {\n  vec3 color;\n  float intensity;\n};\nvoid main() {\n  Light l;\n  float i = l.intensity;\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, ".intensity") + 1
	items := Completions(root, pos)
	assert.Contains(t, items, "color")
	assert.Contains(t, items, "intensity")
	assert.NotContains(t, items, "if")
}

func TestSignaturePicksExactOverloadByArgCount(t *testing.T) {
	text := "void main() {\n  vec3 a = vec3(1.0, 2.0, 3.0);\n  float b = length(a);\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "a);")
	info, ok := Signature(root, pos)
	require.True(t, ok)
	assert.Equal(t, "length", info.Name)
	require.GreaterOrEqual(t, info.Active, 0)
	assert.Len(t, info.Overloads[info.Active].Parameters, 1)
	assert.Equal(t, 0, info.ArgIndex)
}

func TestSignatureTracksActiveArgumentIndex(t *testing.T) {
	text := "void main() {\n  float a = 1.0;\n  float b = 2.0;\n  float c = max(a, b);\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "b);")
	info, ok := Signature(root, pos)
	require.True(t, ok)
	assert.Equal(t, "max", info.Name)
	assert.Equal(t, 1, info.ArgIndex)
}

func TestSignatureResolvesUserDefinedOverloads(t *testing.T) {
	text := "float pick(float a) {\n  return a;\n}\nfloat pick(float a, float b) {\n  return a + b;\n}\nvoid main() {\n  float r = pick(1.0, 2.0);\n}\n"
	root := buildTree(t, text)
	pos := indexOf(t, text, "2.0)")
	info, ok := Signature(root, pos)
	require.True(t, ok)
	assert.Equal(t, "pick", info.Name)
	assert.Len(t, info.Overloads, 2)
	require.GreaterOrEqual(t, info.Active, 0)
	assert.Len(t, info.Overloads[info.Active].Parameters, 2)
}
