package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/parser"
	"github.com/HugoDaniel/glslx/internal/source"
	"github.com/HugoDaniel/glslx/internal/types"
)

func resolveString(t *testing.T, text string) (*ast.Node, *diagnostic.Log) {
	t.Helper()
	src := source.New("<test>", text)
	cd := ast.NewCompilerData()
	log := diagnostic.NewLog()
	root := parser.Parse(src, cd, log)
	Resolve(root, cd, log)
	return root, log
}

func TestResolveArithmetic(t *testing.T) {
	root, log := resolveString(t, "void main() {\n  float a = 1.0 + 2.0 * 3.0;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	decl := fn.Symbol.Body.FirstChild
	expr := decl.FirstChild.FirstChild
	assert.True(t, expr.ResolvedType.Equals(types.Float))
}

func TestResolveIntPlusFloatIsError(t *testing.T) {
	_, log := resolveString(t, "void main() {\n  int a = 1;\n  float b = 2.0;\n  float c = a + b;\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveVectorScalarMultiply(t *testing.T) {
	root, log := resolveString(t, "void main() {\n  vec3 v = vec3(1.0, 2.0, 3.0) * 2.0;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	decl := fn.Symbol.Body.FirstChild
	expr := decl.FirstChild.FirstChild
	assert.True(t, expr.ResolvedType.Equals(types.Vec(3, types.Float.(*types.Scalar))))
}

func TestResolveSwizzle(t *testing.T) {
	root, log := resolveString(t, "void main() {\n  vec3 v = vec3(1.0, 2.0, 3.0);\n  vec2 w = v.xy;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	w := fn.Symbol.Body.ChildAt(1)
	expr := w.FirstChild.FirstChild
	assert.True(t, expr.ResolvedType.Equals(types.Vec(2, types.Float.(*types.Scalar))))
}

func TestResolveSwizzleOutOfRangeErrors(t *testing.T) {
	_, log := resolveString(t, "void main() {\n  vec2 v = vec2(1.0, 2.0);\n  float f = v.z;\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveStructFieldAccess(t *testing.T) {
	root, log := resolveString(t, "struct Light { vec3 color; float intensity; };\nvoid main() {\n  Light l;\n  float i = l.intensity;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(1)
	decl := fn.Symbol.Body.ChildAt(1)
	expr := decl.FirstChild.FirstChild
	assert.True(t, expr.ResolvedType.Equals(types.Float))
}

func TestResolveIndexOutOfRangeErrors(t *testing.T) {
	_, log := resolveString(t, "void main() {\n  vec3 v = vec3(1.0, 2.0, 3.0);\n  float f = v[5];\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveAssignToConstErrors(t *testing.T) {
	_, log := resolveString(t, "void main() {\n  const float k = 1.0;\n  k = 2.0;\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveAssignToAttributeErrors(t *testing.T) {
	_, log := resolveString(t, "attribute vec3 aPosition;\nvoid main() {\n  aPosition = vec3(0.0);\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveAssignToVaryingIsAllowed(t *testing.T) {
	_, log := resolveString(t, "varying vec3 vColor;\nattribute vec3 aPosition;\nvoid main() {\n  vColor = aPosition;\n}\n")
	assert.False(t, log.HasErrors())
}

func TestResolveReturnTypeMismatch(t *testing.T) {
	_, log := resolveString(t, "float f() {\n  return true;\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveMissingReturnOnAllPaths(t *testing.T) {
	_, log := resolveString(t, "float f() {\n  if (true) {\n    return 1.0;\n  }\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveReturnOnAllPathsOK(t *testing.T) {
	_, log := resolveString(t, "float f() {\n  if (true) {\n    return 1.0;\n  } else {\n    return 2.0;\n  }\n}\n")
	assert.False(t, log.HasErrors())
}

func TestResolveBreakOutsideLoopErrors(t *testing.T) {
	_, log := resolveString(t, "void main() {\n  break;\n}\n")
	assert.True(t, log.HasErrors())
}

func TestResolveTernaryCommonType(t *testing.T) {
	root, log := resolveString(t, "void main() {\n  float a = true ? 1.0 : 2.0;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	decl := fn.Symbol.Body.FirstChild
	expr := decl.FirstChild.FirstChild
	assert.True(t, expr.ResolvedType.Equals(types.Float))
}

func TestResolveFunctionOverloadSelection(t *testing.T) {
	root, log := resolveString(t, "float f(float x) { return x; }\nfloat f(vec3 x) { return x.x; }\nvoid main() {\n  float a = f(1.0);\n}\n")
	require.False(t, log.HasErrors())
	mainFn := root.ChildAt(2)
	decl := mainFn.Symbol.Body.FirstChild
	call := decl.FirstChild.FirstChild
	assert.True(t, call.ResolvedType.Equals(types.Float))
}

func TestResolveBuiltinCallAutoEnablesExtension(t *testing.T) {
	src := source.New("<test>", "void main() {\n  vec3 v = vec3(1.0);\n  vec3 d = dFdx(v);\n}\n")
	cd := ast.NewCompilerData()
	log := diagnostic.NewLog()
	tree := parser.Parse(src, cd, log)
	Resolve(tree, cd, log)
	require.False(t, log.HasErrors())
	assert.Equal(t, ast.EnableBehavior, cd.ExtensionBehavior["GL_OES_standard_derivatives"])
}
