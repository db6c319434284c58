package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/source"
)

func parseString(t *testing.T, text string) (*ast.Node, *diagnostic.Log) {
	t.Helper()
	src := source.New("<test>", text)
	cd := ast.NewCompilerData()
	log := diagnostic.NewLog()
	root := Parse(src, cd, log)
	return root, log
}

func TestParseVersionAndExtension(t *testing.T) {
	root, log := parseString(t, "#version 100\n#extension GL_OES_standard_derivatives : enable\n")
	require.False(t, log.HasErrors())
	require.Equal(t, 2, root.ChildCount())

	version := root.ChildAt(0)
	assert.Equal(t, ast.KindVersion, version.Kind)
	assert.EqualValues(t, 100, version.Literal)

	ext := root.ChildAt(1)
	assert.Equal(t, ast.KindExtension, ext.Kind)
	assert.Equal(t, "GL_OES_standard_derivatives", ext.Text)
	assert.Equal(t, ast.EnableBehavior, ast.ExtensionBehavior(ext.Literal))
}

func TestParseGlobalVariableDecl(t *testing.T) {
	root, log := parseString(t, "uniform vec3 uColor;\n")
	require.False(t, log.HasErrors())
	require.Equal(t, 1, root.ChildCount())

	decl := root.ChildAt(0)
	require.Equal(t, ast.KindVariables, decl.Kind)
	v := decl.FirstChild
	require.NotNil(t, v.Symbol)
	assert.Equal(t, "uColor", v.Symbol.Name)
	assert.True(t, v.Symbol.Flags.Has(ast.FlagUniform))
	assert.Equal(t, "vec3", v.Symbol.TypeNode.Text)
}

func TestParseStructDecl(t *testing.T) {
	root, log := parseString(t, "struct Light { vec3 color; float intensity; };\n")
	require.False(t, log.HasErrors())
	decl := root.ChildAt(0)
	require.Equal(t, ast.KindStructDecl, decl.Kind)
	require.NotNil(t, decl.Symbol)
	assert.Equal(t, "Light", decl.Symbol.Name)
	require.Len(t, decl.Symbol.Fields, 2)
	assert.Equal(t, "color", decl.Symbol.Fields[0].Name)
	assert.Equal(t, "intensity", decl.Symbol.Fields[1].Name)
}

func TestParseFunctionDeclWithBody(t *testing.T) {
	root, log := parseString(t, "float square(float x) {\n  return x * x;\n}\n")
	require.False(t, log.HasErrors())
	decl := root.ChildAt(0)
	require.Equal(t, ast.KindFunctionDecl, decl.Kind)
	require.NotNil(t, decl.Symbol)
	assert.Equal(t, "square", decl.Symbol.Name)
	require.Len(t, decl.Symbol.Arguments, 1)
	assert.Equal(t, "x", decl.Symbol.Arguments[0].Name)
	require.NotNil(t, decl.Symbol.Body)

	body := decl.Symbol.Body
	require.Equal(t, 1, body.ChildCount())
	ret := body.FirstChild
	assert.Equal(t, ast.KindReturn, ret.Kind)
	mul := ret.FirstChild
	assert.Equal(t, ast.KindMultiply, mul.Kind)
}

func TestParseForwardDeclarationSibling(t *testing.T) {
	root, log := parseString(t, "float square(float x);\nfloat square(float x) { return x * x; }\n")
	require.False(t, log.HasErrors())
	require.Equal(t, 2, root.ChildCount())

	forwardDecl := root.ChildAt(0).Symbol
	definition := root.ChildAt(1).Symbol
	require.NotNil(t, forwardDecl.Sibling)
	assert.Same(t, definition, forwardDecl.Sibling)
	assert.Same(t, forwardDecl, definition.Sibling)
}

func TestExpressionPrecedence(t *testing.T) {
	root, log := parseString(t, "void main() {\n  float x = 1.0 + 2.0 * 3.0;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	body := fn.Symbol.Body
	decl := body.FirstChild
	v := decl.FirstChild
	add := v.FirstChild
	require.Equal(t, ast.KindAdd, add.Kind)
	// 1.0 + (2.0 * 3.0): multiply binds tighter, so it is the right operand.
	mul := add.Right()
	require.Equal(t, ast.KindMultiply, mul.Kind)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	root, log := parseString(t, "void main() {\n  float a, b, c;\n  a = b = c;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	body := fn.Symbol.Body
	exprStmt := body.ChildAt(1)
	assign := exprStmt.FirstChild
	require.Equal(t, ast.KindAssign, assign.Kind)
	// a = (b = c): the inner assignment is the right operand.
	inner := assign.Right()
	assert.Equal(t, ast.KindAssign, inner.Kind)
}

func TestTernaryHook(t *testing.T) {
	root, log := parseString(t, "void main() {\n  float a = true ? 1.0 : 2.0;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	body := fn.Symbol.Body
	decl := body.FirstChild
	hook := decl.FirstChild.FirstChild
	require.Equal(t, ast.KindHook, hook.Kind)
	assert.Equal(t, 3, hook.ChildCount())
}

func TestCallAndMemberAccess(t *testing.T) {
	root, log := parseString(t, "void main() {\n  vec3 v = normalize(vec3(1.0, 0.0, 0.0)).xyz;\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	body := fn.Symbol.Body
	decl := body.FirstChild
	dot := decl.FirstChild.FirstChild
	require.Equal(t, ast.KindDot, dot.Kind)
	assert.Equal(t, "xyz", dot.Text)
	call := dot.FirstChild
	require.Equal(t, ast.KindCall, call.Kind)
	callee := call.FirstChild
	assert.Equal(t, ast.KindName, callee.Kind)
	assert.Equal(t, "normalize", callee.Text)
}

func TestIndexExpression(t *testing.T) {
	root, log := parseString(t, "void main() {\n  float a[4];\n  float b = a[2];\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	body := fn.Symbol.Body
	b := body.ChildAt(1)
	idx := b.FirstChild.FirstChild
	require.Equal(t, ast.KindIndex, idx.Kind)
}

func TestForLoopHasFixedChildSlots(t *testing.T) {
	root, log := parseString(t, "void main() {\n  for (;;) { break; }\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	loop := fn.Symbol.Body.FirstChild
	require.Equal(t, ast.KindFor, loop.Kind)
	require.Equal(t, 4, loop.ChildCount())
	body := loop.ChildAt(3)
	assert.Equal(t, ast.KindBlock, body.Kind)
	assert.Equal(t, ast.KindBreak, body.FirstChild.Kind)
}

func TestIfElseChain(t *testing.T) {
	root, log := parseString(t, "void main() {\n  if (true) { discard; } else { return; }\n}\n")
	require.False(t, log.HasErrors())
	fn := root.ChildAt(0)
	ifStmt := fn.Symbol.Body.FirstChild
	require.Equal(t, ast.KindIf, ifStmt.Kind)
	require.Equal(t, 3, ifStmt.ChildCount())
}

func TestReservedWordWarns(t *testing.T) {
	_, log := parseString(t, "void main() { int template = 1; }\n")
	assert.True(t, log.HasWarnings())
}
