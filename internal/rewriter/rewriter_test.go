package rewriter

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

func parseAndResolve(t *testing.T, text string) (*ast.Node, *ast.CompilerData) {
	t.Helper()
	src := source.New("<test>", text)
	cd := ast.NewCompilerData()
	log := diagnostic.NewLog()
	root := parser.Parse(src, cd, log)
	resolver.Resolve(root, cd, log)
	require.False(t, log.HasErrors())
	return root, cd
}

func TestRewriteFoldsConstantInitializer(t *testing.T) {
	root, cd := parseAndResolve(t, "void main() {\n  int a = 2 + 3 * 4;\n}\n")
	Rewrite(root, cd)
	decl := root.ChildAt(0).Symbol.Body.FirstChild
	expr := decl.FirstChild.FirstChild
	assert.Equal(t, ast.KindInt, expr.Kind)
	assert.EqualValues(t, 14, expr.Literal)
}

func TestRewriteSimplifiesAddZero(t *testing.T) {
	root, cd := parseAndResolve(t, "void main() {\n  float x;\n  float y = x + 0.0;\n}\n")
	Rewrite(root, cd)
	decl := root.ChildAt(0).Symbol.Body.ChildAt(1)
	expr := decl.FirstChild.FirstChild
	assert.Equal(t, ast.KindName, expr.Kind)
}

func TestRewriteSimplifiesMultiplyByOne(t *testing.T) {
	root, cd := parseAndResolve(t, "void main() {\n  vec3 v;\n  vec3 w = v * 1.0;\n}\n")
	Rewrite(root, cd)
	decl := root.ChildAt(0).Symbol.Body.ChildAt(1)
	expr := decl.FirstChild.FirstChild
	assert.Equal(t, ast.KindName, expr.Kind)
}

func TestRewriteInlinesConstantIfTrue(t *testing.T) {
	root, cd := parseAndResolve(t, "void main() {\n  float x;\n  if (true) {\n    x = 1.0;\n  } else {\n    x = 2.0;\n  }\n}\n")
	Rewrite(root, cd)
	body := root.ChildAt(0).Symbol.Body
	stmt := body.ChildAt(1)
	assert.Equal(t, ast.KindBlock, stmt.Kind)
	assert.Equal(t, ast.KindExpressionStmt, stmt.FirstChild.Kind)
}

func TestRewriteDropsWhileFalse(t *testing.T) {
	root, cd := parseAndResolve(t, "void main() {\n  while (false) {\n    int z = 1;\n  }\n}\n")
	Rewrite(root, cd)
	body := root.ChildAt(0).Symbol.Body
	stmt := body.FirstChild
	assert.Equal(t, ast.KindBlock, stmt.Kind)
	assert.Equal(t, 0, stmt.ChildCount())
}

func TestRewriteTrimsStatementsAfterReturn(t *testing.T) {
	root, cd := parseAndResolve(t, "float f() {\n  return 1.0;\n  return 2.0;\n}\nvoid main() {\n  float a = f();\n}\n")
	Rewrite(root, cd)
	body := root.ChildAt(0).Symbol.Body
	assert.Equal(t, 1, body.ChildCount())
}

func TestRewriteRemovesUnusedFunction(t *testing.T) {
	root, cd := parseAndResolve(t, "float unused(float x) {\n  return x;\n}\nvoid main() {\n  float a = 1.0;\n}\n")
	Rewrite(root, cd)
	for c := root.FirstChild; c != nil; c = c.Next {
		if c.Symbol != nil {
			assert.NotEqual(t, "unused", c.Symbol.Name)
		}
	}
}

func TestRewriteKeepsCalledFunction(t *testing.T) {
	root, cd := parseAndResolve(t, "float helper(float x) {\n  return x;\n}\nvoid main() {\n  float a = helper(1.0);\n}\n")
	Rewrite(root, cd)
	found := false
	for c := root.FirstChild; c != nil; c = c.Next {
		if c.Symbol != nil && c.Symbol.Name == "helper" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRewritePrunesUnusedAutoEnabledExtension(t *testing.T) {
	root, cd := parseAndResolve(t, "float unused(vec3 v) {\n  return dFdx(v).x;\n}\nvoid main() {\n  float a = 1.0;\n}\n")
	require.Equal(t, ast.EnableBehavior, cd.ExtensionBehavior["GL_OES_standard_derivatives"])
	Rewrite(root, cd)
	_, ok := cd.ExtensionBehavior["GL_OES_standard_derivatives"]
	assert.False(t, ok)
}

func TestRewriteKeepsExplicitExtensionPragma(t *testing.T) {
	root, cd := parseAndResolve(t, "#extension GL_OES_standard_derivatives : enable\nvoid main() {\n  float a = 1.0;\n}\n")
	Rewrite(root, cd)
	assert.Equal(t, ast.EnableBehavior, cd.ExtensionBehavior["GL_OES_standard_derivatives"])
}

func TestRewriteIsIdempotent(t *testing.T) {
	root, cd := parseAndResolve(t, "void main() {\n  int a = 1 + 2;\n}\n")
	Rewrite(root, cd)
	assert.Equal(t, 0, Rewrite(root, cd))
}
