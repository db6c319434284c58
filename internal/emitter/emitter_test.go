package emitter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/parser"
	"github.com/HugoDaniel/glslx/internal/resolver"
	"github.com/HugoDaniel/glslx/internal/source"
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

func TestEmitSimpleFunction(t *testing.T) {
	root := buildTree(t, "void main() {\n  float a = 1.0;\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "void main()")
	assert.Contains(t, out, "float a = 1.0;")
}

func TestEmitMinifyRemovesIndentationAndBlankLines(t *testing.T) {
	root := buildTree(t, "float helper() {\n  return 1.0;\n}\nvoid main() {\n  float a = helper();\n}\n")
	out := Emit(root, Options{Minify: true})
	assert.False(t, strings.Contains(out, "\n\n"))
	assert.False(t, strings.Contains(out, "    "))
}

func TestEmitPrettyInsertsBlankLineBetweenFunctionsWithBodies(t *testing.T) {
	root := buildTree(t, "float helper() {\n  return 1.0;\n}\nvoid main() {\n  float a = helper();\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "}\n\nvoid main()")
}

func TestEmitAdditiveChainNeedsNoParens(t *testing.T) {
	root := buildTree(t, "void main() {\n  float a = 1.0 + 2.0 + 3.0;\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "1.0 + 2.0 + 3.0")
	body := out[strings.Index(out, "{"):]
	assert.False(t, strings.Contains(body, "("))
}

func TestEmitParenthesizesLowerPrecedenceOnRight(t *testing.T) {
	// a * (b + c) must keep its parens: without them it would re-parse
	// as (a * b) + c.
	root := buildTree(t, "void main() {\n  float a = 1.0; float b = 2.0; float c = 3.0;\n  float d = a * (b + c);\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "a * (b + c)")
}

func TestEmitDropsRedundantParensAroundSamePrecedenceLeft(t *testing.T) {
	// (a + b) + c is naturally left-associative; the source parens are
	// not required to round-trip and should not reappear.
	root := buildTree(t, "void main() {\n  float a = 1.0; float b = 2.0; float c = 3.0;\n  float d = (a + b) + c;\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "a + b + c")
}

func TestEmitAssignmentIsRightAssociativeWithoutParens(t *testing.T) {
	root := buildTree(t, "void main() {\n  float a; float b; float c;\n  a = b = c;\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "a = b = c")
}

func TestEmitTernaryChainsWithoutParensOnFalseBranch(t *testing.T) {
	root := buildTree(t, "void main() {\n  bool a = true; float x = 1.0; float y = 2.0; float z = 3.0;\n  float r = a ? x : a ? y : z;\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "a ? x : a ? y : z")
}

func TestEmitTernaryAsConditionGetsParens(t *testing.T) {
	root := buildTree(t, "void main() {\n  bool a = true; bool b = true; float x = 1.0; float y = 2.0; float z = 3.0;\n  float r = (a ? x : y) > z ? x : y;\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "(a ? x : y) > z")
}

func TestEmitMinifyInsertsSpaceBetweenAdjacentMinuses(t *testing.T) {
	root := buildTree(t, "void main() {\n  float a = 1.0;\n  float b = -(-a);\n}\n")
	out := Emit(root, Options{Minify: true})
	assert.False(t, strings.Contains(out, "--"))
}

func TestEmitForLoopWithConditionAndUpdate(t *testing.T) {
	root := buildTree(t, "void main() {\n  for (int i = 0; i < 10; i++) {\n    float a = 1.0;\n  }\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "for (int i = 0; i < 10; i++)")
}

func TestEmitForLoopAllClausesAbsent(t *testing.T) {
	root := buildTree(t, "void main() {\n  for (;;) {\n    break;\n  }\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "for (;;)")
}

func TestEmitIfElseChain(t *testing.T) {
	root := buildTree(t, "void main() {\n  float a = 1.0;\n  if (a > 0.0) {\n    a = 1.0;\n  } else {\n    a = 2.0;\n  }\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "if (a > 0.0)")
	assert.Contains(t, out, "else")
}

func TestEmitStructDeclWithFields(t *testing.T) {
	root := buildTree(t, "struct Light {\n  vec3 color;\n  float intensity;\n};\nvoid main() {\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "struct Light")
	assert.Contains(t, out, "vec3 color;")
	assert.Contains(t, out, "float intensity;")
}

func TestEmitStructDeclWithTrailingInstance(t *testing.T) {
	root := buildTree(t, "struct Light {\n  vec3 color;\n} sun;\nvoid main() {\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "} sun;")
}

func TestEmitPrecisionDirective(t *testing.T) {
	root := buildTree(t, "precision mediump float;\nvoid main() {\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "precision mediump float;")
}

func TestEmitSkipsImportedDeclarations(t *testing.T) {
	root := buildTree(t, "void helper() {\n}\nvoid main() {\n}\n")
	root.ChildAt(0).Symbol.Flags |= ast.FlagImported
	out := Emit(root, Options{})
	assert.False(t, strings.Contains(out, "helper"))
	assert.Contains(t, out, "void main()")
}

func TestFloatTextDecimalPrefersShortestForm(t *testing.T) {
	assert.Equal(t, "1.0", floatText(1.0, false))
	assert.Equal(t, "0.5", floatText(0.5, false))
	assert.Equal(t, ".5", floatText(0.5, true))
	assert.Equal(t, "-.5", floatText(-0.5, true))
}

func TestFloatTextPicksExponentialWhenShorter(t *testing.T) {
	got := floatText(100000000.0, false)
	assert.True(t, strings.Contains(got, "e"))
}

func TestFloatTextAlwaysHasDecimalPointWhenNoExponent(t *testing.T) {
	got := floatText(4.0, false)
	assert.Contains(t, got, ".")
}

func TestEmitSequenceInCallArgumentKeepsParens(t *testing.T) {
	// A comma expression used as a call argument must stay parenthesized:
	// without the parens it would be read as two separate arguments.
	root := buildTree(t, "void main() {\n  float a = 1.0; float b = 2.0;\n  float c = max((a = 1.0, b), a);\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "(a = 1.0, b)")
}

func TestEmitSequenceIsLeftAssociativeWithoutExtraParens(t *testing.T) {
	root := buildTree(t, "void main() {\n  float a; float b; float c;\n  float d = (a = 1.0, b = 2.0, c = 3.0);\n}\n")
	out := Emit(root, Options{})
	assert.Contains(t, out, "a = 1.0, b = 2.0, c = 3.0")
}

func TestEmitMinifyKeepsQualifierTypeNameSeparated(t *testing.T) {
	root := buildTree(t, "void main() {\n  const float a = 1.0;\n}\n")
	out := Emit(root, Options{Minify: true})
	assert.False(t, strings.Contains(out, "constfloat"))
	assert.False(t, strings.Contains(out, "floata"))
}

func TestEmitMinifyKeepsElseIfSeparated(t *testing.T) {
	root := buildTree(t, "void main() {\n  float a = 1.0;\n  if (a > 0.0) {\n    a = 1.0;\n  } else if (a < 0.0) {\n    a = 2.0;\n  }\n}\n")
	out := Emit(root, Options{Minify: true})
	assert.False(t, strings.Contains(out, "elseif"))
}

func TestEmitMinifyKeepsDoWhileBodySeparated(t *testing.T) {
	root := buildTree(t, "void main() {\n  int i = 0;\n  do\n    i++;\n  while (i < 10);\n}\n")
	out := Emit(root, Options{Minify: true})
	assert.False(t, strings.Contains(out, "doi"))
	assert.False(t, strings.Contains(out, "i++while"))
}

func TestEmitMinifyVersionDirectiveEndsItsLine(t *testing.T) {
	root := buildTree(t, "#version 100\nvoid main() {\n}\n")
	out := Emit(root, Options{Minify: true})
	assert.False(t, strings.Contains(out, "100void"))
	assert.Contains(t, out, "#version 100\n")
}

func TestEmitWithSourceMapRecordsAMappingPerIdentifier(t *testing.T) {
	root := buildTree(t, "void main() {\n  float total = 1.0;\n}\n")
	_, sm := EmitWithSourceMap(root, Options{SourceName: "frag.glsl"})
	require.NotNil(t, sm)
	assert.Equal(t, []string{"frag.glsl"}, sm.Sources)
	assert.NotEmpty(t, sm.Mappings)
}

func TestEmitWithSourceMapIncludesSourceContentWhenRequested(t *testing.T) {
	root := buildTree(t, "void main() {}\n")
	_, sm := EmitWithSourceMap(root, Options{IncludeSourceContent: true})
	require.NotNil(t, sm)
	require.Len(t, sm.SourcesContent, 1)
	assert.Contains(t, sm.SourcesContent[0], "void main")
}

func TestEmitWithoutSourceMapOptionReturnsNilMap(t *testing.T) {
	root := buildTree(t, "void main() {}\n")
	_, sm := emit(root, Options{})
	assert.Nil(t, sm)
}

// dumpTree renders n as an indented outline of Kind/Text/Literal values,
// deliberately omitting Id and Symbol (a reparse allocates fresh ones for
// both, and §8's round-trip property is stated "up to node ids"). Two
// trees are structurally equal iff their dumps are byte-identical.
func dumpTree(n *ast.Node, depth int) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%skind=%d", strings.Repeat("  ", depth), n.Kind)
	if n.Text != "" {
		fmt.Fprintf(&b, " text=%q", n.Text)
	}
	if n.Kind == ast.KindInt || n.Kind == ast.KindBool {
		fmt.Fprintf(&b, " lit=%d", n.Literal)
	}
	if n.Kind == ast.KindFloat {
		fmt.Fprintf(&b, " lit=%g", n.LiteralFloat)
	}
	b.WriteByte('\n')
	for c := n.FirstChild; c != nil; c = c.Next {
		b.WriteString(dumpTree(c, depth+1))
	}
	return b.String()
}

func buildProgramTree(t *testing.T, text string) *ast.Node {
	t.Helper()
	src := source.New("<test>", text)
	cd := ast.NewCompilerData()
	log := diagnostic.NewLog()
	root := parser.ParseProgram(src, cd, log)
	resolver.Resolve(root, cd, log)
	require.False(t, log.HasErrors(), "fixture failed to compile: %s", diagnostic.FormatAll(log))
	return root
}

// TestEmitReparseRoundTrip checks Testable Property 5: for a well-typed
// program compiled with rewriting and renaming both switched off, emitting
// it and reparsing the result produces a tree equal to the original up to
// node ids. disableRewriting/keepSymbols/no-renaming are the caller's job
// (this package never rewrites or renames on its own); the zero-value
// Options (Minify: false) plays the role of the spec's keepWhitespace=true.
func TestEmitReparseRoundTrip(t *testing.T) {
	programs := []string{
		"void main() {\n    gl_FragColor = vec4(1.0);\n}\n",
		"float helper(float x) {\n    return x + 1.0;\n}\n\nvoid main() {\n    gl_FragColor = vec4(helper(2.0));\n}\n",
		"struct Light {\n    vec3 color;\n    float intensity;\n};\n\nvoid main() {\n    Light l;\n    l.color = vec3(1.0);\n    l.intensity = 0.5;\n    gl_FragColor = vec4(l.color * l.intensity, 1.0);\n}\n",
		"uniform vec2 uResolution;\nvoid main() {\n    for (int i = 0; i < 3; i++) {\n        if (i == 1) break;\n    }\n    gl_FragColor = vec4(uResolution, 0.0, 1.0);\n}\n",
	}
	for _, p := range programs {
		original := buildProgramTree(t, p)
		code := Emit(original, Options{})

		src := source.New("<roundtrip>", code)
		cd := ast.NewCompilerData()
		log := diagnostic.NewLog()
		reparsed := parser.ParseProgram(src, cd, log)
		resolver.Resolve(reparsed, cd, log)
		require.False(t, log.HasErrors(), "reparse of emitted output produced diagnostics for %q: %s", p, diagnostic.FormatAll(log))

		wantDump := dumpTree(original, 0)
		gotDump := dumpTree(reparsed, 0)
		if wantDump != gotDump {
			diff := difflib.UnifiedDiff{
				A:        difflib.SplitLines(wantDump),
				B:        difflib.SplitLines(gotDump),
				FromFile: "original",
				ToFile:   "parse(emit(original))",
				Context:  2,
			}
			text, err := difflib.GetUnifiedDiffString(diff)
			require.NoError(t, err)
			t.Errorf("round-trip mismatch for %q:\n%s", p, text)
		}
	}
}
