// Package api exposes the programmatic compile entry points: Compile
// (source in, rendered output text out), CompileIDE (source in, a
// typed tree plus the IDE query callables out), and Format (source
// text in, re-indented source text out). cmd/glslx is a thin
// flag-parsing wrapper over this package.
package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/diagnostic"
	"github.com/HugoDaniel/glslx/internal/emitter"
	"github.com/HugoDaniel/glslx/internal/formatter"
	"github.com/HugoDaniel/glslx/internal/parser"
	"github.com/HugoDaniel/glslx/internal/query"
	"github.com/HugoDaniel/glslx/internal/reflect"
	"github.com/HugoDaniel/glslx/internal/renamer"
	"github.com/HugoDaniel/glslx/internal/resolver"
	"github.com/HugoDaniel/glslx/internal/rewriter"
	"github.com/HugoDaniel/glslx/internal/source"
)

// FormatOptions mirrors internal/formatter.Options so callers of this
// package never need to import internal/.
type FormatOptions = formatter.Options

// Format re-indents text and normalizes its newline conventions; see
// internal/formatter for the exact algorithm.
func Format(text string, opts FormatOptions) string {
	return formatter.Format(text, opts)
}

// Shader is one named GLSL ES 1.0 entry point, in or out of Compile.
type Shader struct {
	Name     string
	Contents string
}

// Options controls how Compile (and CompileIDE) process their input;
// it mirrors the CLI flag surface of cmd/glslx field for field.
type Options struct {
	Renaming         renamer.Mode
	DisableRewriting bool
	PrettyPrint      bool
	KeepSymbols      bool
	// Format selects the rendered output shape for Compile; CompileIDE
	// ignores it. One of "json" (default), "js", "c++", "skew", "rust".
	Format string
	// SourceMap requests a Source Map v3 document per shader, mapping
	// emitted positions back to the original source; only honored when
	// Format is "json".
	SourceMap bool
}

// Result is Compile's output: the diagnostic log rendered as text,
// plus the generated output. OK is false when compilation failed, in
// which case Output is empty (the "output: null" half of the spec).
type Result struct {
	Log    string
	Output string
	OK     bool
}

// Compile type-checks, optionally rewrites and renames, then renders
// every shader to the requested output format.
func Compile(shaders []Shader, opts Options) Result {
	if opts.Format == "" {
		opts.Format = "json"
	}

	roots, names, cd, log := parseAndResolve(shaders)
	if log.HasErrors() {
		return Result{Log: diagnostic.FormatAll(log)}
	}

	applyRewriting(roots, cd, opts)

	// Reflect before renaming: Rename rewrites Symbol.Name in place, and
	// reflection records each variable under its original name.
	var reflection []reflect.Variable
	for _, root := range roots {
		reflection = append(reflection, reflect.Reflect(root, nil).Variables...)
	}

	// main is the GL entry point: it is flagged imported while the
	// renamer runs, so it keeps its name under every mode.
	var mains []*ast.Symbol
	for _, root := range roots {
		for c := root.FirstChild; c != nil; c = c.Next {
			if c.Kind == ast.KindFunctionDecl && c.Symbol != nil && c.Symbol.Name == "main" && !c.Symbol.Flags.Has(ast.FlagImported) {
				c.Symbol.Flags |= ast.FlagImported
				mains = append(mains, c.Symbol)
			}
		}
	}
	renaming := renamer.Rename(roots, opts.Renaming)
	for _, sym := range mains {
		sym.Flags &^= ast.FlagImported
	}
	for i := range reflection {
		reflection[i].Renamed = renaming[reflection[i].Original]
	}

	outputs := make([]Shader, len(roots))
	sourceMaps := make([]*emitter.SourceMap, len(roots))
	for i, root := range roots {
		emitOpts := emitter.Options{Minify: !opts.PrettyPrint, SourceMap: opts.SourceMap, SourceName: names[i]}
		if opts.SourceMap {
			code, sm := emitter.EmitWithSourceMap(root, emitOpts)
			outputs[i] = Shader{Name: names[i], Contents: code}
			sourceMaps[i] = sm
		} else {
			outputs[i] = Shader{Name: names[i], Contents: emitter.Emit(root, emitOpts)}
		}
	}

	output, err := render(opts.Format, outputs, renaming, reflection, sourceMaps)
	if err != nil {
		log.AddError(source.MakeRange(nil, 0, 0), "%s", err.Error())
		return Result{Log: diagnostic.FormatAll(log)}
	}
	return Result{Log: diagnostic.FormatAll(log), Output: output, OK: true}
}

// IDEResult is CompileIDE's output: the typed tree's own diagnostics
// and unused-symbol list, plus callables a client drives with a
// (source, line, column) position.
type IDEResult struct {
	Log             string
	UnusedSymbols   []string
	TooltipQuery    func(name string, line, column int) (*query.SymbolInfo, bool)
	DefinitionQuery func(name string, line, column int) (source.Range, bool)
	SymbolsQuery    func(name string) []*ast.Symbol
	RenameQuery     func(name string, line, column int) []source.Range
	CompletionQuery func(name string, line, column int) map[string]query.CompletionItem
	SignatureQuery  func(name string, line, column int) (*query.SignatureInfo, bool)
}

// CompileIDE resolves every shader (never rewriting or renaming — an
// IDE wants the tree shaped exactly like the source it is editing) and
// returns the query callables over it. A position is given as
// (source name, 1-based line, 1-based column), matching the CLI/editor
// convention; Source.IndexToLineColumn is 0-based, so positions are
// translated at the boundary.
func CompileIDE(shaders []Shader) IDEResult {
	roots, names, _, log := parseAndResolve(shaders)

	bySource := make(map[string]*ast.Node, len(roots))
	for i, root := range roots {
		bySource[names[i]] = root
	}

	indexAt := func(name string, line, column int) (int, *ast.Node, bool) {
		root, ok := bySource[name]
		if !ok {
			return 0, nil, false
		}
		src := root.Range.Src
		if src == nil {
			return 0, nil, false
		}
		return src.LineColumnToIndex(line-1, column-1), root, true
	}

	var unused []string
	for _, root := range roots {
		for _, sym := range query.Symbols(root) {
			if sym.UseCount == 0 {
				unused = append(unused, sym.Name)
			}
		}
	}

	return IDEResult{
		Log:           diagnostic.FormatAll(log),
		UnusedSymbols: unused,
		TooltipQuery: func(name string, line, column int) (*query.SymbolInfo, bool) {
			idx, root, ok := indexAt(name, line, column)
			if !ok {
				return nil, false
			}
			return query.Symbol(root, idx)
		},
		DefinitionQuery: func(name string, line, column int) (source.Range, bool) {
			idx, root, ok := indexAt(name, line, column)
			if !ok {
				return source.Range{}, false
			}
			info, ok := query.Symbol(root, idx)
			if !ok || info.Symbol == nil || info.Symbol.DeclaringNode == nil {
				return source.Range{}, false
			}
			return info.Symbol.DeclaringNode.Range, true
		},
		SymbolsQuery: func(name string) []*ast.Symbol {
			root, ok := bySource[name]
			if !ok {
				return nil
			}
			return query.Symbols(root)
		},
		RenameQuery: func(name string, line, column int) []source.Range {
			idx, root, ok := indexAt(name, line, column)
			if !ok {
				return nil
			}
			return query.Rename(root, idx)
		},
		CompletionQuery: func(name string, line, column int) map[string]query.CompletionItem {
			idx, root, ok := indexAt(name, line, column)
			if !ok {
				return nil
			}
			return query.Completions(root, idx)
		},
		SignatureQuery: func(name string, line, column int) (*query.SignatureInfo, bool) {
			idx, root, ok := indexAt(name, line, column)
			if !ok {
				return nil, false
			}
			return query.Signature(root, idx)
		},
	}
}

func parseAndResolve(shaders []Shader) (roots []*ast.Node, names []string, cd *ast.CompilerData, log *diagnostic.Log) {
	cd = ast.NewCompilerData()
	log = diagnostic.NewLog()
	for _, sh := range shaders {
		src := source.New(sh.Name, sh.Contents)
		root := parser.ParseProgram(src, cd, log)
		resolver.Resolve(root, cd, log)
		roots = append(roots, root)
		names = append(names, sh.Name)
	}
	return roots, names, cd, log
}

func applyRewriting(roots []*ast.Node, cd *ast.CompilerData, opts Options) {
	if opts.DisableRewriting {
		return
	}
	for _, root := range roots {
		if opts.KeepSymbols {
			rewriter.RewriteKeepingSymbols(root, cd)
		} else {
			rewriter.Rewrite(root, cd)
		}
	}
}

// ----------------------------------------------------------------------------
// Output rendering
// ----------------------------------------------------------------------------

func render(format string, shaders []Shader, renaming map[string]string, reflection []reflect.Variable, sourceMaps []*emitter.SourceMap) (string, error) {
	switch format {
	case "json":
		return renderJSON(shaders, renaming, reflection, sourceMaps)
	case "js":
		return renderConstants(shaders, renaming, reflection, "export const ", "", ";"), nil
	case "c++":
		return renderCpp(shaders, renaming, reflection), nil
	case "skew":
		return renderConstants(shaders, renaming, reflection, "const ", "", ""), nil
	case "rust":
		return renderRust(shaders, renaming, reflection), nil
	}
	return "", errors.New("unknown output format " + strconv.Quote(format))
}

type jsonOutput struct {
	Shaders    []jsonShader           `json:"shaders"`
	Renaming   map[string]string      `json:"renaming"`
	Reflection []reflect.Variable     `json:"reflection,omitempty"`
	SourceMaps []*emitter.SourceMap `json:"sourceMaps,omitempty"`
}

type jsonShader struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

func renderJSON(shaders []Shader, renaming map[string]string, reflection []reflect.Variable, sourceMaps []*emitter.SourceMap) (string, error) {
	out := jsonOutput{Renaming: renaming, Reflection: reflection}
	for _, sm := range sourceMaps {
		if sm != nil {
			out.SourceMaps = append(out.SourceMaps, sm)
		}
	}
	for _, sh := range shaders {
		out.Shaders = append(out.Shaders, jsonShader{Name: sh.Name, Contents: sh.Contents})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// renderConstants covers js and skew: `<prefix>GLSLX_SOURCE_<NAME> =
// "<contents>"<suffix>` per shader, then `<prefix>GLSLX_NAME_<NAME> =
// "<renamed>"<suffix>` per renamed attribute/uniform/varying. reflection
// (reflect.Reflect's output) is the source of truth for which renamed
// symbols are shader-interface globals; a renamed local, argument,
// function or struct never appears here.
func renderConstants(shaders []Shader, renaming map[string]string, reflection []reflect.Variable, prefix, typeAnnotation, suffix string) string {
	var b strings.Builder
	for _, sh := range shaders {
		b.WriteString(prefix)
		b.WriteString("GLSLX_SOURCE_")
		b.WriteString(upperSnake(sh.Name))
		b.WriteString(typeAnnotation)
		b.WriteString(" = ")
		b.WriteString(jsQuote(sh.Contents))
		b.WriteString(suffix)
		b.WriteByte('\n')
	}
	for _, old := range interfaceRenamedKeys(renaming, reflection) {
		b.WriteString(prefix)
		b.WriteString("GLSLX_NAME_")
		b.WriteString(upperSnake(old))
		b.WriteString(typeAnnotation)
		b.WriteString(" = ")
		b.WriteString(jsQuote(renaming[old]))
		b.WriteString(suffix)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderCpp(shaders []Shader, renaming map[string]string, reflection []reflect.Variable) string {
	var b strings.Builder
	b.WriteString("#ifndef GLSLX_STRINGS_H\n#define GLSLX_STRINGS_H\n\n")
	b.WriteString(renderConstants(shaders, renaming, reflection, "static const char *", "", ";"))
	b.WriteString("\n#endif\n")
	return b.String()
}

func renderRust(shaders []Shader, renaming map[string]string, reflection []reflect.Variable) string {
	var b strings.Builder
	for _, sh := range shaders {
		b.WriteString("pub static GLSLX_SOURCE_")
		b.WriteString(upperSnake(sh.Name))
		b.WriteString(" : &str = ")
		b.WriteString(jsQuote(sh.Contents))
		b.WriteString(";\n")
	}
	for _, old := range interfaceRenamedKeys(renaming, reflection) {
		b.WriteString("pub static GLSLX_NAME_")
		b.WriteString(upperSnake(old))
		b.WriteString(" : &str = ")
		b.WriteString(jsQuote(renaming[old]))
		b.WriteString(";\n")
	}
	return b.String()
}

// interfaceRenamedKeys returns the sorted old names from renaming that
// reflection identifies as attribute/uniform/varying globals (reflect.Reflect
// already applies the interfaceQualifier filter used elsewhere for the same
// purpose). Locals, arguments, helper functions and structs never qualify,
// however many of them got renamed.
func interfaceRenamedKeys(renaming map[string]string, reflection []reflect.Variable) []string {
	interfaceNames := make(map[string]bool, len(reflection))
	for _, v := range reflection {
		interfaceNames[v.Original] = true
	}
	var keys []string
	for _, old := range sortedKeys(renaming) {
		if interfaceNames[old] {
			keys = append(keys, old)
		}
	}
	return keys
}

// upperSnake drops a trailing file extension, inserts an underscore at
// every lower->upper case transition, then uppercases the whole name,
// so e.g. "vertexMain" becomes "VERTEX_MAIN" and "a.glsl" becomes "A".
func upperSnake(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// jsQuote renders s as a double-quoted string literal whose escaping
// (\n, \", \\) is valid in JS, C++, Skew and Rust alike.
func jsQuote(s string) string {
	return strconv.Quote(s)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
