// Package query implements the IDE-facing read-only queries over a
// resolved GLSL ES 1.0 tree: symbol-at-position lookup, whole-file
// symbol enumeration, rename-range collection, completion-candidate
// listing and call-site signature help. Every query walks the tree
// the resolver already type-checked; none of them mutate it.
package query

import (
	"sort"
	"strings"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/builtinapi"
	"github.com/HugoDaniel/glslx/internal/lexer"
	"github.com/HugoDaniel/glslx/internal/source"
	"github.com/HugoDaniel/glslx/internal/types"
)

// touches reports whether a byte index falls within r, including its
// end boundary — a cursor sitting right after the last character of a
// token is still considered "on" that token.
func touches(r source.Range, index int) bool {
	return index >= r.Start && index <= r.End
}

// findInnermost returns the most specific descendant of n (including n
// itself) whose range touches index. Every child is searched, not only
// those whose own range touches index: a declarator's range covers just
// its name, while its initializer lies beyond it.
func findInnermost(n *ast.Node, index int) *ast.Node {
	best := n
	bestLen := n.Range.End - n.Range.Start
	for c := n.FirstChild; c != nil; c = c.Next {
		cand := findInnermost(c, index)
		if !touches(cand.Range, index) {
			continue
		}
		if candLen := cand.Range.End - cand.Range.Start; !touches(best.Range, index) || candLen <= bestLen {
			best, bestLen = cand, candLen
		}
	}
	return best
}

// ----------------------------------------------------------------------------
// SymbolQuery
// ----------------------------------------------------------------------------

// SymbolKind classifies what a located node denotes.
type SymbolKind uint8

const (
	SymbolNone SymbolKind = iota
	SymbolVariable
	SymbolFunction
	SymbolStruct
	SymbolField
	SymbolSwizzle
	SymbolLiteral
	SymbolKeywordOrType
)

var swizzleSets = []string{"xyzw", "rgba", "stpq"}

func isSwizzleName(name string, v *types.Vector) bool {
	if len(name) < 1 || len(name) > 4 {
		return false
	}
	for _, set := range swizzleSets {
		ok := true
		for _, c := range name {
			idx := strings.IndexRune(set, c)
			if idx < 0 || idx >= v.Width {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// SymbolInfo is the result of a Symbol query: everything known about
// the innermost node touching the queried position.
type SymbolInfo struct {
	Node        *ast.Node
	Kind        SymbolKind
	Symbol      *ast.Symbol // nil for literals, swizzles and keywords/built-in types
	Type        types.Type
	Name        string
	SwizzleName string // set only when Kind == SymbolSwizzle
}

func symbolKindOf(sym *ast.Symbol) SymbolKind {
	switch sym.Kind {
	case ast.FunctionSymbol:
		return SymbolFunction
	case ast.StructSymbol:
		return SymbolStruct
	default:
		return SymbolVariable
	}
}

// Symbol locates the innermost node whose range touches index within
// root and reports its symbol, resolved type and (for swizzles) the
// swizzle spelling. ok is false only when index falls outside root's
// own range.
func Symbol(root *ast.Node, index int) (info *SymbolInfo, ok bool) {
	if !touches(root.Range, index) {
		return nil, false
	}
	n := findInnermost(root, index)
	info = &SymbolInfo{Node: n, Type: n.ResolvedType}

	switch n.Kind {
	case ast.KindName:
		info.Name = n.Text
		if n.Symbol != nil {
			info.Symbol = n.Symbol
			info.Name = n.Symbol.Name
			info.Kind = symbolKindOf(n.Symbol)
		}
	case ast.KindType:
		info.Name = n.Text
		if n.Symbol != nil {
			info.Symbol = n.Symbol
			info.Name = n.Symbol.Name
			info.Kind = SymbolStruct
		} else {
			info.Kind = SymbolKeywordOrType
		}
	case ast.KindFunctionDecl:
		info.Symbol, info.Kind = n.Symbol, SymbolFunction
		if n.Symbol != nil {
			info.Name = n.Symbol.Name
		}
	case ast.KindStructDecl:
		info.Symbol, info.Kind = n.Symbol, SymbolStruct
		if n.Symbol != nil {
			info.Name = n.Symbol.Name
		}
	case ast.KindDot:
		info.Name = n.Text
		if v, isVec := n.FirstChild.ResolvedType.(*types.Vector); isVec && isSwizzleName(n.Text, v) {
			info.Kind = SymbolSwizzle
			info.SwizzleName = n.Text
		} else {
			info.Kind = SymbolField
		}
	case ast.KindInt, ast.KindFloat, ast.KindBool:
		info.Kind = SymbolLiteral
	default:
		if n.Symbol != nil {
			info.Symbol = n.Symbol
			info.Name = n.Symbol.Name
			info.Kind = symbolKindOf(n.Symbol)
		}
	}
	return info, true
}

// ----------------------------------------------------------------------------
// SymbolsQuery
// ----------------------------------------------------------------------------

// Symbols enumerates every symbol declared at file scope: functions,
// structs, and top-level variables (uniforms, attributes, varyings,
// consts).
func Symbols(root *ast.Node) []*ast.Symbol {
	var out []*ast.Symbol
	for c := root.FirstChild; c != nil; c = c.Next {
		switch c.Kind {
		case ast.KindFunctionDecl, ast.KindStructDecl:
			if c.Symbol != nil {
				out = append(out, c.Symbol)
			}
		case ast.KindVariables:
			for decl := c.FirstChild; decl != nil; decl = decl.Next {
				if decl.Symbol != nil {
					out = append(out, decl.Symbol)
				}
			}
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// RenameQuery
// ----------------------------------------------------------------------------

// Rename collects every range in root that references the symbol found
// at index: its own declaring node, any node naming it, and — when it
// has one — its forward-declaration/definition sibling's own range.
// Ranges are deduplicated and returned in source order.
func Rename(root *ast.Node, index int) []source.Range {
	info, ok := Symbol(root, index)
	if !ok || info.Symbol == nil {
		return nil
	}
	targets := map[*ast.Symbol]bool{info.Symbol: true}
	if info.Symbol.Sibling != nil {
		targets[info.Symbol.Sibling] = true
	}

	var ranges []source.Range
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.Symbol != nil && targets[n.Symbol] {
			ranges = append(ranges, n.Range)
		}
		for c := n.FirstChild; c != nil; c = c.Next {
			walk(c)
		}
	}
	walk(root)

	return dedupeSortRanges(ranges)
}

func dedupeSortRanges(ranges []source.Range) []source.Range {
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})
	out := ranges[:0]
	for _, r := range ranges {
		if len(out) > 0 && out[len(out)-1] == r {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ----------------------------------------------------------------------------
// CompletionQuery
// ----------------------------------------------------------------------------

// CompletionKind classifies a completion candidate.
type CompletionKind uint8

const (
	CompletionKeyword CompletionKind = iota
	CompletionType
	CompletionVariable
	CompletionFunction
	CompletionStruct
	CompletionField
	CompletionSwizzle
)

// CompletionItem is one candidate offered at a queried position.
type CompletionItem struct {
	Name string
	Kind CompletionKind
	Type types.Type // nil for keywords
}

// builtinTypeNames mirrors the parser's contextual type-name set:
// vecN/matN/samplers are ordinary identifiers to the lexer, not
// keywords, so completion must list them separately from
// lexer.Keywords (see internal/parser's own builtinTypeNames).
var builtinTypeNames = []string{
	"vec2", "vec3", "vec4",
	"bvec2", "bvec3", "bvec4",
	"ivec2", "ivec3", "ivec4",
	"mat2", "mat3", "mat4",
	"sampler2D", "samplerCube",
}

func findDotAt(root *ast.Node, index int) *ast.Node {
	n := findInnermost(root, index)
	if n.Kind == ast.KindDot {
		return n
	}
	if n.Parent != nil && n.Parent.Kind == ast.KindDot {
		return n.Parent
	}
	return nil
}

func swizzlePermutations(width int) []string {
	letters := "xyzw"[:width]
	var out []string
	var rec func(prefix string, depth int)
	rec = func(prefix string, depth int) {
		if depth > 0 {
			out = append(out, prefix)
		}
		if depth == 4 {
			return
		}
		for _, c := range letters {
			rec(prefix+string(c), depth+1)
		}
	}
	rec("", 0)
	return out
}

func swizzleType(v *types.Vector, name string) types.Type {
	if len(name) == 1 {
		return v.Element
	}
	return types.Vec(len(name), v.Element)
}

// Completions builds the kind-tagged, name-keyed completion dictionary
// for the position at index: language keywords, built-in types,
// built-in functions/variables, and every symbol in scope there. When
// index sits on a `.` whose target resolved to a vector or struct, it
// instead returns that target's valid swizzle permutations or field
// names, since nothing else is a legal completion there.
func Completions(root *ast.Node, index int) map[string]CompletionItem {
	out := make(map[string]CompletionItem)

	if dot := findDotAt(root, index); dot != nil {
		switch target := dot.FirstChild.ResolvedType.(type) {
		case *types.Vector:
			for _, perm := range swizzlePermutations(target.Width) {
				out[perm] = CompletionItem{Name: perm, Kind: CompletionSwizzle, Type: swizzleType(target, perm)}
			}
			return out
		case *types.Struct:
			for _, f := range target.Fields {
				out[f.Name] = CompletionItem{Name: f.Name, Kind: CompletionField, Type: f.Type}
			}
			return out
		}
	}

	for kw := range lexer.Keywords {
		out[kw] = CompletionItem{Name: kw, Kind: CompletionKeyword}
	}
	for _, t := range builtinTypeNames {
		out[t] = CompletionItem{Name: t, Kind: CompletionType}
	}
	for name, b := range builtinapi.Table {
		item := CompletionItem{Name: name, Kind: CompletionFunction}
		if len(b.Overloads) > 0 {
			item.Type = b.Overloads[0].Return
		}
		out[name] = item
	}
	for name, p := range builtinapi.PredeclaredVariables(func() uint32 { return 0 }) {
		out[name] = CompletionItem{Name: name, Kind: CompletionVariable, Type: p.Type()}
	}

	for _, sym := range Symbols(root) {
		kind := CompletionVariable
		switch sym.Kind {
		case ast.FunctionSymbol:
			kind = CompletionFunction
		case ast.StructSymbol:
			kind = CompletionStruct
		}
		out[sym.Name] = CompletionItem{Name: sym.Name, Kind: kind, Type: sym.ResolvedTypeMemo}
	}

	n := findInnermost(root, index)
	for _, sym := range inScopeLocals(n, index) {
		out[sym.Name] = CompletionItem{Name: sym.Name, Kind: CompletionVariable, Type: sym.ResolvedTypeMemo}
	}

	return out
}

// inScopeLocals walks up from n to its enclosing function declaration
// (if any) and collects that function's arguments plus every local
// declared anywhere in its body before index. GLSL ES 1.0 has no
// hoisting, so a later declaration is never visible, but this is
// intentionally a little over-inclusive — it does not distinguish
// sibling branches (an `if`'s then-branch local is offered inside the
// else-branch too) — which is the right default for a completion list.
func inScopeLocals(n *ast.Node, index int) []*ast.Symbol {
	var fn *ast.Node
	for p := n; p != nil; p = p.Parent {
		if p.Kind == ast.KindFunctionDecl {
			fn = p
			break
		}
	}
	if fn == nil || fn.Symbol == nil {
		return nil
	}
	out := append([]*ast.Symbol(nil), fn.Symbol.Arguments...)
	if fn.Symbol.Body != nil {
		collectLocalsBefore(fn.Symbol.Body, index, &out)
	}
	return out
}

func collectLocalsBefore(n *ast.Node, index int, out *[]*ast.Symbol) {
	if n.Range.Start >= index {
		return
	}
	if n.Kind == ast.KindVariables {
		for decl := n.FirstChild; decl != nil; decl = decl.Next {
			if decl.Symbol != nil && decl.Range.Start < index {
				*out = append(*out, decl.Symbol)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		collectLocalsBefore(c, index, out)
	}
}

// ----------------------------------------------------------------------------
// SignatureQuery
// ----------------------------------------------------------------------------

// SignatureInfo is the result of a Signature query: every overload
// relevant to the enclosing call, which one is active (narrowed first
// by argument count, then by exact argument type match, as
// resolveOverloadCall/resolveBuiltinCall do; where no overload matches
// exactly, the first count-compatible one is active, although the
// resolver itself rejects such a call), and which argument the cursor
// sits in.
type SignatureInfo struct {
	Name      string
	Overloads []types.Function
	Active    int // index into Overloads; -1 if no overload takes this many arguments
	ArgIndex  int
}

// Signature walks up from the node at index to its enclosing call
// expression and reports signature help for it, or ok=false if index
// is not within a call's argument list.
func Signature(root *ast.Node, index int) (info *SignatureInfo, ok bool) {
	n := findInnermost(root, index)
	call := n
	for call != nil && call.Kind != ast.KindCall {
		call = call.Parent
	}
	if call == nil {
		return nil, false
	}
	callee := call.FirstChild
	if callee.Kind != ast.KindName {
		return nil, false
	}

	var args []*ast.Node
	for a := callee.Next; a != nil; a = a.Next {
		args = append(args, a)
	}
	argIndex := argIndexAt(args, index)
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.ResolvedType
	}

	if callee.Symbol != nil && callee.Symbol.Kind == ast.FunctionSymbol {
		return signatureFromOverloads(callee.Text, ast.Overloads(callee.Symbol), argTypes, argIndex), true
	}
	if b, found := builtinapi.Table[callee.Text]; found {
		return signatureFromBuiltin(b, argTypes, argIndex), true
	}
	return nil, false
}

func argIndexAt(args []*ast.Node, index int) int {
	for i, a := range args {
		if index <= a.Range.End {
			return i
		}
	}
	if len(args) == 0 {
		return 0
	}
	return len(args) - 1
}

func functionSignatureOf(sym *ast.Symbol) types.Function {
	params := make([]types.Type, len(sym.Arguments))
	for i, a := range sym.Arguments {
		params[i] = a.ResolvedTypeMemo
	}
	var ret types.Type
	if sym.ReturnTypeNode != nil {
		ret = sym.ReturnTypeNode.ResolvedType
	}
	return types.Function{Parameters: params, Return: ret}
}

func signatureFromOverloads(name string, overloads []*ast.Symbol, argTypes []types.Type, argIndex int) *SignatureInfo {
	info := &SignatureInfo{Name: name, ArgIndex: argIndex, Active: -1}
	var countMatches []int
	for i, o := range overloads {
		info.Overloads = append(info.Overloads, functionSignatureOf(o))
		if len(o.Arguments) == len(argTypes) {
			countMatches = append(countMatches, i)
		}
	}
	for _, i := range countMatches {
		if overloadArgsMatchTypes(overloads[i], argTypes) {
			info.Active = i
			return info
		}
	}
	if len(countMatches) > 0 {
		info.Active = countMatches[0]
	}
	return info
}

func overloadArgsMatchTypes(o *ast.Symbol, argTypes []types.Type) bool {
	for i, arg := range o.Arguments {
		want := arg.ResolvedTypeMemo
		if want == nil || argTypes[i] == nil || !argTypes[i].Equals(want) {
			return false
		}
	}
	return true
}

func signatureFromBuiltin(b *builtinapi.Builtin, argTypes []types.Type, argIndex int) *SignatureInfo {
	info := &SignatureInfo{Name: b.Name, ArgIndex: argIndex, Active: -1}
	var countMatches []int
	for i, o := range b.Overloads {
		info.Overloads = append(info.Overloads, types.Function{Parameters: o.Parameters, Return: o.Return})
		if len(o.Parameters) == len(argTypes) {
			countMatches = append(countMatches, i)
		}
	}
	for _, i := range countMatches {
		match := true
		for argI, p := range b.Overloads[i].Parameters {
			if argTypes[argI] == nil || !argTypes[argI].Equals(p) {
				match = false
				break
			}
		}
		if match {
			info.Active = i
			return info
		}
	}
	if len(countMatches) > 0 {
		info.Active = countMatches[0]
	}
	return info
}
