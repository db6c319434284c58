// Package renamer assigns short, collision-free identifiers to the
// symbols of a resolved GLSL ES 1.0 tree, following esbuild's
// frequency-first minification idea but expressed as a pair of
// union-finds (per §4.6): one to discover which local/argument symbols
// share a function (and therefore must get distinct names), one to
// decide which symbols — across unrelated functions, or a
// forward-declaration paired with its definition — must share one.
package renamer

import (
	"sort"
	"strings"

	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/lexer"
)

// Mode selects which symbols are eligible for renaming.
type Mode int

const (
	ModeAll Mode = iota
	ModeInternalOnly
	ModeNone
)

// ParseMode maps the CLI/API spelling ("all", "internal-only", "none")
// onto a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "all":
		return ModeAll, true
	case "internal-only":
		return ModeInternalOnly, true
	case "none":
		return ModeNone, true
	}
	return ModeAll, false
}

// ----------------------------------------------------------------------------
// Union-find
// ----------------------------------------------------------------------------

type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// ----------------------------------------------------------------------------
// Rename
// ----------------------------------------------------------------------------

type localRec struct {
	sym       *ast.Symbol
	funcLabel int
}

// Rename assigns new names to the renameable symbols across every
// root in roots (multiple roots arise from per-entry-point
// re-parsing of the same sources, per §5) and mutates each chosen
// ast.Symbol.Name in place. It returns the old->new mapping, for
// reporting to callers (e.g. the CLI's JSON `renaming` field).
func Rename(roots []*ast.Node, mode Mode) map[string]string {
	result := make(map[string]string)
	if mode == ModeNone {
		return result
	}

	var globals []*ast.Symbol
	globalIndex := make(map[*ast.Symbol]int)
	var locals []localRec
	numFuncs := 0

	addGlobal := func(sym *ast.Symbol) {
		if sym == nil || !eligible(sym, mode) {
			return
		}
		if _, ok := globalIndex[sym]; ok {
			return
		}
		globalIndex[sym] = len(globals)
		globals = append(globals, sym)
	}

	for _, root := range roots {
		for c := root.FirstChild; c != nil; c = c.Next {
			switch c.Kind {
			case ast.KindFunctionDecl:
				sym := c.Symbol
				addGlobal(sym)
				if sym.Body == nil {
					continue
				}
				label := numFuncs
				numFuncs++
				for _, arg := range sym.Arguments {
					if eligible(arg, mode) {
						locals = append(locals, localRec{sym: arg, funcLabel: label})
					}
				}
				collectLocals(sym.Body, label, mode, &locals)
			case ast.KindStructDecl:
				addGlobal(c.Symbol)
			case ast.KindVariables:
				for decl := c.FirstChild; decl != nil; decl = decl.Next {
					addGlobal(decl.Symbol)
				}
			}
		}
	}

	totalLocal := len(locals)
	localUF := newUnionFind(totalLocal + numFuncs)
	for i, lr := range locals {
		localUF.union(i, totalLocal+lr.funcLabel)
	}

	// Group locals by the function they belong to (localUF's
	// representative), sorted within each group by descending use
	// count — the order "zipping" walks when sharing names across
	// functions.
	byFunc := make(map[int][]int)
	var funcOrder []int
	for i := range locals {
		root := localUF.find(i)
		if _, ok := byFunc[root]; !ok {
			funcOrder = append(funcOrder, root)
		}
		byFunc[root] = append(byFunc[root], i)
	}
	for _, root := range funcOrder {
		group := byFunc[root]
		sort.SliceStable(group, func(a, b int) bool {
			return locals[group[a]].sym.UseCount > locals[group[b]].sym.UseCount
		})
		byFunc[root] = group
	}

	namingUF := newUnionFind(len(globals) + totalLocal)

	for i, g := range globals {
		if g.Sibling != nil {
			if j, ok := globalIndex[g.Sibling]; ok {
				namingUF.union(i, j)
			}
		}
	}

	if len(funcOrder) > 0 {
		first := byFunc[funcOrder[0]]
		for _, root := range funcOrder[1:] {
			class := byFunc[root]
			for pos, idx := range class {
				if pos >= len(first) {
					break
				}
				namingUF.union(len(globals)+idx, len(globals)+first[pos])
			}
		}
	}

	// Collect final naming groups and their combined use count.
	type group struct {
		root     int
		members  []int // indices into the combined [globals..locals] space
		useCount int
	}
	groups := make(map[int]*group)
	var order []int
	memberUseCount := func(combined int) int {
		if combined < len(globals) {
			return globals[combined].UseCount
		}
		return locals[combined-len(globals)].sym.UseCount
	}
	total := len(globals) + totalLocal
	for i := 0; i < total; i++ {
		root := namingUF.find(i)
		g, ok := groups[root]
		if !ok {
			g = &group{root: root}
			groups[root] = g
			order = append(order, root)
		}
		g.members = append(g.members, i)
		g.useCount += memberUseCount(i)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return groups[order[a]].useCount > groups[order[b]].useCount
	})

	minifier := newNameGenerator()
	reserved := ComputeReservedNames()
	nameIndex := 0
	nextName := func() string {
		name := minifier.generate(nameIndex)
		for reserved[name] || strings.HasPrefix(name, "gl_") {
			nameIndex++
			name = minifier.generate(nameIndex)
		}
		nameIndex++
		return name
	}

	for _, root := range order {
		name := nextName()
		for _, combined := range groups[root].members {
			var sym *ast.Symbol
			if combined < len(globals) {
				sym = globals[combined]
			} else {
				sym = locals[combined-len(globals)].sym
			}
			if sym.Name != "" {
				result[sym.Name] = name
			}
			sym.Name = name
		}
	}

	return result
}

func eligible(sym *ast.Symbol, mode Mode) bool {
	if sym == nil {
		return false
	}
	if sym.Flags.Has(ast.FlagImported) {
		return false
	}
	if sym.Flags.Has(ast.FlagExported) && mode == ModeInternalOnly {
		return false
	}
	return true
}

// collectLocals walks a function body collecting every local
// variable's symbol (recursing through nested blocks/if/for/while),
// tagging each with the owning function's synthetic label.
func collectLocals(n *ast.Node, label int, mode Mode, out *[]localRec) {
	if n.Kind == ast.KindVariables {
		for decl := n.FirstChild; decl != nil; decl = decl.Next {
			if decl.Symbol != nil && decl.Symbol.VariableKind == ast.LocalVariable && eligible(decl.Symbol, mode) {
				*out = append(*out, localRec{sym: decl.Symbol, funcLabel: label})
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		collectLocals(c, label, mode, out)
	}
}

// ----------------------------------------------------------------------------
// Name generation
// ----------------------------------------------------------------------------

// nameGenerator produces base-53 identifiers: [A-Za-z_] for the first
// character, [A-Za-z_0-9] for the rest, in the same positional-radix
// scheme as esbuild's minifier (a, b, ..., z, A, ..., _, aa, ba, ...).
type nameGenerator struct {
	head string
	tail string
}

func newNameGenerator() *nameGenerator {
	return &nameGenerator{
		head: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_",
		tail: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789",
	}
}

func (g *nameGenerator) generate(n int) string {
	nHead, nTail := len(g.head), len(g.tail)
	buf := make([]byte, 0, 4)
	buf = append(buf, g.head[n%nHead])
	n /= nHead
	for n > 0 {
		n--
		buf = append(buf, g.tail[n%nTail])
		n /= nTail
	}
	return string(buf)
}

// ComputeReservedNames builds the set of identifiers the renamer must
// never hand out: GLSL ES 1.0 keywords and reserved words. Names
// beginning with "gl_" are rejected separately by prefix, not via this
// set, since that is an open-ended class rather than a fixed list.
func ComputeReservedNames() map[string]bool {
	reserved := make(map[string]bool)
	for kw := range lexer.Keywords {
		reserved[kw] = true
	}
	for word := range lexer.ReservedWords {
		reserved[word] = true
	}
	reserved["_"] = true
	return reserved
}
