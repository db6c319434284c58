// Package rewriter implements the post-resolve optimization pass:
// constant folding, algebraic identity simplification, unreachable
// statement trimming, and dead function/struct/extension elimination.
//
// Rewrite runs every sub-pass to a fixed point (each pass can expose
// work for the others — folding a condition to `false` lets the dead
// statement trimmer drop a branch, which can make a helper function
// unreachable, which can make an #extension no longer needed) rather
// than a single top-to-bottom sweep.
package rewriter

import (
	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/builtinapi"
	"github.com/HugoDaniel/glslx/internal/folder"
)

// maxIterations bounds the fixed-point loop. Real shaders converge in
// a handful of rounds; this is a backstop against a pass ping-ponging
// due to a bug, not a tuning knob.
const maxIterations = 64

// Rewrite repeatedly applies constant folding, algebraic
// simplification, dead-statement trimming, unused
// function/struct elimination and extension pruning to root until
// none of them find anything further to do. It returns the number of
// rounds that changed the tree (0 if root was already fully reduced).
func Rewrite(root *ast.Node, cd *ast.CompilerData) int {
	return rewrite(root, cd, true)
}

// RewriteKeepingSymbols is like Rewrite but leaves unused top-level
// functions/structs/variables in place — for callers that asked to
// keep every declared symbol (e.g. to preserve a reflection surface)
// while still folding and simplifying.
func RewriteKeepingSymbols(root *ast.Node, cd *ast.CompilerData) int {
	return rewrite(root, cd, false)
}

func rewrite(root *ast.Node, cd *ast.CompilerData, pruneSymbols bool) int {
	rounds := 0
	for i := 0; i < maxIterations; i++ {
		changed := false
		if foldTree(cd, root) {
			changed = true
		}
		if simplifyTree(cd, root) {
			changed = true
		}
		if trimDeadStatements(root) {
			changed = true
		}
		if pruneSymbols && pruneUnusedSymbols(root) {
			changed = true
		}
		if pruneExtensions(root, cd) {
			changed = true
		}
		if !changed {
			break
		}
		rounds++
	}
	return rounds
}

// ----------------------------------------------------------------------------
// Constant folding
// ----------------------------------------------------------------------------

// foldTree folds every foldable expression node in the tree, bottom
// up, so that an outer expression sees its operands already reduced
// to literals.
func foldTree(cd *ast.CompilerData, n *ast.Node) bool {
	changed := false
	for c := n.FirstChild; c != nil; c = c.Next {
		if foldTree(cd, c) {
			changed = true
		}
	}
	if folded := folder.Fold(cd, n); folded != nil {
		n.Become(folded)
		changed = true
	}
	return changed
}

// ----------------------------------------------------------------------------
// Algebraic simplification
// ----------------------------------------------------------------------------

func simplifyTree(cd *ast.CompilerData, n *ast.Node) bool {
	changed := false
	for c := n.FirstChild; c != nil; c = c.Next {
		if simplifyTree(cd, c) {
			changed = true
		}
	}
	if repl := simplifyNode(cd, n); repl != nil {
		n.Become(repl)
		changed = true
	}
	return changed
}

func isZeroLiteral(n *ast.Node) bool {
	return (n.Kind == ast.KindInt && n.Literal == 0) || (n.Kind == ast.KindFloat && n.LiteralFloat == 0)
}

func isOneLiteral(n *ast.Node) bool {
	return (n.Kind == ast.KindInt && n.Literal == 1) || (n.Kind == ast.KindFloat && n.LiteralFloat == 1)
}

func isBoolLiteral(n *ast.Node, want bool) bool {
	return n.Kind == ast.KindBool && (n.Literal != 0) == want
}

// simplifyNode returns a replacement for n, or nil if no identity
// applies. Replacements are always Clone()d so the original subtree
// (still attached under n) is left untouched until Become swaps it in.
func simplifyNode(cd *ast.CompilerData, n *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.KindAdd:
		if isZeroLiteral(n.FirstChild) {
			return n.Right().Clone(cd)
		}
		if isZeroLiteral(n.Right()) {
			return n.FirstChild.Clone(cd)
		}
	case ast.KindSubtract:
		if isZeroLiteral(n.Right()) {
			return n.FirstChild.Clone(cd)
		}
	case ast.KindMultiply:
		if isOneLiteral(n.FirstChild) {
			return n.Right().Clone(cd)
		}
		if isOneLiteral(n.Right()) {
			return n.FirstChild.Clone(cd)
		}
	case ast.KindDivide:
		if isOneLiteral(n.Right()) {
			return n.FirstChild.Clone(cd)
		}
	case ast.KindLogicalAnd:
		if isBoolLiteral(n.FirstChild, true) {
			return n.Right().Clone(cd)
		}
		if isBoolLiteral(n.Right(), true) {
			return n.FirstChild.Clone(cd)
		}
	case ast.KindLogicalOr:
		if isBoolLiteral(n.FirstChild, false) {
			return n.Right().Clone(cd)
		}
		if isBoolLiteral(n.Right(), false) {
			return n.FirstChild.Clone(cd)
		}
	case ast.KindNegative:
		if n.FirstChild.Kind == ast.KindNegative {
			return n.FirstChild.FirstChild.Clone(cd)
		}
	case ast.KindLogicalNot:
		if n.FirstChild.Kind == ast.KindLogicalNot {
			return n.FirstChild.FirstChild.Clone(cd)
		}
	case ast.KindIf:
		cond := n.FirstChild
		if cond.Kind != ast.KindBool {
			return nil
		}
		if cond.Literal != 0 {
			return cloneOrEmptyBlock(cd, n, n.Right())
		}
		return cloneOrEmptyBlock(cd, n, n.Third())
	case ast.KindWhile:
		cond := n.FirstChild
		if cond.Kind == ast.KindBool && cond.Literal == 0 {
			return emptyBlock(cd, n)
		}
	}
	return nil
}

func cloneOrEmptyBlock(cd *ast.CompilerData, at, branch *ast.Node) *ast.Node {
	if branch == nil {
		return emptyBlock(cd, at)
	}
	return branch.Clone(cd)
}

func emptyBlock(cd *ast.CompilerData, at *ast.Node) *ast.Node {
	return ast.NewNode(cd, ast.KindBlock, at.Range)
}

// ----------------------------------------------------------------------------
// Dead statement trimming
// ----------------------------------------------------------------------------

// trimDeadStatements removes every statement following an
// unconditional return/break/continue/discard within a block, and
// keeps each block's HasControlFlowAtEnd flag current as it goes so
// that an enclosing block sees the updated picture.
func trimDeadStatements(n *ast.Node) bool {
	changed := false
	for c := n.FirstChild; c != nil; c = c.Next {
		if trimDeadStatements(c) {
			changed = true
		}
	}
	if n.Kind == ast.KindBlock {
		for c := n.FirstChild; c != nil; c = c.Next {
			if terminatesFlow(c) && c.Next != nil {
				for c.Next != nil {
					c.Next.Remove()
				}
				changed = true
				break
			}
		}
		n.HasControlFlowAtEnd = n.LastChild != nil && terminatesFlow(n.LastChild)
	}
	return changed
}

func terminatesFlow(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindReturn, ast.KindBreak, ast.KindContinue, ast.KindDiscard:
		return true
	case ast.KindBlock:
		return n.HasControlFlowAtEnd
	case ast.KindIf:
		elseBranch := n.Third()
		return elseBranch != nil && terminatesFlow(n.Right()) && terminatesFlow(elseBranch)
	}
	return false
}

// ----------------------------------------------------------------------------
// Unused function / struct elimination
// ----------------------------------------------------------------------------

// pruneUnusedSymbols drops top-level function and struct declarations
// unreachable from main, the shader's only entry point in GLSL ES 1.0
// (there is no separate @vertex/@fragment attribute to seed multiple
// roots from, unlike the teacher's WGSL module). Global variable
// declarations (uniforms, attributes, varyings, consts) are never
// pruned: they form the shader's fixed interface with the host
// application even when unused by this particular permutation of the
// shader's code paths.
func pruneUnusedSymbols(root *ast.Node) bool {
	declOf := make(map[*ast.Symbol]*ast.Node)
	for c := root.FirstChild; c != nil; c = c.Next {
		if (c.Kind == ast.KindFunctionDecl || c.Kind == ast.KindStructDecl) && c.Symbol != nil {
			declOf[c.Symbol] = c
		}
	}

	reachable := make(map[*ast.Symbol]bool)
	var queue []*ast.Symbol
	mark := func(sym *ast.Symbol) {
		if sym == nil || reachable[sym] {
			return
		}
		reachable[sym] = true
		queue = append(queue, sym)
		if sym.Sibling != nil && !reachable[sym.Sibling] {
			reachable[sym.Sibling] = true
			queue = append(queue, sym.Sibling)
		}
	}
	for sym, decl := range declOf {
		if decl.Kind == ast.KindFunctionDecl && sym.Name == "main" {
			mark(sym)
		}
	}
	for len(queue) > 0 {
		sym := queue[0]
		queue = queue[1:]
		if decl := declOf[sym]; decl != nil {
			collectReferencedSymbols(decl, mark)
		}
	}

	changed := false
	for c := root.FirstChild; c != nil; {
		next := c.Next
		if (c.Kind == ast.KindFunctionDecl || c.Kind == ast.KindStructDecl) && c.Symbol != nil && c.Symbol.Name != "main" && !reachable[c.Symbol] {
			c.Remove()
			changed = true
		}
		c = next
	}
	return changed
}

func collectReferencedSymbols(n *ast.Node, visit func(*ast.Symbol)) {
	if n.Symbol != nil {
		visit(n.Symbol)
	}
	// Argument and return types live off the Symbol, not as AST
	// children of the FunctionDecl node (only the body is attached as
	// a child) — walk them explicitly so a struct used only in a
	// signature is still counted as referenced.
	if n.Kind == ast.KindFunctionDecl && n.Symbol != nil {
		if rt := n.Symbol.ReturnTypeNode; rt != nil {
			collectReferencedSymbols(rt, visit)
		}
		for _, arg := range n.Symbol.Arguments {
			if arg.TypeNode != nil {
				collectReferencedSymbols(arg.TypeNode, visit)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		collectReferencedSymbols(c, visit)
	}
}

// ----------------------------------------------------------------------------
// Extension pruning
// ----------------------------------------------------------------------------

// pruneExtensions removes an auto-enabled (#extension-free) entry from
// cd.ExtensionBehavior once dead code elimination has removed every
// call site that needed it. An extension the source explicitly wrote
// out with `#extension ... : enable` is left alone even if nothing
// ends up calling into it — that is the author's stated intent, not
// an artifact of resolution.
func pruneExtensions(root *ast.Node, cd *ast.CompilerData) bool {
	explicit := make(map[string]bool)
	for c := root.FirstChild; c != nil; c = c.Next {
		if c.Kind == ast.KindExtension {
			explicit[c.Text] = true
		}
	}

	used := make(map[string]bool)
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.Kind == ast.KindCall {
			if callee := n.FirstChild; callee != nil && callee.Kind == ast.KindName {
				if b, ok := builtinapi.Table[callee.Text]; ok && b.RequiredExtension != "" {
					used[b.RequiredExtension] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.Next {
			walk(c)
		}
	}
	walk(root)

	changed := false
	for ext, beh := range cd.ExtensionBehavior {
		if beh == ast.EnableBehavior && !explicit[ext] && !used[ext] {
			delete(cd.ExtensionBehavior, ext)
			changed = true
		}
	}
	return changed
}
