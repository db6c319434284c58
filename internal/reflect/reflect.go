// Package reflect summarizes a compiled shader's interface surface:
// its attribute, uniform and varying globals, their types, and (when a
// renaming map is supplied) what each was renamed to. It is a post-
// compile convenience, not part of type-checking — callers that need
// to wire up vertex buffers or uniform locations read this instead of
// re-walking the tree themselves.
package reflect

import (
	"github.com/HugoDaniel/glslx/internal/ast"
	"github.com/HugoDaniel/glslx/internal/query"
)

// Variable describes one global attribute/uniform/varying declaration.
type Variable struct {
	Name     string `json:"name"`
	Original string `json:"original"`
	Renamed  string `json:"renamed,omitempty"`
	Type     string `json:"type"`
	// Qualifier is "attribute", "uniform" or "varying".
	Qualifier string `json:"qualifier"`
}

// Result is Reflect's output: every global interface variable declared
// in a compile unit, in declaration order.
type Result struct {
	Variables []Variable `json:"variables"`
}

// Reflect walks root's file-scope declarations and reports every
// attribute/uniform/varying global. renaming maps each original name to
// its renamed form (as returned by renamer.Rename); a nil or empty map
// leaves every Variable.Renamed blank.
func Reflect(root *ast.Node, renaming map[string]string) Result {
	var result Result
	for _, sym := range query.Symbols(root) {
		qualifier := interfaceQualifier(sym)
		if qualifier == "" {
			continue
		}

		v := Variable{Name: sym.Name, Original: sym.Name, Qualifier: qualifier}
		if sym.ResolvedTypeMemo != nil {
			v.Type = sym.ResolvedTypeMemo.String()
		}
		if renamed, ok := renaming[sym.Name]; ok {
			v.Renamed = renamed
		}
		result.Variables = append(result.Variables, v)
	}
	return result
}

// interfaceQualifier returns "attribute", "uniform" or "varying" for a
// global variable symbol carrying that qualifier, or "" for anything
// else (locals, consts, functions, structs).
func interfaceQualifier(sym *ast.Symbol) string {
	if sym.Kind != ast.VariableSymbol || sym.VariableKind != ast.GlobalVariable {
		return ""
	}
	switch {
	case sym.Flags.Has(ast.FlagAttribute), sym.Flags.Has(ast.FlagIn):
		return "attribute"
	case sym.Flags.Has(ast.FlagUniform):
		return "uniform"
	case sym.Flags.Has(ast.FlagVarying), sym.Flags.Has(ast.FlagOut):
		return "varying"
	}
	return ""
}
