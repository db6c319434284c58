//go:build js && wasm

// Command glslx-wasm is the WebAssembly build of the GLSL ES 1.0
// compiler. It exposes compile, compileIDE and format to JavaScript via
// syscall/js, mirroring pkg/api's Compile, CompileIDE and Format.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/HugoDaniel/glslx/internal/renamer"
	"github.com/HugoDaniel/glslx/pkg/api"
)

var version = "0.1.0"

func main() {
	js.Global().Set("__glslx", js.ValueOf(map[string]interface{}{
		"compile":    js.FuncOf(compileJS),
		"compileIDE": js.FuncOf(compileIDEJS),
		"format":     js.FuncOf(formatJS),
		"version":    version,
	}))

	select {}
}

// jsShader mirrors the {name, contents} objects JS passes for each
// source file.
type jsShader struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// jsOptions mirrors the JavaScript options object passed to compile.
type jsOptions struct {
	Renaming         *string `json:"renaming"`
	DisableRewriting *bool   `json:"disableRewriting"`
	PrettyPrint      *bool   `json:"prettyPrint"`
	KeepSymbols      *bool   `json:"keepSymbols"`
	Format           *string `json:"format"`
	SourceMap        *bool   `json:"sourceMap"`
}

// compileJS is the JavaScript-callable compile function.
// Signature: __glslx.compile(sources: {name, contents}[], options?: object) => object
func compileJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeCompileError("compile requires at least 1 argument (sources)")
	}

	shaders, err := parseShaders(args[0])
	if err != nil {
		return makeCompileError(err.Error())
	}

	opts := api.Options{Renaming: renamer.ModeAll}
	if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
		jsOpts := parseJSONInto(args[1], jsOptions{})
		if jsOpts.Renaming != nil {
			if mode, ok := renamer.ParseMode(*jsOpts.Renaming); ok {
				opts.Renaming = mode
			}
		}
		if jsOpts.DisableRewriting != nil {
			opts.DisableRewriting = *jsOpts.DisableRewriting
		}
		if jsOpts.PrettyPrint != nil {
			opts.PrettyPrint = *jsOpts.PrettyPrint
		}
		if jsOpts.KeepSymbols != nil {
			opts.KeepSymbols = *jsOpts.KeepSymbols
		}
		if jsOpts.Format != nil {
			opts.Format = *jsOpts.Format
		}
		if jsOpts.SourceMap != nil {
			opts.SourceMap = *jsOpts.SourceMap
		}
	}

	result := api.Compile(shaders, opts)
	return map[string]interface{}{
		"log":    result.Log,
		"output": result.Output,
		"ok":     result.OK,
	}
}

func makeCompileError(msg string) interface{} {
	return map[string]interface{}{
		"log":    msg,
		"output": "",
		"ok":     false,
	}
}

// compileIDEJS is the JavaScript-callable compileIDE function.
// Signature: __glslx.compileIDE(sources: {name, contents}[]) => object
//
// The returned object's query functions close over the resolved tree,
// so they stay callable for as long as the JS caller holds the result;
// each one expects (sourceName, line, column), 1-based to match the
// editor convention pkg/api.CompileIDE itself uses.
func compileIDEJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeIDEError("compileIDE requires 1 argument (sources)")
	}

	shaders, err := parseShaders(args[0])
	if err != nil {
		return makeIDEError(err.Error())
	}

	result := api.CompileIDE(shaders)

	unused := make([]interface{}, len(result.UnusedSymbols))
	for i, name := range result.UnusedSymbols {
		unused[i] = name
	}

	return map[string]interface{}{
		"log":           result.Log,
		"unusedSymbols": unused,
		"tooltip":       js.FuncOf(wrapTooltipQuery(result)),
		"definition":    js.FuncOf(wrapDefinitionQuery(result)),
		"rename":        js.FuncOf(wrapRenameQuery(result)),
		"completions":   js.FuncOf(wrapCompletionQuery(result)),
		"signature":     js.FuncOf(wrapSignatureQuery(result)),
	}
}

func makeIDEError(msg string) interface{} {
	return map[string]interface{}{
		"log":           msg,
		"unusedSymbols": []interface{}{},
	}
}

func positionArgs(args []js.Value) (name string, line, column int, ok bool) {
	if len(args) < 3 {
		return "", 0, 0, false
	}
	return args[0].String(), args[1].Int(), args[2].Int(), true
}

func wrapTooltipQuery(result api.IDEResult) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		name, line, column, ok := positionArgs(args)
		if !ok {
			return nil
		}
		info, found := result.TooltipQuery(name, line, column)
		if !found {
			return nil
		}
		out := map[string]interface{}{"name": info.Name, "kind": int(info.Kind)}
		if info.Type != nil {
			out["type"] = info.Type.String()
		}
		return out
	}
}

func wrapDefinitionQuery(result api.IDEResult) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		name, line, column, ok := positionArgs(args)
		if !ok {
			return nil
		}
		rng, found := result.DefinitionQuery(name, line, column)
		if !found || rng.Src == nil {
			return nil
		}
		startLine, startCol := rng.Src.IndexToLineColumn(rng.Start)
		endLine, endCol := rng.Src.IndexToLineColumn(rng.End)
		return map[string]interface{}{
			"startLine": startLine + 1, "startColumn": startCol + 1,
			"endLine": endLine + 1, "endColumn": endCol + 1,
		}
	}
}

func wrapRenameQuery(result api.IDEResult) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		name, line, column, ok := positionArgs(args)
		if !ok {
			return []interface{}{}
		}
		ranges := result.RenameQuery(name, line, column)
		out := make([]interface{}, len(ranges))
		for i, rng := range ranges {
			if rng.Src == nil {
				continue
			}
			startLine, startCol := rng.Src.IndexToLineColumn(rng.Start)
			endLine, endCol := rng.Src.IndexToLineColumn(rng.End)
			out[i] = map[string]interface{}{
				"startLine": startLine + 1, "startColumn": startCol + 1,
				"endLine": endLine + 1, "endColumn": endCol + 1,
			}
		}
		return out
	}
}

func wrapCompletionQuery(result api.IDEResult) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		name, line, column, ok := positionArgs(args)
		if !ok {
			return map[string]interface{}{}
		}
		items := result.CompletionQuery(name, line, column)
		out := make(map[string]interface{}, len(items))
		for itemName, item := range items {
			entry := map[string]interface{}{"kind": int(item.Kind)}
			if item.Type != nil {
				entry["type"] = item.Type.String()
			}
			out[itemName] = entry
		}
		return out
	}
}

func wrapSignatureQuery(result api.IDEResult) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		name, line, column, ok := positionArgs(args)
		if !ok {
			return nil
		}
		info, found := result.SignatureQuery(name, line, column)
		if !found {
			return nil
		}
		overloads := make([]interface{}, len(info.Overloads))
		for i, fn := range info.Overloads {
			overloads[i] = fn.String()
		}
		return map[string]interface{}{
			"name":      info.Name,
			"overloads": overloads,
			"active":    info.Active,
			"argIndex":  info.ArgIndex,
		}
	}
}

// formatJS is the JavaScript-callable format function.
// Signature: __glslx.format(text: string, options?: object) => string
func formatJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return ""
	}
	text := args[0].String()

	var opts api.FormatOptions
	if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
		opts = parseJSONInto(args[1], api.FormatOptions{})
	}
	return api.Format(text, opts)
}

// parseShaders converts a JS array of {name, contents} objects into
// []api.Shader via a JSON round-trip through JSON.stringify, the same
// approach the options parsers below use.
func parseShaders(jsVal js.Value) ([]api.Shader, error) {
	jsonStr := js.Global().Get("JSON").Call("stringify", jsVal).String()
	var raw []jsShader
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, err
	}
	shaders := make([]api.Shader, len(raw))
	for i, s := range raw {
		shaders[i] = api.Shader{Name: s.Name, Contents: s.Contents}
	}
	return shaders, nil
}

// parseJSONInto decodes jsVal into a value of T's shape via
// JSON.stringify; on any decode error it returns the zero value.
func parseJSONInto[T any](jsVal js.Value, zero T) T {
	jsonStr := js.Global().Get("JSON").Call("stringify", jsVal).String()
	var out T
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return zero
	}
	return out
}
