// Package main provides a C-callable static library for GLSL ES 1.0
// compilation.
//
// This is built with -buildmode=c-archive to produce libglslx.a that
// can be linked into C/C++/Rust programs embedding the compiler.
//
// Build:
//
//	CGO_ENABLED=1 go build -buildmode=c-archive -o build/libglslx.a ./cmd/glslx-lib
//
// Exported functions:
//
//	glslx_compile(shaders_json, shaders_len, options_json, options_len, out_result, out_result_len) -> error_code
//	glslx_format(source, source_len, options_json, options_len, out_text, out_text_len) -> error_code
//	glslx_free(ptr) -> void
//	glslx_version() -> *char
package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/HugoDaniel/glslx/internal/renamer"
	"github.com/HugoDaniel/glslx/pkg/api"
)

const version = "0.1.0"

// Error codes
const (
	GLSLX_OK              = 0
	GLSLX_ERR_JSON_ENCODE = 1
	GLSLX_ERR_NULL_INPUT  = 2
	GLSLX_ERR_JSON_DECODE = 3
)

// cShader mirrors one entry of the shaders_json array.
type cShader struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// cOptions mirrors api.Options for JSON parsing across the C boundary.
type cOptions struct {
	Renaming         string `json:"renaming"`
	DisableRewriting bool   `json:"disableRewriting"`
	PrettyPrint      bool   `json:"prettyPrint"`
	KeepSymbols      bool   `json:"keepSymbols"`
	Format           string `json:"format"`
	SourceMap        bool   `json:"sourceMap"`
}

// cCompileResult is the JSON result structure handed back to the caller.
type cCompileResult struct {
	Log    string `json:"log"`
	Output string `json:"output"`
	OK     bool   `json:"ok"`
}

// glslx_compile compiles one or more GLSL ES 1.0 shaders.
//
// Parameters:
//   - shaders_json: pointer to a JSON array of {name, contents} objects
//   - shaders_len: length of shaders_json in bytes
//   - options_json: pointer to JSON options (can be NULL for defaults)
//   - options_len: length of options_json in bytes
//   - out_result: pointer to receive the JSON result (caller must free with glslx_free)
//   - out_result_len: pointer to receive the result length
//
// Returns 0 on success, a non-zero error code on failure to even
// produce a result (a compile error is still success at this layer —
// it surfaces as ok: false inside the JSON result).
//
//export glslx_compile
func glslx_compile(
	shaders_json *C.char, shaders_len C.int,
	options_json *C.char, options_len C.int,
	out_result **C.char, out_result_len *C.int,
) C.int {
	if shaders_json == nil || out_result == nil || out_result_len == nil {
		return GLSLX_ERR_NULL_INPUT
	}

	var raw []cShader
	if err := json.Unmarshal([]byte(C.GoStringN(shaders_json, shaders_len)), &raw); err != nil {
		return GLSLX_ERR_JSON_DECODE
	}
	shaders := make([]api.Shader, len(raw))
	for i, s := range raw {
		shaders[i] = api.Shader{Name: s.Name, Contents: s.Contents}
	}

	opts := api.Options{Renaming: renamer.ModeAll}
	if options_json != nil && options_len > 0 {
		var cOpts cOptions
		if err := json.Unmarshal([]byte(C.GoStringN(options_json, options_len)), &cOpts); err != nil {
			return GLSLX_ERR_JSON_DECODE
		}
		if mode, ok := renamer.ParseMode(cOpts.Renaming); ok {
			opts.Renaming = mode
		}
		opts.DisableRewriting = cOpts.DisableRewriting
		opts.PrettyPrint = cOpts.PrettyPrint
		opts.KeepSymbols = cOpts.KeepSymbols
		opts.Format = cOpts.Format
		opts.SourceMap = cOpts.SourceMap
	}

	result := api.Compile(shaders, opts)
	jsonBytes, err := json.Marshal(cCompileResult{Log: result.Log, Output: result.Output, OK: result.OK})
	if err != nil {
		return GLSLX_ERR_JSON_ENCODE
	}

	*out_result = C.CString(string(jsonBytes))
	*out_result_len = C.int(len(jsonBytes))
	return GLSLX_OK
}

// glslx_format re-indents and re-terminates GLSL ES 1.0 source text.
//
// Parameters:
//   - source: pointer to source text (UTF-8)
//   - source_len: length of source in bytes
//   - options_json: pointer to JSON {indent, newline, trailingNewline} (can be NULL for defaults)
//   - options_len: length of options_json in bytes
//   - out_text: pointer to receive the formatted text (caller must free with glslx_free)
//   - out_text_len: pointer to receive the formatted text's length
//
//export glslx_format
func glslx_format(
	source *C.char, source_len C.int,
	options_json *C.char, options_len C.int,
	out_text **C.char, out_text_len *C.int,
) C.int {
	if source == nil || out_text == nil || out_text_len == nil {
		return GLSLX_ERR_NULL_INPUT
	}

	var opts api.FormatOptions
	if options_json != nil && options_len > 0 {
		if err := json.Unmarshal([]byte(C.GoStringN(options_json, options_len)), &opts); err != nil {
			return GLSLX_ERR_JSON_DECODE
		}
	}

	formatted := api.Format(C.GoStringN(source, source_len), opts)
	*out_text = C.CString(formatted)
	*out_text_len = C.int(len(formatted))
	return GLSLX_OK
}

// glslx_free frees memory allocated by glslx_compile or glslx_format.
//
//export glslx_free
func glslx_free(ptr *C.char) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

// glslx_version returns the library version string. The returned
// pointer is static and must NOT be freed.
//
//export glslx_version
func glslx_version() *C.char {
	return cVersion
}

// cVersion is allocated once and never freed, so every glslx_version
// call hands back the same pointer.
var cVersion = C.CString(version)

// Required for c-archive build mode.
func main() {}
