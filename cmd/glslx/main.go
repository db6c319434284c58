// Command glslx compiles, renames and reformats GLSL ES 1.0 shader
// source code.
//
// Usage:
//
//	glslx [options] <source.vert> <source.frag> ...
//
// Options:
//
//	--output PATH              Write output to file (default: stdout)
//	--format F                 json (default), js, c++, skew, rust
//	--renaming M                all (default), internal-only, none
//	--disable-rewriting        Skip constant folding and dead-code removal
//	--pretty-print             Emit readable output instead of minified
//	--keep-symbols             Keep renaming-eligible symbols during rewriting
//	--source-map               Emit a Source Map v3 document per shader
//	--config FILE              Use a specific config file
//	--no-config                Ignore glslx.json/.glslxrc files
//
// With no sources, glslx prints usage and exits 0. Exit code is 1 on
// any compile error or invalid flag.
//
// Config file:
//
//	glslx looks for glslx.json, .glslxrc or .glslxrc.json in the
//	current directory and its parents. CLI flags override whatever the
//	config file sets.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HugoDaniel/glslx/internal/config"
	"github.com/HugoDaniel/glslx/pkg/api"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		outputFile       string
		format           string
		renaming         string
		disableRewriting bool
		prettyPrint      bool
		keepSymbols      bool
		sourceMap        bool
		configFile       string
		noConfig         bool
		showVersion      bool
	)

	cmd := &cobra.Command{
		Use:           "glslx [options] <source...>",
		Short:         "Compile, rename and reformat GLSL ES 1.0 shader source code",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, sources []string) error {
			if showVersion {
				fmt.Printf("glslx v%s (%s)\n", version, commit)
				return nil
			}

			if len(sources) == 0 {
				return cmd.Usage()
			}

			resolved, err := resolveOptions(sources, config.CLI{
				Output:           outputFile,
				Format:           format,
				Renaming:         renaming,
				DisableRewriting: disableRewriting,
				PrettyPrint:      prettyPrint,
				KeepSymbols:      keepSymbols,
				SourceMap:        sourceMap,
			}, configFile, noConfig)
			if err != nil {
				return err
			}

			return compileAndWrite(sources, resolved)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output", "", "Write output to `file` (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: json, js, c++, skew, rust (default \"json\")")
	cmd.Flags().StringVar(&renaming, "renaming", "", "Renaming mode: all, internal-only, none (default \"all\")")
	cmd.Flags().BoolVar(&disableRewriting, "disable-rewriting", false, "Skip constant folding and dead-code removal")
	cmd.Flags().BoolVar(&prettyPrint, "pretty-print", false, "Emit readable output instead of minified")
	cmd.Flags().BoolVar(&keepSymbols, "keep-symbols", false, "Keep renaming-eligible symbols during rewriting")
	cmd.Flags().BoolVar(&sourceMap, "source-map", false, "Emit a Source Map v3 document per shader")
	cmd.Flags().StringVar(&configFile, "config", "", "Use a specific config `file`")
	cmd.Flags().BoolVar(&noConfig, "no-config", false, "Ignore glslx.json/.glslxrc files")
	cmd.Flags().BoolVar(&showVersion, "version", false, "Print version and exit")

	cmd.SetArgs(args)
	return cmd.Execute()
}

// resolveOptions loads the config file in force (unless disabled) and
// merges it with the flags the user actually passed.
func resolveOptions(sources []string, cli config.CLI, configFile string, noConfig bool) (config.Resolved, error) {
	if noConfig {
		return (*config.Config)(nil).Merge(cli)
	}

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
		if err != nil {
			return config.Resolved{}, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	} else {
		startDir := filepath.Dir(sources[0])
		cfg, _, err = config.Load(startDir)
		if err != nil {
			return config.Resolved{}, fmt.Errorf("loading config: %w", err)
		}
	}

	return cfg.Merge(cli)
}

func compileAndWrite(sourcePaths []string, resolved config.Resolved) error {
	shaders := make([]api.Shader, len(sourcePaths))
	for i, path := range sourcePaths {
		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		shaders[i] = api.Shader{Name: filepath.Base(path), Contents: string(contents)}
	}

	renamingMode := resolved.RenamingMode

	result := api.Compile(shaders, api.Options{
		Renaming:         renamingMode,
		DisableRewriting: resolved.DisableRewriting,
		PrettyPrint:      resolved.PrettyPrint,
		KeepSymbols:      resolved.KeepSymbols,
		Format:           resolved.Format,
		SourceMap:        resolved.SourceMap,
	})

	if result.Log != "" {
		fmt.Fprint(os.Stderr, result.Log)
	}
	if !result.OK {
		return fmt.Errorf("compilation failed")
	}

	var out io.Writer = os.Stdout
	if resolved.Output != "" {
		f, err := os.Create(resolved.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	_, err := io.WriteString(out, result.Output)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
