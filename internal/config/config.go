// Package config loads compiler defaults from a config file, searched
// for starting at a given directory and walking up to its parents, and
// layers CLI flags on top of whatever it finds.
//
// Configuration can be specified in a file named glslx.json, .glslxrc,
// or .glslxrc.json; spf13/viper parses the file, and CLI flags
// (threaded in via CLI/Merge) always win over whatever it found.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/HugoDaniel/glslx/internal/renamer"
)

// Names are the config file names searched for, in order of preference.
var Names = []string{
	"glslx.json",
	".glslxrc",
	".glslxrc.json",
}

// Config mirrors the CLI flag surface so a config file can set the
// same defaults `cmd/glslx` accepts on the command line. All fields
// are optional; a nil pointer means "not specified, use the default".
type Config struct {
	Output           *string `mapstructure:"output"`
	Format           *string `mapstructure:"format"`
	Renaming         *string `mapstructure:"renaming"`
	DisableRewriting *bool   `mapstructure:"disableRewriting"`
	PrettyPrint      *bool   `mapstructure:"prettyPrint"`
	KeepSymbols      *bool   `mapstructure:"keepSymbols"`
	SourceMap        *bool   `mapstructure:"sourceMap"`
}

// Load searches for a config file starting at startDir and walking up
// through parent directories, returning the parsed Config and the path
// it was found at. A nil Config and empty path (no error) means no
// config file was found anywhere up the tree.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range Names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile reads and parses a single config file at path. The content
// is read directly and fed to viper as JSON bytes rather than left to
// viper's filename-extension sniffing, since dotfiles like .glslxrc
// carry no recognizable extension for it to key off of.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CLI carries the flags actually set on the command line; a zero value
// field means "not specified, defer to the config file or built-in
// default" (the CLI layer only fills in fields the user actually
// passed a flag for).
type CLI struct {
	Output           string
	Format           string
	Renaming         string
	DisableRewriting bool
	PrettyPrint      bool
	KeepSymbols      bool
	SourceMap        bool
}

// Resolved is the fully merged set of options: CLI flags override
// config file settings, which override built-in defaults.
type Resolved struct {
	Output           string
	Format           string
	RenamingMode     renamer.Mode
	DisableRewriting bool
	PrettyPrint      bool
	KeepSymbols      bool
	SourceMap        bool
}

// Merge combines an (optional) file config with CLI flags, CLI always
// winning when a flag was actually passed.
func (c *Config) Merge(cli CLI) (Resolved, error) {
	r := Resolved{Format: "json", RenamingMode: renamer.ModeAll}

	if c != nil {
		if c.Output != nil {
			r.Output = *c.Output
		}
		if c.Format != nil {
			r.Format = *c.Format
		}
		if c.Renaming != nil {
			mode, ok := renamer.ParseMode(*c.Renaming)
			if !ok {
				return Resolved{}, errors.New("config: invalid renaming mode " + *c.Renaming)
			}
			r.RenamingMode = mode
		}
		if c.DisableRewriting != nil {
			r.DisableRewriting = *c.DisableRewriting
		}
		if c.PrettyPrint != nil {
			r.PrettyPrint = *c.PrettyPrint
		}
		if c.KeepSymbols != nil {
			r.KeepSymbols = *c.KeepSymbols
		}
		if c.SourceMap != nil {
			r.SourceMap = *c.SourceMap
		}
	}

	if cli.Output != "" {
		r.Output = cli.Output
	}
	if cli.Format != "" {
		r.Format = cli.Format
	}
	if cli.Renaming != "" {
		mode, ok := renamer.ParseMode(cli.Renaming)
		if !ok {
			return Resolved{}, errors.New("invalid --renaming value " + cli.Renaming)
		}
		r.RenamingMode = mode
	}
	if cli.DisableRewriting {
		r.DisableRewriting = true
	}
	if cli.PrettyPrint {
		r.PrettyPrint = true
	}
	if cli.KeepSymbols {
		r.KeepSymbols = true
	}
	if cli.SourceMap {
		r.SourceMap = true
	}

	switch r.Format {
	case "json", "js", "c++", "skew", "rust":
	default:
		return Resolved{}, errors.New("invalid --format value " + r.Format)
	}

	return r, nil
}
