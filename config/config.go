// Package config reads grammarkit.toml:
//
//	[parser]
//	max_recursion_depth = 500
//	trace = false
//
//	[log]
//	verbosity = 0
//	file = ""
//
//	[cli]
//	jobs = 4
//	color = "auto"
//
// Every key is optional. Command line flags override file values.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dhamidi/grammarkit/diag"
	"github.com/dhamidi/grammarkit/genparse"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "grammarkit.toml"

type Config struct {
	Parser Parser `toml:"parser"`
	Log    Log    `toml:"log"`
	CLI    CLI    `toml:"cli"`
}

type Parser struct {
	// MaxRecursionDepth overrides the grammar's limit when positive.
	MaxRecursionDepth int  `toml:"max_recursion_depth"`
	Trace             bool `toml:"trace"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

type CLI struct {
	Jobs  int    `toml:"jobs"`
	Color string `toml:"color"`
}

func Default() Config {
	return Config{
		CLI: CLI{Jobs: runtime.GOMAXPROCS(0), Color: string(diag.ColorAuto)},
	}
}

// Error reports a problem with a configuration file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads the file at path on top of Default. An empty path means
// FileName in the working directory, which may be missing.
func Load(path string) (Config, error) {
	optional := path == ""
	if optional {
		path = FileName
	}
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, &Error{Path: path, Err: err}
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Decode reads a configuration on top of Default. Unknown keys are an
// error so that typos do not go unnoticed.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Parser.MaxRecursionDepth < 0 {
		return fmt.Errorf("parser.max_recursion_depth must not be negative, got %d", c.Parser.MaxRecursionDepth)
	}
	if c.CLI.Jobs < 1 {
		return fmt.Errorf("cli.jobs must be at least 1, got %d", c.CLI.Jobs)
	}
	if _, err := diag.ParseColorMode(c.CLI.Color); err != nil {
		return fmt.Errorf("cli.color: %w", err)
	}
	return nil
}

// ParserOptions returns the runtime options described by c.
func (c Config) ParserOptions() []genparse.Option {
	var opts []genparse.Option
	if c.Parser.MaxRecursionDepth > 0 {
		opts = append(opts, genparse.WithMaxRecursionDepth(c.Parser.MaxRecursionDepth))
	}
	if c.Parser.Trace {
		opts = append(opts, genparse.WithTrace())
	}
	return opts
}

func (c Config) ColorMode() diag.ColorMode {
	mode, err := diag.ParseColorMode(c.CLI.Color)
	if err != nil {
		return diag.ColorAuto
	}
	return mode
}
