package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/dhamidi/grammarkit/diag"
	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		wantErr string
	}{
		{
			name:  "empty",
			input: "",
			want:  Default(),
		},
		{
			name: "all keys",
			input: `
[parser]
max_recursion_depth = 50
trace = true

[log]
verbosity = 2
file = "grammarkit.log"

[cli]
jobs = 3
color = "never"
`,
			want: Config{
				Parser: Parser{MaxRecursionDepth: 50, Trace: true},
				Log:    Log{Verbosity: 2, File: "grammarkit.log"},
				CLI:    CLI{Jobs: 3, Color: "never"},
			},
		},
		{
			name:  "partial keeps defaults",
			input: "[parser]\nmax_recursion_depth = 10\n",
			want: Config{
				Parser: Parser{MaxRecursionDepth: 10},
				CLI:    CLI{Jobs: runtime.GOMAXPROCS(0), Color: "auto"},
			},
		},
		{
			name:    "unknown key",
			input:   "[parser]\nmax_depth = 10\n",
			wantErr: "unknown keys: parser.max_depth",
		},
		{
			name:    "negative depth",
			input:   "[parser]\nmax_recursion_depth = -1\n",
			wantErr: "parser.max_recursion_depth must not be negative",
		},
		{
			name:    "zero jobs",
			input:   "[cli]\njobs = 0\n",
			wantErr: "cli.jobs must be at least 1",
		},
		{
			name:    "bad color",
			input:   "[cli]\ncolor = \"pink\"\n",
			wantErr: "cli.color",
		},
		{
			name:    "syntax error",
			input:   "[parser\n",
			wantErr: "toml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Decode error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("[cli]\njobs = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CLI.Jobs != 2 {
		t.Errorf("jobs = %d, want 2", cfg.CLI.Jobs)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	var cfgErr *Error
	if !errors.As(err, &cfgErr) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want *Error wrapping fs.ErrNotExist", err)
	}
}

func TestLoadDefaultFileIsOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}
}

func TestParserOptions(t *testing.T) {
	if got := len(Default().ParserOptions()); got != 0 {
		t.Errorf("default options = %d, want 0", got)
	}
	cfg := Config{Parser: Parser{MaxRecursionDepth: 5, Trace: true}}
	if got := len(cfg.ParserOptions()); got != 2 {
		t.Errorf("options = %d, want 2", got)
	}
}

func TestColorMode(t *testing.T) {
	if got := (Config{CLI: CLI{Color: "always"}}).ColorMode(); got != diag.ColorAlways {
		t.Errorf("ColorMode = %q", got)
	}
	if got := (Config{CLI: CLI{Color: "bogus"}}).ColorMode(); got != diag.ColorAuto {
		t.Errorf("ColorMode = %q", got)
	}
}
