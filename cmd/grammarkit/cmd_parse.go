package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dhamidi/grammarkit/config"
	"github.com/dhamidi/grammarkit/diag"
	"github.com/dhamidi/grammarkit/format"
	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/lang/calc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newParseCmd(cfg *config.Config) *cobra.Command {
	var outputFormat string
	var includePositions bool
	var showStats bool
	var jobs int
	var color string
	var maxDepth int
	var expression bool

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Parse calc files and print their syntax trees",
		Long: `Parse calc files and print their syntax trees.

Syntax errors are printed to stderr as source snippets. The command fails
when any file has a syntax error. Use - to read standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("jobs") {
				cfg.CLI.Jobs = jobs
			}
			if cmd.Flags().Changed("color") {
				cfg.CLI.Color = color
			}
			if cmd.Flags().Changed("max-depth") {
				cfg.Parser.MaxRecursionDepth = maxDepth
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			enc, err := format.New(outputFormat, cmd.OutOrStdout(), format.Options{Positions: includePositions})
			if err != nil {
				return err
			}
			parse := calc.Parse
			if expression {
				parse = calc.ParseExpression
			}

			results, err := parseFiles(cmd.InOrStdin(), args, cfg.CLI.Jobs, parse, cfg.ParserOptions())
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			renderer := diag.NewRenderer(stderr, cfg.ColorMode())
			errorCount := 0
			for _, res := range results {
				doc := &format.Document{
					Name:        res.Name,
					Tree:        res.Tree,
					Diagnostics: res.Diagnostics,
				}
				if showStats {
					doc.Stats = &res.Stats
				}
				if err := enc.Encode(doc); err != nil {
					return fmt.Errorf("encode %s: %w", res.Name, err)
				}
				for _, d := range res.Diagnostics {
					fmt.Fprintln(stderr, renderer.Render(d, res.Source))
				}
				errorCount += len(res.Diagnostics)
				if showStats {
					printStats(stderr, res)
				}
			}
			if errorCount > 0 {
				return fmt.Errorf("%s syntax %s", humanize.Comma(int64(errorCount)), plural(errorCount, "error", "errors"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include positions in tree output")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print parser statistics to stderr")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", cfg.CLI.Jobs, "number of files parsed concurrently")
	cmd.Flags().StringVar(&color, "color", cfg.CLI.Color, "color diagnostics (auto, always, never)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum rule nesting before the parse is aborted")
	cmd.Flags().BoolVar(&expression, "expr", false, "parse each input as a single expression")

	return cmd
}

type parseFunc func(name string, src []byte, opts ...genparse.Option) (*calc.Result, error)

// parseFiles parses every file with its own runtime, at most jobs at a
// time. Results keep the order of names.
func parseFiles(stdin io.Reader, names []string, jobs int, parse parseFunc, opts []genparse.Option) ([]*calc.Result, error) {
	sources := make([][]byte, len(names))
	for i, name := range names {
		var err error
		if name == "-" {
			sources[i], err = io.ReadAll(stdin)
		} else {
			sources[i], err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}

	results := make([]*calc.Result, len(names))
	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, name := range names {
		g.Go(func() error {
			res, err := parse(name, sources[i], slices.Clone(opts)...)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printStats(w io.Writer, res *calc.Result) {
	s := res.Stats
	fmt.Fprintf(w, "%s: %s, %s tokens, %s sections, %s backtracks, depth %s, %s variants (%s evicted), %s frames, %s hooks, %s errors\n",
		res.Name,
		humanize.Bytes(uint64(len(res.Source))),
		humanize.Comma(int64(len(res.Tokens))),
		humanize.Comma(int64(s.Sections)),
		humanize.Comma(int64(s.Backtracks)),
		humanize.Comma(int64(s.MaxLevel)),
		humanize.Comma(int64(s.VariantsRecorded)),
		humanize.Comma(int64(s.VariantsEvicted)),
		humanize.Comma(int64(s.FramesAllocated)),
		humanize.Comma(int64(s.HooksRun)),
		humanize.Comma(int64(s.ErrorsReported)),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
