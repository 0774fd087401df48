package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/dhamidi/grammarkit/lexer"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ebnf",
		Short: "Token grammar tools",
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfLexCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and verify an EBNF token grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			out := cmd.OutOrStdout()

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			grammar, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(out, err)
				return errors.New("grammar has syntax errors")
			}

			if startProduction != "" {
				if err := ebnf.Verify(grammar, startProduction); err != nil {
					printErrors(out, err)
					return errors.New("grammar does not verify")
				}
			}

			lang, err := lexer.NewLanguage(grammar, nil)
			if err != nil {
				return err
			}
			for _, name := range lang.TokenNames() {
				fmt.Fprintf(out, "%s\t%s\n", name, lang.Kinds[name])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <grammar> <file>",
		Short: "Tokenize a file with an EBNF token grammar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := lexer.LoadGrammar(args[0])
			if err != nil {
				return err
			}
			lang, err := lexer.NewLanguage(grammar, nil)
			if err != nil {
				return err
			}
			var src []byte
			if args[1] == "-" {
				src, err = io.ReadAll(cmd.InOrStdin())
			} else {
				src, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			out := cmd.OutOrStdout()
			for _, tok := range lang.Lex(src) {
				fmt.Fprintln(out, tok)
			}
			return nil
		},
	}
}

// printErrors prints the errors of an ebnf error list one per line.
func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
