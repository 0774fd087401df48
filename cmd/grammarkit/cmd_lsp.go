package main

import (
	"github.com/dhamidi/grammarkit/config"
	"github.com/dhamidi/grammarkit/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server for calc",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, cfg.ParserOptions()...)
			return server.RunStdio()
		},
	}
}
