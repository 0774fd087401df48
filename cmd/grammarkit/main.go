package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/grammarkit/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var configPath string
	var verbose int
	var logFile string

	rootCmd := &cobra.Command{
		Use:           "grammarkit",
		Short:         "Error tolerant parsing with recovery and speculative parsing",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			if cmd.Flags().Changed("verbose") {
				cfg.Log.Verbosity = verbose
			}
			if cmd.Flags().Changed("log-file") {
				cfg.Log.File = logFile
			}
			var path *string
			if cfg.Log.File != "" {
				path = &cfg.Log.File
			}
			commonlog.Configure(cfg.Log.Verbosity, path)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log verbosity, repeat for more")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newParseCmd(&cfg))
	rootCmd.AddCommand(newLSPCmd(&cfg))
	rootCmd.AddCommand(newEbnfCmd())

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nrun '%s --help' for usage", err, cmd.CommandPath())
	})
	return rootCmd
}

// execute runs the command and reports its error the way main does.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
	}
	return err
}
