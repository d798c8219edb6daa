package cmd

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	timeout time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "surlint [paths...]",
	Short:            "surlint - a schema-aware linter for query files",
	TraverseChildren: true, // Prioritize subcommands
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			// display help when only 'surlint' is entered
			_ = cmd.Help()
			return
		}
		// Format: surlint [path1 path2 ...] => behaves like the lint subcommand
		lintCmd.Run(lintCmd, args)
	},
}

func Execute() error {
	defer func() {
		_ = logger.Sync()
	}()
	return rootCmd.Execute()
}

func init() {
	logger, _ = zap.NewProduction()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", ".surlint.yaml", "Configuration file path")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Set a timeout for the linter")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(watchCmd)
}
