package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/surqlx/surlint/lint"
)

// watchCmd: surlint watch. Re-lints query files as they change.
var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Watch directories and re-lint query files on change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, err := lint.New(cfgFile)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		if err := engine.StartWatching(args); err != nil {
			logger.Fatal("Failed to start watching", zap.Error(err))
		}
		fmt.Println("watching for changes... press ctrl-c to stop")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		if err := engine.StopWatching(); err != nil {
			logger.Error("Error stopping watcher", zap.Error(err))
		}
	},
}
