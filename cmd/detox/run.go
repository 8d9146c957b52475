package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/termdetox/terminal-detox/commands"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run one command line command and print its output",
	Example: `  detox run weather London
  detox run todo add water the plants
  detox run theme matrix`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.closeLog()

		dispatcher := commands.NewDispatcher(commands.Options{
			API:     a.api,
			Themes:  a.themes,
			Widgets: a.registry,
			Todos:   a.todos,
			Clocks:  a.clocks,
			Logger:  a.logger,
			Timeout: a.config.Server.Timeout.Duration,
		})

		dispatcher.Execute(strings.Join(args, " "))
		dispatcher.Wait()

		failed := false
		for _, line := range dispatcher.Transcript().Lines() {
			if line.Error {
				failed = true
				Red.Println(line.Output)
				continue
			}
			Cyan.Println(line.Output)
		}

		if failed {
			return errors.New("command failed")
		}
		return nil
	},
}
