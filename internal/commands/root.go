package commands

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewRootCommand(env *Env) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "mite",
		Short: "Mite time tracking from the command line",
		Long: `A CLI for the Mite time tracking service: log time, list projects and services,
and review your timesheet as a list or monthly calendar.`,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// flags and args are valid by now; later errors are not usage errors
			cmd.SilenceUsage = true
			if debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debug information")

	rootCmd.AddCommand(
		NewAddCommand(env),
		NewTimesheetCommand(env),
		NewListCommand(env),
		NewConfigCommand(env),
	)

	return rootCmd
}
