package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var settingsFlag string
	var registryFlag string
	var strictFlag bool

	ctx := newCommandContext(&settingsFlag, &registryFlag, &strictFlag)

	rootCmd := &cobra.Command{
		Use:           "mqreg",
		Short:         "Create, delete, and enumerate POSIX message queues",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&settingsFlag, "settings", "", "Tool configuration file path")
	rootCmd.PersistentFlags().StringVar(&registryFlag, "registry", "", "Registry list file (overrides configuration)")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Exit non-zero when any queue operation fails")

	rootCmd.AddCommand(newCreateCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))
	rootCmd.AddCommand(newPruneCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
