package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sonobird/sonobird/internal/conf"
)

// Command creates the config command group.
func Command() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the sonobird configuration file",
	}
	configCmd.AddCommand(initCommand())
	return configCmd
}

// initCommand writes a config.yaml with default values for editing.
func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "config.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := conf.WriteDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
}
