package main

import (
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Print the configuration and initial state of a definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		def, err := loadDefinition(args[0])
		if err != nil {
			return err
		}

		m, err := def.Build(logger)
		if err != nil {
			return err
		}
		defer m.Close()

		return m.DumpConfig(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
