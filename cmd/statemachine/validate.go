package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a state machine definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(args[0])
		if err != nil {
			return err
		}

		if _, err := def.Table(); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d states, %d inputs)\n", args[0], len(def.States), len(def.Inputs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
