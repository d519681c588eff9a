package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var diagramURL bool

var diagramCmd = &cobra.Command{
	Use:   "diagram FILE",
	Short: "Print a Graphviz diagram of a definition",
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

		if diagramURL {
			fmt.Fprintln(cmd.OutOrStdout(), m.DiagramURL())
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), string(m.ToDOT()))
		return nil
	},
}

func init() {
	diagramCmd.Flags().BoolVar(&diagramURL, "url", false, "print a quickchart.io link instead of DOT")
	rootCmd.AddCommand(diagramCmd)
}
