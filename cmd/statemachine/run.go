package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	sm "github.com/muxa/esphome-state-machine"
	"github.com/muxa/esphome-state-machine/textsensor"
)

var runSettle time.Duration

var runCmd = &cobra.Command{
	Use:   "run FILE INPUT...",
	Short: "Apply inputs to a definition and print every state change",
	Long: `Run builds the machine, announces its initial state and applies the
given inputs in order. Automations run on their own goroutines; --settle
waits after each input so delayed actions can finish before the next one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		def, err := loadDefinition(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		loop := sm.NewLoop(sm.WithLoopLogger(logger))
		loop.Start(ctx)
		defer loop.Stop()

		m, err := def.Build(logger, sm.WithExecutor(loop))
		if err != nil {
			return err
		}
		defer m.Close()

		out := cmd.OutOrStdout()
		sensor := textsensor.New("state", m.Machine, textsensor.PublisherFunc(func(value string) {
			fmt.Fprintf(out, "state: %s\n", value)
		}))
		defer sensor.Close()

		if err := loop.Run(ctx, m.Setup); err != nil {
			return err
		}

		for _, arg := range args[1:] {
			input := sm.Input(arg)

			var applyErr error
			if err := loop.Run(ctx, func() { _, applyErr = m.Apply(input) }); err != nil {
				return err
			}

			if applyErr != nil {
				fmt.Fprintf(out, "%s: %v\n", input, applyErr)
			}

			if err := settle(ctx, runSettle); err != nil {
				return err
			}
		}

		var (
			status     []byte
			marshalErr error
		)

		if err := loop.Run(ctx, func() { status, marshalErr = json.Marshal(m.Machine) }); err != nil {
			return err
		}

		if marshalErr != nil {
			return marshalErr
		}

		fmt.Fprintln(out, string(status))
		return nil
	},
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func init() {
	runCmd.Flags().DurationVar(&runSettle, "settle", 0, "time to wait after each input for automations to finish")
	rootCmd.AddCommand(runCmd)
}
