package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hirokazu-sato/nesgo/pkg/logger"
)

func newHeadlessCmd() *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "headless <rom_file>",
		Short: "Run a fixed number of frames with no audio device, for CI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(args[0], frames)
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "number of frames to run")
	return cmd
}

func runHeadless(romPath string, frames int) error {
	if err := initLogging(); err != nil {
		return err
	}
	defer logger.Close()

	machine, err := newMachine(romPath)
	if err != nil {
		return err
	}

	for i := 0; i < frames; i++ {
		if err := machine.StepFrame(); err != nil {
			return fmt.Errorf("nesgo: headless: frame %d: %w", i, err)
		}
	}

	logger.LogInfo("headless run complete: %d frames, %d CPU cycles", frames, machine.Cycles)
	return nil
}
