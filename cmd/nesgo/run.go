package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/hirokazu-sato/nesgo/pkg/audio"
	"github.com/hirokazu-sato/nesgo/pkg/logger"
)

// frameTime is the NTSC NES frame period (60.0988 Hz), grounded on the
// teacher's pkg/gui FrameTime constant.
const frameTime = 16639267 * time.Nanosecond

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <rom_file>",
		Short: "Run a ROM in real time with audio output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRealtime(args[0])
		},
	}
	return cmd
}

func runRealtime(romPath string) error {
	if err := initLogging(); err != nil {
		return err
	}
	defer logger.Close()

	machine, err := newMachine(romPath)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("nesgo: sdl init: %w", err)
	}
	defer sdl.Quit()

	mixer, err := audio.NewMixer(machine.APU)
	if err != nil {
		logger.LogError("audio disabled: %v", err)
	} else {
		defer mixer.Close()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	frameCount := 0
	start := time.Now()
	for {
		select {
		case <-stop:
			logger.LogInfo("nesgo: shutting down after %d frames", frameCount)
			return nil
		default:
		}

		if err := machine.StepFrame(); err != nil {
			return fmt.Errorf("nesgo: run: %w", err)
		}
		if mixer != nil {
			mixer.Pump()
		}

		frameCount++
		target := start.Add(time.Duration(frameCount) * frameTime)
		if now := time.Now(); now.Before(target) {
			time.Sleep(target.Sub(now))
		}
	}
}
