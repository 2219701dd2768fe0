// Command nesgo is the emulator's CLI entry point: a cobra root command
// with a run subcommand (SDL2 audio, real-time pacing) and a headless
// subcommand (fixed frame count, no audio device, for CI), replacing
// the teacher's single flag-driven main.go and its separate debug
// binaries.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirokazu-sato/nesgo/pkg/logger"
)

var (
	logLevel  string
	logFile   string
	cpuLog    bool
	ppuLog    bool
	apuLog    bool
	mapperLog bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nesgo",
		Short:         "A Nintendo Entertainment System emulator core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (off, error, warn, info, debug, trace)")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (empty for stdout)")
	root.PersistentFlags().BoolVar(&cpuLog, "cpu-log", false, "enable CPU instruction logging")
	root.PersistentFlags().BoolVar(&ppuLog, "ppu-log", false, "enable PPU logging")
	root.PersistentFlags().BoolVar(&apuLog, "apu-log", false, "enable APU/audio-bridge logging")
	root.PersistentFlags().BoolVar(&mapperLog, "mapper-log", false, "enable cartridge mapper logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newHeadlessCmd())
	return root
}

func initLogging() error {
	level := logger.GetLogLevelFromString(logLevel)
	if err := logger.Initialize(level, logFile); err != nil {
		return fmt.Errorf("nesgo: initialize logger: %w", err)
	}
	logger.SetCPULogging(cpuLog)
	logger.SetPPULogging(ppuLog)
	logger.SetAPULogging(apuLog)
	logger.SetMapperLogging(mapperLog)
	return nil
}
