// Package nes wires the CPU, bus, APU, cartridge, PPU stub and input
// controller into one owned value (spec.md §9: no package-level
// singleton), and drives the CPU-cycle clock domain both the PPU stub
// and the APU's frame sequencer are ticked from.
package nes

import (
	"fmt"

	"github.com/hirokazu-sato/nesgo/pkg/apu"
	"github.com/hirokazu-sato/nesgo/pkg/cartridge"
	"github.com/hirokazu-sato/nesgo/pkg/cpu"
	"github.com/hirokazu-sato/nesgo/pkg/input"
	"github.com/hirokazu-sato/nesgo/pkg/memory"
	"github.com/hirokazu-sato/nesgo/pkg/ppu"
)

// NES is the top-level emulator: one value per running instance,
// constructed with New and never shared through a global.
type NES struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	APU       *apu.APU
	Memory    *memory.Memory
	Cartridge *cartridge.Cartridge
	Input     *input.Controller

	Cycles uint64
	Frame  uint64
}

// New constructs a fully wired NES with no cartridge loaded yet.
func New() *NES {
	n := &NES{
		Memory: memory.New(),
		PPU:    ppu.New(),
		APU:    apu.New(),
		Input:  input.New(),
	}
	n.CPU = cpu.New(n.Memory)

	n.Memory.SetPPU(n.PPU)
	n.Memory.SetAPU(n.APU)
	n.Memory.SetInput(n.Input)

	return n
}

// LoadCartridge attaches a parsed cartridge to the bus and resets the
// CPU so execution starts from the cartridge's reset vector.
func (n *NES) LoadCartridge(cart *cartridge.Cartridge) {
	n.Cartridge = cart
	n.Memory.SetCartridge(cart)
	n.CPU.Reset()
}

// Reset restores the CPU and the PPU stub to their power-on state and
// zeroes the cycle and frame counters. APU and controller state are not
// reset.
func (n *NES) Reset() {
	n.CPU.Reset()
	n.PPU.Reset()
	n.Cycles = 0
	n.Frame = 0
}

// Step executes exactly one CPU instruction, then advances the PPU
// stub (3 PPU cycles per CPU cycle) and the APU's frame sequencer (1:1
// with CPU cycles), servicing any NMI or mapper IRQ the PPU raises and
// any frame IRQ the APU raises (the CPU's own I-flag gate decides
// whether a triggered IRQ is actually serviced).
func (n *NES) Step() (int, error) {
	cpuCycles, err := n.CPU.Step()
	if err != nil {
		return cpuCycles, fmt.Errorf("nes: step: %w", err)
	}

	for i := 0; i < cpuCycles*3; i++ {
		n.PPU.Step()
		if n.PPU.NMIRequested {
			n.CPU.TriggerNMI()
			n.PPU.NMIRequested = false
		}
		if n.PPU.IsMapperIRQPending() {
			n.CPU.TriggerIRQ()
			n.PPU.ClearMapperIRQ()
		}
	}

	n.APU.Step(cpuCycles)
	if n.APU.IRQ() {
		n.CPU.TriggerIRQ()
	}

	n.Cycles += uint64(cpuCycles)
	return cpuCycles, nil
}

// maxStepsPerFrame bounds StepFrame against a runaway program that
// never lets the PPU stub reach its frame boundary.
const maxStepsPerFrame = 50000

// StepFrame runs until the PPU stub completes a frame (or the runaway
// guard trips), returning the first fatal bus/CPU error encountered.
func (n *NES) StepFrame() error {
	for i := 0; !n.PPU.FrameComplete && i < maxStepsPerFrame; i++ {
		if _, err := n.Step(); err != nil {
			return err
		}
	}
	n.PPU.FrameComplete = false
	n.Frame = n.PPU.Frame
	return nil
}

// Sample renders one combined audio sample across every APU voice, for
// a caller that does not go through pkg/audio (e.g. headless capture).
func (n *NES) Sample() float32 {
	return n.APU.Sample()
}
