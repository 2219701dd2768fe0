package cpu

import (
	"errors"
	"fmt"

	"github.com/hirokazu-sato/nesgo/pkg/logger"
	"github.com/hirokazu-sato/nesgo/pkg/memory"
)

// Sentinel errors surfaced by Step. InvalidAddress originates from the bus
// (sticky, see memory.Memory) and is wrapped here with the PC it was
// observed at; UnknownOpcode and Halted originate from the CPU itself.
var (
	ErrInvalidAddress = errors.New("cpu: invalid address")
	ErrUnknownOpcode  = errors.New("cpu: unknown opcode")
	ErrHalted         = errors.New("cpu: halted by STP")
)

// CPU is a MOS 6502-class interpreter: four data registers, a 16-bit
// program counter, and a status register, driving fetch/decode/execute
// over the bus in Memory.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  StatusFlags

	Memory *memory.Memory

	Cycles int

	NMI bool
	IRQ bool

	halted bool
}

// New creates a CPU wired to mem. Callers must call Reset before Step.
func New(mem *memory.Memory) *CPU {
	return &CPU{
		Memory: mem,
		SP:     0xFF,
		P:      FlagReserved,
	}
}

// Reset restores power-on state: data registers to 0, SP to $FF, P to R
// only, and PC from the reset vector at $FFFC/$FFFD.
func (c *CPU) Reset() {
	c.A = 0
	c.X = 0
	c.Y = 0
	c.SP = 0xFF
	c.P = FlagReserved
	c.halted = false
	c.NMI = false
	c.IRQ = false

	c.PC = c.read16(0xFFFC)
	c.Cycles = 0
}

// Step executes one instruction (or one interrupt sequence) and returns
// the number of cycles it took. A non-nil error is fatal: InvalidAddress
// from a bus access outside the mapped regions, UnknownOpcode for an
// opcode absent from the decode table (unreachable with the default
// table, which maps every byte to NOP/STP/UNK or a real mnemonic), or
// Halted once STP has run. Callers must not call Step again after an
// error without an intervening Reset.
func (c *CPU) Step() (int, error) {
	if c.halted {
		return 0, fmt.Errorf("%w: PC=$%04X", ErrHalted, c.PC)
	}

	if c.NMI {
		logger.LogCPU("NMI triggered at PC=$%04X", c.PC)
		c.handleNMI()
		c.NMI = false
		return 7, c.busError()
	}

	if c.IRQ {
		if !c.P.Test(FlagInterrupt) {
			logger.LogCPU("IRQ triggered at PC=$%04X", c.PC)
			c.handleIRQ()
			c.IRQ = false
			return 7, c.busError()
		}
		c.IRQ = false
	}

	opcode := c.read(c.PC)
	c.PC++

	cycles, err := c.executeInstruction(opcode)
	c.Cycles += cycles
	if err != nil {
		return cycles, err
	}
	return cycles, c.busError()
}

// busError drains the sticky bus-error field set by Memory on an
// out-of-range access, wrapping it with the PC it was observed at.
func (c *CPU) busError() error {
	if err := c.Memory.TakeError(); err != nil {
		return fmt.Errorf("%w: PC=$%04X: %v", ErrInvalidAddress, c.PC, err)
	}
	return nil
}

// halt puts the CPU into the STP state; only Reset clears it.
func (c *CPU) halt() {
	c.halted = true
}

// handleNMI pushes PC and P (B clear) and jumps to the NMI vector,
// ignoring the I flag.
func (c *CPU) handleNMI() {
	c.push16(c.PC)
	c.push(c.P.ReadAll() &^ uint8(FlagBreak))
	c.P.Set(FlagInterrupt)
	c.PC = c.read16(0xFFFA)
}

// handleIRQ pushes PC and P (B clear) and jumps to the IRQ/BRK vector.
// Callers must check the I flag before calling.
func (c *CPU) handleIRQ() {
	c.push16(c.PC)
	c.push(c.P.ReadAll() &^ uint8(FlagBreak))
	c.P.Set(FlagInterrupt)
	c.PC = c.read16(0xFFFE)
}

func (c *CPU) getFlag(flag StatusFlags) bool {
	return c.P.Test(flag)
}

func (c *CPU) setFlag(flag StatusFlags, value bool) {
	c.P.Assign(flag, value)
}

func (c *CPU) read(addr uint16) uint8 {
	return c.Memory.Read(addr)
}

func (c *CPU) write(addr uint16, value uint8) {
	c.Memory.Write(addr, value)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) push(value uint8) {
	c.write(0x100|uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(0x100 | uint16(c.SP))
}

func (c *CPU) push16(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value & 0xFF))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// TriggerNMI requests a non-maskable interrupt on the next Step.
func (c *CPU) TriggerNMI() {
	c.NMI = true
}

// TriggerIRQ requests a maskable interrupt on the next Step; it is
// serviced only once the I flag is clear.
func (c *CPU) TriggerIRQ() {
	c.IRQ = true
}

// GetFlag exposes flag state for tests and debug snapshots.
func (c *CPU) GetFlag(flag StatusFlags) bool {
	return c.getFlag(flag)
}

// Halted reports whether STP has run since the last Reset.
func (c *CPU) Halted() bool {
	return c.halted
}

// Snapshot is a read-only debug view of the six architectural registers
// (spec.md §6's debug interface).
type Snapshot struct {
	A, X, Y, SP uint8
	P           uint8
	PC          uint16
}

// Snapshot returns the current register state for tests and debuggers.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P.ReadAll(), PC: c.PC}
}
