package memory

import (
	"errors"
	"fmt"

	"github.com/hirokazu-sato/nesgo/pkg/logger"
)

// ErrInvalidAddress is the sentinel wrapped into the sticky error field
// whenever an access falls outside every mapped region.
var ErrInvalidAddress = errors.New("memory: invalid address")

// Memory is the NES 64 KiB address bus: internal RAM with mirroring,
// the PPU/APU register windows, and the cartridge ROM/RAM windows,
// behind a single read/write interface (spec.md §4.2).
//
// Reads and writes never return a value directly for an out-of-range
// access; instead Memory records the first such fault in a sticky
// field that CPU.Step drains once per instruction. This keeps every
// addressing-mode helper and instruction handler free of a threaded
// (value, error) return, matching the bus-errors-are-fatal-but-rare
// shape of spec.md §7.
type Memory struct {
	RAM [2048]uint8

	// HighMem backs $6000-$FFFF when no cartridge is attached, for
	// tests that exercise the CPU without a ROM.
	HighMem [0xA000]uint8

	PPU interface {
		ReadRegister(addr uint16) uint8
		WriteRegister(addr uint16, value uint8)
	}

	APU interface {
		ReadRegister(addr uint16) uint8
		WriteRegister(addr uint16, value uint8)
	}

	Cartridge interface {
		ReadPRG(addr uint16) uint8
		WritePRG(addr uint16, value uint8)
	}

	Input interface {
		Read() uint8
		Write(value uint8)
	}

	err error
}

// New creates an empty Memory with no collaborators attached.
func New() *Memory {
	return &Memory{}
}

func (m *Memory) SetCartridge(cart interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
}) {
	m.Cartridge = cart
}

func (m *Memory) SetPPU(ppu interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}) {
	m.PPU = ppu
}

func (m *Memory) SetAPU(apu interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}) {
	m.APU = apu
}

func (m *Memory) SetInput(input interface {
	Read() uint8
	Write(value uint8)
}) {
	m.Input = input
}

// TakeError returns and clears the first fault recorded since the last
// call, implementing the sticky-error drain CPU.Step relies on.
func (m *Memory) TakeError() error {
	err := m.err
	m.err = nil
	return err
}

func (m *Memory) fault(addr uint16, op string) {
	if m.err == nil {
		m.err = fmt.Errorf("%w: %s $%04X", ErrInvalidAddress, op, addr)
	}
}

// Read resolves addr per the spec.md §3 memory map and returns the byte
// there, or 0 with a sticky fault recorded if addr falls in the
// unmapped $4020-$5FFF gap with no cartridge expansion handler.
func (m *Memory) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.RAM[addr&0x7FF]

	case addr < 0x4000:
		if m.PPU != nil {
			return m.PPU.ReadRegister(0x2000 + (addr & 0x7))
		}
		return 0

	case addr == 0x4016:
		if m.Input != nil {
			return m.Input.Read()
		}
		return 0

	case addr == 0x4017 || addr < 0x4020:
		if m.APU != nil {
			return m.APU.ReadRegister(addr)
		}
		return 0

	case addr < 0x6000:
		// Cartridge expansion area; no generic handler is specified, so
		// a read here is only a fault when nothing claims it.
		if m.Cartridge != nil {
			return m.Cartridge.ReadPRG(addr)
		}
		m.fault(addr, "read")
		return 0

	default:
		if m.Cartridge != nil {
			return m.Cartridge.ReadPRG(addr)
		}
		index := addr - 0x6000
		return m.HighMem[index]
	}
}

// Write resolves addr per the spec.md §3 memory map and stores value.
func (m *Memory) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.RAM[addr&0x7FF] = value

	case addr < 0x4000:
		if m.PPU != nil {
			ppuAddr := 0x2000 + (addr & 0x7)
			if ppuAddr == 0x2006 || ppuAddr == 0x2007 {
				logger.LogCPU("Memory Write PPU $%04X: value=$%02X", ppuAddr, value)
			}
			m.PPU.WriteRegister(ppuAddr, value)
		}

	case addr == 0x4014:
		m.performOAMDMA(value)

	case addr == 0x4016:
		if m.Input != nil {
			m.Input.Write(value)
		}

	case addr < 0x4020:
		if m.APU != nil {
			m.APU.WriteRegister(addr, value)
		}

	case addr < 0x6000:
		if m.Cartridge != nil {
			m.Cartridge.WritePRG(addr, value)
			return
		}
		m.fault(addr, "write")

	default:
		if m.Cartridge != nil {
			m.Cartridge.WritePRG(addr, value)
			return
		}
		index := addr - 0x6000
		m.HighMem[index] = value
	}
}

// performOAMDMA copies the 256-byte page at page<<8 into PPU OAM, the
// side effect of writing $4014.
func (m *Memory) performOAMDMA(page uint8) {
	baseAddr := uint16(page) << 8

	for i := 0; i < 256; i++ {
		value := m.Read(baseAddr + uint16(i))
		if m.PPU != nil {
			m.PPU.WriteRegister(0x2004, value)
		}
	}
}
