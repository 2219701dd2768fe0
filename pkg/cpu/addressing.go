package cpu

// AddressingMode names one of the thirteen operand-resolution rules of
// spec.md §4.3.
type AddressingMode int

const (
	AddrImplied AddressingMode = iota
	AddrAccumulator
	AddrImmediate
	AddrZeroPage
	AddrZeroPageX
	AddrZeroPageY
	AddrRelative
	AddrAbsolute
	AddrAbsoluteX
	AddrAbsoluteY
	AddrIndirect
	AddrIndexedIndirect
	AddrIndirectIndexed
)

// getOperandAddress resolves the effective address for mode, advancing PC
// past the operand bytes. The returned bool reports a page crossing, which
// costs instructions that index memory one extra cycle. Indexed modes
// perform the real 6502's dummy read on a page-cross exactly as hardware
// does, since that read can have a side effect on a memory-mapped register.
func (c *CPU) getOperandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case AddrImplied, AddrAccumulator:
		return 0, false

	case AddrImmediate:
		addr := c.PC
		c.PC++
		return addr, false

	case AddrZeroPage:
		addr := uint16(c.read(c.PC))
		c.PC++
		return addr, false

	case AddrZeroPageX:
		addr := uint16(c.read(c.PC) + c.X)
		c.PC++
		return addr & 0xFF, false

	case AddrZeroPageY:
		addr := uint16(c.read(c.PC) + c.Y)
		c.PC++
		return addr & 0xFF, false

	case AddrRelative:
		offset := int8(c.read(c.PC))
		c.PC++
		addr := uint16(int32(c.PC) + int32(offset))
		return addr, false

	case AddrAbsolute:
		addr := c.read16(c.PC)
		c.PC += 2
		return addr, false

	case AddrAbsoluteX:
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.X)
		crossed := (base & 0xFF00) != (addr & 0xFF00)
		if crossed {
			dummyAddr := (base & 0xFF00) | (addr & 0xFF)
			c.read(dummyAddr)
		}
		return addr, crossed

	case AddrAbsoluteY:
		base := c.read16(c.PC)
		c.PC += 2
		addr := base + uint16(c.Y)
		crossed := (base & 0xFF00) != (addr & 0xFF00)
		if crossed {
			dummyAddr := (base & 0xFF00) | (addr & 0xFF)
			c.read(dummyAddr)
		}
		return addr, crossed

	case AddrIndirect:
		ptr := c.read16(c.PC)
		c.PC += 2
		if ptr&0xFF == 0xFF {
			// Hardware bug: the high byte is fetched from the start of
			// the same page instead of wrapping into the next one.
			lo := c.read(ptr)
			hi := c.read(ptr & 0xFF00)
			return uint16(hi)<<8 | uint16(lo), false
		}
		return c.read16(ptr), false

	case AddrIndexedIndirect: // (zp,X)
		base := c.read(c.PC)
		c.PC++
		ptr := (uint16(base) + uint16(c.X)) & 0xFF
		lo := c.read(ptr)
		hi := c.read((ptr + 1) & 0xFF)
		return uint16(hi)<<8 | uint16(lo), false

	case AddrIndirectIndexed: // (zp),Y
		base := c.read(c.PC)
		c.PC++
		lo := c.read(uint16(base))
		hi := c.read((uint16(base) + 1) & 0xFF)
		baseAddr := uint16(hi)<<8 | uint16(lo)
		addr := baseAddr + uint16(c.Y)
		crossed := (baseAddr & 0xFF00) != (addr & 0xFF00)
		if crossed {
			dummyAddr := (baseAddr & 0xFF00) | (addr & 0xFF)
			c.read(dummyAddr)
		}
		return addr, crossed
	}

	return 0, false
}

// getOperand reads the operand value for mode. Accumulator mode reads A
// directly rather than dereferencing an address.
func (c *CPU) getOperand(mode AddressingMode) (uint8, bool) {
	if mode == AddrAccumulator {
		return c.A, false
	}
	addr, crossed := c.getOperandAddress(mode)
	return c.read(addr), crossed
}
