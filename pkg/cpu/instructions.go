package cpu

// dispatch runs the handler for mnemonic under mode and returns the
// extra cycles earned by a page crossing or a taken branch, on top of
// the opcode's base cycle count.
func (c *CPU) dispatch(mnemonic string, mode AddressingMode) int {
	switch mnemonic {
	case "LDA":
		v, crossed := c.getOperand(mode)
		c.A = v
		c.P.UpdateNZ(c.A)
		return extraIfCrossed(mnemonic, crossed)
	case "LDX":
		v, crossed := c.getOperand(mode)
		c.X = v
		c.P.UpdateNZ(c.X)
		return extraIfCrossed(mnemonic, crossed)
	case "LDY":
		v, crossed := c.getOperand(mode)
		c.Y = v
		c.P.UpdateNZ(c.Y)
		return extraIfCrossed(mnemonic, crossed)

	case "STA":
		addr, _ := c.getOperandAddress(mode)
		c.write(addr, c.A)
		return 0
	case "STX":
		addr, _ := c.getOperandAddress(mode)
		c.write(addr, c.X)
		return 0
	case "STY":
		addr, _ := c.getOperandAddress(mode)
		c.write(addr, c.Y)
		return 0

	case "AND":
		v, crossed := c.getOperand(mode)
		c.A &= v
		c.P.UpdateNZ(c.A)
		return extraIfCrossed(mnemonic, crossed)
	case "ORA":
		v, crossed := c.getOperand(mode)
		c.A |= v
		c.P.UpdateNZ(c.A)
		return extraIfCrossed(mnemonic, crossed)
	case "EOR":
		v, crossed := c.getOperand(mode)
		c.A ^= v
		c.P.UpdateNZ(c.A)
		return extraIfCrossed(mnemonic, crossed)

	case "BIT":
		v, _ := c.getOperand(mode)
		c.P.Assign(FlagZero, c.A&v == 0)
		c.P.Assign(FlagNegative, v&0x80 != 0)
		c.P.Assign(FlagOverflow, v&0x40 != 0)
		return 0

	case "ADC":
		v, crossed := c.getOperand(mode)
		c.adc(v)
		return extraIfCrossed(mnemonic, crossed)
	case "SBC":
		v, crossed := c.getOperand(mode)
		c.adc(v ^ 0xFF)
		return extraIfCrossed(mnemonic, crossed)

	case "CMP":
		v, crossed := c.getOperand(mode)
		c.compare(c.A, v)
		return extraIfCrossed(mnemonic, crossed)
	case "CPX":
		v, _ := c.getOperand(mode)
		c.compare(c.X, v)
		return 0
	case "CPY":
		v, _ := c.getOperand(mode)
		c.compare(c.Y, v)
		return 0

	case "INC":
		addr, _ := c.getOperandAddress(mode)
		v := c.read(addr) + 1
		c.write(addr, v)
		c.P.UpdateNZ(v)
		return 0
	case "DEC":
		addr, _ := c.getOperandAddress(mode)
		v := c.read(addr) - 1
		c.write(addr, v)
		c.P.UpdateNZ(v)
		return 0
	case "INX":
		c.X++
		c.P.UpdateNZ(c.X)
		return 0
	case "INY":
		c.Y++
		c.P.UpdateNZ(c.Y)
		return 0
	case "DEX":
		c.X--
		c.P.UpdateNZ(c.X)
		return 0
	case "DEY":
		c.Y--
		c.P.UpdateNZ(c.Y)
		return 0

	case "ASL":
		c.rmw(mode, func(v uint8) uint8 { return c.P.UpdateCShl(v) })
		return 0
	case "LSR":
		c.rmw(mode, func(v uint8) uint8 { return c.P.UpdateCShr(v) })
		return 0
	case "ROL":
		c.rmw(mode, c.rol)
		return 0
	case "ROR":
		c.rmw(mode, c.ror)
		return 0

	case "BCC":
		return c.branch(mode, !c.P.Test(FlagCarry))
	case "BCS":
		return c.branch(mode, c.P.Test(FlagCarry))
	case "BNE":
		return c.branch(mode, !c.P.Test(FlagZero))
	case "BEQ":
		return c.branch(mode, c.P.Test(FlagZero))
	case "BPL":
		return c.branch(mode, !c.P.Test(FlagNegative))
	case "BMI":
		return c.branch(mode, c.P.Test(FlagNegative))
	case "BVC":
		return c.branch(mode, !c.P.Test(FlagOverflow))
	case "BVS":
		return c.branch(mode, c.P.Test(FlagOverflow))

	case "JMP":
		addr, _ := c.getOperandAddress(mode)
		c.PC = addr
		return 0
	case "JSR":
		addr, _ := c.getOperandAddress(mode)
		c.push16(c.PC - 1)
		c.PC = addr
		return 0
	case "RTS":
		c.PC = c.pop16() + 1
		return 0

	case "BRK":
		c.PC++
		c.push16(c.PC)
		c.push(c.P.ReadAll() | uint8(FlagBreak))
		c.P.Set(FlagInterrupt)
		c.PC = c.read16(0xFFFE)
		return 0
	case "RTI":
		c.P.WriteAll(c.pop())
		c.P.Clear(FlagBreak)
		c.PC = c.pop16()
		return 0

	case "PHA":
		c.push(c.A)
		return 0
	case "PHP":
		c.push(c.P.ReadAll() | uint8(FlagBreak))
		return 0
	case "PLA":
		c.A = c.pop()
		c.P.UpdateNZ(c.A)
		return 0
	case "PLP":
		c.P.WriteAll(c.pop())
		return 0

	case "TAX":
		c.X = c.A
		c.P.UpdateNZ(c.X)
		return 0
	case "TAY":
		c.Y = c.A
		c.P.UpdateNZ(c.Y)
		return 0
	case "TXA":
		c.A = c.X
		c.P.UpdateNZ(c.A)
		return 0
	case "TYA":
		c.A = c.Y
		c.P.UpdateNZ(c.A)
		return 0
	case "TSX":
		c.X = c.SP
		c.P.UpdateNZ(c.X)
		return 0
	case "TXS":
		c.SP = c.X
		return 0

	case "CLC":
		c.P.Clear(FlagCarry)
		return 0
	case "SEC":
		c.P.Set(FlagCarry)
		return 0
	case "CLD":
		c.P.Clear(FlagDecimal)
		return 0
	case "SED":
		c.P.Set(FlagDecimal)
		return 0
	case "CLI":
		c.P.Clear(FlagInterrupt)
		return 0
	case "SEI":
		c.P.Set(FlagInterrupt)
		return 0
	case "CLV":
		c.P.Clear(FlagOverflow)
		return 0

	case "NOP":
		// Still consumes its operand bytes (and, for indexed modes, the
		// dummy read that goes with them) even though it has no effect.
		c.getOperandAddress(mode)
		return 0
	}

	return 0
}

func extraIfCrossed(mnemonic string, crossed bool) int {
	if crossed && pageCrossMnemonics[mnemonic] {
		return 1
	}
	return 0
}

// adc implements ADC's canonical signed-overflow rule; SBC reuses it by
// feeding the one's complement of its operand (NES 2A03 ignores decimal
// mode entirely, so no BCD path exists here).
func (c *CPU) adc(v uint8) {
	a := c.A
	carryIn := uint16(0)
	if c.P.Test(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(a) + uint16(v) + carryIn
	r := uint8(sum)
	c.P.Assign(FlagCarry, sum > 0xFF)
	c.P.Assign(FlagOverflow, (a^r)&(v^r)&0x80 != 0)
	c.A = r
	c.P.UpdateNZ(c.A)
}

// compare sets flags as for (reg - m): C on reg>=m, Z on equal, N from
// the difference's sign bit.
func (c *CPU) compare(reg, m uint8) {
	diff := reg - m
	c.P.Assign(FlagCarry, reg >= m)
	c.P.Assign(FlagZero, reg == m)
	c.P.Assign(FlagNegative, diff&0x80 != 0)
}

func (c *CPU) rol(v uint8) uint8 {
	carryIn := uint8(0)
	if c.P.Test(FlagCarry) {
		carryIn = 1
	}
	c.P.Assign(FlagCarry, v&0x80 != 0)
	return v<<1 | carryIn
}

func (c *CPU) ror(v uint8) uint8 {
	carryIn := uint8(0)
	if c.P.Test(FlagCarry) {
		carryIn = 0x80
	}
	c.P.Assign(FlagCarry, v&0x01 != 0)
	return v>>1 | carryIn
}

// rmw applies op to the accumulator or to a memory operand, updates N
// and Z from the result, and writes memory operands back.
func (c *CPU) rmw(mode AddressingMode, op func(uint8) uint8) {
	if mode == AddrAccumulator {
		c.A = op(c.A)
		c.P.UpdateNZ(c.A)
		return
	}
	addr, _ := c.getOperandAddress(mode)
	v := op(c.read(addr))
	c.write(addr, v)
	c.P.UpdateNZ(v)
}

// branch resolves the relative target unconditionally (so PC always
// advances past the operand byte) and jumps, charging the 6502's usual
// +1 cycle for a taken branch and +1 more if it crosses a page.
func (c *CPU) branch(mode AddressingMode, take bool) int {
	addr, _ := c.getOperandAddress(mode)
	nextPC := c.PC
	if !take {
		return 0
	}
	extra := 1
	if (nextPC & 0xFF00) != (addr & 0xFF00) {
		extra++
	}
	c.PC = addr
	return extra
}
