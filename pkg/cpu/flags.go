package cpu

// StatusFlags is the 6502 processor status register (P). Bit layout:
//
//	7 6 5 4 3 2 1 0
//	N V R B D I Z C
//
// R (bit 5) has no backing state of its own: it always reads as 1.
type StatusFlags uint8

const (
	FlagCarry     StatusFlags = 1 << 0 // C
	FlagZero      StatusFlags = 1 << 1 // Z
	FlagInterrupt StatusFlags = 1 << 2 // I
	FlagDecimal   StatusFlags = 1 << 3 // D
	FlagBreak     StatusFlags = 1 << 4 // B
	FlagReserved  StatusFlags = 1 << 5 // R, always 1
	FlagOverflow  StatusFlags = 1 << 6 // V
	FlagNegative  StatusFlags = 1 << 7 // N

	// FlagUnused is an alias kept for callers that know the bit by its
	// other common name.
	FlagUnused = FlagReserved
)

// Set turns on every bit named in mask.
func (p *StatusFlags) Set(mask StatusFlags) {
	*p |= mask
}

// Clear turns off every bit named in mask.
func (p *StatusFlags) Clear(mask StatusFlags) {
	*p &^= mask
}

// Assign sets or clears mask depending on value.
func (p *StatusFlags) Assign(mask StatusFlags, value bool) {
	if value {
		p.Set(mask)
	} else {
		p.Clear(mask)
	}
}

// Test reports whether every bit in mask is set.
func (p StatusFlags) Test(mask StatusFlags) bool {
	return p&mask == mask
}

// ReadAll returns the whole byte with R forced to 1. PHP and BRK set B on
// top of it when pushing; IRQ/NMI clear B.
func (p StatusFlags) ReadAll() uint8 {
	return uint8(p | FlagReserved)
}

// WriteAll loads every flag from a byte, as PLP does. R is forced to 1;
// callers that must ignore the loaded B bit (RTI) clear it themselves.
func (p *StatusFlags) WriteAll(v uint8) {
	*p = StatusFlags(v) | FlagReserved
}

// UpdateNZ sets Z from v==0 and N from bit 7 of v.
func (p *StatusFlags) UpdateNZ(v uint8) {
	p.Assign(FlagZero, v == 0)
	p.Assign(FlagNegative, v&0x80 != 0)
}

// UpdateCAdd performs an 8-bit add, setting C from the carry out of bit 7
// and returning the wrapped low byte. It does not touch V — ADC/SBC
// compute V themselves from the signed-overflow rule (see instructions.go).
func (p *StatusFlags) UpdateCAdd(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	p.Assign(FlagCarry, sum > 0xFF)
	return uint8(sum)
}

// UpdateCShl shifts v left by one, setting C from the outgoing bit 7.
func (p *StatusFlags) UpdateCShl(v uint8) uint8 {
	p.Assign(FlagCarry, v&0x80 != 0)
	return v << 1
}

// UpdateCShr shifts v right by one, setting C from the outgoing bit 0.
func (p *StatusFlags) UpdateCShr(v uint8) uint8 {
	p.Assign(FlagCarry, v&0x01 != 0)
	return v >> 1
}
