package apu

// noiseTable holds the sixteen NTSC noise-channel timer periods,
// expressed as CPU_CLOCK divisors (spec.md's "NTSC period table").
var noiseTable = [16]float32{
	0x0002, 0x0004, 0x0008, 0x0010, 0x0020,
	0x0030, 0x0040, 0x0050, 0x0065, 0x007F,
	0x00BE, 0x00FE, 0x017D, 0x01FC, 0x03F9, 0x07F2,
}

// NoiseHz converts a 4-bit noise period index into its NTSC frequency.
func NoiseHz(index uint8) float32 {
	return CPUClock / noiseTable[index&0x0F]
}

// NoiseLFSR is the 15-bit linear-feedback shift register behind the
// noise channel (spec.md §4.7), in long (tap=1) or short (tap=6) mode.
type NoiseLFSR struct {
	tap   uint8
	value uint16
}

// NewLongLFSR and NewShortLFSR seed a register to 1, matching hardware
// power-on state.
func NewLongLFSR() NoiseLFSR  { return NoiseLFSR{tap: 1, value: 1} }
func NewShortLFSR() NoiseLFSR { return NoiseLFSR{tap: 6, value: 1} }

// Next shifts the register right by one, feeding bit0 XOR bit(tap) back
// into bit 14, and returns the new bit 0 (true silences the channel).
func (n *NoiseLFSR) Next() bool {
	feedback := (n.value & 0x01) ^ ((n.value >> n.tap) & 0x01)
	n.value >>= 1
	n.value = n.value&0x3FFF | feedback<<14
	return n.value&0x01 != 0
}
