package apu

// lengthTable is the 32-entry length-counter reload table (spec.md
// §4.5), indexed by the 5-bit field in the channel's 4th register.
var lengthTable = [32]uint8{
	5, 127, 10, 1, 20, 2, 40, 3,
	80, 4, 30, 5, 7, 6, 13, 7,
	6, 8, 12, 9, 24, 10, 48, 11,
	96, 12, 36, 13, 8, 14, 16, 15,
}

// LengthCounter mutes a channel a fixed number of frame-sequencer ticks
// after it was keyed on (spec.md §4.5).
type LengthCounter struct {
	Enabled bool
	Count   uint8 // reload value

	counter uint8
}

// NewLengthCounter builds a length counter already loaded from index,
// the 5-bit field decoded out of the channel's 4th register.
func NewLengthCounter(enabled bool, index uint8) LengthCounter {
	l := LengthCounter{Enabled: enabled, Count: lengthTable[index&0x1F]}
	l.Reset()
	return l
}

// Tick decrements the counter once, while enabled and nonzero.
func (l *LengthCounter) Tick() {
	if !l.Enabled {
		return
	}
	if l.counter > 0 {
		l.counter--
	}
}

// Mute reports whether the channel should currently be silenced.
func (l *LengthCounter) Mute() bool {
	return l.Enabled && l.counter == 0
}

// Reset reloads the counter from Count.
func (l *LengthCounter) Reset() {
	l.counter = l.Count
}
