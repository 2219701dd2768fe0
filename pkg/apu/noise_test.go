package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLongLFSRPeriod checks the 15-bit long-mode LFSR returns to its
// seed value after exactly 32767 steps, the well known period of the
// NES noise channel's long mode.
func TestLongLFSRPeriod(t *testing.T) {
	l := NewLongLFSR()
	for i := 0; i < 32767; i++ {
		l.Next()
	}
	assert.Equal(t, uint16(1), l.value)
}

// TestShortLFSRPeriod checks the short-mode (tap=6) LFSR's much shorter
// 93-step period.
func TestShortLFSRPeriod(t *testing.T) {
	s := NewShortLFSR()
	for i := 0; i < 93; i++ {
		s.Next()
	}
	assert.Equal(t, uint16(1), s.value)
}

func TestNoiseHzTableBounds(t *testing.T) {
	assert.InDelta(t, CPUClock/2.0, NoiseHz(0), 0.001)
	assert.InDelta(t, CPUClock/0x07F2, NoiseHz(15), 0.001)
}
