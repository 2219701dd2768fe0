package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSweepSilencesBelowMinimumPeriod(t *testing.T) {
	s := NewSweep(4, 1, 0, 0, true) // period 4 is already below 8
	s.Tick()
	assert.Equal(t, float32(0), s.Hz())
}

func TestSweepResetRestoresOriginalPeriod(t *testing.T) {
	s := NewSweep(200, 1, 0, 0, true)
	s.Tick()
	swept := s.Hz()
	s.Reset()
	assert.NotEqual(t, swept, s.Hz())
	assert.Equal(t, float32(CPUClock/(16.0*(200.0+1.0))), s.Hz())
}

func TestSweepDisabledNeverShifts(t *testing.T) {
	s := NewSweep(200, 1, 0, 0, false)
	before := s.Hz()
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	assert.Equal(t, before, s.Hz())
}
