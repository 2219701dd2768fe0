package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquare1RegisterWritesProduceAudibleNote(t *testing.T) {
	a := New()
	a.WriteRegister(0x4000, 0x3F) // duty 0, const volume, volume 15
	a.WriteRegister(0x4002, 0x00)
	a.WriteRegister(0x4003, 0x09) // timer high bits + length index

	a.WriteRegister(0x4015, 0x01) // enable square1

	var sample float32
	for i := 0; i < 100; i++ {
		sample = a.Sample()
	}
	assert.NotEqual(t, float32(0), sample)
}

func TestStatusReadReflectsChannelActivity(t *testing.T) {
	a := New()
	a.WriteRegister(0x4000, 0x3F)
	a.WriteRegister(0x4003, 0x08) // length index nonzero
	a.WriteRegister(0x4015, 0x01)

	// the status bit mirrors exactly what was last written to $4015.
	status := a.ReadRegister(0x4015)
	assert.NotEqual(t, uint8(0), status&statusSquare1)
}

func TestFrameIRQClearsOnStatusRead(t *testing.T) {
	a := New()
	a.WriteRegister(0x4017, 0x00) // 4-step mode, IRQ enabled
	for i := 0; i < 4; i++ {
		a.Step(frameInterval)
	}
	assert.True(t, a.sequencer.IRQFlag())

	status := a.ReadRegister(0x4015)
	assert.NotEqual(t, uint8(0), status&statusFrameIRQ)
	assert.False(t, a.sequencer.IRQFlag())
}

func TestDisablingChannelViaStatusWriteClearsStatusBit(t *testing.T) {
	a := New()
	a.WriteRegister(0x4000, 0x3F)
	a.WriteRegister(0x4003, 0x08)
	a.WriteRegister(0x4015, 0x01)
	assert.NotEqual(t, uint8(0), a.ReadRegister(0x4015)&statusSquare1)

	a.WriteRegister(0x4015, 0x00)
	assert.Equal(t, uint8(0), a.ReadRegister(0x4015)&statusSquare1)
}

func TestDMCLengthTracksRegisterWrites(t *testing.T) {
	a := New()
	a.WriteRegister(0x4013, 0x01) // sample length register
	a.WriteRegister(0x4015, 0x10) // enable DMC
	assert.NotEqual(t, uint8(0), a.ReadRegister(0x4015)&statusDMC)

	a.WriteRegister(0x4015, 0x00)
	assert.Equal(t, uint8(0), a.ReadRegister(0x4015)&statusDMC)
}
