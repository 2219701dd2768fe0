// Package apu emulates the 2A03's audio processing unit: four sound
// channels (two pulses, triangle, noise) plus a register-surface-only
// DMC, driven by a frame sequencer and rendered through a bounded
// event bridge into the host audio callback's clock domain.
package apu

import "github.com/hirokazu-sato/nesgo/pkg/logger"

const (
	statusFrameIRQ = 0x40
	statusSquare1  = 0x01
	statusSquare2  = 0x02
	statusTriangle = 0x04
	statusNoise    = 0x08
	statusDMC      = 0x10
)

// APU is the CPU-side front end: register decode, broadcast-on-write,
// and the frame sequencer. It owns one voice per channel on the other
// side of the bridge; Sample reads drain and render from there.
type APU struct {
	square1  SquareRegister
	square2  SquareRegister
	triangle TriangleRegister
	noise    NoiseRegister
	dmc      DMCRegister

	square1Voice  *SquareVoice
	square2Voice  *SquareVoice
	triangleVoice *TriangleVoice
	noiseVoice    *NoiseVoice

	sequencer *FrameSequencer

	// Shadow length counters mirror what was last sent to each voice,
	// kept on the producer side so the frame sequencer's length/sweep
	// tick closures have something to decrement without querying across
	// the bridge. original_source/src/apu.rs's APU owns these directly
	// since it has no clock-domain split; this is the producer-side
	// equivalent of the same state.
	square1Length  LengthCounter
	square2Length  LengthCounter
	triangleLength LengthCounter
	noiseLength    LengthCounter

	// status holds exactly the bits last written to $4015 (channel
	// enables), matching original_source/src/apu.rs's StatusRegister: a
	// channel's status bit reflects what was last written, not a
	// derived mute state, so a length-halted channel written disabled
	// still reads back disabled.
	status uint8
}

func New() *APU {
	a := &APU{
		square1Voice:  NewSquareVoice(),
		square2Voice:  NewSquareVoice(),
		triangleVoice: NewTriangleVoice(),
		noiseVoice:    NewNoiseVoice(),
	}

	a.sequencer = NewFrameSequencer(
		squareTargets{
			envelopeTick: func() { a.square1Voice.Queue().Send(SquareEnvelopeTick{}) },
			lengthTick: func() {
				a.square1Length.Tick()
				a.square1Voice.Queue().Send(SquareLengthCounterTick{})
			},
			sweepTick: func() { a.square1Voice.Queue().Send(SquareSweepTick{}) },
		},
		squareTargets{
			envelopeTick: func() { a.square2Voice.Queue().Send(SquareEnvelopeTick{}) },
			lengthTick: func() {
				a.square2Length.Tick()
				a.square2Voice.Queue().Send(SquareLengthCounterTick{})
			},
			sweepTick: func() { a.square2Voice.Queue().Send(SquareSweepTick{}) },
		},
		triangleTargets{
			lengthTick: func() {
				a.triangleLength.Tick()
				a.triangleVoice.Queue().Send(TriangleLengthCounterTick{})
			},
		},
		noiseTargets{
			envelopeTick: func() { a.noiseVoice.Queue().Send(NoiseEnvelopeTick{}) },
			lengthTick: func() {
				a.noiseLength.Tick()
				a.noiseVoice.Queue().Send(NoiseLengthCounterTick{})
			},
		},
	)

	return a
}

// Square1Voice, Square2Voice, TriangleVoice and NoiseVoice expose each
// channel's sample-rendering consumer so pkg/audio can wire one host
// playback device per voice (spec.md §6).
func (a *APU) Square1Voice() *SquareVoice   { return a.square1Voice }
func (a *APU) Square2Voice() *SquareVoice   { return a.square2Voice }
func (a *APU) TriangleVoice() *TriangleVoice { return a.triangleVoice }
func (a *APU) NoiseVoice() *NoiseVoice       { return a.noiseVoice }

// Step advances the frame sequencer by the CPU cycles just executed.
func (a *APU) Step(cpuCycles int) {
	a.sequencer.Step(cpuCycles)
}

// Sample renders one mono PCM sample from each of the four voices,
// summed and clamped to [-1, 1]. Called once per host audio sample.
func (a *APU) Sample() float32 {
	sum := a.square1Voice.Sample() + a.square2Voice.Sample() + a.triangleVoice.Sample() + a.noiseVoice.Sample()
	if sum > 1 {
		return 1
	}
	if sum < -1 {
		return -1
	}
	return sum
}

// IRQ reports whether the frame sequencer's IRQ flag is set, without
// clearing it (clearing only happens as a side effect of a $4015 read,
// in readStatus). Matches original_source's fn irq(). The caller's step
// loop should trigger a CPU IRQ whenever this is true and let the CPU's
// own I-flag gate decide whether it is serviced.
func (a *APU) IRQ() bool {
	return a.sequencer.IRQFlag()
}

func (a *APU) ReadRegister(addr uint16) uint8 {
	if addr == 0x4015 {
		return a.readStatus()
	}
	return 0
}

func (a *APU) WriteRegister(addr uint16, v uint8) {
	switch addr {
	case 0x4000:
		a.square1.WriteCtrl(v)
		a.broadcastSquare1()
	case 0x4001:
		a.square1.WriteSweep(v)
		a.broadcastSquare1()
	case 0x4002:
		a.square1.WriteTimerLow(v)
		a.broadcastSquare1()
	case 0x4003:
		a.square1.WriteLengthAndTimerHigh(v)
		a.broadcastSquare1()
		a.square1Length.Reset()
		a.square1Voice.Queue().Send(SquareReset{})

	case 0x4004:
		a.square2.WriteCtrl(v)
		a.broadcastSquare2()
	case 0x4005:
		a.square2.WriteSweep(v)
		a.broadcastSquare2()
	case 0x4006:
		a.square2.WriteTimerLow(v)
		a.broadcastSquare2()
	case 0x4007:
		a.square2.WriteLengthAndTimerHigh(v)
		a.broadcastSquare2()
		a.square2Length.Reset()
		a.square2Voice.Queue().Send(SquareReset{})

	case 0x4008:
		a.triangle.WriteCtrl(v)
		a.broadcastTriangle()
	case 0x400A:
		a.triangle.WriteTimerLow(v)
		a.broadcastTriangle()
	case 0x400B:
		a.triangle.WriteLengthAndTimerHigh(v)
		a.broadcastTriangle()
		a.triangleLength.Reset()
		a.triangleVoice.Queue().Send(TriangleReset{})

	case 0x400C:
		a.noise.WriteCtrl(v)
		a.broadcastNoise()
	case 0x400E:
		a.noise.WriteMode(v)
		a.broadcastNoise()
	case 0x400F:
		a.noise.WriteLength(v)
		a.broadcastNoise()
		a.noiseLength.Reset()
		a.noiseVoice.Queue().Send(NoiseReset{})

	case 0x4010:
		a.dmc.WriteCtrl(v)
	case 0x4011:
		a.dmc.WriteDirectLoad(v)
	case 0x4012:
		a.dmc.WriteSampleAddr(v)
	case 0x4013:
		a.dmc.WriteSampleLen(v)

	case 0x4015:
		a.writeStatus(v)

	case 0x4017:
		mode := FourStep
		if v&0x80 != 0 {
			mode = FiveStep
		}
		a.sequencer.SetMode(mode, v&0x40 != 0)

	default:
		logger.LogAPU("write to unmapped APU register $%04X", addr)
	}
}

func (a *APU) broadcastSquare1() {
	a.square1Length = a.square1.LengthCounter()
	a.square1Voice.Queue().Send(SquareNote{Duty: a.square1.Duty})
	a.square1Voice.Queue().Send(SquareEnvelopeMsg{Envelope: a.square1.Envelope()})
	a.square1Voice.Queue().Send(SquareLengthCounterMsg{LengthCounter: a.square1Length})
	a.square1Voice.Queue().Send(SquareSweepMsg{Sweep: a.square1.Sweep()})
}

func (a *APU) broadcastSquare2() {
	a.square2Length = a.square2.LengthCounter()
	a.square2Voice.Queue().Send(SquareNote{Duty: a.square2.Duty})
	a.square2Voice.Queue().Send(SquareEnvelopeMsg{Envelope: a.square2.Envelope()})
	a.square2Voice.Queue().Send(SquareLengthCounterMsg{LengthCounter: a.square2Length})
	a.square2Voice.Queue().Send(SquareSweepMsg{Sweep: a.square2.Sweep()})
}

func (a *APU) broadcastTriangle() {
	a.triangleLength = a.triangle.LengthCounter()
	a.triangleVoice.Queue().Send(TriangleNote{Period: a.triangle.Timer})
	a.triangleVoice.Queue().Send(TriangleLengthCounterMsg{LengthCounter: a.triangleLength})
}

func (a *APU) broadcastNoise() {
	a.noiseLength = a.noise.LengthCounter()
	a.noiseVoice.Queue().Send(a.noise.Note())
	a.noiseVoice.Queue().Send(NoiseEnvelopeMsg{Envelope: a.noise.Envelope()})
	a.noiseVoice.Queue().Send(NoiseLengthCounterMsg{LengthCounter: a.noiseLength})
}

// readStatus answers a $4015 read: the stored enable bits plus the live
// DMC-active and frame-IRQ bits, clearing the frame-IRQ flag as a read
// side effect (spec.md §8 property 3; original_source's read_status
// does the same: return status.bits(), then remove ENABLE_FRAME_IRQ).
func (a *APU) readStatus() uint8 {
	v := a.status
	if a.dmc.CurrentLength > 0 {
		v |= statusDMC
	}
	if a.sequencer.IRQFlag() {
		v |= statusFrameIRQ
	}
	a.sequencer.ClearIRQ()
	return v
}

// writeStatus stores the written enable bits verbatim (not a derived
// mute state) and broadcasts Enable to each voice, matching
// original_source's write_status.
func (a *APU) writeStatus(v uint8) {
	a.status = v & (statusSquare1 | statusSquare2 | statusTriangle | statusNoise)

	a.square1Voice.Queue().Send(SquareEnable(v&0x01 != 0))
	a.square2Voice.Queue().Send(SquareEnable(v&0x02 != 0))
	a.triangleVoice.Queue().Send(TriangleEnable(v&0x04 != 0))
	a.noiseVoice.Queue().Send(NoiseEnable(v&0x08 != 0))
	a.dmc.SetEnabled(v&0x10 != 0)

	if v&0x01 == 0 {
		a.square1Length.Enabled = false
	}
	if v&0x02 == 0 {
		a.square2Length.Enabled = false
	}
	if v&0x04 == 0 {
		a.triangleLength.Enabled = false
	}
	if v&0x08 == 0 {
		a.noiseLength.Enabled = false
	}
}
