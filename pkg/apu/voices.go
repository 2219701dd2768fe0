package apu

// MasterVolume scales every channel's output, matching the reference
// implementation's fixed mixdown gain (spec.md §4.8 — this emulator
// omits the NES's non-linear DAC mixing curve in favor of independent,
// linearly-summed per-channel waveforms).
const MasterVolume = 0.25

// SampleRate is the fixed host audio rate every voice renders at.
const SampleRate = 44100

// SquareVoice is the consumer side of a pulse channel: it drains its
// bridge queue once per sample, then advances a phase accumulator and
// renders spec.md §4.8's duty-cycle square waveform.
type SquareVoice struct {
	queue *eventQueue[SquareEvent]

	enabled  bool
	duty     float32
	hz       float32
	envelope Envelope
	length   LengthCounter
	sweep    Sweep

	phase float32
}

func NewSquareVoice() *SquareVoice {
	return &SquareVoice{
		queue: newEventQueue[SquareEvent](defaultBridgeCapacity, "square"),
		duty:  0.5,
	}
}

func (v *SquareVoice) Queue() *eventQueue[SquareEvent] { return v.queue }

func (v *SquareVoice) apply(e SquareEvent) {
	switch ev := e.(type) {
	case SquareNote:
		v.duty = ev.DutyFraction()
	case SquareEnable:
		v.enabled = bool(ev)
	case SquareEnvelopeMsg:
		v.envelope = ev.Envelope
	case SquareEnvelopeTick:
		v.envelope.Tick()
	case SquareLengthCounterMsg:
		v.length = ev.LengthCounter
	case SquareLengthCounterTick:
		v.length.Tick()
	case SquareSweepMsg:
		v.sweep = ev.Sweep
		v.hz = v.sweep.Hz()
	case SquareSweepTick:
		v.sweep.Tick()
		v.hz = v.sweep.Hz()
	case SquareReset:
		v.envelope.Reset()
		v.length.Reset()
		v.sweep.Reset()
		v.phase = 0
	}
}

// Sample drains pending events, then returns the next PCM sample.
func (v *SquareVoice) Sample() float32 {
	v.queue.Drain(v.apply)

	if !v.enabled || v.length.Mute() || v.hz <= 0 {
		return 0
	}

	v.phase += v.hz / SampleRate
	for v.phase >= 1 {
		v.phase -= 1
	}

	vol := v.envelope.Volume()
	if v.phase <= v.duty {
		return vol * MasterVolume
	}
	return -vol * MasterVolume
}

// TriangleVoice renders spec.md §4.8's folded triangle waveform. The
// triangle channel has no envelope or sweep; its only modulation is the
// length counter's mute gate.
type TriangleVoice struct {
	queue  *eventQueue[TriangleEvent]
	enabled bool
	hz     float32
	length LengthCounter
	phase  float32
}

func NewTriangleVoice() *TriangleVoice {
	return &TriangleVoice{queue: newEventQueue[TriangleEvent](defaultBridgeCapacity, "triangle")}
}

func (v *TriangleVoice) Queue() *eventQueue[TriangleEvent] { return v.queue }

func (v *TriangleVoice) apply(e TriangleEvent) {
	switch ev := e.(type) {
	case TriangleNote:
		v.hz = ev.Hz()
	case TriangleEnable:
		v.enabled = bool(ev)
	case TriangleLengthCounterMsg:
		v.length = ev.LengthCounter
	case TriangleLengthCounterTick:
		v.length.Tick()
	case TriangleReset:
		v.length.Reset()
		v.phase = 0
	}
}

func (v *TriangleVoice) Sample() float32 {
	v.queue.Drain(v.apply)

	if !v.enabled || v.length.Mute() || v.hz <= 0 {
		return 0
	}

	v.phase += v.hz / SampleRate
	for v.phase >= 1 {
		v.phase -= 1
	}

	var folded float32
	if v.phase <= 0.5 {
		folded = v.phase
	} else {
		folded = 1 - v.phase
	}
	return (folded - 0.25) * 4 * MasterVolume
}

// NoiseVoice renders spec.md §4.7's pseudo-random waveform: an LFSR
// clocked at the channel's configured rate, gated by envelope volume
// and the length counter's mute flag.
type NoiseVoice struct {
	queue *eventQueue[NoiseEvent]

	enabled  bool
	hz       float32
	isLong   bool
	envelope Envelope
	length   LengthCounter

	lfsr      NoiseLFSR
	phaseAcc  float32
	lastLevel float32
}

func NewNoiseVoice() *NoiseVoice {
	return &NoiseVoice{
		queue: newEventQueue[NoiseEvent](defaultBridgeCapacity, "noise"),
		lfsr:  NewLongLFSR(),
	}
}

func (v *NoiseVoice) Queue() *eventQueue[NoiseEvent] { return v.queue }

func (v *NoiseVoice) apply(e NoiseEvent) {
	switch ev := e.(type) {
	case NoiseNote:
		v.hz = ev.Hz
		if ev.IsLong != v.isLong {
			v.isLong = ev.IsLong
			if v.isLong {
				v.lfsr = NewLongLFSR()
			} else {
				v.lfsr = NewShortLFSR()
			}
		}
	case NoiseEnable:
		v.enabled = bool(ev)
	case NoiseEnvelopeMsg:
		v.envelope = ev.Envelope
	case NoiseEnvelopeTick:
		v.envelope.Tick()
	case NoiseLengthCounterMsg:
		v.length = ev.LengthCounter
	case NoiseLengthCounterTick:
		v.length.Tick()
	case NoiseReset:
		v.envelope.Reset()
		v.length.Reset()
		if v.isLong {
			v.lfsr = NewLongLFSR()
		} else {
			v.lfsr = NewShortLFSR()
		}
	}
}

func (v *NoiseVoice) Sample() float32 {
	v.queue.Drain(v.apply)

	if !v.enabled || v.length.Mute() || v.hz <= 0 {
		return 0
	}

	v.phaseAcc += v.hz / SampleRate
	for v.phaseAcc >= 1 {
		v.phaseAcc -= 1
		silence := v.lfsr.Next()
		if silence {
			v.lastLevel = 0
		} else {
			v.lastLevel = v.envelope.Volume()
		}
	}
	return v.lastLevel * MasterVolume
}
