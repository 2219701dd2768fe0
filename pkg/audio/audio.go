// Package audio wires APU channel voices to host playback devices. It
// is the consumer side of the two-clock-domain bridge: each Device owns
// one SDL2 audio queue and pulls samples from its Source on demand,
// grounded on the teacher's pkg/gui audio setup (AUDIO_F32LSB, mono,
// 44100Hz) but one device per voice instead of one mixed device, so
// each channel crosses the bridge independently as spec.md §5 requires.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/hirokazu-sato/nesgo/pkg/apu"
	"github.com/hirokazu-sato/nesgo/pkg/logger"
)

const (
	bufferSamples = 1024
	// maxQueuedBytes bounds how far ahead a device is allowed to queue;
	// beyond this Pump is a no-op for that device until playback drains it.
	maxQueuedBytes = bufferSamples * 4 * 2
)

// Source renders one PCM sample per call, draining any pending bridge
// events first. *apu.SquareVoice, *apu.TriangleVoice and *apu.NoiseVoice
// all satisfy this.
type Source interface {
	Sample() float32
}

// Device is one SDL2 playback queue fed by a single Source.
type Device struct {
	id     sdl.AudioDeviceID
	source Source
	name   string
}

// Open requests a mono float32 44100Hz device and starts it unpaused.
func Open(name string, source Source) (*Device, error) {
	want := &sdl.AudioSpec{
		Freq:     apu.SampleRate,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 1,
		Samples:  bufferSamples,
	}
	var have sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, want, &have, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s device: %w", name, err)
	}

	d := &Device{id: id, source: source, name: name}
	sdl.PauseAudioDevice(id, false)
	return d, nil
}

// Pump tops up the device's queue toward maxQueuedBytes, rendering new
// samples from the source as needed. Call once per emulated frame.
func (d *Device) Pump() {
	queued := sdl.GetQueuedAudioSize(d.id)
	if queued >= maxQueuedBytes {
		return
	}

	need := (maxQueuedBytes - queued) / 4
	buf := make([]byte, 0, need*4)
	var b [4]byte
	for i := uint32(0); i < need; i++ {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(d.source.Sample()))
		buf = append(buf, b[:]...)
	}

	if err := sdl.QueueAudio(d.id, buf); err != nil {
		logger.LogError("audio: queue %s samples: %v", d.name, err)
	}
}

func (d *Device) Close() {
	sdl.CloseAudioDevice(d.id)
}

// Mixer owns one Device per APU voice. It is not a mixer in the signal
// sense (each voice plays through its own device) — the name matches
// what it replaces on the host: a single audio output stage.
type Mixer struct {
	devices []*Device
}

// NewMixer opens one device per channel voice. If SDL audio is
// unavailable, it returns an error; callers may choose to run without
// one (headless mode never calls this).
func NewMixer(a *apu.APU) (*Mixer, error) {
	specs := []struct {
		name   string
		source Source
	}{
		{"square1", a.Square1Voice()},
		{"square2", a.Square2Voice()},
		{"triangle", a.TriangleVoice()},
		{"noise", a.NoiseVoice()},
	}

	m := &Mixer{}
	for _, s := range specs {
		d, err := Open(s.name, s.source)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.devices = append(m.devices, d)
	}
	return m, nil
}

// Pump advances every voice's device by one buffer-fill step.
func (m *Mixer) Pump() {
	for _, d := range m.devices {
		d.Pump()
	}
}

func (m *Mixer) Close() {
	for _, d := range m.devices {
		d.Close()
	}
}
