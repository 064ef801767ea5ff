// SPDX-License-Identifier: EPL-2.0

package mixer

import "fmt"

// ear is the channel an output slot belongs to. Output buffers are
// interleaved, so consecutive slots alternate left and right.
type ear uint8

const (
	left ear = iota
	right
)

func (e ear) switched() ear {
	if e == left {
		return right
	}
	return left
}

// voice is one playing instance of a sound.
type voice struct {
	sound      Sound
	progress   int
	volume     Volume
	ear        ear
	correction SampleRateCorrection
	ticks      int
}

// exhausted reports that no complete frame is left at progress. A trailing
// partial stereo frame counts as exhausted.
func (v *voice) exhausted() bool {
	return v.progress+int(v.sound.Channels) > len(v.sound.Samples)
}

// engine holds all live sound state. It is not safe for concurrent use: only
// the driver's fill callback calls init, handle and nextValue, and hosts
// serialize those callbacks. The first one may run on the goroutine that
// started the stream rather than the host's audio goroutine.
type engine struct {
	sampleRate float32
	sounds     map[SoundID]*voice
	dead       []SoundID
	volume     Volume
	ear        ear
}

func newEngine(volume Volume) *engine {
	return &engine{
		sounds: make(map[SoundID]*voice),
		dead:   make([]SoundID, 0, 16),
		volume: volume,
		ear:    left,
	}
}

// init records the negotiated device rate. It is called once, before the
// first buffer is rendered.
func (e *engine) init(sampleRate float32) {
	e.sampleRate = sampleRate
}

// handle applies one command. Commands addressing an unknown id are
// ignored; malformed commands are rejected and leave the table untouched.
func (e *engine) handle(msg message) error {
	switch m := msg.(type) {
	case playMsg:
		if err := m.volume.Validate(); err != nil {
			return fmt.Errorf("play %s: %w", m.id, err)
		}
		if err := m.sound.Validate(); err != nil {
			return fmt.Errorf("play %s: %w", m.id, err)
		}
		correction := m.sound.Correction()
		e.sounds[m.id] = &voice{
			sound:      m.sound,
			volume:     m.volume,
			ear:        left,
			correction: correction,
			ticks:      correction.TicksPerIncrement,
		}

	case streamMsg:
		v, ok := e.sounds[m.id]
		if !ok {
			return nil
		}
		if v.sound.PlaybackStyle != Streamed {
			return fmt.Errorf("stream into %s (%s): %w", m.id, v.sound.PlaybackStyle, ErrNotStreamed)
		}
		v.sound.Samples = append(v.sound.Samples, m.samples...)

	case volumeMsg:
		v, ok := e.sounds[m.id]
		if !ok {
			return nil
		}
		if err := m.volume.Validate(); err != nil {
			return fmt.Errorf("set volume of %s: %w", m.id, err)
		}
		v.volume = m.volume

	case masterVolumeMsg:
		if err := m.volume.Validate(); err != nil {
			return fmt.Errorf("set master volume: %w", err)
		}
		e.volume = m.volume

	case stopMsg:
		delete(e.sounds, m.id)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}

	return nil
}

// nextValue mixes the next output slot. The result is not clamped.
func (e *engine) nextValue() float32 {
	var value float32

	for id, v := range e.sounds {
		if v.ear != e.ear {
			continue
		}

		if v.exhausted() {
			switch v.sound.PlaybackStyle {
			case Once:
				e.dead = append(e.dead, id)
				continue
			case Looped:
				v.progress = 0
				if v.exhausted() {
					continue
				}
			default:
				// streamed: starving until more content arrives
				continue
			}
		}

		var index int
		switch v.sound.Channels {
		case 1:
			index = v.progress
		case 2:
			index = v.progress
			if v.ear == right {
				index++
			}
		default:
			// rejected by handle
			continue
		}

		// per-sound and master volume, squared
		gain := float32(v.volume) * float32(e.volume)
		gain *= gain

		value += v.sound.Samples[index] * gain

		v.ticks--
		if v.ticks <= 0 {
			v.progress += v.correction.ProgressIncrement
			v.ticks = v.correction.TicksPerIncrement
		}
		v.ear = v.ear.switched()
	}

	for _, id := range e.dead {
		delete(e.sounds, id)
	}
	e.dead = e.dead[:0]

	e.ear = e.ear.switched()

	return value
}
