// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"time"
)

// SoundID addresses one playing instance. IDs are minted by a Mixer in
// strictly increasing order and never reused.
type SoundID uint64

func (id SoundID) String() string {
	return fmt.Sprintf("sound#%d", uint64(id))
}

// Volume is a linear slider position in [0, 1]. The mixer applies it
// squared, so halfway on the slider is a quarter of the amplitude.
type Volume float32

// FullVolume is the default volume for new playbacks and for the master.
const FullVolume Volume = 1.0

// Validate reports ErrVolumeOutOfRange for values outside [0, 1] and NaN.
func (v Volume) Validate() error {
	if v != v || v < 0 || v > 1 {
		return fmt.Errorf("%w: got %v", ErrVolumeOutOfRange, float32(v))
	}
	return nil
}

// PlaybackStyle decides what happens when a sound runs out of samples.
type PlaybackStyle int

const (
	// Once sounds are removed after their last sample.
	Once PlaybackStyle = iota
	// Looped sounds restart from the first sample and are only removed by Stop.
	Looped
	// Streamed sounds receive samples through StreamSound; running out
	// means starvation (silence), not the end.
	Streamed
)

func (p PlaybackStyle) String() string {
	switch p {
	case Once:
		return "once"
	case Looped:
		return "looped"
	case Streamed:
		return "streamed"
	default:
		return fmt.Sprintf("PlaybackStyle(%d)", int(p))
	}
}

// Sound is a playable asset: interleaved samples normalized to [-1, 1].
//
// Once played, the mixer owns Samples. Callers must not modify the slice
// afterwards; a Streamed sound grows only through Mixer.StreamSound.
type Sound struct {
	SampleRate    float32
	Channels      uint16
	Samples       []float32
	PlaybackStyle PlaybackStyle
}

// Validate checks the properties the synthesis engine relies on.
func (s Sound) Validate() error {
	if s.Channels != 1 && s.Channels != 2 {
		return fmt.Errorf("%w: got %d channels", ErrUnsupportedChannels, s.Channels)
	}
	if s.SampleRate != s.SampleRate || s.SampleRate < 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidSampleRate, s.SampleRate)
	}
	return nil
}

// Frames is the number of complete interleaved frames in the sound.
func (s Sound) Frames() int {
	if s.Channels == 0 {
		return 0
	}
	return len(s.Samples) / int(s.Channels)
}

// Duration is the nominal playing time at the sound's own sample rate.
func (s Sound) Duration() time.Duration {
	if s.SampleRate < 1 {
		return 0
	}
	return time.Duration(float64(s.Frames()) / float64(s.SampleRate) * float64(time.Second))
}

// PlaybackBuilder collects the arguments of Mixer.Play. Start from
// NewPlayback; the zero value has volume 0.
type PlaybackBuilder struct {
	sound    Sound
	hasSound bool
	volume   Volume
}

func NewPlayback() PlaybackBuilder {
	return PlaybackBuilder{volume: FullVolume}
}

func (b PlaybackBuilder) WithVolume(volume Volume) PlaybackBuilder {
	b.volume = volume
	return b
}

func (b PlaybackBuilder) WithSound(sound Sound) PlaybackBuilder {
	b.sound = sound
	b.hasSound = true
	return b
}

func (b PlaybackBuilder) Sound() (Sound, bool) { return b.sound, b.hasSound }
func (b PlaybackBuilder) Volume() Volume       { return b.volume }
