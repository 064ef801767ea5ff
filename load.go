// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/host/otohost"
	"github.com/ik5/audmix/mixer"
)

// DefaultRegistry returns a new registry with every bundled decoder,
// keyed by file extension.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

var defaultRegistry = sync.OnceValue(DefaultRegistry)

type loadConfig struct {
	sampleRate int
	channels   int
}

// LoadOption changes how a decoded stream becomes a sound.
type LoadOption func(*loadConfig)

// WithSampleRate resamples the sound to rate. The mixer corrects rates
// only by whole-number ratios of mixer.ReferenceRate, so resampling other
// rates to the reference rate at load time keeps the pitch exact.
func WithSampleRate(rate int) LoadOption {
	return func(c *loadConfig) { c.sampleRate = rate }
}

// WithChannels folds the sound to 1 or 2 channels.
func WithChannels(channels int) LoadOption {
	return func(c *loadConfig) { c.channels = channels }
}

// SoundFromSource reads src to the end and returns it as a playable sound.
// Sources with more than two channels are folded down to stereo unless
// WithChannels asks for mono. src is not closed.
func SoundFromSource(src audio.Source, style mixer.PlaybackStyle, opts ...LoadOption) (mixer.Sound, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	channels := cfg.channels
	if channels == 0 && src.Channels() > 2 {
		channels = 2
	}
	if channels != 0 && channels != src.Channels() {
		dm, err := audio.NewDownmixer(src, channels)
		if err != nil {
			return mixer.Sound{}, err
		}
		src = dm
	}

	if cfg.sampleRate != 0 && cfg.sampleRate != src.SampleRate() {
		rs, err := audio.NewResampler(src, cfg.sampleRate)
		if err != nil {
			return mixer.Sound{}, err
		}
		src = rs
	}

	samples, err := audio.ReadAll(src)
	if err != nil {
		return mixer.Sound{}, err
	}

	sound := mixer.Sound{
		SampleRate:    float32(src.SampleRate()),
		Channels:      uint16(src.Channels()),
		Samples:       samples,
		PlaybackStyle: style,
	}
	if err := sound.Validate(); err != nil {
		return mixer.Sound{}, err
	}

	return sound, nil
}

// DecodeSound decodes a whole stream of the given format ("wav", "mp3",
// "ogg", "aiff", ...) into a sound.
func DecodeSound(r io.Reader, format string, style mixer.PlaybackStyle, opts ...LoadOption) (mixer.Sound, error) {
	dec, ok := defaultRegistry().Get(format)
	if !ok {
		return mixer.Sound{}, fmt.Errorf("%w: %q", audio.ErrUnknownFormat, format)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return mixer.Sound{}, fmt.Errorf("decode %s: %w", format, err)
	}
	defer src.Close()

	return SoundFromSource(src, style, opts...)
}

// LoadSound decodes the file at path, picking the decoder by extension.
func LoadSound(path string, style mixer.PlaybackStyle, opts ...LoadOption) (mixer.Sound, error) {
	f, err := os.Open(path)
	if err != nil {
		return mixer.Sound{}, err
	}
	defer f.Close()

	sound, err := DecodeSound(f, filepath.Ext(path), style, opts...)
	if err != nil {
		return mixer.Sound{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return sound, nil
}

// NewMixer starts a mixer on the default output device through oto.
func NewMixer(opts ...mixer.Option) (*mixer.Mixer, error) {
	return mixer.New(otohost.New(), opts...)
}
