// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides in-memory sources for tests. The types satisfy
// audio.Source structurally; the package does not import audio so that
// audio's own tests can use it.
package audiotest

import (
	"io"
	"math"
)

// Source serves a fixed number of frames produced by a waveform function.
type Source struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	bufSize    int
	waveform   func(frame, channel int) float32

	// ReadErr, when set, is returned by the first ReadSamples call that
	// would otherwise reach the end of the data.
	ReadErr error
	Closed  int
}

// NewSource creates a source of frames frames; waveform yields the sample
// for a frame index and channel.
func NewSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *Source {
	return &Source{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		bufSize:    4096,
		waveform:   waveform,
	}
}

// NewSilentSource serves zeros.
func NewSilentSource(sampleRate, channels, frames int) *Source {
	return NewSource(sampleRate, channels, frames, func(int, int) float32 { return 0 })
}

// NewConstantSource serves value on every channel.
func NewConstantSource(sampleRate, channels, frames int, value float32) *Source {
	return NewSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// NewSineSource serves a sine of frequency Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *Source {
	return NewSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewSliceSource serves exactly the given interleaved samples. A trailing
// partial frame is dropped.
func NewSliceSource(sampleRate, channels int, samples []float32) *Source {
	return NewSource(sampleRate, channels, len(samples)/channels, func(frame, channel int) float32 {
		return samples[frame*channels+channel]
	})
}

// WithBufSize changes the reported BufSize.
func (s *Source) WithBufSize(n int) *Source {
	s.bufSize = n
	return s
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return s.bufSize }

func (s *Source) Close() error {
	s.Closed++
	return nil
}

// Reset rewinds to the first frame.
func (s *Source) Reset() {
	s.pos = 0
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		if s.ReadErr != nil {
			return 0, s.ReadErr
		}
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.waveform(s.pos+f, ch)
		}
	}
	s.pos += n

	if s.pos >= s.frames && s.ReadErr == nil {
		return n * s.channels, io.EOF
	}

	return n * s.channels, nil
}
