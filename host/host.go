// SPDX-License-Identifier: EPL-2.0

// Package host defines the audio-host collaborator used by the mixer: an
// output device that can be opened with a negotiated stream configuration
// and that calls back once per hardware buffer with a typed sample slice.
//
// Implementations live in the subpackages:
//   - host/otohost: threaded output on github.com/ebitengine/oto/v3
//   - host/pahost: threaded output on PortAudio (build tag "portaudio")
//   - host/offline: cooperative in-memory output pumped by Frame()
package host

import "fmt"

// SampleFormat is the representation of one hardware sample.
type SampleFormat int

const (
	FormatU16 SampleFormat = iota // unsigned 16-bit, biased around 32768
	FormatI16                     // signed 16-bit
	FormatF32                     // 32-bit float in [-1,1]
	FormatU8                      // unsigned 8-bit; some devices offer it, the mixer does not render it
)

func (f SampleFormat) String() string {
	switch f {
	case FormatU16:
		return "U16"
	case FormatI16:
		return "I16"
	case FormatF32:
		return "F32"
	case FormatU8:
		return "U8"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// StreamConfig is a concrete output configuration.
type StreamConfig struct {
	Channels     int
	SampleRate   int
	SampleFormat SampleFormat
}

func (c StreamConfig) String() string {
	return fmt.Sprintf("%dHz/%dch/%s", c.SampleRate, c.Channels, c.SampleFormat)
}

// ConfigRange describes a family of configurations a device accepts.
type ConfigRange struct {
	Channels      int
	MinSampleRate int
	MaxSampleRate int
	SampleFormat  SampleFormat
}

// Contains reports whether rate falls inside the range.
func (r ConfigRange) Contains(rate int) bool {
	return rate >= r.MinSampleRate && rate <= r.MaxSampleRate
}

// Buffer is the typed, interleaved sample slice handed to a FillFunc.
// The concrete type is one of U16Buffer, I16Buffer, F32Buffer or U8Buffer.
type Buffer interface {
	Format() SampleFormat
	Len() int
}

type (
	U16Buffer []uint16
	I16Buffer []int16
	F32Buffer []float32
	U8Buffer  []uint8
)

func (b U16Buffer) Format() SampleFormat { return FormatU16 }
func (b U16Buffer) Len() int             { return len(b) }
func (b I16Buffer) Format() SampleFormat { return FormatI16 }
func (b I16Buffer) Len() int             { return len(b) }
func (b F32Buffer) Format() SampleFormat { return FormatF32 }
func (b F32Buffer) Len() int             { return len(b) }
func (b U8Buffer) Format() SampleFormat  { return FormatU8 }
func (b U8Buffer) Len() int              { return len(b) }

// FillFunc fills every slot of buf. Hosts never call it concurrently with
// itself, but a threaded host may make the first calls from the goroutine
// that starts the stream before its own audio goroutine takes over. It must
// not block.
type FillFunc func(buf Buffer)

// Host gives access to output devices.
type Host interface {
	// DefaultOutputDevice returns ErrNoDevice (possibly wrapped) when the
	// system has no usable output.
	DefaultOutputDevice() (Device, error)
}

// Device is an output device.
type Device interface {
	Name() string
	DefaultConfig() (StreamConfig, error)
	SupportedConfigs() ([]ConfigRange, error)
	// OpenStream prepares a paused stream; fill is not called before Play.
	OpenStream(cfg StreamConfig, fill FillFunc) (Stream, error)
}

// Stream is an opened output stream.
type Stream interface {
	Play() error
	Pause() error
	Close() error
}

// Framer is implemented by streams of cooperative hosts, where nothing
// renders audio unless the caller pumps it.
type Framer interface {
	// Frame renders one hardware buffer.
	Frame()
}
