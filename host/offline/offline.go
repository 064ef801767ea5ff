// SPDX-License-Identifier: EPL-2.0

// Package offline provides a cooperative, in-memory audio host. Nothing is
// rendered until the owner of the stream calls Frame, which fills exactly one
// buffer and hands it to the device's sink. It backs tests and offline
// rendering to files.
package offline

import (
	"fmt"
	"sync"

	"github.com/ik5/audmix/host"
)

// DefaultFramesPerBuffer is used when Device.FramesPerBuffer is zero.
const DefaultFramesPerBuffer = 512

// Device is a configurable virtual output device. The error fields let tests
// simulate failing hardware.
type Device struct {
	DeviceName      string
	Default         host.StreamConfig
	Supported       []host.ConfigRange
	FramesPerBuffer int

	// Sink receives every rendered buffer. The buffer is reused by the next
	// Frame call, copy what you keep.
	Sink func(buf host.Buffer)

	DefaultErr   error
	SupportedErr error
	OpenErr      error
}

// NewDevice returns a device whose preferred configuration is 44100 Hz
// stereo float, which also accepts 16-bit output.
func NewDevice() *Device {
	return &Device{
		DeviceName: "offline",
		Default:    host.StreamConfig{Channels: 2, SampleRate: 44100, SampleFormat: host.FormatF32},
		Supported: []host.ConfigRange{
			{Channels: 2, MinSampleRate: 8000, MaxSampleRate: 192000, SampleFormat: host.FormatF32},
			{Channels: 2, MinSampleRate: 8000, MaxSampleRate: 192000, SampleFormat: host.FormatI16},
			{Channels: 2, MinSampleRate: 8000, MaxSampleRate: 192000, SampleFormat: host.FormatU16},
		},
		FramesPerBuffer: DefaultFramesPerBuffer,
	}
}

// Host exposes at most one device. A Host built with a nil device reports
// host.ErrNoDevice.
type Host struct {
	device *Device
}

func New(dev *Device) *Host {
	return &Host{device: dev}
}

func (h *Host) DefaultOutputDevice() (host.Device, error) {
	if h.device == nil {
		return nil, host.ErrNoDevice
	}
	return h.device, nil
}

func (d *Device) Name() string { return d.DeviceName }

func (d *Device) DefaultConfig() (host.StreamConfig, error) {
	if d.DefaultErr != nil {
		return host.StreamConfig{}, d.DefaultErr
	}
	return d.Default, nil
}

func (d *Device) SupportedConfigs() ([]host.ConfigRange, error) {
	if d.SupportedErr != nil {
		return nil, d.SupportedErr
	}
	out := make([]host.ConfigRange, len(d.Supported))
	copy(out, d.Supported)
	return out, nil
}

func (d *Device) OpenStream(cfg host.StreamConfig, fill host.FillFunc) (host.Stream, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	if cfg.Channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", host.ErrUnsupportedConfig, cfg.Channels)
	}

	frames := d.FramesPerBuffer
	if frames <= 0 {
		frames = DefaultFramesPerBuffer
	}

	buf, err := newBuffer(cfg.SampleFormat, frames*cfg.Channels)
	if err != nil {
		return nil, err
	}

	return &Stream{
		cfg:  cfg,
		fill: fill,
		buf:  buf,
		sink: d.Sink,
	}, nil
}

func newBuffer(format host.SampleFormat, n int) (host.Buffer, error) {
	switch format {
	case host.FormatU16:
		return make(host.U16Buffer, n), nil
	case host.FormatI16:
		return make(host.I16Buffer, n), nil
	case host.FormatF32:
		return make(host.F32Buffer, n), nil
	case host.FormatU8:
		return make(host.U8Buffer, n), nil
	default:
		return nil, fmt.Errorf("%w: format %s", host.ErrUnsupportedConfig, format)
	}
}

// Stream is a paused-until-Play virtual stream. It implements host.Framer.
type Stream struct {
	mu      sync.Mutex
	cfg     host.StreamConfig
	fill    host.FillFunc
	buf     host.Buffer
	sink    func(host.Buffer)
	playing bool
	closed  bool
	frames  int
}

// Config returns the configuration the stream was opened with.
func (s *Stream) Config() host.StreamConfig { return s.cfg }

func (s *Stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return host.ErrStreamClosed
	}
	s.playing = true
	return nil
}

func (s *Stream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return host.ErrStreamClosed
	}
	s.playing = false
	return nil
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.playing = false
	return nil
}

// Frame fills one buffer and passes it to the sink. It does nothing while the
// stream is paused or closed. Concurrent calls are serialized, so the fill
// function always runs on one goroutine at a time.
func (s *Stream) Frame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return
	}
	s.fill(s.buf)
	s.frames++
	if s.sink != nil {
		s.sink(s.buf)
	}
}

// Rendered returns how many buffers Frame has produced.
func (s *Stream) Rendered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
