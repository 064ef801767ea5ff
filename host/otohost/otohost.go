// SPDX-License-Identifier: EPL-2.0

// Package otohost is a threaded audio host backed by github.com/ebitengine/oto/v3.
//
// oto pulls audio from an io.Reader. The reader installed here asks the
// stream's fill function for one typed buffer per Read and packs it as
// little-endian bytes. Play primes the first buffer on the calling goroutine;
// later reads come from oto's own goroutine. oto serializes the reads, so the
// fill function is never called concurrently with itself.
//
// oto permits a single context per process. Opening a second stream with a
// different configuration fails with host.ErrUnsupportedConfig.
package otohost

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audmix/host"
)

// DefaultBufferSize is the output latency requested from oto.
const DefaultBufferSize = 40 * time.Millisecond

var (
	ctxMu     sync.Mutex
	sharedCtx *oto.Context
	sharedCfg host.StreamConfig
)

// Host hands out the system default output through oto.
type Host struct {
	BufferSize time.Duration
}

func New() *Host {
	return &Host{BufferSize: DefaultBufferSize}
}

func (h *Host) DefaultOutputDevice() (host.Device, error) {
	return &device{bufferSize: h.BufferSize}, nil
}

type device struct {
	bufferSize time.Duration
}

func (d *device) Name() string { return "oto default output" }

func (d *device) DefaultConfig() (host.StreamConfig, error) {
	return host.StreamConfig{Channels: 2, SampleRate: 44100, SampleFormat: host.FormatF32}, nil
}

func (d *device) SupportedConfigs() ([]host.ConfigRange, error) {
	var ranges []host.ConfigRange
	for _, format := range []host.SampleFormat{host.FormatF32, host.FormatI16, host.FormatU8} {
		for _, channels := range []int{2, 1} {
			ranges = append(ranges, host.ConfigRange{
				Channels:      channels,
				MinSampleRate: 8000,
				MaxSampleRate: 192000,
				SampleFormat:  format,
			})
		}
	}
	return ranges, nil
}

func otoFormat(f host.SampleFormat) (oto.Format, int, error) {
	switch f {
	case host.FormatF32:
		return oto.FormatFloat32LE, 4, nil
	case host.FormatI16:
		return oto.FormatSignedInt16LE, 2, nil
	case host.FormatU8:
		return oto.FormatUnsignedInt8, 1, nil
	default:
		return 0, 0, fmt.Errorf("%w: oto cannot output %s", host.ErrUnsupportedConfig, f)
	}
}

func sharedContext(cfg host.StreamConfig, format oto.Format, bufferSize time.Duration) (*oto.Context, error) {
	ctxMu.Lock()
	defer ctxMu.Unlock()

	if sharedCtx != nil {
		if sharedCfg != cfg {
			return nil, fmt.Errorf("%w: oto context already running at %s, requested %s",
				host.ErrUnsupportedConfig, sharedCfg, cfg)
		}
		return sharedCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
		BufferSize:   bufferSize,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	sharedCtx = ctx
	sharedCfg = cfg
	return ctx, nil
}

func (d *device) OpenStream(cfg host.StreamConfig, fill host.FillFunc) (host.Stream, error) {
	format, width, err := otoFormat(cfg.SampleFormat)
	if err != nil {
		return nil, err
	}

	ctx, err := sharedContext(cfg, format, d.bufferSize)
	if err != nil {
		return nil, err
	}

	player := ctx.NewPlayer(&pull{fill: fill, format: cfg.SampleFormat})

	bytesPerSecond := cfg.SampleRate * cfg.Channels * width
	if size := int(int64(bytesPerSecond) * int64(d.bufferSize) / int64(time.Second)); size > 0 {
		player.SetBufferSize(size)
	}

	return &stream{player: player}, nil
}

type stream struct {
	player *oto.Player
}

func (s *stream) Play() error {
	s.player.Play()
	return s.player.Err()
}

func (s *stream) Pause() error {
	s.player.Pause()
	return s.player.Err()
}

func (s *stream) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("closing oto player: %w", err)
	}
	return nil
}

// pull adapts a FillFunc to the io.Reader oto consumes. The typed buffers
// and their interface values are cached per request size so that Read does
// not allocate once oto settles on a chunk size.
type pull struct {
	fill   host.FillFunc
	format host.SampleFormat

	n   int
	buf host.Buffer
	f32 host.F32Buffer
	i16 host.I16Buffer
	u8  host.U8Buffer
}

func (r *pull) Read(p []byte) (int, error) {
	switch r.format {
	case host.FormatF32:
		n := len(p) / 4
		if n != r.n || r.buf == nil {
			r.f32 = make(host.F32Buffer, n)
			r.buf, r.n = r.f32, n
		}
		r.fill(r.buf)
		for i, v := range r.f32 {
			binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
		}
		return n * 4, nil

	case host.FormatI16:
		n := len(p) / 2
		if n != r.n || r.buf == nil {
			r.i16 = make(host.I16Buffer, n)
			r.buf, r.n = r.i16, n
		}
		r.fill(r.buf)
		for i, v := range r.i16 {
			binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
		}
		return n * 2, nil

	case host.FormatU8:
		n := len(p)
		if n != r.n || r.buf == nil {
			r.u8 = make(host.U8Buffer, n)
			r.buf, r.n = r.u8, n
		}
		r.fill(r.buf)
		copy(p, r.u8)
		return n, nil
	}

	// unreachable: OpenStream rejects other formats
	clear(p)
	return len(p), nil
}
