//go:build portaudio

// SPDX-License-Identifier: EPL-2.0

package pahost

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/ik5/audmix/host"
)

// probeRates are checked against the device when listing supported
// configurations, in addition to its default rate.
var probeRates = []int{44100, 48000}

// Host opens the PortAudio default output device.
type Host struct{}

func New() *Host {
	return &Host{}
}

func (h *Host) DefaultOutputDevice() (host.Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: portaudio init: %w", host.ErrNoDevice, err)
	}

	info, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %w", host.ErrNoDevice, err)
	}
	if info == nil || info.MaxOutputChannels < 1 {
		portaudio.Terminate()
		return nil, host.ErrNoDevice
	}

	return &device{info: info}, nil
}

type device struct {
	info *portaudio.DeviceInfo
}

func (d *device) Name() string { return d.info.Name }

func (d *device) DefaultConfig() (host.StreamConfig, error) {
	return host.StreamConfig{
		Channels:     min(2, d.info.MaxOutputChannels),
		SampleRate:   int(d.info.DefaultSampleRate),
		SampleFormat: host.FormatF32,
	}, nil
}

// probeCallback returns a callback whose parameter type tells PortAudio the
// sample format; it is never invoked.
func probeCallback(f host.SampleFormat) (any, bool) {
	switch f {
	case host.FormatF32:
		return func([]float32) {}, true
	case host.FormatI16:
		return func([]int16) {}, true
	case host.FormatU8:
		return func([]uint8) {}, true
	default:
		return nil, false
	}
}

func (d *device) params(channels, rate int) portaudio.StreamParameters {
	p := portaudio.HighLatencyParameters(nil, d.info)
	p.Output.Channels = channels
	p.SampleRate = float64(rate)
	return p
}

func (d *device) SupportedConfigs() ([]host.ConfigRange, error) {
	rates := append([]int{int(d.info.DefaultSampleRate)}, probeRates...)

	var ranges []host.ConfigRange
	for _, format := range []host.SampleFormat{host.FormatF32, host.FormatI16, host.FormatU8} {
		cb, _ := probeCallback(format)
		for channels := min(2, d.info.MaxOutputChannels); channels >= 1; channels-- {
			for _, rate := range rates {
				if portaudio.IsFormatSupported(d.params(channels, rate), cb) != nil {
					continue
				}
				ranges = append(ranges, host.ConfigRange{
					Channels:      channels,
					MinSampleRate: rate,
					MaxSampleRate: rate,
					SampleFormat:  format,
				})
			}
		}
	}
	return ranges, nil
}

func (d *device) OpenStream(cfg host.StreamConfig, fill host.FillFunc) (host.Stream, error) {
	var cb any
	switch cfg.SampleFormat {
	case host.FormatF32:
		cb = func(out []float32) { fill(host.F32Buffer(out)) }
	case host.FormatI16:
		cb = func(out []int16) { fill(host.I16Buffer(out)) }
	case host.FormatU8:
		cb = func(out []uint8) { fill(host.U8Buffer(out)) }
	default:
		return nil, fmt.Errorf("%w: portaudio cannot output %s", host.ErrUnsupportedConfig, cfg.SampleFormat)
	}

	s, err := portaudio.OpenStream(d.params(cfg.Channels, cfg.SampleRate), cb)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	return &stream{s: s}, nil
}

type stream struct {
	s    *portaudio.Stream
	once sync.Once
}

func (s *stream) Play() error  { return s.s.Start() }
func (s *stream) Pause() error { return s.s.Stop() }

func (s *stream) Close() error {
	var err error
	s.once.Do(func() {
		_ = s.s.Stop()
		if err = s.s.Close(); err != nil {
			err = fmt.Errorf("closing portaudio stream: %w", err)
		}
		if terr := portaudio.Terminate(); terr != nil && err == nil {
			err = terr
		}
	})
	return err
}
