// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/audmix/host"
)

// Mixer is the control-plane handle. Its methods may be called from any
// goroutine; none of them waits for the audio goroutine.
type Mixer struct {
	driver *driver
	nextID atomic.Uint64
}

// New creates a mixer on the default output device of h and starts it.
//
// A missing or unusable device does not fail New: the mixer stays usable,
// outputs nothing, and reports the cause through Status. The only error is
// an out of range initial volume.
func New(h host.Host, opts ...Option) (*Mixer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.volume.Validate(); err != nil {
		return nil, fmt.Errorf("master volume: %w", err)
	}

	if cfg.onError == nil {
		logger := cfg.logger
		cfg.onError = func(err error) {
			logger.Warn("mixer command rejected", "err", err)
		}
	}

	d := newDriver(h, newEngine(cfg.volume), cfg.logger, cfg.onError)
	d.start()

	return &Mixer{driver: d}, nil
}

// Play starts a new instance of the builder's sound and returns its id.
// The sound begins no earlier than the next buffer the device requests.
func (m *Mixer) Play(b PlaybackBuilder) (SoundID, error) {
	sound, ok := b.Sound()
	if !ok {
		return 0, ErrNoSound
	}
	if err := b.Volume().Validate(); err != nil {
		return 0, err
	}
	if err := sound.Validate(); err != nil {
		return 0, err
	}
	if sound.PlaybackStyle == Streamed {
		// appends from StreamSound must not write into the caller's array
		sound.Samples = sound.Samples[:len(sound.Samples):len(sound.Samples)]
	}

	id := SoundID(m.nextID.Add(1) - 1)
	m.driver.send(playMsg{id: id, sound: sound, volume: b.Volume()})

	return id, nil
}

// StreamSound appends samples to a Streamed sound. The samples are copied.
// Unknown ids are ignored; a sound with another style rejects the content
// with ErrNotStreamed, reported to the error handler.
func (m *Mixer) StreamSound(id SoundID, samples []float32) {
	m.driver.send(streamMsg{id: id, samples: append([]float32(nil), samples...)})
}

// SetVolume changes the volume of one sound. Unknown ids are ignored.
func (m *Mixer) SetVolume(id SoundID, v Volume) error {
	if err := v.Validate(); err != nil {
		return err
	}
	m.driver.send(volumeMsg{id: id, volume: v})
	return nil
}

// SetMasterVolume changes the volume applied to every sound.
func (m *Mixer) SetMasterVolume(v Volume) error {
	if err := v.Validate(); err != nil {
		return err
	}
	m.driver.send(masterVolumeMsg{volume: v})
	return nil
}

// Stop removes a sound. Stopping an unknown or finished sound is a no-op.
func (m *Mixer) Stop(id SoundID) {
	m.driver.send(stopMsg{id: id})
}

// Frame renders one buffer on cooperative hosts such as host/offline.
// Threaded hosts pull on their own and Frame does nothing.
func (m *Mixer) Frame() {
	m.driver.frame()
}

func (m *Mixer) Status() Status {
	return m.driver.status
}

func (m *Mixer) Output() OutputInfo {
	return m.driver.info()
}

// Close stops output. Commands sent afterwards are dropped.
func (m *Mixer) Close() error {
	return m.driver.close()
}
