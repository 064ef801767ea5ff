// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/host"
	"github.com/ik5/audmix/host/offline"
	"github.com/ik5/audmix/mixer"
)

type renderOptions struct {
	seconds float64
	volume  mixer.Volume
	stream  bool
	logger  *slog.Logger
}

// render mixes every track on the offline host as fast as possible and
// writes the result to w as 16-bit stereo WAV. Without a duration it runs
// for the longest track.
func render(w io.WriteSeeker, tracks []track, opts renderOptions) error {
	var out []float32
	dev := offline.NewDevice()
	dev.Sink = func(buf host.Buffer) {
		out = append(out, buf.(host.F32Buffer)...)
	}

	m, err := mixer.New(offline.New(dev), mixer.WithVolume(opts.volume), mixer.WithLogger(opts.logger))
	if err != nil {
		return err
	}
	defer m.Close()

	if m.Status() != mixer.StatusNoError {
		return fmt.Errorf("offline output: %s", m.Status())
	}
	cfg := m.Output().Config

	seconds := opts.seconds
	if seconds <= 0 {
		for _, t := range tracks {
			seconds = max(seconds, t.sound.Duration().Seconds())
		}
	}
	buffers := int(math.Ceil(seconds * float64(cfg.SampleRate) / float64(dev.FramesPerBuffer)))
	bufferTime := time.Duration(float64(dev.FramesPerBuffer) / float64(cfg.SampleRate) * float64(time.Second))

	// streamed tracks get one buffer's worth ahead of every Frame
	type feed struct {
		id mixer.SoundID
		c  *chunker
	}
	var feeds []feed

	for _, t := range tracks {
		sound := t.sound
		if opts.stream {
			c := newChunker(sound, chunkFrames(sound, bufferTime))
			sound.PlaybackStyle = mixer.Streamed
			sound.Samples = nil
			id, err := m.Play(mixer.NewPlayback().WithSound(sound))
			if err != nil {
				return fmt.Errorf("play %s: %w", t.name, err)
			}
			feeds = append(feeds, feed{id: id, c: c})
			continue
		}

		if _, err := m.Play(mixer.NewPlayback().WithSound(sound)); err != nil {
			return fmt.Errorf("play %s: %w", t.name, err)
		}
	}

	for range buffers {
		for _, f := range feeds {
			if chunk, ok := f.c.next(); ok {
				m.StreamSound(f.id, chunk)
			}
		}
		m.Frame()
	}

	opts.logger.Info("rendered", "buffers", buffers, "samples", len(out), "rate", cfg.SampleRate)

	return wav.Encode(w, cfg.SampleRate, cfg.Channels, out)
}
