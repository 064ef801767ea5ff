// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/ik5/audmix/mixer"
)

// player is the part of *mixer.Mixer the demo drives.
type player interface {
	Play(b mixer.PlaybackBuilder) (mixer.SoundID, error)
	StreamSound(id mixer.SoundID, samples []float32)
	SetVolume(id mixer.SoundID, v mixer.Volume) error
	SetMasterVolume(v mixer.Volume) error
	Stop(id mixer.SoundID)
}

// chunkFrames is how many frames of s last for d at the sound's own rate.
func chunkFrames(s mixer.Sound, d time.Duration) int {
	return max(int(math.Ceil(float64(s.SampleRate)*d.Seconds())), 1)
}

// chunker hands out a sound's samples in whole-frame pieces.
type chunker struct {
	samples []float32
	size    int
	pos     int
}

func newChunker(s mixer.Sound, frames int) *chunker {
	return &chunker{samples: s.Samples, size: frames * int(s.Channels)}
}

func (c *chunker) next() ([]float32, bool) {
	if c.pos >= len(c.samples) {
		return nil, false
	}
	end := min(c.pos+c.size, len(c.samples))
	chunk := c.samples[c.pos:end]
	c.pos = end
	return chunk, true
}

// streamLead is how many chunks are queued ahead of playback.
const streamLead = 2

// startStream plays s as a streamed sound and feeds it one chunk per
// interval from a goroutine until the samples run out or ctx is done.
func startStream(ctx context.Context, p player, s mixer.Sound, volume mixer.Volume, interval time.Duration, logger *slog.Logger) (mixer.SoundID, error) {
	c := newChunker(s, chunkFrames(s, interval))

	var initial []float32
	for range streamLead {
		chunk, ok := c.next()
		if !ok {
			break
		}
		initial = append(initial, chunk...)
	}

	stream := s
	stream.PlaybackStyle = mixer.Streamed
	stream.Samples = initial

	id, err := p.Play(mixer.NewPlayback().WithSound(stream).WithVolume(volume))
	if err != nil {
		return 0, err
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			chunk, ok := c.next()
			if !ok {
				logger.Debug("stream drained", "id", id)
				return
			}
			p.StreamSound(id, chunk)
		}
	}()

	return id, nil
}
