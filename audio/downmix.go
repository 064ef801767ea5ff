// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Downmixer converts a source to mono or stereo.
//
// Mono output averages all input channels. Stereo output duplicates a mono
// input, passes stereo through, and for wider layouts averages the even
// channels (0, 2, 4, ...) into left and the odd ones into right.
type Downmixer struct {
	src      Source
	channels int
	tmp      []float32
}

func NewDownmixer(src Source, channels int) (*Downmixer, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTargetChannels, channels)
	}
	if src.Channels() < 1 {
		return nil, ErrNoChannels
	}

	return &Downmixer{
		src:      src,
		channels: channels,
		tmp:      make([]float32, DefaultBufSize),
	}, nil
}

func (d *Downmixer) SampleRate() int { return d.src.SampleRate() }
func (d *Downmixer) Channels() int   { return d.channels }
func (d *Downmixer) BufSize() int    { return d.src.BufSize() }

func (d *Downmixer) Close() error {
	if err := d.src.Close(); err != nil {
		return fmt.Errorf("close downmix source: %w", err)
	}

	return nil
}

// ReadSamples fills dst with whole output frames; len(dst) must be a
// multiple of Channels. A source read that ends inside a frame returns the
// complete frames before it together with io.ErrUnexpectedEOF; the partial
// frame is discarded.
func (d *Downmixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%d.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	in := d.src.Channels()
	if in == d.channels {
		return d.src.ReadSamples(dst)
	}

	frames := len(dst) / d.channels
	need := frames * in
	if cap(d.tmp) < need {
		d.tmp = make([]float32, need)
	}
	tmp := d.tmp[:need]

	n, err := d.src.ReadSamples(tmp)
	frames = n / in
	if rem := n % in; rem != 0 && (err == nil || errors.Is(err, io.EOF)) {
		err = fmt.Errorf("%w: %d trailing samples of a %d-channel frame", io.ErrUnexpectedEOF, rem, in)
	}
	if frames == 0 {
		return 0, err
	}

	switch {
	case d.channels == 1:
		inv := 1 / float32(in)
		for f := range frames {
			var sum float32
			for _, v := range tmp[f*in : f*in+in] {
				sum += v
			}
			dst[f] = sum * inv
		}

	case in == 1:
		for f := range frames {
			dst[2*f] = tmp[f]
			dst[2*f+1] = tmp[f]
		}

	default:
		evens := (in + 1) / 2
		odds := in / 2
		for f := range frames {
			var l, r float32
			for c, v := range tmp[f*in : f*in+in] {
				if c%2 == 0 {
					l += v
				} else {
					r += v
				}
			}
			dst[2*f] = l / float32(evens)
			dst[2*f+1] = r / float32(odds)
		}
	}

	return frames * d.channels, err
}
