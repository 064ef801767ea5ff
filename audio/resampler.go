// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler converts a source to another sample rate with Catmull-Rom
// interpolation over four neighbouring frames. The channel count is kept.
// When downsampling, input frames pass a one-pole low-pass first.
type Resampler struct {
	src      Source
	rate     int
	channels int
	step     float64 // source frames per output frame

	// hist holds frames t-1, t, t+1 and t+2; output lies between hist[1]
	// and hist[2] at pos. real marks frames that came from the source
	// rather than edge padding.
	hist   [4][]float32
	real   [4]bool
	pos    float64
	primed bool

	in      []float32
	inPos   int
	inLen   int
	srcDone bool

	lowpass bool
	lpInit  bool
	lp      []float32
}

// lowpassAlpha is the weight of the new input frame in the one-pole filter.
const lowpassAlpha = 0.5

func NewResampler(src Source, rate int) (*Resampler, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrNoChannels
	}
	if rate < 1 || src.SampleRate() < 1 {
		return nil, fmt.Errorf("%w: %d Hz to %d Hz", ErrInvalidRate, src.SampleRate(), rate)
	}

	chunk := src.BufSize()
	if chunk < channels {
		chunk = DefaultBufSize
	}
	chunk -= chunk % channels

	r := &Resampler{
		src:      src,
		rate:     rate,
		channels: channels,
		step:     float64(src.SampleRate()) / float64(rate),
		in:       make([]float32, chunk),
		lp:       make([]float32, channels),
	}
	r.lowpass = r.step > 1
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resample source: %w", err)
	}
	return nil
}

// pull copies the next source frame into frame. It reports false once the
// source is exhausted.
func (r *Resampler) pull(frame []float32) (bool, error) {
	for empty := 0; r.inPos >= r.inLen; empty++ {
		if r.srcDone {
			return false, nil
		}
		if empty >= maxEmptyReads {
			return false, io.ErrNoProgress
		}

		n, err := r.src.ReadSamples(r.in)
		if err == io.EOF {
			r.srcDone = true
		} else if err != nil {
			return false, fmt.Errorf("resample: %w", err)
		}
		r.inPos, r.inLen = 0, n-n%r.channels
	}

	copy(frame, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		if !r.lpInit {
			copy(r.lp, frame)
			r.lpInit = true
		}
		for c := range frame {
			frame[c] = lowpassAlpha*frame[c] + (1-lowpassAlpha)*r.lp[c]
			r.lp[c] = frame[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.pull(r.hist[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.hist[0], r.hist[1])
	r.real[1] = true

	for i := 2; i < len(r.hist); i++ {
		ok, err := r.pull(r.hist[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
		}
		r.real[i] = ok && r.real[i-1]
	}

	return nil
}

// advance moves the window one source frame forward.
func (r *Resampler) advance() error {
	oldest := r.hist[0]
	copy(r.hist[:3], r.hist[1:])
	copy(r.real[:3], r.real[1:])
	r.hist[3] = oldest

	ok := false
	if r.real[2] {
		var err error
		if ok, err = r.pull(r.hist[3]); err != nil {
			return err
		}
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
	}
	r.real[3] = ok

	return nil
}

// ReadSamples fills dst with whole frames at the target rate; len(dst)
// must be a multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		if !r.real[1] {
			return written * r.channels, io.EOF
		}

		out := dst[written*r.channels : (written+1)*r.channels]
		x := float32(r.pos)
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
