// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// Reader is the part of the go-audio wav and aiff decoders a Source pulls
// from.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source adapts a Reader to audio.Source.
type Source struct {
	r          Reader
	sampleRate int
	channels   int
	bitDepth   int
	unsigned8  bool
	intBuf     *goaudio.IntBuffer
}

// NewSource wraps r. The bit depth must be one Scale accepts.
func NewSource(r Reader, sampleRate, channels, bitDepth int, unsigned8 bool) *Source {
	return &Source{
		r:          r,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		unsigned8:  unsigned8,
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

// ReadSamples reads whole frames only. The decoders report the end of data
// as a read of zero samples, which becomes io.EOF.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want <= 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
			SourceBitDepth: s.bitDepth,
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.r.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("reading PCM samples: %w", err)
	}
	if n <= 0 {
		return 0, io.EOF
	}
	n = min(n, want)

	if nerr := Normalize(dst, s.intBuf.Data[:n], s.bitDepth, s.unsigned8); nerr != nil {
		return 0, nerr
	}

	return n, err
}
