// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audmix/audio"
)

const (
	channels      = 2
	bytesPerFrame = channels * 2
)

// mp3Reader is the part of gomp3.Decoder the source needs.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte

	// bytes of a frame split across two decoder reads
	carry  [bytesPerFrame]byte
	nCarry int
}

func newSource(dec mp3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

// ReadSamples converts the decoder's 16-bit little-endian stereo stream.
// Only whole frames are returned.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%channels
	if want == 0 {
		return 0, nil
	}

	size := want * 2
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	s.buf = s.buf[:size]

	copy(s.buf, s.carry[:s.nCarry])
	n, err := s.dec.Read(s.buf[s.nCarry:])
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("decoding MP3 frames: %w", err)
	}

	total := s.nCarry + n
	whole := total - total%bytesPerFrame
	s.nCarry = copy(s.carry[:], s.buf[whole:total])

	samples := whole / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768
	}

	if samples == 0 && err == io.EOF {
		return 0, io.EOF
	}
	return samples, err
}

// Decoder reads MPEG-1/2 layer III streams. go-mp3 always produces stereo.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening MP3 stream: %w", err)
	}

	return newSource(dec), nil
}
