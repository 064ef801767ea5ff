// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockReader serves ints like the go-audio decoders: a short read at the
// end of the data, then (0, nil). With eofWithData the last read carries
// io.EOF instead.
type mockReader struct {
	samples     []int
	offset      int
	err         error
	eofWithData bool
}

func (m *mockReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	if m.eofWithData && m.offset == len(m.samples) {
		return n, io.EOF
	}
	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := NewSource(&mockReader{samples: []int{16384, -16384, 8192, -8192, 0, 0}}, 8000, 2, 16, false)

	if src.SampleRate() != 8000 || src.Channels() != 2 {
		t.Fatalf("source = %d Hz %d ch", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 3)
	n, err := src.ReadSamples(dst)
	if err != nil || n != 2 {
		t.Fatalf("ReadSamples(3) = %d, %v; want 2 whole-frame samples", n, err)
	}
	if dst[0] != 0.5 || dst[1] != -0.5 {
		t.Errorf("dst = %v, want [0.5 -0.5 ...]", dst[:2])
	}

	dst = make([]float32, 8)
	n, err = src.ReadSamples(dst)
	if n != 4 || err != nil {
		t.Errorf("short read = %d, %v; want 4, nil", n, err)
	}
	if dst[0] != 0.25 || dst[1] != -0.25 {
		t.Errorf("dst = %v, want [0.25 -0.25 ...]", dst[:2])
	}

	n, err = src.ReadSamples(dst)
	if n != 0 || err != io.EOF {
		t.Errorf("read after end = %d, %v; want 0, io.EOF", n, err)
	}

	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("ReadSamples(less than a frame) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_EOFWithData(t *testing.T) {
	t.Parallel()

	src := NewSource(&mockReader{samples: []int{0, 64}, eofWithData: true}, 8000, 1, 8, false)

	dst := make([]float32, 4)
	n, err := src.ReadSamples(dst)
	if n != 2 || err != io.EOF {
		t.Fatalf("ReadSamples() = %d, %v; want 2, io.EOF", n, err)
	}
	if dst[1] != 0.5 {
		t.Errorf("signed 8-bit 64 = %v, want 0.5", dst[1])
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("truncated")
	src := NewSource(&mockReader{err: boom}, 8000, 1, 16, false)

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_BufSizeTracksReads(t *testing.T) {
	t.Parallel()

	src := NewSource(&mockReader{samples: make([]int, 100)}, 8000, 1, 16, false)
	if src.BufSize() <= 0 {
		t.Fatalf("BufSize() = %d before reading", src.BufSize())
	}

	_, _ = src.ReadSamples(make([]float32, 64))
	if src.BufSize() != 64 {
		t.Errorf("BufSize() = %d after a 64 sample read, want 64", src.BufSize())
	}
}
