// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmix/internal/audiotest"
)

func TestReadAll(t *testing.T) {
	t.Parallel()

	samples := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3, 0.4, -0.4, 0.5, -0.5}

	tests := []struct {
		name    string
		bufSize int
	}{
		{"larger than source", 4096},
		{"uneven chunk", 3},
		{"one frame", 2},
		{"smaller than a frame", 1},
		{"unset", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSliceSource(8000, 2, samples).WithBufSize(tt.bufSize)
			got, err := ReadAll(src)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(got) != len(samples) {
				t.Fatalf("ReadAll() len = %d, want %d", len(got), len(samples))
			}
			for i := range samples {
				if got[i] != samples[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], samples[i])
				}
			}
			if src.Closed != 0 {
				t.Error("ReadAll() closed the source")
			}
		})
	}
}

func TestReadAll_PropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	src := audiotest.NewConstantSource(8000, 1, 10, 0.5)
	src.ReadErr = boom

	got, err := ReadAll(src)
	if !errors.Is(err, boom) {
		t.Fatalf("ReadAll() error = %v, want %v", err, boom)
	}
	if len(got) != 10 {
		t.Errorf("ReadAll() kept %d samples before the error, want 10", len(got))
	}
}

func TestReadAll_NoChannels(t *testing.T) {
	t.Parallel()

	if _, err := ReadAll(audiotest.NewSilentSource(8000, 0, 10)); !errors.Is(err, ErrNoChannels) {
		t.Errorf("ReadAll() error = %v, want ErrNoChannels", err)
	}
}

// stalledSource never makes progress.
type stalledSource struct{}

func (stalledSource) SampleRate() int                    { return 8000 }
func (stalledSource) Channels() int                      { return 1 }
func (stalledSource) ReadSamples([]float32) (int, error) { return 0, nil }
func (stalledSource) BufSize() int                       { return 16 }
func (stalledSource) Close() error                       { return nil }

func TestReadAll_Stalled(t *testing.T) {
	t.Parallel()

	if _, err := ReadAll(stalledSource{}); !errors.Is(err, io.ErrNoProgress) {
		t.Errorf("ReadAll() error = %v, want io.ErrNoProgress", err)
	}
}
