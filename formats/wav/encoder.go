// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/utils"
)

// encodeChunkFrames bounds the int buffer handed to the encoder per write.
const encodeChunkFrames = 8192

// Encode writes interleaved normalized samples as a 16-bit PCM WAV file.
// Samples outside [-1, 1] are clamped. A trailing partial frame is dropped.
// w is not closed.
func Encode(w io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels < 1 || channels > 0xFFFF {
		return fmt.Errorf("%w: %d channels", ErrInvalidLayout, channels)
	}
	if sampleRate < 1 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidLayout, sampleRate)
	}

	enc := wav.NewEncoder(w, sampleRate, 16, channels, formatPCM)
	format := &goaudio.Format{NumChannels: channels, SampleRate: sampleRate}

	total := len(samples) - len(samples)%channels
	chunk := min(total, encodeChunkFrames*channels)
	buf := &goaudio.IntBuffer{
		Data:           make([]int, chunk),
		Format:         format,
		SourceBitDepth: 16,
	}

	for start := 0; start < total; start += chunk {
		end := min(start+chunk, total)
		buf.Data = buf.Data[:end-start]
		for i, v := range samples[start:end] {
			buf.Data[i] = int(utils.Float32ToInt16(v))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing WAV samples: %w", err)
		}
	}

	if total == 0 {
		// an empty data chunk still needs its header
		if err := enc.Write(&goaudio.IntBuffer{Format: format, SourceBitDepth: 16}); err != nil {
			return fmt.Errorf("writing WAV header: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing WAV: %w", err)
	}

	return nil
}
