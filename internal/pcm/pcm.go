// SPDX-License-Identifier: EPL-2.0

// Package pcm converts integer PCM as produced by the go-audio decoders to
// normalized float32 samples.
package pcm

import (
	"errors"
	"fmt"
)

var ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")

// Scale returns the divisor that maps a signed sample of bitDepth bits to
// [-1, 1).
func Scale(bitDepth int) (float32, error) {
	switch bitDepth {
	case 8:
		return 128, nil
	case 16:
		return 32768, nil
	case 24:
		return 8388608, nil
	case 32:
		return 2147483648, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// Normalize converts src into dst, which must be at least as long. With
// unsigned8 set, 8-bit samples are read as biased around 128 (the WAV
// convention); otherwise they are signed (AIFF).
func Normalize(dst []float32, src []int, bitDepth int, unsigned8 bool) error {
	scale, err := Scale(bitDepth)
	if err != nil {
		return err
	}

	bias := 0
	if bitDepth == 8 && unsigned8 {
		bias = 128
	}

	inv := 1 / scale
	for i, v := range src {
		dst[i] = float32(v-bias) * inv
	}

	return nil
}
