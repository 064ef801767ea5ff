// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// maxEmptyReads bounds how often a source may return (0, nil) in a row
// before ReadAll gives up on it.
const maxEmptyReads = 100

// ReadAll reads src until io.EOF and returns every interleaved sample. It
// reads in chunks of src.BufSize() rounded down to whole frames. The source
// is not closed.
func ReadAll(src Source) ([]float32, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrNoChannels
	}

	chunk := src.BufSize()
	if chunk <= 0 {
		chunk = DefaultBufSize
	}
	chunk -= chunk % channels
	if chunk == 0 {
		chunk = channels
	}

	buf := make([]float32, chunk)
	var out []float32
	empty := 0

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read samples: %w", err)
		}

		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyReads {
			return out, io.ErrNoProgress
		}
	}
}
