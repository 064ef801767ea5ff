// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile       = errors.New("not a WAV file")
	ErrOnlyPCMSupported = errors.New("only integer PCM WAV is supported")
	ErrNoPCMData        = errors.New("WAV file has no data chunk")

	// ErrInvalidLayout is returned by Encode for a channel count or sample
	// rate that cannot describe a WAV file.
	ErrInvalidLayout = errors.New("invalid WAV layout")
)
