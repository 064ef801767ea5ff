// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrNoSound is returned by Play when the builder carries no sound.
	ErrNoSound = errors.New("playback has no sound")

	ErrVolumeOutOfRange    = errors.New("volume must be within [0, 1]")
	ErrUnsupportedChannels = errors.New("only mono and stereo sounds are supported")
	ErrInvalidSampleRate   = errors.New("sample rate must be at least 1 Hz")

	// ErrNotStreamed is reported when content is streamed into a sound that
	// was not played with the Streamed style.
	ErrNotStreamed = errors.New("sound is not streamed")

	ErrUnsupportedFormat = errors.New("unsupported output sample format")
	ErrUnknownMessage    = errors.New("unknown mixer message")
)
