// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrNoChannels     = errors.New("source reports no channels")
	ErrTargetChannels = errors.New("downmix target must be 1 or 2 channels")
	ErrUnknownFormat  = errors.New("no decoder registered for format")
	ErrInvalidRate    = errors.New("sample rates must be at least 1 Hz")
)
