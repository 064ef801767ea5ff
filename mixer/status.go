// SPDX-License-Identifier: EPL-2.0

package mixer

import "fmt"

// Status is the outcome of binding the mixer to an output device. It is
// decided once, when the mixer is created. A mixer whose status is not
// StatusNoError stays usable but produces no sound.
type Status int

const (
	StatusNoError Status = iota
	// StatusNoDevice means the host has no output device.
	StatusNoDevice
	// StatusOutputStream means the output stream could not be created or started.
	StatusOutputStream
	// StatusUnknownStreamFormat means no format the mixer can render was negotiated.
	StatusUnknownStreamFormat
)

func (s Status) String() string {
	switch s {
	case StatusNoError:
		return "No error"
	case StatusNoDevice:
		return "No device!"
	case StatusOutputStream:
		return "Failed on output stream creation!"
	case StatusUnknownStreamFormat:
		return "Unknown stream format!"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}
