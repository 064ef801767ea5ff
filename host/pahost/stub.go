//go:build !portaudio

// SPDX-License-Identifier: EPL-2.0

package pahost

import (
	"fmt"

	"github.com/ik5/audmix/host"
)

// Host is a placeholder when PortAudio support is not compiled in; it never
// finds a device.
type Host struct{}

func New() *Host {
	return &Host{}
}

func (h *Host) DefaultOutputDevice() (host.Device, error) {
	return nil, fmt.Errorf("%w: PortAudio support not enabled (build with -tags portaudio)", host.ErrNoDevice)
}
