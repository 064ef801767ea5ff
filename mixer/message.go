// SPDX-License-Identifier: EPL-2.0

package mixer

// message is the closed set of commands a Mixer sends to its engine. Only
// the types in this file implement it; engine.handle switches over all of
// them.
type message interface {
	isMessage()
}

type playMsg struct {
	id     SoundID
	sound  Sound
	volume Volume
}

type streamMsg struct {
	id      SoundID
	samples []float32
}

type volumeMsg struct {
	id     SoundID
	volume Volume
}

type masterVolumeMsg struct {
	volume Volume
}

type stopMsg struct {
	id SoundID
}

func (playMsg) isMessage()         {}
func (streamMsg) isMessage()       {}
func (volumeMsg) isMessage()       {}
func (masterVolumeMsg) isMessage() {}
func (stopMsg) isMessage()         {}
