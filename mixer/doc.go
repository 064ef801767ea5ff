// SPDX-License-Identifier: EPL-2.0

// Package mixer mixes independently controlled sounds into one interleaved
// output stream.
//
// A Mixer is a fire-and-forget handle: Play, StreamSound, SetVolume,
// SetMasterVolume and Stop only enqueue a command. The host's buffer
// callback drains the queue at the start of every buffer it requests,
// applies the commands, and then synthesizes the buffer one slot at a time.
// Sound state is never shared between the two sides.
//
// Sounds are corrected to the 44100 Hz reference rate with integer ratios
// only: a 22050 Hz sound repeats each frame, an 88200 Hz sound skips every
// other frame, and ratios in between are rounded. Volumes are applied
// squared.
//
//	m, err := mixer.New(offline.New(offline.NewDevice()))
//	if err != nil {
//		return err
//	}
//	id, err := m.Play(mixer.NewPlayback().WithSound(sound).WithVolume(0.8))
package mixer
