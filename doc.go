// SPDX-License-Identifier: EPL-2.0

// Package audmix is a real-time software mixer. Any number of sounds play
// at once on a single output stream, each with its own volume, under a
// master volume, while control goroutines start, stop and feed them.
//
// The mixing itself lives in package mixer; this package wires it to the
// bundled decoders and the default oto output:
//
//	m, err := audmix.NewMixer(mixer.WithVolume(0.8))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	shot, err := audmix.LoadSound("shot.wav", mixer.Once)
//	if err != nil {
//	    return err
//	}
//	id, err := m.Play(mixer.NewPlayback().WithSound(shot).WithVolume(0.5))
//
// # Formats
//
// DefaultRegistry knows WAV (8 to 32-bit integer PCM), AIFF, MP3 and Ogg
// Vorbis. Decoded sounds with more than two channels are folded down to
// stereo, since the mixer plays mono and stereo only.
//
// # Hosts
//
// Output goes through the host interfaces in package host. host/otohost is
// the default; host/pahost uses PortAudio when built with the portaudio
// tag; host/offline renders on demand for tests and file output.
package audmix
