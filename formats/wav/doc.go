// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV files on top of github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts integer PCM (format tag 1, or WAVE_FORMAT_EXTENSIBLE) at
// 8, 16, 24 or 32 bits, any channel count and any sample rate:
//
//	f, _ := os.Open("shot.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	samples, err := audio.ReadAll(src)
//
// 8-bit data is unsigned as the format defines. Readers that cannot seek
// are buffered in memory first.
//
// # Encoding
//
// Encode writes normalized samples as 16-bit PCM. It is used to save
// offline renders of the mixer:
//
//	f, _ := os.Create("mix.wav")
//	err := wav.Encode(f, 44100, 2, samples)
//
// # Errors
//
//   - ErrNotWavFile: the input has no valid RIFF/WAVE header
//   - ErrOnlyPCMSupported: float or compressed WAV
//   - ErrNoPCMData: no data chunk
//   - ErrInvalidLayout: Encode was given no channels or no sample rate
package wav
