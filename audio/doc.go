// SPDX-License-Identifier: EPL-2.0

// Package audio defines the decoder side of the mixer: a streaming Source
// of normalized samples, the Decoder that produces one, and a Registry of
// decoders keyed by format.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1.0, 1.0]. ReadSamples returns
// io.EOF once the stream is finished, possibly together with the last
// samples.
//
// # Collecting and Downmixing
//
// The mixer plays whole sounds of one or two channels. ReadAll drains a
// source into memory and Downmixer folds wider layouts first:
//
//	stereo, err := audio.NewDownmixer(src, 2)
//	samples, err := audio.ReadAll(stereo)
//
// # Resampling
//
// The mixer corrects sample rates by whole-number ratios only. Resampler
// converts a source to any rate with Catmull-Rom interpolation, which
// keeps sounds at uncommon rates in tune:
//
//	at44k, err := audio.NewResampler(src, 44100)
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.Get(".WAV")
//
// Keys are case-insensitive and may carry the leading dot of a file
// extension.
package audio
