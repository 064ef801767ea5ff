// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis.
//
// Samples arrive as float32 already, interleaved in the stream's own
// channel order. Streams with more than two channels are passed through
// unchanged; wrap them in audio.NewDownmixer before handing them to the
// mixer.
package vorbis
