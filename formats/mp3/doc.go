// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG audio layer III through
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so every Source from this package
// reports two channels whatever the file's own layout. Samples are
// normalized by 32768.
package mp3
