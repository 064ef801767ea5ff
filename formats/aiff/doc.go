// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files through
// github.com/go-audio/aiff.
//
// Integer PCM of 8, 16, 24 and 32 bits is accepted and normalized to
// float32 in [-1, 1). AIFF-C compressed files are rejected with
// ErrNotAiffFile or ErrUnsupportedAiffLayout, depending on how far the
// header parses.
//
// Inputs that cannot seek are read into memory first.
package aiff
