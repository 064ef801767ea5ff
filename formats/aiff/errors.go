// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not a valid AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedAiffLayout indicates a missing or unusable COMM chunk
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
