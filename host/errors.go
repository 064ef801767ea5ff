// SPDX-License-Identifier: EPL-2.0

package host

import "errors"

var (
	ErrNoDevice          = errors.New("no output device")
	ErrUnsupportedConfig = errors.New("unsupported stream configuration")
	ErrStreamClosed      = errors.New("stream closed")
)
