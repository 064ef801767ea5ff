// SPDX-License-Identifier: EPL-2.0

package mixer

import "log/slog"

// Option configures a Mixer.
type Option func(*config)

type config struct {
	volume  Volume
	logger  *slog.Logger
	onError func(error)
}

func defaultConfig() config {
	return config{
		volume: FullVolume,
		logger: slog.Default(),
	}
}

// WithVolume sets the initial master volume.
func WithVolume(v Volume) Option {
	return func(c *config) { c.volume = v }
}

// WithLogger sets the logger for device selection and rejected commands.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithErrorHandler receives commands the audio goroutine rejected, such as
// streaming into a sound that is not Streamed. The handler runs on the
// audio goroutine and must return quickly. The default logs a warning.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) { c.onError = fn }
}
