// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"log/slog"

	"github.com/ik5/audmix/host"
)

// preferredConfig is what the engine's interleaving and rate correction
// are built around.
var preferredConfig = host.StreamConfig{
	Channels:     2,
	SampleRate:   ReferenceRate,
	SampleFormat: host.FormatF32,
}

// renderable reports whether the driver can convert the engine output to f.
func renderable(f host.SampleFormat) bool {
	switch f {
	case host.FormatU16, host.FormatI16, host.FormatF32:
		return true
	default:
		return false
	}
}

// negotiate picks the output configuration: the preferred one when any
// supported range admits it, the device default otherwise. The returned
// flag reports a sample rate other than ReferenceRate, which is tolerated.
func negotiate(dev host.Device, logger *slog.Logger) (host.StreamConfig, bool, error) {
	cfg, err := dev.DefaultConfig()
	if err != nil {
		return host.StreamConfig{}, false, fmt.Errorf("could not get default output format: %w", err)
	}

	ranges, err := dev.SupportedConfigs()
	if err != nil {
		logger.Error("could not get supported formats", "device", dev.Name(), "err", err)
	}
	for _, r := range ranges {
		if r.Channels != preferredConfig.Channels ||
			r.SampleFormat != preferredConfig.SampleFormat ||
			!r.Contains(preferredConfig.SampleRate) {
			continue
		}
		cfg = preferredConfig
		break
	}

	logger.Info("sound device", "device", dev.Name(), "format", cfg.String())

	if cfg.SampleRate < 1 || cfg.Channels < 1 {
		return cfg, false, fmt.Errorf("%w: %s", ErrUnsupportedFormat, cfg)
	}

	mismatch := cfg.SampleRate != ReferenceRate
	if mismatch {
		logger.Warn("output sample rate differs from the reference rate",
			"rate", cfg.SampleRate, "reference", ReferenceRate)
	}
	if cfg.Channels != preferredConfig.Channels {
		logger.Warn("output is not stereo, channels will alternate left/right",
			"channels", cfg.Channels)
	}

	if !renderable(cfg.SampleFormat) {
		return cfg, mismatch, fmt.Errorf("%w: %s", ErrUnsupportedFormat, cfg.SampleFormat)
	}

	return cfg, mismatch, nil
}
