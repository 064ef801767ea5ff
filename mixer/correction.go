// SPDX-License-Identifier: EPL-2.0

package mixer

// ReferenceRate is the device rate the rate correction is computed against.
const ReferenceRate = 44100

// SampleRateCorrection approximates the ratio between a sound's rate and
// ReferenceRate with integers. Every TicksPerIncrement output slots the
// sound's progress advances by ProgressIncrement samples: faster sounds skip
// source frames, slower ones repeat a frame across several slots.
//
// Ticks count output slots of both channels, which is why a stereo sound
// at the reference rate holds each frame for two ticks.
type SampleRateCorrection struct {
	ProgressIncrement int
	TicksPerIncrement int
}

// CorrectionFor derives the correction for a sound. Rates are truncated to
// whole Hz; ratios that are not integers round towards 1:1.
func CorrectionFor(sampleRate float32, channels uint16) SampleRateCorrection {
	rate := int(sampleRate)
	if rate < 1 {
		rate = 1
	}

	increment := 1
	if rate > ReferenceRate {
		increment = rate / ReferenceRate
	}

	ticks := 1
	if rate < ReferenceRate {
		ticks = ReferenceRate / rate
	}

	return SampleRateCorrection{
		ProgressIncrement: increment * int(channels),
		TicksPerIncrement: ticks * 2,
	}
}

// Correction is CorrectionFor applied to the sound's own format.
func (s Sound) Correction() SampleRateCorrection {
	return CorrectionFor(s.SampleRate, s.Channels)
}
