// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 scales a normalized sample to signed 16-bit, clamping values
// outside [-1,1]. NaN maps to silence.
func Float32ToInt16(x float32) int16 {
	if x != x {
		return 0
	}
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for both signs keeps the conversion symmetric
	return int16(x * 32767.0)
}

// Float32ToUint16 maps a normalized sample onto the unsigned 16-bit range
// biased around the midpoint, so -1 is 0 and 1 is 65535. Values outside
// [-1,1] are clamped and NaN maps to the midpoint.
func Float32ToUint16(x float32) uint16 {
	if x != x {
		x = 0
	}
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return uint16((x*0.5 + 0.5) * 65535.0)
}
