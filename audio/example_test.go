// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

// Example_downmix folds a four channel source to stereo and collects it.
func Example_downmix() {
	src := audiotest.NewSliceSource(48000, 4, []float32{
		0.2, 0.4, 0.6, 0.8,
		0.0, 1.0, 0.0, 1.0,
	})

	stereo, err := audio.NewDownmixer(src, 2)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer stereo.Close()

	samples, err := audio.ReadAll(stereo)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d Hz, %d channels\n", stereo.SampleRate(), stereo.Channels())
	fmt.Printf("%.1f\n", samples)
	// Output:
	// 48000 Hz, 2 channels
	// [0.4 0.6 0.0 1.0]
}
