// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func render(e *engine, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = e.nextValue()
	}
	return out
}

func mustHandle(t *testing.T, e *engine, msg message) {
	t.Helper()
	if err := e.handle(msg); err != nil {
		t.Fatalf("handle(%T) error = %v", msg, err)
	}
}

func newTestEngine() *engine {
	e := newEngine(FullVolume)
	e.init(ReferenceRate)
	return e
}

func mono(style PlaybackStyle, samples ...float32) Sound {
	return Sound{SampleRate: ReferenceRate, Channels: 1, Samples: samples, PlaybackStyle: style}
}

func stereo(style PlaybackStyle, samples ...float32) Sound {
	return Sound{SampleRate: ReferenceRate, Channels: 2, Samples: samples, PlaybackStyle: style}
}

func equalSamples(got, want []float32) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			return false
		}
	}
	return true
}

func TestCorrectionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate     float32
		channels uint16
		want     SampleRateCorrection
	}{
		{44100, 2, SampleRateCorrection{ProgressIncrement: 2, TicksPerIncrement: 2}},
		{22050, 1, SampleRateCorrection{ProgressIncrement: 1, TicksPerIncrement: 4}},
		{44100, 1, SampleRateCorrection{ProgressIncrement: 1, TicksPerIncrement: 2}},
		{88200, 2, SampleRateCorrection{ProgressIncrement: 4, TicksPerIncrement: 2}},
		{11025, 2, SampleRateCorrection{ProgressIncrement: 2, TicksPerIncrement: 8}},
		{48000, 2, SampleRateCorrection{ProgressIncrement: 2, TicksPerIncrement: 2}},
		{32000, 1, SampleRateCorrection{ProgressIncrement: 1, TicksPerIncrement: 2}},
		{22050.7, 1, SampleRateCorrection{ProgressIncrement: 1, TicksPerIncrement: 4}},
	}

	for _, tt := range tests {
		got := CorrectionFor(tt.rate, tt.channels)
		if got != tt.want {
			t.Errorf("CorrectionFor(%v, %d) = %+v, want %+v", tt.rate, tt.channels, got, tt.want)
		}
	}
}

func TestEngine_OnceMonoScenario(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 0, sound: mono(Once, 1, -1), volume: FullVolume})

	got := render(e, 4)
	want := []float32{1, 1, -1, -1}
	if !equalSamples(got, want) {
		t.Fatalf("first slots = %v, want %v", got, want)
	}
	if _, ok := e.sounds[0]; !ok {
		t.Fatal("sound removed before its last slot was observed")
	}

	for i, v := range render(e, 16) {
		if v != 0 {
			t.Errorf("slot %d after end = %v, want 0", i+4, v)
		}
	}
	if len(e.sounds) != 0 {
		t.Errorf("len(sounds) = %d after exhaustion, want 0", len(e.sounds))
	}
}

func TestEngine_OnceStereoContributesEachSampleOnce(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 1, sound: stereo(Once, 1, -1), volume: FullVolume})

	out := render(e, 32)
	nonSilent := 0
	for _, v := range out {
		if v != 0 {
			nonSilent++
		}
	}
	if nonSilent != 2 {
		t.Errorf("non-silent slots = %d, want 2 (output %v)", nonSilent, out)
	}
	if out[0] != 1 || out[1] != -1 {
		t.Errorf("left/right = %v/%v, want 1/-1", out[0], out[1])
	}
	if len(e.sounds) != 0 {
		t.Errorf("len(sounds) = %d, want 0", len(e.sounds))
	}
}

func TestEngine_PartialStereoFrameIsExhausted(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 1, sound: stereo(Once, 0.5, 0.5, 0.25), volume: FullVolume})

	got := render(e, 6)
	want := []float32{0.5, 0.5, 0, 0, 0, 0}
	if !equalSamples(got, want) {
		t.Errorf("output = %v, want %v", got, want)
	}
}

func TestEngine_LoopedRepeatsWithSourcePeriod(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	source := []float32{0.5, -0.25, 0.75}
	mustHandle(t, e, playMsg{id: 3, sound: mono(Looped, source...), volume: FullVolume})

	// mono at the reference rate holds every sample for two slots
	period := len(source) * 2
	out := render(e, period*10)

	for i := period; i < len(out); i++ {
		if out[i] != out[i-period] {
			t.Fatalf("slot %d = %v, slot %d = %v, want equal", i, out[i], i-period, out[i-period])
		}
	}
	for i := range period {
		if want := source[i/2]; out[i] != want {
			t.Errorf("slot %d = %v, want %v", i, out[i], want)
		}
	}
	if _, ok := e.sounds[3]; !ok {
		t.Error("looped sound disappeared")
	}
}

func TestEngine_EmptyLoopedIsSilent(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 1, sound: mono(Looped), volume: FullVolume})

	for i, v := range render(e, 8) {
		if v != 0 {
			t.Errorf("slot %d = %v, want 0", i, v)
		}
	}
	if _, ok := e.sounds[1]; !ok {
		t.Error("empty looped sound removed, want it kept until stopped")
	}
}

func TestEngine_RateCorrection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sound Sound
		want  []float32
	}{
		{
			name:  "half rate mono repeats each sample four slots",
			sound: Sound{SampleRate: 22050, Channels: 1, Samples: []float32{0.5, 0.25}},
			want:  []float32{0.5, 0.5, 0.5, 0.5, 0.25, 0.25, 0.25, 0.25, 0},
		},
		{
			name:  "double rate stereo skips every other frame",
			sound: Sound{SampleRate: 88200, Channels: 2, Samples: []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}},
			want:  []float32{0.1, 0.2, 0.5, 0.6, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEngine()
			mustHandle(t, e, playMsg{id: 0, sound: tt.sound, volume: FullVolume})

			if got := render(e, len(tt.want)); !equalSamples(got, tt.want) {
				t.Errorf("output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_StreamedGrowsAndStarves(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 7, sound: mono(Streamed), volume: FullVolume})

	for i, v := range render(e, 4) {
		if v != 0 {
			t.Errorf("starved slot %d = %v, want 0", i, v)
		}
	}

	mustHandle(t, e, streamMsg{id: 7, samples: []float32{1, 0.5}})
	if got := len(e.sounds[7].sound.Samples); got != 2 {
		t.Fatalf("len(samples) = %d after streaming 2, want 2", got)
	}
	mustHandle(t, e, streamMsg{id: 7, samples: []float32{0.25}})
	if got := len(e.sounds[7].sound.Samples); got != 3 {
		t.Fatalf("len(samples) = %d after streaming 1 more, want 3", got)
	}

	got := render(e, 8)
	want := []float32{1, 1, 0.5, 0.5, 0.25, 0.25, 0, 0}
	if !equalSamples(got, want) {
		t.Errorf("output = %v, want %v", got, want)
	}
	if _, ok := e.sounds[7]; !ok {
		t.Error("streamed sound removed on starvation")
	}
}

func TestEngine_StarvationShiftsPhase(t *testing.T) {
	t.Parallel()

	// A starving voice keeps its ear while the global ear keeps flipping,
	// so after an odd number of starved slots it waits one slot for its turn.
	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 1, sound: mono(Streamed), volume: FullVolume})

	render(e, 1)
	mustHandle(t, e, streamMsg{id: 1, samples: []float32{0.5}})

	got := render(e, 4)
	want := []float32{0, 0.5, 0.5, 0}
	if !equalSamples(got, want) {
		t.Errorf("output = %v, want %v", got, want)
	}
}

func TestEngine_StreamErrors(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 1, sound: mono(Once, 1, 1), volume: FullVolume})
	mustHandle(t, e, playMsg{id: 2, sound: mono(Looped, 1), volume: FullVolume})

	for _, id := range []SoundID{1, 2} {
		err := e.handle(streamMsg{id: id, samples: []float32{0.5}})
		if !errors.Is(err, ErrNotStreamed) {
			t.Errorf("stream into %s: error = %v, want ErrNotStreamed", id, err)
		}
	}
	if got := len(e.sounds[1].sound.Samples); got != 2 {
		t.Errorf("rejected stream changed the sound: len = %d, want 2", got)
	}

	if err := e.handle(streamMsg{id: 99, samples: []float32{1}}); err != nil {
		t.Errorf("stream into unknown id: error = %v, want nil", err)
	}
}

func TestEngine_MasterVolumeQuartersOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sound, master Volume
		want          float32
	}{
		{1, 1, 1},
		{1, 0.5, 0.25},
		{0.5, 1, 0.25},
		{0.5, 0.5, 0.0625},
		{0, 1, 0},
	}

	for _, tt := range tests {
		e := newTestEngine()
		mustHandle(t, e, playMsg{id: 0, sound: mono(Looped, 1), volume: tt.sound})
		mustHandle(t, e, masterVolumeMsg{volume: tt.master})

		for i, v := range render(e, 4) {
			if math.Abs(float64(v-tt.want)) > 1e-6 {
				t.Errorf("sound %v master %v: slot %d = %v, want %v", tt.sound, tt.master, i, v, tt.want)
			}
		}
	}
}

func TestEngine_SetVolume(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 0, sound: mono(Looped, 1), volume: FullVolume})
	mustHandle(t, e, volumeMsg{id: 0, volume: 0.5})

	if got := e.nextValue(); got != 0.25 {
		t.Errorf("after SetVolume(0.5) = %v, want 0.25", got)
	}

	if err := e.handle(volumeMsg{id: 42, volume: 0.1}); err != nil {
		t.Errorf("volume for unknown id: error = %v, want nil", err)
	}
}

func TestEngine_RejectsMalformedCommands(t *testing.T) {
	t.Parallel()

	nan := Volume(math.NaN())

	tests := []struct {
		name string
		msg  message
		want error
	}{
		{"play volume above one", playMsg{id: 1, sound: mono(Once, 1), volume: 1.5}, ErrVolumeOutOfRange},
		{"play negative volume", playMsg{id: 1, sound: mono(Once, 1), volume: -0.1}, ErrVolumeOutOfRange},
		{"play NaN volume", playMsg{id: 1, sound: mono(Once, 1), volume: nan}, ErrVolumeOutOfRange},
		{"play three channels", playMsg{id: 1, sound: Sound{SampleRate: 44100, Channels: 3, Samples: []float32{1, 1, 1}}, volume: 1}, ErrUnsupportedChannels},
		{"play zero rate", playMsg{id: 1, sound: Sound{Channels: 1, Samples: []float32{1}}, volume: 1}, ErrInvalidSampleRate},
		{"volume above one", volumeMsg{id: 0, volume: 2}, ErrVolumeOutOfRange},
		{"master above one", masterVolumeMsg{volume: 1.01}, ErrVolumeOutOfRange},
		{"unknown message", nil, ErrUnknownMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEngine()
			mustHandle(t, e, playMsg{id: 0, sound: mono(Looped, 1), volume: FullVolume})

			err := e.handle(tt.msg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("handle() error = %v, want %v", err, tt.want)
			}
			if _, ok := e.sounds[1]; ok {
				t.Error("rejected play inserted a sound")
			}
			if e.volume != FullVolume || e.sounds[0].volume != FullVolume {
				t.Error("rejected command changed a volume")
			}
		})
	}
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine()
	mustHandle(t, e, stopMsg{id: 5})
	mustHandle(t, e, playMsg{id: 5, sound: mono(Looped, 1), volume: FullVolume})
	mustHandle(t, e, stopMsg{id: 5})
	mustHandle(t, e, stopMsg{id: 5})

	for i, v := range render(e, 4) {
		if v != 0 {
			t.Errorf("slot %d = %v after stop, want 0", i, v)
		}
	}
}

func TestEngine_RandomCommandsStayFinite(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	e := newTestEngine()
	styles := []PlaybackStyle{Once, Looped, Streamed}
	rates := []float32{8000, 11025, 22050, 44100, 48000, 88200, 96000}

	randomSamples := func(n int) []float32 {
		s := make([]float32, n)
		for i := range s {
			s[i] = rng.Float32()*2 - 1
		}
		return s
	}

	var next SoundID
	for range 2000 {
		id := SoundID(rng.IntN(int(next) + 1))

		var msg message
		switch rng.IntN(6) {
		case 0, 1:
			msg = playMsg{
				id: next,
				sound: Sound{
					SampleRate:    rates[rng.IntN(len(rates))],
					Channels:      uint16(1 + rng.IntN(2)),
					Samples:       randomSamples(rng.IntN(9)),
					PlaybackStyle: styles[rng.IntN(len(styles))],
				},
				volume: Volume(rng.Float32()),
			}
			next++
		case 2:
			msg = stopMsg{id: id}
		case 3:
			msg = volumeMsg{id: id, volume: Volume(rng.Float32()*1.2 - 0.1)}
		case 4:
			msg = masterVolumeMsg{volume: Volume(rng.Float32()*1.2 - 0.1)}
		default:
			msg = streamMsg{id: id, samples: randomSamples(rng.IntN(5))}
		}

		// rejections are expected here; only panics and non-finite output fail
		_ = e.handle(msg)

		for range rng.IntN(16) {
			v := e.nextValue()
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("nextValue() = %v, want finite", v)
			}
		}
	}
}

func TestEngine_NextValueDoesNotAllocate(t *testing.T) {
	e := newTestEngine()
	mustHandle(t, e, playMsg{id: 0, sound: mono(Looped, 0.1, 0.2, 0.3), volume: FullVolume})
	mustHandle(t, e, playMsg{id: 1, sound: stereo(Looped, 0.1, 0.2, 0.3, 0.4), volume: 0.5})
	mustHandle(t, e, playMsg{id: 2, sound: Sound{SampleRate: 22050, Channels: 1, Samples: []float32{0.5}, PlaybackStyle: Looped}, volume: 1})

	allocs := testing.AllocsPerRun(1000, func() {
		_ = e.nextValue()
	})
	if allocs != 0 {
		t.Errorf("nextValue() allocates %v times per call, want 0", allocs)
	}
}

func BenchmarkEngine_NextValue(b *testing.B) {
	e := newTestEngine()
	samples := make([]float32, 44100*2)
	for i := range 32 {
		mustHandleB(b, e, playMsg{id: SoundID(i), sound: stereo(Looped, samples...), volume: 0.8})
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = e.nextValue()
	}
}

func mustHandleB(b *testing.B, e *engine, msg message) {
	b.Helper()
	if err := e.handle(msg); err != nil {
		b.Fatalf("handle(%T) error = %v", msg, err)
	}
}
