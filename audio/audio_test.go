package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/config"
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/parameter"
)

const testRate = beep.SampleRate(parameter.AudioSampleRate)

// drain streams s to completion and returns all samples
func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatal("streamer did not terminate")
	return nil
}

// TestWaveforms verifies the single-cycle shapes at their key phases
func TestWaveforms(t *testing.T) {
	assert.InDelta(t, 1.0, sine(0.25), 1e-12)
	assert.Equal(t, 1.0, square(0.25))
	assert.Equal(t, -1.0, square(0.75))
	assert.Equal(t, -1.0, saw(0))
	assert.InDelta(t, 0.0, saw(0.5), 1e-12)
}

// TestVoiceLength verifies a voice yields exactly its length, bounded and identical on both channels
func TestVoiceLength(t *testing.T) {
	for _, wave := range []func(float64) float64{sine, square, saw} {
		v := newVoice(testRate, 50*time.Millisecond, 0, 0,
			partial{freq: 440, gain: 0.6, wave: wave},
			partial{freq: 660, gain: 0.4, wave: wave})
		samples := drain(t, v)
		assert.Len(t, samples, testRate.N(50*time.Millisecond))
		for _, s := range samples {
			require.LessOrEqual(t, math.Abs(s[0]), 1.0+1e-9)
			require.Equal(t, s[0], s[1])
		}
	}
}

// TestVoiceRamps verifies attack starts silent, sustain holds the gain and release ends near silence
func TestVoiceRamps(t *testing.T) {
	d := 100 * time.Millisecond
	// Zero frequency square is a constant +1
	v := newVoice(testRate, d, 10*time.Millisecond, 20*time.Millisecond, partial{gain: 1, wave: square})
	samples := drain(t, v)

	require.Len(t, samples, testRate.N(d))
	assert.Equal(t, 0.0, samples[0][0])
	assert.Equal(t, 1.0, samples[len(samples)/2][0])
	assert.Less(t, samples[len(samples)-1][0], 0.01)
}

// TestVoiceDecay verifies a decaying partial falls off exponentially with its time constant
func TestVoiceDecay(t *testing.T) {
	tau := 50 * time.Millisecond
	v := newVoice(testRate, 200*time.Millisecond, 0, 0, partial{gain: 1, wave: square, decay: tau})
	samples := drain(t, v)

	assert.Equal(t, 1.0, samples[0][0])
	k := testRate.N(tau)
	assert.InDelta(t, math.Exp(-1), samples[k][0], 1e-3)
	assert.InDelta(t, math.Exp(-2), samples[2*k][0], 1e-3)
}

// TestCuesTerminate verifies one-shot cues are finite and silent at zero volume
func TestCuesTerminate(t *testing.T) {
	chime := drain(t, Chime(testRate, 1))
	assert.Len(t, chime, testRate.N(parameter.ChimeDuration))

	fanfare := drain(t, Fanfare(testRate, 1))
	assert.Len(t, fanfare, len(parameter.FanfareNotes)*testRate.N(parameter.FanfareNoteDuration))

	for _, s := range drain(t, Chime(testRate, 0)) {
		require.Equal(t, 0.0, s[0])
	}
}

// TestReplayLoops verifies the looping source keeps producing past one bar
func TestReplayLoops(t *testing.T) {
	short := func(rate beep.SampleRate, vol float64) beep.Streamer {
		return newVoice(rate, time.Millisecond, 0, 0, partial{freq: 100, gain: 1, wave: saw})
	}
	r := &replay{build: short, rate: testRate, vol: 1}
	buf := make([][2]float64, testRate.N(10*time.Millisecond))
	n, ok := r.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)
}

// TestNewSoundsDisabled verifies disabled sound yields no-op cues for every type
func TestNewSoundsDisabled(t *testing.T) {
	s := NewSounds(config.SoundConfig{Enabled: false}, zap.NewNop())
	for st := core.SoundType(0); st < core.SoundTypeCount; st++ {
		assert.IsType(t, NullSound{}, s.Get(st))
	}
	assert.IsType(t, NullSound{}, s.Get(core.SoundTypeCount))

	// No-op cues never panic
	s.Arrive.Play()
	s.Theme.SetVolume(0.3)
	s.Close()
}

// TestBeepSoundLoopStop verifies a looped cue plays once until stopped, and stopping detaches it
func TestBeepSoundLoopStop(t *testing.T) {
	out := &Output{mixer: &beep.Mixer{}, rate: testRate}
	theme := NewBeepSound(out, Theme, 0.5, true)

	theme.Play()
	theme.Play()
	require.True(t, theme.Playing())
	assert.Equal(t, 1, out.mixer.Len(), "second Play leaves the running loop alone")

	ctrl := theme.playing
	theme.Stop()
	assert.False(t, theme.Playing())
	assert.Nil(t, ctrl.Streamer)
	n, ok := ctrl.Stream(make([][2]float64, 8))
	assert.Zero(t, n)
	assert.False(t, ok, "detached control reports drained")

	theme.Stop()
	theme.Play()
	assert.True(t, theme.Playing())

	sounds := &Sounds{Arrive: NullSound{}, Complete: NullSound{}, Theme: theme, out: out}
	sounds.Close()
	assert.False(t, theme.Playing())
	assert.Zero(t, out.mixer.Len())
}

// TestNewSoundsEnabled verifies enabled sound degrades gracefully without an audio device
func TestNewSoundsEnabled(t *testing.T) {
	s := NewSounds(config.SoundConfig{Enabled: true, Volume: 0.2}, zap.NewNop())
	require.NotNil(t, s.Arrive)
	require.NotNil(t, s.Complete)
	assert.IsType(t, NullSound{}, s.Theme, "theme off by default")

	if _, ok := s.Arrive.(NullSound); ok {
		t.Logf("audio device unavailable, silent set selected")
		return
	}
	s.Arrive.Play()
	s.Arrive.SetVolume(0)
}
