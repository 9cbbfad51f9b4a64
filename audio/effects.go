package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/ray-pilot/parameter"
)

// Waveforms over one cycle, phase in [0, 1)
func sine(p float64) float64 { return math.Sin(2 * math.Pi * p) }

func square(p float64) float64 {
	if p < 0.5 {
		return 1
	}
	return -1
}

func saw(p float64) float64 { return 2*p - 1 }

// partial is one component of a voice. A non-zero decay fades it exponentially
// with that time constant on top of the voice ramp.
type partial struct {
	freq  float64
	gain  float64
	wave  func(float64) float64
	decay time.Duration
}

// voice renders a fixed-length sum of partials under a linear attack and release.
// Partial gains are expected to sum to at most 1.
type voice struct {
	partials []partial
	step     []float64 // phase increment per sample
	fade     []float64 // decay multiplier per sample
	phase    []float64
	level    []float64

	length, attack, release, pos int
}

func newVoice(rate beep.SampleRate, length, attack, release time.Duration, partials ...partial) *voice {
	v := &voice{
		partials: partials,
		step:     make([]float64, len(partials)),
		fade:     make([]float64, len(partials)),
		phase:    make([]float64, len(partials)),
		level:    make([]float64, len(partials)),
		length:   rate.N(length),
		attack:   rate.N(attack),
		release:  rate.N(release),
	}
	for i, p := range partials {
		v.step[i] = p.freq / float64(rate)
		v.fade[i] = 1
		if p.decay > 0 {
			v.fade[i] = math.Exp(-1 / (p.decay.Seconds() * float64(rate)))
		}
		v.level[i] = p.gain
	}
	return v
}

// ramp is the attack/release gain at the current position
func (v *voice) ramp() float64 {
	switch {
	case v.attack > 0 && v.pos < v.attack:
		return float64(v.pos) / float64(v.attack)
	case v.release > 0 && v.pos >= v.length-v.release:
		return float64(v.length-v.pos) / float64(v.release)
	default:
		return 1
	}
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if v.pos >= v.length {
			return i, i > 0
		}
		var sum float64
		for j, p := range v.partials {
			sum += v.level[j] * p.wave(v.phase[j])
			v.level[j] *= v.fade[j]
			v.phase[j] += v.step[j]
			v.phase[j] -= math.Floor(v.phase[j])
		}
		sum *= v.ramp()
		samples[i] = [2]float64{sum, sum}
		v.pos++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

// gain wraps s in a base-2 volume; zero or negative is silent
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Factory builds a fresh streamer for one playback at the given volume
type Factory func(rate beep.SampleRate, vol float64) beep.Streamer

// Chime is the waypoint arrival cue: a struck octave pair whose overtone dies first
func Chime(rate beep.SampleRate, vol float64) beep.Streamer {
	bell := newVoice(rate, parameter.ChimeDuration, parameter.ChimeAttack, 0,
		partial{freq: parameter.ChimeFundamentalFreq, gain: 0.7, wave: sine, decay: parameter.ChimeFundamentalDecay},
		partial{freq: parameter.ChimeOvertoneFreq, gain: 0.3, wave: sine, decay: parameter.ChimeOvertoneDecay},
	)
	return gain(bell, vol)
}

// Fanfare is the route completion cue: one square note per arpeggio step
func Fanfare(rate beep.SampleRate, vol float64) beep.Streamer {
	notes := make([]beep.Streamer, len(parameter.FanfareNotes))
	for i, freq := range parameter.FanfareNotes {
		notes[i] = newVoice(rate, parameter.FanfareNoteDuration, parameter.FanfareAttack, parameter.FanfareRelease,
			partial{freq: freq, gain: 1, wave: square})
	}
	return gain(beep.Seq(notes...), vol*0.5)
}

// Theme is one bar of the ambient drone swelling in and out; callers loop it
func Theme(rate beep.SampleRate, vol float64) beep.Streamer {
	d := parameter.ThemeDuration
	root := parameter.ThemeRootFreq
	pad := newVoice(rate, d, d/2, d/2,
		partial{freq: root, gain: 0.3, wave: saw},
		partial{freq: root*1.5 + parameter.ThemeDetune, gain: 0.4, wave: sine},
		partial{freq: root*2 - parameter.ThemeDetune, gain: 0.3, wave: sine},
	)
	return gain(pad, vol*parameter.ThemeLevel)
}
