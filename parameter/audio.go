package parameter

import "time"

// Output
const (
	AudioSampleRate = 48000
	AudioBuffer     = 100 * time.Millisecond
)

// Arrival chime: two sine partials
const (
	ChimeDuration         = 260 * time.Millisecond
	ChimeAttack           = 5 * time.Millisecond
	ChimeFundamentalFreq  = 880.0
	ChimeOvertoneFreq     = 1760.0
	ChimeFundamentalDecay = 240 * time.Millisecond
	ChimeOvertoneDecay    = 120 * time.Millisecond
)

// Completion fanfare: rising square arpeggio
const (
	FanfareNoteDuration = 110 * time.Millisecond
	FanfareAttack       = 4 * time.Millisecond
	FanfareRelease      = 60 * time.Millisecond
)

// FanfareNotes is C5 E5 G5 C6
var FanfareNotes = []float64{523.25, 659.25, 783.99, 1046.50}

// Ambient theme: slow detuned drone looped indefinitely
const (
	ThemeDuration = 4 * time.Second
	ThemeRootFreq = 55.0
	ThemeDetune   = 0.7
	ThemeLevel    = 0.25
)
