// Package audio synthesizes navigation cues and plays them through the system speaker.
package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/config"
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/parameter"
)

// Sound is a playable cue. Stop silences a looping cue; one-shot cues run out on their own.
type Sound interface {
	Play()
	Stop()
	SetVolume(v float64)
}

// NullSound discards every call
type NullSound struct{}

func (NullSound) Play()             {}
func (NullSound) Stop()             {}
func (NullSound) SetVolume(float64) {}

// Output is the shared speaker mixer; the speaker is initialized once per process
type Output struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	initialized bool
}

var (
	outputOnce sync.Once
	output     *Output
	outputErr  error
)

// OpenOutput initializes the speaker on first call and returns the shared output
func OpenOutput() (*Output, error) {
	outputOnce.Do(func() {
		rate := beep.SampleRate(parameter.AudioSampleRate)
		if err := speaker.Init(rate, rate.N(parameter.AudioBuffer)); err != nil {
			outputErr = err
			return
		}
		output = &Output{mixer: &beep.Mixer{}, rate: rate, initialized: true}
		speaker.Play(output.mixer)
	})
	return output, outputErr
}

// locked runs fn under the speaker lock; without a live speaker fn runs unguarded
func (o *Output) locked(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.initialized {
		fn()
		return
	}
	speaker.Lock()
	fn()
	speaker.Unlock()
}

func (o *Output) add(s beep.Streamer) {
	o.locked(func() { o.mixer.Add(s) })
}

// Close silences everything still queued
func (o *Output) Close() {
	o.locked(func() { o.mixer.Clear() })
}

// BeepSound plays a synthesized streamer through the shared output
type BeepSound struct {
	mu      sync.Mutex
	out     *Output
	build   Factory
	volume  float64
	loop    bool
	playing *beep.Ctrl
}

// NewBeepSound creates a cue; looped cues keep playing until Stop
func NewBeepSound(out *Output, build Factory, volume float64, loop bool) *BeepSound {
	return &BeepSound{out: out, build: build, volume: volume, loop: loop}
}

// Play starts the cue; a looped cue already playing is left running
func (s *BeepSound) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loop {
		if s.playing != nil {
			return
		}
		ctrl := &beep.Ctrl{Streamer: &replay{build: s.build, rate: s.out.rate, vol: s.volume}}
		s.playing = ctrl
		s.out.add(ctrl)
		return
	}
	s.out.add(s.build(s.out.rate, s.volume))
}

// Stop ends a looped cue. The detached control drains, so the mixer drops it.
func (s *BeepSound) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing == nil {
		return
	}
	ctrl := s.playing
	s.playing = nil
	s.out.locked(func() { ctrl.Streamer = nil })
}

// Playing reports whether a looped cue is running
func (s *BeepSound) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing != nil
}

// SetVolume applies to subsequent plays
func (s *BeepSound) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = v
}

// replay rebuilds its factory stream each time it drains, looping indefinitely
type replay struct {
	build Factory
	rate  beep.SampleRate
	vol   float64
	cur   beep.Streamer
}

func (r *replay) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		if r.cur == nil {
			r.cur = r.build(r.rate, r.vol)
		}
		n, ok := r.cur.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			r.cur = nil
			if n == 0 && filled == 0 && !ok {
				// Empty factory output would spin forever
				return 0, false
			}
		}
	}
	return filled, true
}

func (r *replay) Err() error { return nil }

// Sounds is the cue set used by the game
type Sounds struct {
	Arrive   Sound
	Complete Sound
	Theme    Sound

	out *Output // nil for silent sets
}

// Get returns the cue for t, or a NullSound for unknown types
func (s *Sounds) Get(t core.SoundType) Sound {
	switch t {
	case core.SoundArrive:
		return s.Arrive
	case core.SoundComplete:
		return s.Complete
	case core.SoundTheme:
		return s.Theme
	default:
		return NullSound{}
	}
}

// Close stops the theme and clears the shared output
func (s *Sounds) Close() {
	s.Theme.Stop()
	if s.out != nil {
		s.out.Close()
	}
}

// Silent returns a cue set where every member is a NullSound
func Silent() *Sounds {
	return &Sounds{Arrive: NullSound{}, Complete: NullSound{}, Theme: NullSound{}}
}

// NewSounds builds beep-backed cues when sound is enabled and the speaker opens,
// otherwise a silent set. Speaker failure is logged, never fatal.
func NewSounds(cfg config.SoundConfig, logger *zap.Logger) *Sounds {
	if !cfg.Enabled {
		return Silent()
	}
	out, err := OpenOutput()
	if err != nil {
		logger.Warn("audio unavailable, continuing silently", zap.Error(err))
		return Silent()
	}

	s := &Sounds{
		Arrive:   NewBeepSound(out, Chime, cfg.Volume, false),
		Complete: NewBeepSound(out, Fanfare, cfg.Volume, false),
		Theme:    NullSound{},
		out:      out,
	}
	if cfg.Theme {
		s.Theme = NewBeepSound(out, Theme, cfg.Volume, true)
	}
	logger.Debug("audio initialized", zap.Int("sample_rate", int(out.rate)), zap.Bool("theme", cfg.Theme))
	return s
}
