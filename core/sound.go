package core

// SoundType identifies an audio cue
type SoundType int

const (
	SoundArrive   SoundType = iota // Waypoint reached
	SoundComplete                  // Full route finished
	SoundTheme                     // Ambient loop
	SoundTypeCount
)

// String returns the cue name used in logs and config
func (s SoundType) String() string {
	switch s {
	case SoundArrive:
		return "arrive"
	case SoundComplete:
		return "complete"
	case SoundTheme:
		return "theme"
	default:
		return "unknown"
	}
}
