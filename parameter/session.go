package parameter

// Session bookkeeping
const (
	// SessionRootDir holds one subdirectory per session
	SessionRootDir = "recordings"

	// SessionLogName is the session log file inside each session directory
	SessionLogName = "recording_data.json"

	// SessionIDLayout formats the creation time; milliseconds appended separately
	SessionIDLayout = "20060102_150405"
)

// Telemetry
const (
	TelemetryPath         = "/ws"
	TelemetryClientBuffer = 16
)
