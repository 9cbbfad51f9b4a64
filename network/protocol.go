// Package network streams autopilot telemetry to websocket subscribers.
package network

import "github.com/lixenwraith/ray-pilot/status"

// Snapshot is one tick of agent state published to subscribers
type Snapshot struct {
	Session        string  `json:"session"`
	Tick           uint64  `json:"tick"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Heading        float64 `json:"heading"`
	State          string  `json:"state"`
	RouteRemaining int     `json:"route_remaining"`
	Visited        int     `json:"visited"`

	Metrics status.Metrics `json:"metrics"`
}
