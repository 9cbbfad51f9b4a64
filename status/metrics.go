// Package status keeps run counters that the engine writes every tick and
// telemetry or the CLI read concurrently.
package status

import (
	"sync/atomic"
	"time"
)

// Registry holds the counters of a run. A batch shares one registry across sessions.
// The zero value is ready to use.
type Registry struct {
	Ticks         atomic.Int64
	Frames        atomic.Int64 // rendered, not necessarily presented
	Arrivals      atomic.Int64
	Regenerations atomic.Int64
	Sessions      atomic.Int64
	Completed     atomic.Int64
	simNanos      atomic.Int64
}

func NewRegistry() *Registry { return &Registry{} }

// Advance records one tick of dt simulated time
func (r *Registry) Advance(dt time.Duration) {
	r.Ticks.Add(1)
	r.simNanos.Add(int64(dt))
}

// SimTime returns the simulated time summed over all ticks
func (r *Registry) SimTime() time.Duration {
	return time.Duration(r.simNanos.Load())
}

// Metrics is a point-in-time copy of a Registry
type Metrics struct {
	Ticks         int64   `json:"ticks"`
	Frames        int64   `json:"frames"`
	Arrivals      int64   `json:"arrivals"`
	Regenerations int64   `json:"regenerations"`
	Sessions      int64   `json:"sessions"`
	Completed     int64   `json:"completed"`
	SimSeconds    float64 `json:"sim_seconds"`
}

// Snapshot loads every counter; fields are read individually, not as one atomic unit
func (r *Registry) Snapshot() Metrics {
	return Metrics{
		Ticks:         r.Ticks.Load(),
		Frames:        r.Frames.Load(),
		Arrivals:      r.Arrivals.Load(),
		Regenerations: r.Regenerations.Load(),
		Sessions:      r.Sessions.Load(),
		Completed:     r.Completed.Load(),
		SimSeconds:    r.SimTime().Seconds(),
	}
}

// CompletionRate is the fraction of sessions that finished their route
func (m Metrics) CompletionRate() float64 {
	if m.Sessions == 0 {
		return 0
	}
	return float64(m.Completed) / float64(m.Sessions)
}
