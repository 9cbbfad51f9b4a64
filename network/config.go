package network

import (
	"time"

	"github.com/lixenwraith/ray-pilot/parameter"
)

// Config holds telemetry server settings
type Config struct {
	// Address to bind; empty serves only through an external mux
	Address string

	// Path the websocket endpoint is mounted on
	Path string

	// Per-client outbound queue; a full queue drops the client
	ClientBuffer int

	// Timing
	WriteTimeout time.Duration
	PongWait     time.Duration
	PingInterval time.Duration

	// Inbound frames are ignored beyond keepalive; cap their size
	ReadLimit int64
}

// DefaultConfig returns loopback-bound defaults
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:8090",
		Path:         parameter.TelemetryPath,
		ClientBuffer: parameter.TelemetryClientBuffer,
		WriteTimeout: 5 * time.Second,
		PongWait:     60 * time.Second,
		PingInterval: 54 * time.Second,
		ReadLimit:    512,
	}
}
