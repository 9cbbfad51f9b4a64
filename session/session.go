// Package session records visited waypoints and captured frames for one autopilot run.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/navigation"
	"github.com/lixenwraith/ray-pilot/parameter"
)

var ErrCompleted = errors.New("session already completed")

const maxIDAttempts = 1000

// ColorEntry is one palette color in the log
type ColorEntry struct {
	Name string   `json:"name" jsonschema:"description=Palette color name"`
	RGB  [3]uint8 `json:"rgb" jsonschema:"description=Red green blue channels"`
}

// Visit is one waypoint arrival
type Visit struct {
	Waypoint  [2]int    `json:"waypoint" jsonschema:"description=Grid cell as x y"`
	ColorName string    `json:"color_name"`
	ColorCode [3]uint8  `json:"color_code"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is the persisted session document
type Log struct {
	SessionID        string       `json:"session_id"`
	CreatedAt        time.Time    `json:"created_at"`
	AllColors        []ColorEntry `json:"all_colors"`
	VisitedWaypoints []Visit      `json:"visited_waypoints"`
	Completed        bool         `json:"completed"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
}

// Session accumulates visits and rewrites its log after each change.
// A session without a directory keeps the log in memory only.
type Session struct {
	mu     sync.Mutex
	dir    string
	doc    Log
	logger *zap.Logger
}

// NewID formats a session id from t with millisecond precision
func NewID(t time.Time) string {
	return fmt.Sprintf("session_%s_%03d", t.Format(parameter.SessionIDLayout), t.Nanosecond()/int(time.Millisecond))
}

// New creates root/<id>/ and writes the initial log. Empty root keeps the session in memory.
func New(root string, palette []core.NamedColor, now time.Time, logger *zap.Logger) (*Session, error) {
	s := &Session{
		doc: Log{
			SessionID:        NewID(now),
			CreatedAt:        now,
			AllColors:        make([]ColorEntry, 0, len(palette)),
			VisitedWaypoints: []Visit{},
		},
		logger: logger,
	}
	for _, c := range palette {
		s.doc.AllColors = append(s.doc.AllColors, ColorEntry{Name: c.Name, RGB: c.RGB.Triple()})
	}

	if root != "" {
		if err := s.claimDir(root, now); err != nil {
			return nil, err
		}
		if err := s.Flush(); err != nil {
			return nil, err
		}
	}

	logger.Info("session started", zap.String("id", s.doc.SessionID), zap.String("dir", s.dir))
	return s, nil
}

// claimDir creates root/<id>/, advancing the id by a millisecond while it is taken
func (s *Session) claimDir(root string, now time.Time) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create session root: %w", err)
	}
	for i := 0; i < maxIDAttempts; i++ {
		id := NewID(now.Add(time.Duration(i) * time.Millisecond))
		dir := filepath.Join(root, id)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			s.doc.SessionID, s.dir = id, dir
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	return fmt.Errorf("create session dir: no free id after %d attempts", maxIDAttempts)
}

// ID returns the session id
func (s *Session) ID() string { return s.doc.SessionID }

// Dir returns the session directory, empty for in-memory sessions
func (s *Session) Dir() string { return s.dir }

// LogPath returns the log file path, empty for in-memory sessions
func (s *Session) LogPath() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, parameter.SessionLogName)
}

// Visits returns a copy of recorded arrivals
func (s *Session) Visits() []Visit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Visit(nil), s.doc.VisitedWaypoints...)
}

// Completed reports whether Complete was called
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Completed
}

// Record appends an arrival and persists the log
func (s *Session) Record(w navigation.Waypoint, at time.Time) error {
	s.mu.Lock()
	if s.doc.Completed {
		s.mu.Unlock()
		return ErrCompleted
	}
	s.doc.VisitedWaypoints = append(s.doc.VisitedWaypoints, Visit{
		Waypoint:  [2]int{w.Cell.X, w.Cell.Y},
		ColorName: w.Color.Name,
		ColorCode: w.Color.RGB.Triple(),
		Timestamp: at,
	})
	s.mu.Unlock()

	s.logger.Info("waypoint visited",
		zap.String("session", s.doc.SessionID),
		zap.Int("x", w.Cell.X),
		zap.Int("y", w.Cell.Y),
		zap.String("color", w.Color.Name),
	)
	return s.Flush()
}

// Complete marks the session finished and persists; repeated calls are no-ops
func (s *Session) Complete(at time.Time) error {
	s.mu.Lock()
	if s.doc.Completed {
		s.mu.Unlock()
		return nil
	}
	s.doc.Completed = true
	s.doc.CompletedAt = &at
	visited := len(s.doc.VisitedWaypoints)
	s.mu.Unlock()

	s.logger.Info("session completed", zap.String("session", s.doc.SessionID), zap.Int("visited", visited))
	return s.Flush()
}

// Flush rewrites the whole log through a temp file and rename
func (s *Session) Flush() error {
	if s.dir == "" {
		return nil
	}
	s.mu.Lock()
	data, err := json.MarshalIndent(&s.doc, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal session log: %w", err)
	}

	path := s.LogPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write session log: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session log: %w", err)
	}
	return nil
}

// Load reads a persisted log
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session log %s: %w", path, err)
	}
	var doc Log
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse session log %s: %w", path, err)
	}
	return &doc, nil
}
