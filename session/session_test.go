package session

import (
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/navigation"
	"github.com/lixenwraith/ray-pilot/parameter"
)

var testPalette = []core.NamedColor{
	{Name: "red", RGB: core.RGB{R: 255}},
	{Name: "green", RGB: core.RGB{G: 255}},
}

func created() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 42*int(time.Millisecond), time.UTC)
}

// TestNewID verifies the id embeds date, time and milliseconds
func TestNewID(t *testing.T) {
	assert.Equal(t, "session_20240309_140507_042", NewID(created()))
}

// TestSessionLogRoundTrip verifies arrivals and completion are persisted in the log format
func TestSessionLogRoundTrip(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, testPalette, created(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "session_20240309_140507_042"), s.Dir())

	initial, err := Load(s.LogPath())
	require.NoError(t, err)
	assert.Empty(t, initial.VisitedWaypoints)
	assert.False(t, initial.Completed)

	at := created().Add(3 * time.Second)
	w := navigation.Waypoint{Cell: core.Cell{X: 4, Y: 7}, Ordinal: 1, Color: testPalette[1]}
	require.NoError(t, s.Record(w, at))

	done := at.Add(time.Second)
	require.NoError(t, s.Complete(done))
	require.NoError(t, s.Complete(done.Add(time.Hour)), "second completion is a no-op")

	doc, err := Load(s.LogPath())
	require.NoError(t, err)
	assert.Equal(t, s.ID(), doc.SessionID)
	assert.True(t, doc.CreatedAt.Equal(created()))
	assert.Equal(t, []ColorEntry{{"red", [3]uint8{255, 0, 0}}, {"green", [3]uint8{0, 255, 0}}}, doc.AllColors)
	require.Len(t, doc.VisitedWaypoints, 1)
	v := doc.VisitedWaypoints[0]
	assert.Equal(t, [2]int{4, 7}, v.Waypoint)
	assert.Equal(t, "green", v.ColorName)
	assert.Equal(t, [3]uint8{0, 255, 0}, v.ColorCode)
	assert.True(t, v.Timestamp.Equal(at))
	assert.True(t, doc.Completed)
	require.NotNil(t, doc.CompletedAt)
	assert.True(t, doc.CompletedAt.Equal(done))

	assert.ErrorIs(t, s.Record(w, done), ErrCompleted)
	_, err = os.Stat(s.LogPath() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file renamed away")
}

// TestSessionLogFieldNames verifies the on-disk key names
func TestSessionLogFieldNames(t *testing.T) {
	s, err := New(t.TempDir(), testPalette, created(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Record(navigation.Waypoint{Cell: core.Cell{X: 1, Y: 2}, Color: testPalette[0]}, created()))

	data, err := os.ReadFile(s.LogPath())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"session_id", "created_at", "all_colors", "visited_waypoints", "completed"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "completed_at")

	visit := raw["visited_waypoints"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{1.0, 2.0}, visit["waypoint"])
	assert.Equal(t, []any{255.0, 0.0, 0.0}, visit["color_code"])
}

// TestSessionInMemory verifies an empty root records without touching disk
func TestSessionInMemory(t *testing.T) {
	s, err := New("", testPalette, created(), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, s.Dir())
	assert.Empty(t, s.LogPath())

	require.NoError(t, s.Record(navigation.Waypoint{Cell: core.Cell{X: 1, Y: 1}, Color: testPalette[0]}, created()))
	assert.Len(t, s.Visits(), 1)
	require.NoError(t, s.Complete(created()))
	assert.True(t, s.Completed())
}

// TestNewUnwritableRoot verifies directory creation errors surface
func TestNewUnwritableRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := New(file, testPalette, created(), zap.NewNop())
	assert.Error(t, err)
}

// TestSchema verifies the schema describes the log keys
func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Ray Pilot Session Log", doc["title"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "visited_waypoints")
	assert.Contains(t, props, "all_colors")
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}
	return img
}

// TestFrameRecorderNumbersAndScales verifies frame naming and capture resizing
func TestFrameRecorderNumbersAndScales(t *testing.T) {
	dir := t.TempDir()
	r := NewFrameRecorder(dir, 8, 4, zap.NewNop())
	require.NoError(t, r.Capture(solid(16, 8)))
	require.NoError(t, r.Capture(solid(16, 8)))
	assert.Equal(t, 2, r.Count())

	f, err := os.Open(filepath.Join(dir, "frame_000001.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	r8, _, _, _ := img.At(3, 2).RGBA()
	assert.InDelta(t, 200, float64(r8>>8), 1)
	assert.Equal(t, "frame_%06d.png", parameter.CaptureFramePattern)
}

// TestFrameRecorderFailure verifies a missing directory is reported without advancing the counter
func TestFrameRecorderFailure(t *testing.T) {
	r := NewFrameRecorder(filepath.Join(t.TempDir(), "missing"), 0, 0, zap.NewNop())
	assert.Error(t, r.Capture(solid(2, 2)))
	assert.Zero(t, r.Count())
}

// TestNewIDCollision verifies sessions created in the same millisecond get distinct directories
func TestNewIDCollision(t *testing.T) {
	root := t.TempDir()
	a, err := New(root, testPalette, created(), zap.NewNop())
	require.NoError(t, err)
	b, err := New(root, testPalette, created(), zap.NewNop())
	require.NoError(t, err)

	assert.NotEqual(t, a.Dir(), b.Dir())
	assert.Equal(t, "session_20240309_140507_043", b.ID())
}
