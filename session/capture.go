package session

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/lixenwraith/ray-pilot/parameter"
)

// FrameRecorder writes numbered PNG frames into a session directory
type FrameRecorder struct {
	dir           string
	width, height int
	count         int
	logger        *zap.Logger
	scaled        *image.RGBA
}

// NewFrameRecorder captures into dir; zero width or height keeps the source size
func NewFrameRecorder(dir string, width, height int, logger *zap.Logger) *FrameRecorder {
	return &FrameRecorder{dir: dir, width: width, height: height, logger: logger}
}

// Count returns the number of frames written
func (r *FrameRecorder) Count() int { return r.count }

// Capture encodes img as the next frame. Errors are logged and returned; callers continue.
func (r *FrameRecorder) Capture(img image.Image) error {
	out := img
	if r.width > 0 && r.height > 0 && (img.Bounds().Dx() != r.width || img.Bounds().Dy() != r.height) {
		if r.scaled == nil {
			r.scaled = image.NewRGBA(image.Rect(0, 0, r.width, r.height))
		}
		draw.ApproxBiLinear.Scale(r.scaled, r.scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = r.scaled
	}

	path := filepath.Join(r.dir, fmt.Sprintf(parameter.CaptureFramePattern, r.count))
	if err := writePNG(path, out); err != nil {
		r.logger.Warn("frame capture failed", zap.String("path", path), zap.Error(err))
		return err
	}
	r.count++
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return f.Close()
}
