package sprite

import (
	"fmt"
	"image"
	_ "image/png" // png frames
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"  // bmp frames
	_ "golang.org/x/image/webp" // webp frames

	"github.com/lixenwraith/ray-pilot/core"
)

// Image is an RGB bitmap with a binary alpha mask
type Image struct {
	Width, Height int
	Pix           []core.RGB
	Opaque        []bool
}

// NewImage allocates a fully transparent image
func NewImage(w, h int) *Image {
	return &Image{
		Width:  w,
		Height: h,
		Pix:    make([]core.RGB, w*h),
		Opaque: make([]bool, w*h),
	}
}

// At returns the texel at (x, y) and whether it is opaque
func (img *Image) At(x, y int) (core.RGB, bool) {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return core.RGB{}, false
	}
	i := y*img.Width + x
	return img.Pix[i], img.Opaque[i]
}

// Set writes an opaque texel
func (img *Image) Set(x, y int, c core.RGB) {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return
	}
	i := y*img.Width + x
	img.Pix[i] = c
	img.Opaque[i] = true
}

// FromImage converts a decoded image; alpha below half is transparent
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a < 0x8000 {
				continue
			}
			img.Set(x, y, core.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)})
		}
	}
	return img
}

var frameExts = map[string]bool{".png": true, ".webp": true, ".bmp": true}

// LoadFrames decodes every image in dir, ordered by file name
func LoadFrames(dir string) ([]*Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read asset dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !frameExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	frames := make([]*Image, 0, len(names))
	for _, name := range names {
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return frames, nil
}

func loadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return FromImage(src), nil
}

// OrbFrames draws a pulsing white orb animation; tinting colors it per waypoint
func OrbFrames(size, count int) []*Image {
	frames := make([]*Image, count)
	c := float64(size-1) / 2
	for f := 0; f < count; f++ {
		pulse := 0.75 + 0.25*math.Sin(2*math.Pi*float64(f)/float64(count))
		radius := c * pulse
		img := NewImage(size, size)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d := math.Hypot(float64(x)-c, float64(y)-c)
				if d > radius {
					continue
				}
				// Brighter core fading toward the rim
				shade := 1 - 0.6*(d/radius)
				v := uint8(255 * shade)
				img.Set(x, y, core.RGB{R: v, G: v, B: v})
			}
		}
		frames[f] = img
	}
	return frames
}
