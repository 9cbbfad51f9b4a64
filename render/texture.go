package render

import (
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/gridmap"
	"github.com/lixenwraith/ray-pilot/sprite"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// Textures maps wall materials to square bitmaps
type Textures struct {
	size  int
	walls map[gridmap.Material]*sprite.Image
	floor *sprite.Image
}

// wall palettes per material: mortar/base and two surface tones
var materialTones = map[gridmap.Material][3]core.RGB{
	1: {{R: 60, G: 60, B: 60}, {R: 120, G: 120, B: 120}, {R: 100, G: 100, B: 100}}, // stone
	2: {{R: 50, G: 30, B: 25}, {R: 150, G: 60, B: 45}, {R: 125, G: 50, B: 40}},     // brick
	3: {{R: 45, G: 30, B: 15}, {R: 130, G: 90, B: 50}, {R: 110, G: 75, B: 40}},     // wood
	4: {{R: 40, G: 45, B: 55}, {R: 110, G: 120, B: 140}, {R: 90, G: 100, B: 120}},  // metal
	5: {{R: 30, G: 45, B: 30}, {R: 90, G: 120, B: 80}, {R: 70, G: 100, B: 65}},     // moss
}

// NewTextures generates procedural textures for all known materials
func NewTextures(size int, seed uint64) *Textures {
	rng := vmath.NewFastRand(seed)
	t := &Textures{
		size:  size,
		walls: make(map[gridmap.Material]*sprite.Image, len(materialTones)),
	}
	for mat, tones := range materialTones {
		switch mat {
		case 2:
			t.walls[mat] = bricks(size, tones, rng)
		case 3:
			t.walls[mat] = planks(size, tones, rng)
		case 4:
			t.walls[mat] = panels(size, tones, rng)
		default:
			t.walls[mat] = blocks(size, tones, rng)
		}
	}
	t.floor = blocks(size, [3]core.RGB{{R: 22, G: 22, B: 22}, {R: 38, G: 38, B: 38}, {R: 32, G: 32, B: 32}}, rng)
	return t
}

// Wall returns the texture for mat, falling back to material 1
func (t *Textures) Wall(mat gridmap.Material) *sprite.Image {
	if img, ok := t.walls[mat]; ok {
		return img
	}
	return t.walls[1]
}

// Floor returns the floor texture
func (t *Textures) Floor() *sprite.Image {
	return t.floor
}

// Size returns the texture edge length
func (t *Textures) Size() int {
	return t.size
}

func noisy(c core.RGB, rng *vmath.FastRand) core.RGB {
	return c.Scale(0.85 + 0.15*rng.Float64())
}

// blocks draws large square stones with mortar lines
func blocks(size int, tones [3]core.RGB, rng *vmath.FastRand) *sprite.Image {
	img := sprite.NewImage(size, size)
	cell := max(size/4, 2)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := tones[1]
			if (x/cell+y/cell)%2 == 1 {
				c = tones[2]
			}
			if x%cell == 0 || y%cell == 0 {
				c = tones[0]
			}
			img.Set(x, y, noisy(c, rng))
		}
	}
	return img
}

// bricks draws running-bond courses
func bricks(size int, tones [3]core.RGB, rng *vmath.FastRand) *sprite.Image {
	img := sprite.NewImage(size, size)
	courseH := max(size/8, 2)
	brickW := max(size/4, 2)
	for y := 0; y < size; y++ {
		course := y / courseH
		offset := 0
		if course%2 == 1 {
			offset = brickW / 2
		}
		for x := 0; x < size; x++ {
			c := tones[1]
			if ((x+offset)/brickW+course)%3 == 0 {
				c = tones[2]
			}
			if y%courseH == 0 || (x+offset)%brickW == 0 {
				c = tones[0]
			}
			img.Set(x, y, noisy(c, rng))
		}
	}
	return img
}

// planks draws vertical boards with grain
func planks(size int, tones [3]core.RGB, rng *vmath.FastRand) *sprite.Image {
	img := sprite.NewImage(size, size)
	boardW := max(size/6, 2)
	for x := 0; x < size; x++ {
		grain := rng.Float64()
		for y := 0; y < size; y++ {
			c := tones[1]
			if grain > 0.6 {
				c = tones[2]
			}
			if x%boardW == 0 {
				c = tones[0]
			}
			img.Set(x, y, noisy(c, rng))
		}
	}
	return img
}

// panels draws riveted plates
func panels(size int, tones [3]core.RGB, rng *vmath.FastRand) *sprite.Image {
	img := sprite.NewImage(size, size)
	plate := max(size/2, 2)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := tones[1]
			px, py := x%plate, y%plate
			if px == 0 || py == 0 {
				c = tones[0]
			} else if (px == 2 || px == plate-2) && (py == 2 || py == plate-2) {
				c = tones[2].Scale(0.6)
			}
			img.Set(x, y, noisy(c, rng))
		}
	}
	return img
}
