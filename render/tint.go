package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/ray-pilot/core"
)

func toColorful(c core.RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) core.RGB {
	r, g, b := c.Clamped().RGB255()
	return core.RGB{R: r, G: g, B: b}
}

// Tint shifts base toward tint in Lab space while keeping base luminance variation.
// Strength 0 returns base, 1 returns the tint modulated by base lightness.
func Tint(base, tint core.RGB, strength float64) core.RGB {
	if strength <= 0 {
		return base
	}
	b := toColorful(base)
	l, _, _ := b.Lab()
	tl, ta, tb := toColorful(tint).Lab()
	// Keep the marker's shading by carrying base lightness into the tint
	shaded := colorful.Lab(l*0.5+tl*0.5, ta, tb)
	return fromColorful(b.BlendLab(shaded, min(strength, 1)))
}

// Fog darkens c toward black with linear falloff between start and end distances
func Fog(c core.RGB, depth, start, end float64) core.RGB {
	if depth <= start || end <= start {
		return c
	}
	t := (depth - start) / (end - start)
	if t >= 1 {
		return c.Scale(0.15)
	}
	return c.Scale(1 - 0.85*t)
}

// Gradient returns n colors interpolated in HCL between from and to
func Gradient(from, to core.RGB, n int) []core.RGB {
	out := make([]core.RGB, n)
	a, b := toColorful(from), toColorful(to)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = fromColorful(a.BlendHcl(b, t))
	}
	return out
}
