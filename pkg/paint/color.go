package paint

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a hex element color, returning fallback when s is empty or malformed.
func ParseColor(s string, fallback colorful.Color) colorful.Color {
	if s == "" {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

// Darken lowers the lightness of c by amount (0..1) in HSL space.
func Darken(c colorful.Color, amount float64) colorful.Color {
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, math.Max(0, l-amount)).Clamped()
}

// Blend mixes c toward o by t in linear RGB.
func Blend(c, o colorful.Color, t float64) colorful.Color {
	return c.BlendRgb(o, clamp(t, 0, 1)).Clamped()
}

// WithAlpha returns c as a non-premultiplied color with the given opacity.
func WithAlpha(c colorful.Color, alpha float64) color.Color {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp(alpha, 0, 1) * 255))}
}
