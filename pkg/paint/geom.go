package paint

import (
	"math"

	"gantt2img/pkg/surface"
)

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// crisp aligns a 1px line to the pixel grid.
func crisp(v float64) float64 {
	return math.Floor(v) + 0.5
}

// Ellipsize shortens text with a trailing "..." until it fits maxWidth.
// The longest fitting prefix is found by binary search over runes.
func Ellipsize(s surface.Surface, text string, maxWidth float64) string {
	if maxWidth <= 0 {
		return ""
	}
	if s.MeasureText(text) <= maxWidth {
		return text
	}
	const ellipsis = "..."
	if s.MeasureText(ellipsis) > maxWidth {
		return ""
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.MeasureText(string(runes[:mid])+ellipsis) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + ellipsis
}

// polyline starts a new open path through pts.
func polyline(s surface.Surface, pts []surface.Point) {
	s.BeginPath()
	for i, p := range pts {
		if i == 0 {
			s.MoveTo(p.X, p.Y)
		} else {
			s.LineTo(p.X, p.Y)
		}
	}
}

// roundedRect starts a closed rectangle path with quadratic corners. The
// radius is clamped to half the shorter side; zero gives a plain rectangle.
func roundedRect(s surface.Surface, x, y, w, h, r float64) {
	r = clamp(r, 0, math.Min(w, h)/2)
	s.BeginPath()
	if r == 0 {
		s.Rect(x, y, w, h)
		return
	}
	s.MoveTo(x+r, y)
	s.LineTo(x+w-r, y)
	s.QuadTo(x+w, y, x+w, y+r)
	s.LineTo(x+w, y+h-r)
	s.QuadTo(x+w, y+h, x+w-r, y+h)
	s.LineTo(x+r, y+h)
	s.QuadTo(x, y+h, x, y+h-r)
	s.LineTo(x, y+r)
	s.QuadTo(x, y, x+r, y)
	s.ClosePath()
}
