/*
Package matrix implements the affine map between timestamps and pixel positions:

	x = (t - BaseTime) * Scale + Translate

Scale is in pixels per millisecond. BaseTime keeps the subtraction close to the
visible window, so large epoch values never lose precision against small
pixel offsets.
*/
package matrix

import "math"

// MinScale is the smallest scale a Matrix will hold; smaller or invalid values
// are raised to it so that ToTime never divides by zero.
const MinScale = 1e-15

// Matrix is the scale/translate/base-time triple.
type Matrix struct {
	Scale     float64 // pixels per millisecond
	Translate float64 // pixel position of BaseTime
	BaseTime  float64 // milliseconds since epoch
}

// New builds a matrix with a guarded scale.
func New(scale, translate, baseTime float64) Matrix {
	return Matrix{Scale: safeScale(scale), Translate: finite(translate), BaseTime: finite(baseTime)}
}

// Centered builds a matrix that places baseTime in the middle of a viewport of the given width.
func Centered(baseTime, scale, width float64) Matrix {
	return New(scale, width/2, baseTime)
}

// ToPixel maps a timestamp to a screen X coordinate.
func (m Matrix) ToPixel(t float64) float64 {
	return (t-m.BaseTime)*m.scale() + m.Translate
}

// ToTime maps a screen X coordinate back to a timestamp.
func (m Matrix) ToTime(x float64) float64 {
	return (x-m.Translate)/m.scale() + m.BaseTime
}

// ZoomAround returns a matrix with newScale in which fixedTime keeps its pixel position.
// The base time moves to fixedTime, so the preserved position is exact rather than
// the result of cancelling two large products.
func (m Matrix) ZoomAround(newScale, fixedTime float64) Matrix {
	if math.IsNaN(fixedTime) || math.IsInf(fixedTime, 0) {
		fixedTime = m.BaseTime
	}
	return Matrix{
		Scale:     safeScale(newScale),
		Translate: m.ToPixel(fixedTime),
		BaseTime:  fixedTime,
	}
}

// ZoomAroundPixel is ZoomAround for a screen-space focal point.
func (m Matrix) ZoomAroundPixel(newScale, x float64) Matrix {
	return m.ZoomAround(newScale, m.ToTime(x))
}

// Pan shifts the matrix by dx pixels in place. Positive dx moves content right.
func (m *Matrix) Pan(dx float64) {
	m.Translate += finite(dx)
}

// Clone returns a copy for use as a consistent snapshot during a render pass.
func (m Matrix) Clone() Matrix {
	return m
}

// VisibleRange returns the time interval covered by a viewport of the given width.
func (m Matrix) VisibleRange(width float64) (start, end float64) {
	return m.ToTime(0), m.ToTime(width)
}

// Rebase moves BaseTime to t without changing the mapping.
func (m Matrix) Rebase(t float64) Matrix {
	return Matrix{Scale: m.scale(), Translate: m.ToPixel(t), BaseTime: t}
}

// Equal reports whether both matrices describe the same mapping parameters.
func (m Matrix) Equal(o Matrix) bool {
	return m.Scale == o.Scale && m.Translate == o.Translate && m.BaseTime == o.BaseTime
}

func (m Matrix) scale() float64 {
	return safeScale(m.Scale)
}

func safeScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s < MinScale {
		return MinScale
	}
	return s
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
