/*
Package surface defines the canvas-style drawing target used by the painters.

Coordinates are logical pixels. Implementations map them to physical pixels
using the pixel ratio passed to Configure, so painters never see the device
density. The raster and svg subpackages provide PNG and SVG backends;
Recorder captures calls for inspection.
*/
package surface

import "image/color"

// Align is the horizontal text anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Baseline is the vertical text anchor.
type Baseline int

const (
	BaselineMiddle Baseline = iota
	BaselineTop
	BaselineBottom
)

// Font selects a face by logical size. Size is independent of the pixel ratio.
type Font struct {
	Size float64
	Bold bool
}

// Surface is a stateful 2D drawing context.
//
// Save and Restore push and pop the full drawing state: translation, clip,
// colors, line width, dash, alpha and font. Path construction follows the
// canvas model: BeginPath starts a new path, Fill and Stroke paint it.
type Surface interface {
	// Configure resizes the surface to width x height logical pixels backed by
	// width*ratio x height*ratio physical pixels, and resets all state.
	Configure(width, height, pixelRatio float64)
	Size() (width, height float64)
	PixelRatio() float64
	Clear()

	Save()
	Restore()
	Translate(dx, dy float64)
	ClipRect(x, y, w, h float64)

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	SetDash(pattern ...float64)
	SetAlpha(a float64)
	SetFont(f Font)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	Rect(x, y, w, h float64)
	ClosePath()
	Fill()
	Stroke()

	MeasureText(text string) float64
	FillText(text string, x, y float64, align Align, baseline Baseline)
}

// FillRect fills a rectangle as a single path.
func FillRect(s Surface, x, y, w, h float64) {
	s.BeginPath()
	s.Rect(x, y, w, h)
	s.Fill()
}

// StrokeLine strokes a single segment.
func StrokeLine(s Surface, x1, y1, x2, y2 float64) {
	s.BeginPath()
	s.MoveTo(x1, y1)
	s.LineTo(x2, y2)
	s.Stroke()
}
