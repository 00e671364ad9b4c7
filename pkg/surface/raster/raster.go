/*
Package raster implements surface.Surface on top of github.com/fogleman/gg.

The gg context is created at physical resolution (logical size times pixel
ratio) with a base scale transform, so all drawing uses logical coordinates.
Text uses the Go fonts; faces are created at the logical size and scaled by
the same transform as every other shape.
*/
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"gantt2img/pkg/surface"
)

type faceKey struct {
	size float64
	bold bool
}

type state struct {
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	dash      []float64
	alpha     float64
	font      surface.Font
}

// Surface draws into an RGBA image.
type Surface struct {
	dc                   *gg.Context
	width, height, ratio float64

	st    state
	stack []state

	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
}

// New returns a surface of width x height logical pixels.
func New(width, height, pixelRatio float64) (*Surface, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("error parsing regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("error parsing bold font: %w", err)
	}

	s := &Surface{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}
	s.Configure(width, height, pixelRatio)
	return s, nil
}

// Configure resizes the surface and resets its drawing state.
func (s *Surface) Configure(width, height, pixelRatio float64) {
	if pixelRatio <= 0 || math.IsNaN(pixelRatio) {
		pixelRatio = 1
	}
	width, height = math.Max(1, width), math.Max(1, height)
	s.width, s.height, s.ratio = width, height, pixelRatio

	s.dc = gg.NewContext(int(math.Ceil(width*pixelRatio)), int(math.Ceil(height*pixelRatio)))
	s.dc.Scale(pixelRatio, pixelRatio)
	s.dc.SetLineCap(gg.LineCapButt)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.st = state{fill: color.Black, stroke: color.Black, lineWidth: 1, alpha: 1, font: surface.Font{Size: 12}}
	s.stack = nil
	s.applyFont()
}

// Size returns the logical width and height.
func (s *Surface) Size() (float64, float64) { return s.width, s.height }

// PixelRatio returns the number of physical pixels per logical pixel.
func (s *Surface) PixelRatio() float64 { return s.ratio }

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	s.dc.Push()
	s.dc.ResetClip()
	s.dc.SetColor(color.Transparent)
	s.dc.Clear()
	s.dc.Pop()
}

// Save pushes the drawing state.
func (s *Surface) Save() {
	s.dc.Push()
	s.stack = append(s.stack, s.st)
}

// Restore pops the drawing state. An unmatched call is ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.dc.Pop()
	s.st = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.applyFont()
}

// Translate moves the origin of later drawing.
func (s *Surface) Translate(dx, dy float64) {
	s.dc.Translate(dx, dy)
}

// ClipRect intersects the clip region with a rectangle.
func (s *Surface) ClipRect(x, y, w, h float64) {
	s.dc.ClearPath()
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Clip()
}

// SetFillColor sets the color used by Fill and FillText.
func (s *Surface) SetFillColor(c color.Color) { s.st.fill = c }

// SetStrokeColor sets the color used by Stroke.
func (s *Surface) SetStrokeColor(c color.Color) { s.st.stroke = c }

// SetAlpha sets the opacity applied to later drawing.
func (s *Surface) SetAlpha(a float64) { s.st.alpha = math.Max(0, math.Min(1, a)) }

// SetLineWidth sets the stroke width.
func (s *Surface) SetLineWidth(w float64) {
	s.st.lineWidth = w
	s.dc.SetLineWidth(w)
}

// SetDash sets the stroke dash pattern. No arguments draw solid lines.
func (s *Surface) SetDash(pattern ...float64) {
	s.st.dash = append([]float64(nil), pattern...)
	s.dc.SetDash(pattern...)
}

// SetFont sets the font used to measure and draw text.
func (s *Surface) SetFont(f surface.Font) {
	s.st.font = f
	s.applyFont()
}

// BeginPath discards the current path.
func (s *Surface) BeginPath() { s.dc.ClearPath() }

// MoveTo starts a new subpath at x, y.
func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }

// LineTo adds a straight segment to x, y.
func (s *Surface) LineTo(x, y float64) { s.dc.LineTo(x, y) }

// QuadTo adds a quadratic curve with control point cx, cy.
func (s *Surface) QuadTo(cx, cy, x, y float64) { s.dc.QuadraticTo(cx, cy, x, y) }

// ClosePath closes the current subpath.
func (s *Surface) ClosePath() { s.dc.ClosePath() }

// Rect adds a closed rectangular subpath.
func (s *Surface) Rect(x, y, w, h float64) {
	s.dc.NewSubPath()
	s.dc.DrawRectangle(x, y, w, h)
}

// Fill paints the current path with the fill color.
func (s *Surface) Fill() {
	s.dc.SetColor(withAlpha(s.st.fill, s.st.alpha))
	s.dc.Fill()
}

// Stroke outlines the current path with the stroke color.
func (s *Surface) Stroke() {
	s.dc.SetColor(withAlpha(s.st.stroke, s.st.alpha))
	s.dc.Stroke()
}

// MeasureText returns the advance width of text in the current font.
func (s *Surface) MeasureText(text string) float64 {
	w, _ := s.dc.MeasureString(text)
	return w
}

// FillText draws text anchored at x, y.
func (s *Surface) FillText(text string, x, y float64, align surface.Align, baseline surface.Baseline) {
	ax := 0.0
	switch align {
	case surface.AlignCenter:
		ax = 0.5
	case surface.AlignRight:
		ax = 1
	}
	ay := 0.5
	switch baseline {
	case surface.BaselineTop:
		ay = 1
	case surface.BaselineBottom:
		ay = 0
	}
	s.dc.SetColor(withAlpha(s.st.fill, s.st.alpha))
	s.dc.DrawStringAnchored(text, x, y, ax, ay)
}

// Image returns the physical-resolution image.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// EncodePNG writes the image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// SavePNG writes the image to a PNG file.
func (s *Surface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("error writing PNG file: %w", err)
	}
	return nil
}

func (s *Surface) applyFont() {
	size := s.st.font.Size
	if size <= 0 {
		size = 12
	}
	key := faceKey{size: size, bold: s.st.font.Bold}
	face, ok := s.faces[key]
	if !ok {
		f := s.regular
		if key.bold {
			f = s.bold
		}
		face = truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		s.faces[key] = face
	}
	s.dc.SetFontFace(face)
}

func withAlpha(c color.Color, alpha float64) color.Color {
	if c == nil {
		return color.Transparent
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * alpha))
	return n
}

var _ surface.Surface = (*Surface)(nil)

// Stack draws layers top to bottom into one image at physical resolution.
func Stack(layers ...*Surface) image.Image {
	w, h := 1, 0
	for _, l := range layers {
		b := l.dc.Image().Bounds()
		w = max(w, b.Dx())
		h += b.Dy()
	}
	dc := gg.NewContext(w, max(h, 1))
	y := 0
	for _, l := range layers {
		img := l.dc.Image()
		dc.DrawImage(img, 0, y)
		y += img.Bounds().Dy()
	}
	return dc.Image()
}

// WritePNG writes img to a PNG file.
func WritePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("error writing PNG file: %w", err)
	}
	return nil
}
