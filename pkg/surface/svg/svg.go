/*
Package svg implements surface.Surface by writing an SVG document.

Every Fill, Stroke and FillText call appends one element to an in-memory
builder. Translation is folded into coordinates, and rectangular clips become
clipPath definitions referenced by the elements drawn under them. Text widths
are estimated, since no font metrics are available without a renderer.
*/
package svg

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"gantt2img/pkg/surface"
)

// FontFamily is written on every text element.
const FontFamily = "Arial, sans-serif"

type state struct {
	tx, ty    float64
	clip      *surface.Box
	clipID    string
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	dash      []float64
	alpha     float64
	font      surface.Font
}

// Surface accumulates SVG elements.
type Surface struct {
	width, height, ratio float64

	st    state
	stack []state
	path  strings.Builder
	body  strings.Builder
	defs  strings.Builder
	clips int

	idPrefix string
}

// New returns a configured SVG surface.
func New(width, height, pixelRatio float64) *Surface {
	s := &Surface{}
	s.Configure(width, height, pixelRatio)
	return s
}

// Configure resizes the surface and resets its drawing state.
func (s *Surface) Configure(width, height, pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	s.width, s.height, s.ratio = width, height, pixelRatio
	s.st = state{fill: color.Black, stroke: color.Black, lineWidth: 1, alpha: 1, font: surface.Font{Size: 12}}
	s.stack = nil
	s.path.Reset()
	s.body.Reset()
	s.defs.Reset()
	s.clips = 0
}

// SetIDPrefix prefixes generated clip path ids, so that several surfaces can
// be merged into one document.
func (s *Surface) SetIDPrefix(prefix string) { s.idPrefix = prefix }

// Size returns the logical width and height.
func (s *Surface) Size() (float64, float64) { return s.width, s.height }

// PixelRatio returns the number of physical pixels per logical pixel.
func (s *Surface) PixelRatio() float64 { return s.ratio }

// Clear drops everything drawn so far.
func (s *Surface) Clear() {
	s.body.Reset()
	s.defs.Reset()
	s.clips = 0
}

// Save pushes the drawing state.
func (s *Surface) Save() { s.stack = append(s.stack, s.st) }

// Restore pops the drawing state. An unmatched call is ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.st = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Translate moves the origin of later drawing.
func (s *Surface) Translate(dx, dy float64) {
	s.st.tx += dx
	s.st.ty += dy
}

// ClipRect intersects the clip region with a rectangle.
func (s *Surface) ClipRect(x, y, w, h float64) {
	b := surface.Box{X: x + s.st.tx, Y: y + s.st.ty, W: w, H: h}
	if s.st.clip != nil {
		b = s.st.clip.Intersect(b)
	}
	s.clips++
	id := s.idPrefix + "clip" + strconv.Itoa(s.clips)
	fmt.Fprintf(&s.defs, `<clipPath id="%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
		id, num(b.X), num(b.Y), num(b.W), num(b.H))
	s.st.clip = &b
	s.st.clipID = id
}

// SetFillColor sets the color used by Fill and FillText.
func (s *Surface) SetFillColor(c color.Color) { s.st.fill = c }

// SetStrokeColor sets the color used by Stroke.
func (s *Surface) SetStrokeColor(c color.Color) { s.st.stroke = c }

// SetLineWidth sets the stroke width.
func (s *Surface) SetLineWidth(w float64) { s.st.lineWidth = w }

// SetAlpha sets the opacity applied to later drawing.
func (s *Surface) SetAlpha(a float64) { s.st.alpha = a }

// SetFont sets the font used to measure and draw text.
func (s *Surface) SetFont(f surface.Font) { s.st.font = f }

// SetDash sets the stroke dash pattern. No arguments draw solid lines.
func (s *Surface) SetDash(pattern ...float64) {
	s.st.dash = append([]float64(nil), pattern...)
}

// BeginPath discards the current path.
func (s *Surface) BeginPath() { s.path.Reset() }

// MoveTo starts a new subpath at x, y.
func (s *Surface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%s %s ", num(x+s.st.tx), num(y+s.st.ty))
}

// LineTo adds a straight segment to x, y.
func (s *Surface) LineTo(x, y float64) {
	fmt.Fprintf(&s.path, "L%s %s ", num(x+s.st.tx), num(y+s.st.ty))
}

// QuadTo adds a quadratic curve with control point cx, cy.
func (s *Surface) QuadTo(cx, cy, x, y float64) {
	fmt.Fprintf(&s.path, "Q%s %s %s %s ", num(cx+s.st.tx), num(cy+s.st.ty), num(x+s.st.tx), num(y+s.st.ty))
}

// Rect adds a closed rectangular subpath.
func (s *Surface) Rect(x, y, w, h float64) {
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.ClosePath()
}

// ClosePath closes the current subpath.
func (s *Surface) ClosePath() { s.path.WriteString("Z ") }

// Fill paints the current path with the fill color.
func (s *Surface) Fill() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	fill, opacity := paint(s.st.fill, s.st.alpha)
	fmt.Fprintf(&s.body, `<path d="%s" fill="%s"%s%s/>`+"\n", d, fill, opacityAttr("fill-opacity", opacity), s.clipAttr())
}

// Stroke outlines the current path with the stroke color.
func (s *Surface) Stroke() {
	d := strings.TrimSpace(s.path.String())
	if d == "" {
		return
	}
	stroke, opacity := paint(s.st.stroke, s.st.alpha)
	dash := ""
	if len(s.st.dash) > 0 {
		parts := make([]string, len(s.st.dash))
		for i, v := range s.st.dash {
			parts[i] = num(v)
		}
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	fmt.Fprintf(&s.body, `<path d="%s" fill="none" stroke="%s" stroke-width="%s"%s%s%s/>`+"\n",
		d, stroke, num(s.st.lineWidth), dash, opacityAttr("stroke-opacity", opacity), s.clipAttr())
}

// MeasureText estimates the width of text from the font size.
func (s *Surface) MeasureText(text string) float64 {
	return surface.EstimateTextWidth(text, s.st.font.Size)
}

// FillText draws text anchored at x, y.
func (s *Surface) FillText(text string, x, y float64, align surface.Align, baseline surface.Baseline) {
	anchor := "start"
	switch align {
	case surface.AlignCenter:
		anchor = "middle"
	case surface.AlignRight:
		anchor = "end"
	}
	base := "central"
	switch baseline {
	case surface.BaselineTop:
		base = "hanging"
	case surface.BaselineBottom:
		base = "text-after-edge"
	}
	weight := ""
	if s.st.font.Bold {
		weight = ` font-weight="bold"`
	}
	fill, opacity := paint(s.st.fill, s.st.alpha)
	fmt.Fprintf(&s.body, `<text x="%s" y="%s" font-family="%s" font-size="%s"%s text-anchor="%s" dominant-baseline="%s" fill="%s"%s%s>%s</text>`+"\n",
		num(x+s.st.tx), num(y+s.st.ty), FontFamily, num(s.st.font.Size), weight, anchor, base, fill,
		opacityAttr("fill-opacity", opacity), s.clipAttr(), escapeXML(text))
}

// Bytes returns the complete SVG document.
func (s *Surface) Bytes() []byte {
	var doc strings.Builder
	fmt.Fprintf(&doc, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
`, num(s.width*s.ratio), num(s.height*s.ratio), num(s.width), num(s.height))
	if s.defs.Len() > 0 {
		doc.WriteString("<defs>\n")
		doc.WriteString(s.defs.String())
		doc.WriteString("</defs>\n")
	}
	doc.WriteString(s.body.String())
	doc.WriteString("</svg>\n")
	return []byte(doc.String())
}

// Fragment returns the drawn elements without the document wrapper or definitions.
func (s *Surface) Fragment() string {
	return s.body.String()
}

// Defs returns the clip path definitions collected so far.
func (s *Surface) Defs() string {
	return s.defs.String()
}

// WriteTo writes the document to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

func (s *Surface) clipAttr() string {
	if s.st.clip == nil {
		return ""
	}
	return fmt.Sprintf(` clip-path="url(#%s)"`, s.st.clipID)
}

// paint converts a color plus the global alpha into an SVG color and opacity.
func paint(c color.Color, alpha float64) (string, float64) {
	if c == nil {
		return "none", 1
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	opacity := float64(n.A) / 255 * alpha
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), opacity
}

func opacityAttr(name string, v float64) string {
	if v >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, name, num(v))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(float64(int64(v*100+sign(v)*0.5))/100, 'f', -1, 64)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// escapeXML escapes the XML special characters so labels cannot break the document.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

var _ surface.Surface = (*Surface)(nil)

// Stack writes one document with layers placed top to bottom. Layers that
// use clip paths need distinct id prefixes.
func Stack(w io.Writer, layers ...*Surface) error {
	var width, height, ratio float64
	for _, l := range layers {
		width = max(width, l.width)
		height += l.height
		ratio = max(ratio, l.ratio)
	}
	ratio = max(ratio, 1)

	var doc strings.Builder
	fmt.Fprintf(&doc, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
`, num(width*ratio), num(height*ratio), num(width), num(height))
	doc.WriteString("<defs>\n")
	for _, l := range layers {
		doc.WriteString(l.defs.String())
	}
	doc.WriteString("</defs>\n")

	y := 0.0
	for _, l := range layers {
		fmt.Fprintf(&doc, "<g transform=\"translate(0 %s)\">\n", num(y))
		doc.WriteString(l.body.String())
		doc.WriteString("</g>\n")
		y += l.height
	}
	doc.WriteString("</svg>\n")

	if _, err := io.WriteString(w, doc.String()); err != nil {
		return fmt.Errorf("error writing SVG: %w", err)
	}
	return nil
}
