package surface

import (
	"image/color"
	"unicode/utf8"
)

// EstimateTextWidth approximates the rendered width of text: the average
// glyph is about 0.6 of the font size wide.
func EstimateTextWidth(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.6
}

// Point is a position in surface coordinates.
type Point struct {
	X, Y float64
}

// PathCmd is one path segment. Kind is 'M', 'L', 'Q' or 'Z'; Q carries the
// control point followed by the end point.
type PathCmd struct {
	Kind   byte
	Points []Point
}

// Box is an axis-aligned rectangle.
type Box struct {
	X, Y, W, H float64
}

// Intersect returns the overlap of two boxes, with zero size when disjoint.
func (b Box) Intersect(o Box) Box {
	x1, y1 := max(b.X, o.X), max(b.Y, o.Y)
	x2, y2 := min(b.X+b.W, o.X+o.W), min(b.Y+b.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Box{X: x1, Y: y1}
	}
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Op is one recorded paint operation with the state it was drawn under.
// Path points and text positions are absolute: translation is already applied.
type Op struct {
	Kind      string // "fill", "stroke", "text" or "clear"
	Path      []PathCmd
	Text      string
	X, Y      float64
	Align     Align
	Baseline  Baseline
	Fill      color.Color
	Stroke    color.Color
	LineWidth float64
	Alpha     float64
	Dash      []float64
	Font      Font
	Clip      *Box
}

// Points flattens the path into its end points, skipping close commands.
func (o Op) Points() []Point {
	var pts []Point
	for _, c := range o.Path {
		if len(c.Points) > 0 {
			pts = append(pts, c.Points[len(c.Points)-1])
		}
	}
	return pts
}

type recorderState struct {
	tx, ty    float64
	clip      *Box
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	dash      []float64
	alpha     float64
	font      Font
}

// Recorder is a Surface that keeps every paint operation in memory.
type Recorder struct {
	width, height, ratio float64

	state recorderState
	stack []recorderState
	path  []PathCmd
	ops   []Op
}

// NewRecorder returns a configured recorder.
func NewRecorder(width, height float64) *Recorder {
	r := &Recorder{}
	r.Configure(width, height, 1)
	return r
}

// Configure resizes the surface and resets its drawing state.
func (r *Recorder) Configure(width, height, pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	r.width, r.height, r.ratio = width, height, pixelRatio
	r.state = recorderState{fill: color.Black, stroke: color.Black, lineWidth: 1, alpha: 1, font: Font{Size: 12}}
	r.stack = nil
	r.path = nil
}

// Size returns the logical width and height.
func (r *Recorder) Size() (float64, float64) { return r.width, r.height }

// PixelRatio returns the number of physical pixels per logical pixel.
func (r *Recorder) PixelRatio() float64 { return r.ratio }

// Clear records a clear operation.
func (r *Recorder) Clear() {
	r.ops = append(r.ops, Op{Kind: "clear"})
}

// Save pushes the drawing state.
func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state)
}

// Restore pops the drawing state. An unmatched call is ignored.
func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

// Translate moves the origin of later drawing.
func (r *Recorder) Translate(dx, dy float64) {
	r.state.tx += dx
	r.state.ty += dy
}

// ClipRect intersects the clip region with a rectangle.
func (r *Recorder) ClipRect(x, y, w, h float64) {
	b := Box{X: x + r.state.tx, Y: y + r.state.ty, W: w, H: h}
	if r.state.clip != nil {
		b = r.state.clip.Intersect(b)
	}
	r.state.clip = &b
}

// SetFillColor sets the color used by Fill and FillText.
func (r *Recorder) SetFillColor(c color.Color) { r.state.fill = c }

// SetStrokeColor sets the color used by Stroke.
func (r *Recorder) SetStrokeColor(c color.Color) { r.state.stroke = c }

// SetLineWidth sets the stroke width.
func (r *Recorder) SetLineWidth(w float64) { r.state.lineWidth = w }

// SetAlpha sets the opacity applied to later drawing.
func (r *Recorder) SetAlpha(a float64) { r.state.alpha = a }

// SetFont sets the font used to measure and draw text.
func (r *Recorder) SetFont(f Font) { r.state.font = f }

// SetDash sets the stroke dash pattern. No arguments draw solid lines.
func (r *Recorder) SetDash(pattern ...float64) {
	r.state.dash = append([]float64(nil), pattern...)
}

// BeginPath discards the current path.
func (r *Recorder) BeginPath() { r.path = nil }

// MoveTo starts a new subpath at x, y.
func (r *Recorder) MoveTo(x, y float64) {
	r.path = append(r.path, PathCmd{Kind: 'M', Points: []Point{r.abs(x, y)}})
}

// LineTo adds a straight segment to x, y.
func (r *Recorder) LineTo(x, y float64) {
	r.path = append(r.path, PathCmd{Kind: 'L', Points: []Point{r.abs(x, y)}})
}

// QuadTo adds a quadratic curve with control point cx, cy.
func (r *Recorder) QuadTo(cx, cy, x, y float64) {
	r.path = append(r.path, PathCmd{Kind: 'Q', Points: []Point{r.abs(cx, cy), r.abs(x, y)}})
}

// Rect adds a closed rectangular subpath.
func (r *Recorder) Rect(x, y, w, h float64) {
	r.MoveTo(x, y)
	r.LineTo(x+w, y)
	r.LineTo(x+w, y+h)
	r.LineTo(x, y+h)
	r.ClosePath()
}

// ClosePath closes the current subpath.
func (r *Recorder) ClosePath() {
	r.path = append(r.path, PathCmd{Kind: 'Z'})
}

// Fill records the current path as a fill operation.
func (r *Recorder) Fill() { r.paint("fill") }

// Stroke records the current path as a stroke operation.
func (r *Recorder) Stroke() { r.paint("stroke") }

// MeasureText estimates the width of text from the font size.
func (r *Recorder) MeasureText(text string) float64 {
	return EstimateTextWidth(text, r.state.font.Size)
}

// FillText records a text operation anchored at x, y.
func (r *Recorder) FillText(text string, x, y float64, align Align, baseline Baseline) {
	op := r.snapshot("text")
	op.Text = text
	p := r.abs(x, y)
	op.X, op.Y = p.X, p.Y
	op.Align, op.Baseline = align, baseline
	r.ops = append(r.ops, op)
}

// Ops returns every recorded operation.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// OpsOf returns the recorded operations of one kind.
func (r *Recorder) OpsOf(kind string) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the recorded strings in drawing order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.OpsOf("text") {
		out = append(out, op.Text)
	}
	return out
}

// Reset forgets all recorded operations but keeps the configuration.
func (r *Recorder) Reset() {
	r.ops = nil
}

// Depth returns the number of unmatched Save calls.
func (r *Recorder) Depth() int {
	return len(r.stack)
}

func (r *Recorder) abs(x, y float64) Point {
	return Point{X: x + r.state.tx, Y: y + r.state.ty}
}

func (r *Recorder) snapshot(kind string) Op {
	op := Op{
		Kind:      kind,
		Fill:      r.state.fill,
		Stroke:    r.state.stroke,
		LineWidth: r.state.lineWidth,
		Alpha:     r.state.alpha,
		Dash:      r.state.dash,
		Font:      r.state.font,
	}
	if r.state.clip != nil {
		c := *r.state.clip
		op.Clip = &c
	}
	return op
}

func (r *Recorder) paint(kind string) {
	op := r.snapshot(kind)
	op.Path = append([]PathCmd(nil), r.path...)
	r.ops = append(r.ops, op)
}

var _ Surface = (*Recorder)(nil)
