package store

import (
	"math"

	"gantt2img/pkg/matrix"
	"gantt2img/pkg/model"
)

// Geometry holds the row and marker sizes needed to resolve screen positions.
type Geometry struct {
	RowHeight       float64
	MinElementWidth float64
	MilestoneSize   float64
}

// DefaultGeometry matches the painters' default style.
var DefaultGeometry = Geometry{RowHeight: 30, MinElementWidth: 5, MilestoneSize: 14}

// Rect is an axis-aligned rectangle in content coordinates.
type Rect struct {
	X, Y, W, H float64
}

// ViewportQuery describes the visible window in screen terms.
type ViewportQuery struct {
	Matrix   matrix.Matrix
	Width    float64 // viewport width in pixels
	Rows     RowRange
	Geometry Geometry
	Buffer   *Buffer // nil selects DefaultTimeBuffer and DefaultRowBuffer
	Kinds    []model.Kind
}

// VisibleElement is an element resolved to screen coordinates.
type VisibleElement struct {
	Element    model.Element
	Row        int
	X1, X2     float64 // X2 == X1 for point milestones
	Y          float64 // top of the row
	Width      float64 // at least 1
	Visibility Visibility
	Fallback   bool // drawn at the fixed fallback position
	Clipped    Rect // part of the element box inside the viewport
	// StartFraction and EndFraction locate the visible part within the element, 0..1.
	StartFraction float64
	EndFraction   float64
}

// Unclipped reports whether the whole element box lies inside the viewport,
// so painters can skip clipping it.
func (v VisibleElement) Unclipped() bool {
	return v.Visibility == Full && v.StartFraction <= 0 && v.EndFraction >= 1-1e-9
}

// FallbackSpan returns the fixed screen span used for elements without valid timestamps.
func FallbackSpan(width float64) (x1, x2 float64) {
	return width * 0.15, width * 0.35
}

// Visible resolves the elements of the viewport to screen coordinates.
func (s *Store) Visible(q ViewportQuery) []VisibleElement {
	buf := Buffer{TimeFraction: DefaultTimeBuffer, Rows: DefaultRowBuffer}
	if q.Buffer != nil {
		buf = *q.Buffer
	}
	g := q.Geometry
	if g.RowHeight <= 0 {
		g = DefaultGeometry
	}

	start, end := q.Matrix.VisibleRange(q.Width)
	window := TimeRange{Start: start, End: end}
	rows := q.Rows
	matches := s.ElementsForWindow(Query{Time: &window, Rows: &rows, Kinds: q.Kinds, Buffer: buf})

	out := make([]VisibleElement, 0, len(matches))
	for _, m := range matches {
		out = append(out, resolve(m, q.Matrix, q.Width, g))
	}
	return out
}

// Grouped batches visible elements by shape.
type Grouped struct {
	Tasks      []VisibleElement
	Milestones []VisibleElement
	Groups     []VisibleElement
}

// VisibleGrouped is Visible split by element kind.
func (s *Store) VisibleGrouped(q ViewportQuery) Grouped {
	var g Grouped
	for _, v := range s.Visible(q) {
		switch v.Element.Kind {
		case model.KindMilestone:
			g.Milestones = append(g.Milestones, v)
		case model.KindGroup:
			g.Groups = append(g.Groups, v)
		default:
			g.Tasks = append(g.Tasks, v)
		}
	}
	return g
}

func resolve(m Match, mx matrix.Matrix, width float64, g Geometry) VisibleElement {
	e := m.Element
	v := VisibleElement{
		Element:    e,
		Row:        m.Row,
		Y:          float64(m.Row) * g.RowHeight,
		Visibility: m.Visibility,
	}

	if !e.HasValidTimes() {
		v.Fallback = true
		v.X1, v.X2 = FallbackSpan(width)
		v.Visibility = Full
	} else {
		v.X1 = mx.ToPixel(float64(e.Start))
		v.X2 = mx.ToPixel(float64(e.EndOrStart()))
	}
	v.Width = math.Max(1, v.X2-v.X1)

	box := Rect{X: v.X1, Y: v.Y, W: math.Max(v.Width, g.MinElementWidth), H: g.RowHeight}
	if e.Kind == model.KindMilestone && !e.IsRangeMilestone() {
		box.X -= g.MilestoneSize / 2
		box.W = g.MilestoneSize
	}
	left := math.Max(0, box.X)
	right := math.Min(width, box.X+box.W)
	if right > left {
		v.Clipped = Rect{X: left, Y: box.Y, W: right - left, H: box.H}
		v.StartFraction = (left - box.X) / box.W
		v.EndFraction = (right - box.X) / box.W
	}
	return v
}

// Resolve places one element on its row under mx regardless of the window.
func Resolve(e model.Element, row int, mx matrix.Matrix, width float64, g Geometry) VisibleElement {
	if g.RowHeight <= 0 {
		g = DefaultGeometry
	}
	return resolve(Match{Element: e, Row: row, Visibility: Full, VisibleFraction: 1}, mx, width, g)
}

// Bounds returns the hit-test box of an element on its row.
func Bounds(e model.Element, row int, mx matrix.Matrix, width float64, g Geometry) Rect {
	v := resolve(Match{Element: e, Row: row}, mx, width, g)
	x := v.X1
	w := math.Max(v.Width, g.MinElementWidth)
	if e.Kind == model.KindMilestone {
		if e.IsRangeMilestone() {
			x -= MilestoneHitSlack
			w += 2 * MilestoneHitSlack
		} else {
			x = v.X1 - g.MilestoneSize/2 - MilestoneHitSlack
			w = g.MilestoneSize + 2*MilestoneHitSlack
		}
	}
	return Rect{X: x, Y: v.Y, W: w, H: g.RowHeight}
}

// FindAt returns the element under a content-space point.
func (s *Store) FindAt(x, y float64, mx matrix.Matrix, width float64, g Geometry) (model.Element, int, bool) {
	if g.RowHeight <= 0 {
		g = DefaultGeometry
	}
	if y < 0 {
		return model.Element{}, -1, false
	}
	row := int(y / g.RowHeight)
	e, ok := s.Element(row)
	if !ok {
		return model.Element{}, -1, false
	}
	b := Bounds(e, row, mx, width, g)
	if x < b.X || x > b.X+b.W {
		return model.Element{}, -1, false
	}
	return e, row, true
}
