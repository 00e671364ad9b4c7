package paint

import (
	"image/color"
	"math"

	"gantt2img/pkg/axis"
	"gantt2img/pkg/store"
	"gantt2img/pkg/surface"
)

// Viewport is the visible part of the content layer in content coordinates:
// rows from ScrollTop to ScrollTop+Height, time from x=0 to x=Width.
type Viewport struct {
	Width     float64
	Height    float64
	ScrollTop float64
}

func (v Viewport) bottom() float64 { return v.ScrollTop + v.Height }

// PaintGrid fills the background and draws the vertical time lines, minor
// first so majors sit on top.
func PaintGrid(s surface.Surface, g axis.Grid, st Style, v Viewport) {
	s.Save()
	defer s.Restore()

	s.SetAlpha(1)
	s.SetDash()
	s.SetFillColor(st.Background)
	surface.FillRect(s, 0, v.ScrollTop, v.Width, v.Height)

	verticals(s, g.Minor, v.Width, v.ScrollTop, v.bottom(), st.GridMinorColor, st.GridMinorWidth)
	verticals(s, g.Major, v.Width, v.ScrollTop, v.bottom(), st.GridMajorColor, st.GridMajorWidth)
}

// verticals batches every on-screen line of one kind into a single stroke.
func verticals(s surface.Surface, lines []axis.Line, width, top, bottom float64, c color.Color, lw float64) {
	if len(lines) == 0 || lw <= 0 {
		return
	}
	s.SetStrokeColor(c)
	s.SetLineWidth(lw)
	s.BeginPath()
	drawn := false
	for _, l := range lines {
		if l.X < 0 || l.X > width || math.IsNaN(l.X) {
			continue
		}
		x := crisp(l.X)
		s.MoveTo(x, top)
		s.LineTo(x, bottom)
		drawn = true
	}
	if drawn {
		s.Stroke()
	}
}

// PaintRows draws the horizontal separators below each row of the range.
func PaintRows(s surface.Surface, rows store.RowRange, st Style, v Viewport) {
	if st.RowLineWidth <= 0 || rows.Last < rows.First {
		return
	}
	s.Save()
	defer s.Restore()

	s.SetStrokeColor(st.RowLine)
	s.SetLineWidth(st.RowLineWidth)
	s.SetDash()
	s.BeginPath()
	for r := max(rows.First, 0); r <= rows.Last+1; r++ {
		y := crisp(float64(r) * st.RowHeight)
		s.MoveTo(0, y)
		s.LineTo(v.Width, y)
	}
	s.Stroke()
}

// PaintMarker draws a full-height vertical marker at x, skipping positions off screen.
func PaintMarker(s surface.Surface, x float64, c color.Color, width float64, v Viewport) bool {
	if x = finite(x, -1); x < 0 || x > v.Width {
		return false
	}
	s.Save()
	defer s.Restore()

	s.SetStrokeColor(c)
	s.SetLineWidth(width)
	s.SetDash()
	surface.StrokeLine(s, x, v.ScrollTop, x, v.bottom())
	return true
}

// PaintSelectedRow tints the row of the selected element.
func PaintSelectedRow(s surface.Surface, row int, st Style, v Viewport) {
	if row < 0 {
		return
	}
	s.Save()
	defer s.Restore()

	s.SetFillColor(st.SelectedRow)
	s.SetAlpha(st.SelectedAlpha)
	surface.FillRect(s, 0, float64(row)*st.RowHeight, v.Width, st.RowHeight)
}

// PaintAxis draws the header: background, ticks, labels and the bottom border.
// The surface is expected to be the header layer, width x st.Header.Height.
func PaintAxis(s surface.Surface, g axis.Grid, st Style, width float64) {
	h := st.Header
	s.Save()
	defer s.Restore()

	s.SetAlpha(1)
	s.SetDash()
	s.SetFillColor(h.Background)
	surface.FillRect(s, 0, 0, width, h.Height)

	ticks(s, g.Minor, width, h.Height, h.MinorTick, h.MinorColor, h.MinorWidth)
	ticks(s, g.Major, width, h.Height, h.MajorTick, h.MajorColor, h.MajorWidth)

	primary := surface.Font{Size: st.FontSize, Bold: true}
	secondary := surface.Font{Size: math.Max(1, st.FontSize-1)}
	for _, l := range g.Major {
		if !l.ShowLabel || l.X < 0 || l.X > width {
			continue
		}
		if l.Primary != "" {
			s.SetFont(primary)
			s.SetFillColor(h.PrimaryLabel)
			s.FillText(l.Primary, l.X, h.Height*0.25, surface.AlignCenter, surface.BaselineMiddle)
		}
		if l.Secondary != "" {
			s.SetFont(secondary)
			s.SetFillColor(h.SecondaryLabel)
			s.FillText(l.Secondary, l.X, h.Height*0.7, surface.AlignCenter, surface.BaselineMiddle)
		}
	}

	s.SetStrokeColor(h.BorderColor)
	s.SetLineWidth(1)
	y := crisp(h.Height - 1)
	surface.StrokeLine(s, 0, y, width, y)
}

// ticks draws header lines from the bottom edge up by size, or full height when size is 0.
func ticks(s surface.Surface, lines []axis.Line, width, height, size float64, c color.Color, lw float64) {
	top := 0.0
	if size > 0 {
		top = height - size
	}
	verticals(s, lines, width, top, height, c, lw)
}
