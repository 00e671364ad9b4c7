package paint

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"gantt2img/pkg/matrix"
	"gantt2img/pkg/model"
	"gantt2img/pkg/store"
	"gantt2img/pkg/surface"
)

// State selects the emphasis an element is drawn with.
type State int

const (
	StateNormal State = iota
	// StateEmphasized darkens the element, used for hover.
	StateEmphasized
	// StateGhost draws the element translucently.
	StateGhost
)

const (
	taskLabelMinWidth       = 20.0
	groupLabelMinWidth      = 30.0
	subProcessLabelMinWidth = 50.0
	milestoneLabelMaxWidth  = 200.0
	groupArm                = 5.0
	triangleSize            = 8.0
	hatchSpacing            = 6.0
	hatchAlpha              = 0.15
	bracketSize             = 6.0
	ghostOutlineAlpha       = 0.45
	labelBackgroundAlpha    = 0.65
	collapsedAlpha          = 0.35
)

// Label composes the display text: name, instance tag and loop marker.
func Label(e model.Element, st Style) string {
	label := e.Name
	if st.ShowInstanceTags && e.InstanceNumber > 0 && e.TotalInstances > 1 {
		label += fmt.Sprintf(" #%d", e.InstanceNumber)
	}
	if st.ShowLoopIcons {
		switch {
		case e.IsLoopCut:
			label += " ✕"
		case e.IsLoop:
			label += " ↻"
		}
	}
	return label
}

// PaintElement draws a resolved element according to its kind.
func PaintElement(s surface.Surface, v store.VisibleElement, m matrix.Matrix, viewWidth float64, st Style, state State) {
	switch v.Element.Kind {
	case model.KindMilestone:
		PaintMilestone(s, v, m, viewWidth, st, state)
	case model.KindGroup:
		PaintGroup(s, v, viewWidth, st, state)
	default:
		PaintTask(s, v, m, viewWidth, st, state)
	}
}

func fillColor(e model.Element, fallback colorful.Color, st Style, state State) colorful.Color {
	c := ParseColor(e.Color, fallback)
	if state == StateEmphasized {
		c = Darken(c, st.HoverDarken)
	}
	return c
}

func stateAlpha(st Style, state State) float64 {
	if state == StateGhost {
		return st.GhostAlpha
	}
	return 1
}

// taskBar returns the vertical extent of task bars on a row.
func taskBar(row int, st Style) (y, h float64) {
	h = st.TaskBarHeight
	if h <= 0 || h > st.RowHeight {
		h = st.RowHeight - 2*TaskPadding
	}
	return float64(row)*st.RowHeight + (st.RowHeight-h)/2, h
}

// PaintTask draws a rounded duration bar, its label, and its ghost
// occurrences. Bars that cross the viewport edge are clipped to their
// on-screen part.
func PaintTask(s surface.Surface, v store.VisibleElement, m matrix.Matrix, viewWidth float64, st Style, state State) {
	e := v.Element
	x := v.X1
	width := math.Max(v.X2-v.X1, st.MinElementWidth)
	y, h := taskBar(v.Row, st)
	c := fillColor(e, st.TaskColor, st, state)

	s.Save()
	defer s.Restore()

	if x+width >= 0 && x <= viewWidth {
		s.Save()
		if !v.Unclipped() {
			left := math.Max(0, x)
			s.ClipRect(left, y, math.Min(x+width, viewWidth)-left, h)
		}
		s.SetAlpha(stateAlpha(st, state))
		s.SetFillColor(c)
		roundedRect(s, math.Floor(x), math.Floor(y), math.Ceil(width), math.Ceil(h), st.TaskRadius)
		s.Fill()
		s.Restore()
	}

	hasText := width > taskLabelMinWidth && e.Name != ""
	if hasText {
		s.SetFont(surface.Font{Size: st.FontSize})
		s.SetFillColor(st.TaskLabel)
		s.SetAlpha(stateAlpha(st, state))
		text := Ellipsize(s, Label(e, st), width-2*TaskPadding)
		if text != "" {
			s.FillText(text, x+TaskPadding, y+h/2, surface.AlignLeft, surface.BaselineMiddle)
		}
	}

	if v.Fallback || len(e.Ghosts) == 0 {
		return
	}
	textStart, textEnd := x+TaskPadding, x+width-TaskPadding
	for _, g := range e.Ghosts {
		gx := m.ToPixel(float64(g.Start))
		gEnd := gx
		if model.ValidTimestamp(g.End) {
			gEnd = m.ToPixel(float64(g.End))
		}
		gw := math.Max(gEnd-gx, st.MinElementWidth)
		if gx+gw < 0 || gx > viewWidth {
			continue
		}
		s.SetAlpha(st.GhostAlpha)
		s.SetFillColor(c)
		if hasText && gx < textEnd && gx+gw > textStart {
			// keep the main label readable
			if gx < textStart {
				surface.FillRect(s, math.Floor(gx), math.Floor(y), math.Ceil(math.Min(textStart-gx, gw)), math.Ceil(h))
			}
			if gx+gw > textEnd {
				rs := math.Max(textEnd, gx)
				surface.FillRect(s, math.Floor(rs), math.Floor(y), math.Ceil(gx+gw-rs), math.Ceil(h))
			}
		} else {
			surface.FillRect(s, math.Floor(gx), math.Floor(y), math.Ceil(gw), math.Ceil(h))
		}

		s.SetAlpha(ghostOutlineAlpha)
		s.SetStrokeColor(colorful.Color{})
		s.SetLineWidth(1)
		s.BeginPath()
		s.MoveTo(math.Floor(gx), math.Floor(y))
		s.LineTo(math.Floor(gx), math.Floor(y)+math.Ceil(h))
		s.MoveTo(math.Floor(gx)+math.Ceil(gw), math.Floor(y))
		s.LineTo(math.Floor(gx)+math.Ceil(gw), math.Floor(y)+math.Ceil(h))
		s.Stroke()
	}
}

// MilestoneX returns the diamond position: the start for point milestones,
// the midpoint for ranges.
func MilestoneX(v store.VisibleElement) float64 {
	if v.Element.IsRangeMilestone() && !v.Fallback {
		return (v.X1 + v.X2) / 2
	}
	return v.X1
}

// PaintMilestone draws the diamond, the optional range band, the label on a
// translucent background, and ghost diamonds.
func PaintMilestone(s surface.Surface, v store.VisibleElement, m matrix.Matrix, viewWidth float64, st Style, state State) {
	e := v.Element
	size := st.MilestoneSize
	cy := float64(v.Row)*st.RowHeight + st.RowHeight/2
	base := ParseColor(e.Color, st.MilestoneColor)
	c := fillColor(e, st.MilestoneColor, st, state)
	mx := MilestoneX(v)

	s.Save()
	defer s.Restore()
	s.SetAlpha(stateAlpha(st, state))

	if e.IsRangeMilestone() && !v.Fallback && v.X2-v.X1 > size*1.5 {
		rangeRect(s, v.X1, v.X2, cy, st.RowHeight-8, viewWidth, base, c, stateAlpha(st, state))
	}

	if mx >= -size && mx <= viewWidth+size {
		s.SetFillColor(c)
		diamond(s, mx, cy, size)
		s.Fill()
	}

	if e.Name != "" {
		labelWithBackground(s, Label(e, st), mx+size/2+4, cy, milestoneLabelMaxWidth, st.Text, surface.Font{Size: st.FontSize}, surface.AlignLeft, surface.BaselineMiddle)
	}

	if v.Fallback {
		return
	}
	s.SetAlpha(st.GhostAlpha)
	s.SetFillColor(base)
	for _, g := range e.Ghosts {
		gx := m.ToPixel(float64(g.Start))
		if model.ValidTimestamp(g.End) && g.End != g.Start {
			gx = (gx + m.ToPixel(float64(g.End))) / 2
		}
		if gx < -size || gx > viewWidth+size {
			continue
		}
		diamond(s, gx, cy, size)
		s.Fill()
	}
}

func diamond(s surface.Surface, x, cy, size float64) {
	s.BeginPath()
	s.MoveTo(x, cy-size/2)
	s.LineTo(x+size/2, cy)
	s.LineTo(x, cy+size/2)
	s.LineTo(x-size/2, cy)
	s.ClosePath()
}

// rangeRect draws the hatched band and end brackets of a range milestone.
func rangeRect(s surface.Surface, x1, x2, cy, h, viewWidth float64, base, c colorful.Color, alpha float64) {
	top := cy - h/2

	s.Save()
	s.ClipRect(x1, top, x2-x1, h)
	s.SetAlpha(hatchAlpha * alpha)
	s.SetStrokeColor(base)
	s.SetLineWidth(1)
	s.BeginPath()
	// only the on-screen part of the band is hatched
	from := x1 - h
	if from < -h {
		from -= math.Floor((from+h)/hatchSpacing) * hatchSpacing
	}
	to := math.Min(x2, viewWidth) + h
	for i := from; i < to; i += hatchSpacing {
		s.MoveTo(i, top)
		s.LineTo(i+h, top+h)
	}
	s.Stroke()
	s.Restore()

	s.SetStrokeColor(c)
	s.SetLineWidth(2)
	s.BeginPath()
	s.MoveTo(x1+bracketSize, top)
	s.LineTo(x1, top)
	s.LineTo(x1, top+h)
	s.LineTo(x1+bracketSize, top+h)
	s.MoveTo(x2-bracketSize, top)
	s.LineTo(x2, top)
	s.LineTo(x2, top+h)
	s.LineTo(x2-bracketSize, top+h)
	s.Stroke()
}

// PaintGroup draws a summary bracket, or the triangle-and-dash variant for sub-processes.
func PaintGroup(s surface.Surface, v store.VisibleElement, viewWidth float64, st Style, state State) {
	e := v.Element
	x1 := v.X1
	width := math.Max(v.X2-v.X1, st.MinElementWidth)
	x2 := x1 + width
	if x2 < 0 || x1 > viewWidth {
		return
	}
	cy := float64(v.Row)*st.RowHeight + st.RowHeight/2
	h := st.RowHeight - 4
	c := fillColor(e, st.GroupColor, st, state)

	s.Save()
	defer s.Restore()
	s.SetAlpha(stateAlpha(st, state))
	s.SetStrokeColor(c)
	s.SetFillColor(c)
	s.SetLineWidth(2)

	bold := surface.Font{Size: st.FontSize, Bold: true}
	if e.SubProcess {
		if x1 >= -triangleSize && x1 <= viewWidth {
			triangle(s, x1, cy)
			s.Fill()
		}
		if x2 >= 0 && x2 <= viewWidth+triangleSize {
			triangle(s, x2, cy)
			s.Fill()
		}
		if width > triangleSize*2 {
			s.SetDash(5, 5)
			surface.StrokeLine(s, x1+triangleSize/2, cy, x2-triangleSize/2, cy)
			s.SetDash()
		}
		if width > subProcessLabelMinWidth && e.Name != "" {
			labelWithBackground(s, Label(e, st), x1+width/2, cy-triangleSize, width-20, st.Text, bold, surface.AlignCenter, surface.BaselineBottom)
		}
		return
	}

	top := cy - h/2 + 2
	bh := h - 4
	s.BeginPath()
	if x1 >= -groupArm && x1 <= viewWidth {
		s.MoveTo(x1+groupArm, top)
		s.LineTo(x1, top)
		s.LineTo(x1, top+bh)
		s.LineTo(x1+groupArm, top+bh)
	}
	if x2 >= 0 && x2 <= viewWidth+groupArm {
		s.MoveTo(x2-groupArm, top)
		s.LineTo(x2, top)
		s.LineTo(x2, top+bh)
		s.LineTo(x2-groupArm, top+bh)
	}
	s.Stroke()

	if width > groupLabelMinWidth && e.Name != "" {
		s.SetFont(bold)
		if text := Ellipsize(s, Label(e, st), width-10); text != "" {
			s.FillText(text, x1+width/2, top+2, surface.AlignCenter, surface.BaselineTop)
		}
	}
}

// triangle starts a downward-pointing triangle centered on x.
func triangle(s surface.Surface, x, cy float64) {
	s.BeginPath()
	s.MoveTo(x, cy+triangleSize/2)
	s.LineTo(x-triangleSize/2, cy-triangleSize/2)
	s.LineTo(x+triangleSize/2, cy-triangleSize/2)
	s.ClosePath()
}

// labelWithBackground draws text over a translucent white box sized to the text.
func labelWithBackground(s surface.Surface, text string, x, y, maxWidth float64, c colorful.Color, f surface.Font, align surface.Align, baseline surface.Baseline) {
	s.Save()
	defer s.Restore()

	s.SetFont(f)
	text = Ellipsize(s, text, maxWidth)
	if text == "" {
		return
	}
	tw := s.MeasureText(text)
	th := f.Size

	bx := x
	switch align {
	case surface.AlignCenter:
		bx -= tw / 2
	case surface.AlignRight:
		bx -= tw
	}
	by := y
	switch baseline {
	case surface.BaselineMiddle:
		by -= th / 2
	case surface.BaselineBottom:
		by -= th
	}

	const pad = 2.0
	s.SetFillColor(WithAlpha(MustHex("#FFFFFF"), labelBackgroundAlpha))
	surface.FillRect(s, bx-pad, by-pad, tw+2*pad, th+2*pad)
	s.SetFillColor(c)
	s.FillText(text, x, y, align, baseline)
}

// PaintCollapsed marks a collapsed group with a thin bar along the bottom of its row.
func PaintCollapsed(s surface.Surface, v store.VisibleElement, st Style) {
	width := math.Max(v.X2-v.X1, st.MinElementWidth)
	s.Save()
	defer s.Restore()

	s.SetAlpha(collapsedAlpha)
	s.SetFillColor(ParseColor(v.Element.Color, st.GroupColor))
	surface.FillRect(s, v.X1, float64(v.Row+1)*st.RowHeight-3, width, 2)
}
