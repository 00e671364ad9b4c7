/*
Package paint holds the stateless drawing routines of the chart: grid and
header, element shapes, and routed dependency arrows.

Painters read a Style and draw onto a surface.Surface in whole-content
coordinates. They never mutate engine state; anything they need beyond the
style is passed in explicitly.
*/
package paint

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Layout constants shared by the painters.
const (
	RowHeight         = 30.0
	TaskPadding       = 4.0
	MilestoneSize     = 14.0
	ElementMinWidth   = 5.0
	ArrowSize         = 6.0
	DependencyRadius  = 5.0
	HoverDarken       = 0.10
	GhostAlpha        = 0.75
	MinArrowTipLength = 15.0

	// ghostMinDistance is the shortest same-row ghost dependency that is drawn.
	ghostMinDistance = 5.0
)

// Style is the complete visual configuration of a chart.
type Style struct {
	RowHeight       float64
	TaskBarHeight   float64
	TaskRadius      float64
	MilestoneSize   float64
	MinElementWidth float64
	FontSize        float64 // logical size, independent of the pixel ratio

	Background     colorful.Color
	Text           colorful.Color
	TaskColor      colorful.Color
	TaskLabel      colorful.Color
	MilestoneColor colorful.Color
	GroupColor     colorful.Color
	RowLine        colorful.Color
	RowLineWidth   float64
	SelectedRow    colorful.Color
	SelectedAlpha  float64

	GridMajorColor colorful.Color
	GridMinorColor colorful.Color
	GridMajorWidth float64
	GridMinorWidth float64

	Header HeaderStyle

	NowColor    colorful.Color
	NowWidth    float64
	MarkerColor colorful.Color

	ShowLoopIcons    bool
	ShowInstanceTags bool
	HoverDarken      float64
	GhostAlpha       float64

	Dependency DependencyStyle
}

// HeaderStyle configures the time-axis strip.
type HeaderStyle struct {
	Height         float64
	Background     colorful.Color
	MajorColor     colorful.Color
	MinorColor     colorful.Color
	MajorWidth     float64
	MinorWidth     float64
	MajorTick      float64 // 0 draws a full-height line
	MinorTick      float64 // 0 draws a full-height line
	PrimaryLabel   colorful.Color
	SecondaryLabel colorful.Color
	BorderColor    colorful.Color
}

// DependencyStyle configures arrow routing and drawing.
type DependencyStyle struct {
	Color            colorful.Color
	HighlightColor   colorful.Color
	LineWidth        float64
	HighlightWidth   float64
	ArrowSize        float64
	ArrowGap         float64 // distance between the arrow tip and the target edge
	CornerRadius     float64
	Curved           bool
	GridSpacing      float64
	MinSourceRun     float64
	MinTargetRun     float64
	ObstaclePadding  float64
	MaxCollisionRows int
	GhostAlpha       float64 // opacity of dependencies between ghost occurrences
}

// MustHex parses a hex color, falling back to black on malformed input.
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// DefaultStyle returns the built-in look.
func DefaultStyle() Style {
	return Style{
		RowHeight:       RowHeight,
		TaskBarHeight:   22,
		TaskRadius:      3,
		MilestoneSize:   MilestoneSize,
		MinElementWidth: ElementMinWidth,
		FontSize:        12,

		Background:     MustHex("#FFFFFF"),
		Text:           MustHex("#333333"),
		TaskColor:      MustHex("#4F94F9"),
		TaskLabel:      MustHex("#FFFFFF"),
		MilestoneColor: MustHex("#F05454"),
		GroupColor:     MustHex("#333333"),
		RowLine:        MustHex("#F0F0F0"),
		RowLineWidth:   1,
		SelectedRow:    MustHex("#1890FF"),
		SelectedAlpha:  0.06,

		GridMajorColor: MustHex("#C9C9C9"),
		GridMinorColor: MustHex("#E8E8E8"),
		GridMajorWidth: 1,
		GridMinorWidth: 0.5,

		Header: HeaderStyle{
			Height:         50,
			Background:     MustHex("#FFFFFF"),
			MajorColor:     MustHex("#E0E0E0"),
			MinorColor:     MustHex("#F0F0F0"),
			MajorWidth:     1,
			MinorWidth:     0.5,
			MajorTick:      10,
			MinorTick:      0,
			PrimaryLabel:   MustHex("#333333"),
			SecondaryLabel: MustHex("#777777"),
			BorderColor:    MustHex("#D9D9D9"),
		},

		NowColor:    MustHex("#FF4D4F"),
		NowWidth:    2,
		MarkerColor: MustHex("#722ED1"),

		ShowLoopIcons:    true,
		ShowInstanceTags: true,
		HoverDarken:      HoverDarken,
		GhostAlpha:       GhostAlpha,

		Dependency: DependencyStyle{
			Color:            MustHex("#8C8C8C"),
			HighlightColor:   MustHex("#000000"),
			LineWidth:        1.5,
			HighlightWidth:   2.5,
			ArrowSize:        ArrowSize,
			ArrowGap:         2,
			CornerRadius:     DependencyRadius,
			GridSpacing:      20,
			MinSourceRun:     20,
			MinTargetRun:     10,
			ObstaclePadding:  5,
			MaxCollisionRows: 20,
			GhostAlpha:       GhostAlpha,
		},
	}
}
