package axis

import (
	"fmt"

	"gantt2img/pkg/timeunit"
)

// Selection is the unit and density level chosen for a scale.
// Level 1 is the densest grid for a unit.
type Selection struct {
	Unit  timeunit.Unit
	Level int
}

func (s Selection) String() string {
	return fmt.Sprintf("%s/L%d", s.Unit, s.Level)
}

// threshold is one row of the selection table: scales with at least
// minPixelsPerDay select sel. Rows are ordered from finest to coarsest.
type threshold struct {
	minPixelsPerDay float64
	sel             Selection
}

var selectionTable = []threshold{
	{1_000_000, Selection{timeunit.UnitSecond, 1}},
	{200_000, Selection{timeunit.UnitMinute, 1}},
	{50_000, Selection{timeunit.UnitMinute, 2}},
	{15_000, Selection{timeunit.UnitMinute, 3}},
	{2_000, Selection{timeunit.UnitHour, 1}},
	{850, Selection{timeunit.UnitHour, 2}},
	{300, Selection{timeunit.UnitHour, 3}},
	{100, Selection{timeunit.UnitDay, 1}},
	{45, Selection{timeunit.UnitDay, 2}},
	{20, Selection{timeunit.UnitWeek, 1}},
	{4, Selection{timeunit.UnitMonth, 1}},
	{1, Selection{timeunit.UnitMonth, 2}},
	{0.6, Selection{timeunit.UnitYear, 1}},
}

var coarsest = Selection{timeunit.UnitYear, 2}

// Select picks the grid unit and level for a scale in pixels per millisecond.
// The table is a step function of pixels per day, so a smoothly changing scale
// crosses each threshold exactly once.
func Select(scale float64) Selection {
	pixelsPerDay := scale * float64(timeunit.DayMs)
	for _, th := range selectionTable {
		if pixelsPerDay >= th.minPixelsPerDay {
			return th.sel
		}
	}
	return coarsest
}

// Intervals returns the major interval and the subgrid step for a selection,
// plus the unit the subgrid steps in. A subgrid step of 0 means no minor lines.
func Intervals(sel Selection) (major, sub int, subUnit timeunit.Unit) {
	major, sub = 1, 0
	switch sel.Unit {
	case timeunit.UnitSecond:
		major, sub = 5, 1
	case timeunit.UnitMinute:
		switch sel.Level {
		case 1:
			major, sub = 1, 15
		case 2:
			major, sub = 5, 1
		default:
			major, sub = 15, 5
		}
	case timeunit.UnitHour:
		switch sel.Level {
		case 1:
			major, sub = 1, 15
		case 2:
			major, sub = 3, 1
		default:
			major, sub = 6, 2
		}
	case timeunit.UnitDay:
		switch sel.Level {
		case 1:
			major, sub = 1, 6
		case 2:
			major, sub = 1, 0
		default:
			major, sub = 2, 1
		}
	case timeunit.UnitWeek:
		major, sub = 1, 1
	case timeunit.UnitMonth:
		if sel.Level == 1 {
			major, sub = 1, 7
		} else {
			major, sub = 3, 1
		}
	case timeunit.UnitYear:
		if sel.Level == 1 {
			major, sub = 1, 3
		} else {
			major, sub = 3, 1
		}
	}

	subUnit = sel.Unit
	if major == 1 || sel.Unit == timeunit.UnitWeek {
		subUnit = sel.Unit.Smaller()
	}
	return major, sub, subUnit
}
