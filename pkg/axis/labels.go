package axis

import (
	"fmt"
	"time"

	"gantt2img/pkg/timeunit"
)

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// labelSet holds the two label rows for a major line. The secondary row has a
// long form (with year) used on year/month boundaries and for the first shown label.
type labelSet struct {
	primary       string
	secondary     string
	secondaryLong string
}

func formatLabels(t time.Time, unit timeunit.Unit) labelSet {
	year := t.Year()
	shortYear := fmt.Sprintf("%02d", year%100)
	month := monthNames[t.Month()-1]
	day := fmt.Sprintf("%02d", t.Day())
	hh, mm, ss := t.Clock()

	switch unit {
	case timeunit.UnitSecond:
		return timeLabels(fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss), day, month, shortYear)
	case timeunit.UnitMinute:
		return timeLabels(fmt.Sprintf("%02d:%02d", hh, mm), day, month, shortYear)
	case timeunit.UnitHour:
		return timeLabels(fmt.Sprintf("%02d:00", hh), day, month, shortYear)
	case timeunit.UnitDay, timeunit.UnitWeek:
		s := month + "/" + shortYear
		return labelSet{primary: day, secondary: s, secondaryLong: s}
	case timeunit.UnitMonth, timeunit.UnitQuarter:
		y := fmt.Sprintf("%d", year)
		return labelSet{primary: month, secondary: y, secondaryLong: y}
	default:
		return labelSet{primary: fmt.Sprintf("%d", year)}
	}
}

func timeLabels(primary, day, month, shortYear string) labelSet {
	return labelSet{
		primary:       primary,
		secondary:     day + "/" + month,
		secondaryLong: day + "/" + month + "/" + shortYear,
	}
}

// isBoundary reports whether t starts the next coarser natural unit, which
// makes its label a priority label in the overlap pass.
func isBoundary(t time.Time, unit timeunit.Unit) bool {
	hh, mm, ss := t.Clock()
	switch unit {
	case timeunit.UnitSecond, timeunit.UnitMinute:
		return mm == 0 && ss == 0
	case timeunit.UnitHour:
		return hh == 0 && mm == 0
	case timeunit.UnitDay, timeunit.UnitWeek:
		return t.Day() == 1
	case timeunit.UnitMonth, timeunit.UnitQuarter:
		return t.Month() == time.January
	default:
		return t.Year()%10 == 0
	}
}

// isMonthBoundary reports whether t is midnight on the first of a month.
func isMonthBoundary(t time.Time) bool {
	hh, mm, ss := t.Clock()
	return t.Day() == 1 && hh == 0 && mm == 0 && ss == 0
}
