/*
Package timeunit holds the calendar units used by the grid axis, their
millisecond durations, and calendar-aware snapping and stepping.

Snapping and stepping work on time.Time in the caller's location so that
month and year boundaries stay on the 1st regardless of month length.
*/
package timeunit

import (
	"fmt"
	"strings"
	"time"
)

// Duration constants in milliseconds.
const (
	Millisecond int64 = 1
	SecondMs          = 1000 * Millisecond
	MinuteMs          = 60 * SecondMs
	HourMs            = 60 * MinuteMs
	DayMs             = 24 * HourMs
	WeekMs            = 7 * DayMs
	MonthMs           = 30 * DayMs  // approximate, for scale heuristics only
	QuarterMs         = 91 * DayMs  // approximate
	YearMs            = 365 * DayMs // approximate
)

// Unit is a calendar unit from millisecond up to year.
type Unit int

const (
	UnitMillisecond Unit = iota
	UnitSecond
	UnitMinute
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitQuarter
	UnitYear
)

var unitNames = [...]string{"millisecond", "second", "minute", "hour", "day", "week", "month", "quarter", "year"}

// String returns the lower-case singular name.
func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return "unknown"
	}
	return unitNames[u]
}

// Label returns the capitalized plural used in host UIs ("Hours").
func (u Unit) Label() string {
	name := u.String()
	if name == "unknown" {
		return "Unknown"
	}
	return strings.ToUpper(name[:1]) + name[1:] + "s"
}

// Approx returns the nominal length of one unit in milliseconds.
func (u Unit) Approx() int64 {
	switch u {
	case UnitMillisecond:
		return Millisecond
	case UnitSecond:
		return SecondMs
	case UnitMinute:
		return MinuteMs
	case UnitHour:
		return HourMs
	case UnitDay:
		return DayMs
	case UnitWeek:
		return WeekMs
	case UnitMonth:
		return MonthMs
	case UnitQuarter:
		return QuarterMs
	default:
		return YearMs
	}
}

// Smaller returns the next finer natural unit used for subgrid lines.
// Weeks and months both subdivide into days.
func (u Unit) Smaller() Unit {
	switch u {
	case UnitYear, UnitQuarter:
		return UnitMonth
	case UnitMonth, UnitWeek:
		return UnitDay
	case UnitDay:
		return UnitHour
	case UnitHour:
		return UnitMinute
	default:
		return UnitSecond
	}
}

// Start snaps t down to the nearest boundary of unit, aligned to multiples of interval.
// Weeks start on Sunday. Day intervals above one are aligned on days since the epoch.
func Start(t time.Time, unit Unit, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	loc := t.Location()
	y, mo, d := t.Date()
	h, mi, s := t.Clock()

	switch unit {
	case UnitMillisecond:
		ms := t.UnixMilli()
		return time.UnixMilli(floorDiv(ms, int64(interval)) * int64(interval)).In(loc)
	case UnitSecond:
		return time.Date(y, mo, d, h, mi, s/interval*interval, 0, loc)
	case UnitMinute:
		return time.Date(y, mo, d, h, mi/interval*interval, 0, 0, loc)
	case UnitHour:
		return time.Date(y, mo, d, h/interval*interval, 0, 0, 0, loc)
	case UnitDay:
		if interval == 1 {
			return time.Date(y, mo, d, 0, 0, 0, 0, loc)
		}
		epochDay := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
		aligned := floorDiv(epochDay, int64(interval)) * int64(interval)
		return time.Date(1970, time.January, 1+int(aligned), 0, 0, 0, 0, loc)
	case UnitWeek:
		midnight := time.Date(y, mo, d, 0, 0, 0, 0, loc)
		return midnight.AddDate(0, 0, -int(midnight.Weekday()))
	case UnitMonth:
		m0 := (int(mo) - 1) / interval * interval
		return time.Date(y, time.Month(m0+1), 1, 0, 0, 0, 0, loc)
	case UnitQuarter:
		m0 := (int(mo) - 1) / (3 * interval) * (3 * interval)
		return time.Date(y, time.Month(m0+1), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y/interval*interval, time.January, 1, 0, 0, 0, 0, loc)
	}
}

// Add steps t forward by n units using calendar arithmetic.
func Add(t time.Time, unit Unit, n int) time.Time {
	switch unit {
	case UnitMillisecond:
		return t.Add(time.Duration(n) * time.Millisecond)
	case UnitSecond:
		return addClock(t, 0, 0, n, time.Second)
	case UnitMinute:
		return addClock(t, 0, n, 0, time.Minute)
	case UnitHour:
		return addClock(t, n, 0, 0, time.Hour)
	case UnitDay:
		return t.AddDate(0, 0, n)
	case UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case UnitMonth:
		return t.AddDate(0, n, 0)
	case UnitQuarter:
		return t.AddDate(0, 3*n, 0)
	default:
		return t.AddDate(n, 0, 0)
	}
}

// addClock steps the wall clock of t, so that lines snapped to local hours
// stay on local hours across a daylight saving change. A wall time skipped by
// the change resolves forward. When the wall clock repeats an hour and the
// step would not move forward, it falls back to elapsed time.
func addClock(t time.Time, hours, minutes, seconds int, unit time.Duration) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	next := time.Date(y, mo, d, h+hours, mi+minutes, s+seconds, t.Nanosecond(), t.Location())
	if n := hours + minutes + seconds; n > 0 && !next.After(t) {
		return t.Add(time.Duration(n) * unit)
	}
	return next
}

// End returns the start of the unit following the one containing t.
func End(t time.Time, unit Unit) time.Time {
	return Add(Start(t, unit, 1), unit, 1)
}

// FormatDuration renders a compact duration such as "2d 3h 15m".
// Seconds are only shown when they are non-zero or nothing else is.
func FormatDuration(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}

	days := ms / DayMs
	hours := ms / HourMs % 24
	minutes := ms / MinuteMs % 60
	seconds := ms / SecondMs % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return sign + strings.Join(parts, " ")
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
