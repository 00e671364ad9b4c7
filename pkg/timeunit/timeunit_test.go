package timeunit

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
)

func TestStart(t *testing.T) {
	ts := time.Date(2024, time.March, 14, 15, 47, 33, 250_000_000, time.UTC) // a Thursday

	tests := []struct {
		name     string
		unit     Unit
		interval int
		want     time.Time
	}{
		{"second", UnitSecond, 1, time.Date(2024, 3, 14, 15, 47, 33, 0, time.UTC)},
		{"five seconds", UnitSecond, 5, time.Date(2024, 3, 14, 15, 47, 30, 0, time.UTC)},
		{"fifteen minutes", UnitMinute, 15, time.Date(2024, 3, 14, 15, 45, 0, 0, time.UTC)},
		{"six hours", UnitHour, 6, time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)},
		{"day", UnitDay, 1, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"week starts sunday", UnitWeek, 1, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"month", UnitMonth, 1, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"three months", UnitMonth, 3, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"quarter", UnitQuarter, 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"year", UnitYear, 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"three years", UnitYear, 3, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Start(ts, tt.unit, tt.interval)), "got %v", Start(ts, tt.unit, tt.interval))
		})
	}
}

func TestStartDayIntervalIsStable(t *testing.T) {
	a := Start(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC), UnitDay, 2)
	b := Start(time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC), UnitDay, 2)
	assert.True(t, a.Equal(b))
	assert.True(t, !a.After(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)))
}

func TestAddRespectsMonthLength(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := Add(jan, UnitMonth, 1)
	mar := Add(feb, UnitMonth, 1)
	assert.Equal(t, time.February, feb.Month())
	assert.Equal(t, 1, feb.Day())
	assert.Equal(t, time.March, mar.Month())
	assert.Equal(t, 1, mar.Day())
	assert.Equal(t, 2025, Add(jan, UnitYear, 1).Year())
	assert.Equal(t, 8, Add(jan, UnitWeek, 1).Day())
}

func TestAddKeepsWallClockAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("no zone data: %v", err)
	}

	// clocks jump from 02:00 CET to 03:00 CEST on 2024-03-31
	ts := time.Date(2024, 3, 31, 0, 0, 0, 0, berlin)
	var hours []int
	for i := 0; i < 5; i++ {
		hours = append(hours, ts.Hour())
		ts = Add(ts, UnitHour, 6)
	}
	assert.Equal(t, []int{0, 6, 12, 18, 0}, hours)
	assert.True(t, time.Date(2024, 4, 1, 6, 0, 0, 0, berlin).Equal(ts))

	// the skipped hour resolves forward
	assert.Equal(t, 3, Add(time.Date(2024, 3, 31, 1, 0, 0, 0, berlin), UnitHour, 1).Hour())

	// a repeated wall hour still moves forward
	fall := time.Date(2024, 10, 27, 2, 30, 0, 0, berlin).Add(time.Hour)
	assert.True(t, Add(fall, UnitMinute, 15).After(fall))
	assert.True(t, Add(fall, UnitSecond, 1).After(fall))
}

func TestEnd(t *testing.T) {
	ts := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	assert.True(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Equal(End(ts, UnitMonth)))
}

func TestSmaller(t *testing.T) {
	assert.Equal(t, UnitMonth, UnitYear.Smaller())
	assert.Equal(t, UnitDay, UnitWeek.Smaller())
	assert.Equal(t, UnitDay, UnitMonth.Smaller())
	assert.Equal(t, UnitMinute, UnitHour.Smaller())
	assert.Equal(t, UnitSecond, UnitSecond.Smaller())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Hours", UnitHour.Label())
	assert.Equal(t, "month", UnitMonth.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45*MinuteMs))
	assert.Equal(t, "2d 3h", FormatDuration(2*DayMs+3*HourMs))
	assert.Equal(t, "1h 5s", FormatDuration(HourMs+5*SecondMs))
	assert.Equal(t, "-1m", FormatDuration(-MinuteMs))
}
