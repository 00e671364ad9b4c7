// Package autofit chooses a zoom level and center time that frame a set of elements.
package autofit

import (
	"math"

	"gantt2img/pkg/model"
	"gantt2img/pkg/store"
	"gantt2img/pkg/timeunit"
	"gantt2img/pkg/zoom"
)

// DefaultPadding is the share of the data range added on each side.
const DefaultPadding = 0.05

// minPadMs keeps a single point in time from collapsing the range.
const minPadMs = float64(timeunit.HourMs)

// Result is a fitted view.
type Result struct {
	Zoom   float64
	Scale  float64
	Center float64
	Range  store.TimeRange
}

// Extent returns the earliest and latest valid timestamp. Range milestones
// contribute both ends.
func Extent(elements []model.Element) (lo, hi int64, ok bool) {
	lo, hi = math.MaxInt64, math.MinInt64
	for _, e := range elements {
		for _, ts := range [2]int64{e.Start, e.EndOrStart()} {
			if !model.ValidTimestamp(ts) {
				continue
			}
			lo = min(lo, ts)
			hi = max(hi, ts)
		}
	}
	return lo, hi, lo <= hi
}

// DataRange is the element extent padded by max(5% of the extent, 1h) per side.
func DataRange(elements []model.Element) (store.TimeRange, bool) {
	return padded(elements, DefaultPadding)
}

func padded(elements []model.Element, padding float64) (store.TimeRange, bool) {
	lo, hi, ok := Extent(elements)
	if !ok {
		return store.TimeRange{}, false
	}
	pad := math.Max(float64(hi-lo)*padding, minPadMs)
	return store.TimeRange{Start: float64(lo) - pad, End: float64(hi) + pad}, true
}

// Calculate fits the elements into a viewport of the given width. A padding
// outside [0, 1) selects DefaultPadding. Without valid timestamps it reports false.
func Calculate(elements []model.Element, width float64, curve zoom.Curve, padding float64) (Result, bool) {
	if !(padding >= 0 && padding < 1) {
		padding = DefaultPadding
	}
	r, ok := padded(elements, padding)
	if !ok || !(width > 0) {
		return Result{}, false
	}
	scale := curve.ClampScale(width / r.Span())
	return Result{
		Zoom:   curve.ZoomForScale(scale),
		Scale:  scale,
		Center: r.Start + r.Span()/2,
		Range:  r,
	}, true
}

// ShouldAutoFit reports whether a fit should run: it is enabled and the caller
// has not pinned either the zoom or the position.
func ShouldAutoFit(enabled, hasZoom, hasPosition bool) bool {
	return enabled && !hasZoom && !hasPosition
}
