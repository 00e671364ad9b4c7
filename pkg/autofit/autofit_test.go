package autofit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gantt2img/pkg/model"
	"gantt2img/pkg/timeunit"
	"gantt2img/pkg/zoom"
)

const base = int64(1_700_000_000_000)

func TestDataRangePadding(t *testing.T) {
	day := int64(timeunit.DayMs)
	elements := []model.Element{
		{ID: "a", Kind: model.KindTask, Start: base, End: base + 10*day},
		{ID: "b", Kind: model.KindTask, Start: 0, End: 0},
		{ID: "m", Kind: model.KindMilestone, Start: base + 20*day, End: base + 40*day, HasEnd: true},
	}
	r, ok := DataRange(elements)
	require.True(t, ok)
	pad := float64(40*day) * 0.05
	assert.Equal(t, float64(base)-pad, r.Start)
	assert.Equal(t, float64(base+40*day)+pad, r.End)
}

func TestDataRangeMinimumPadding(t *testing.T) {
	r, ok := DataRange([]model.Element{{ID: "m", Kind: model.KindMilestone, Start: base}})
	require.True(t, ok)
	assert.Equal(t, float64(2*timeunit.HourMs), r.Span())
}

func TestDataRangeEmpty(t *testing.T) {
	_, ok := DataRange(nil)
	assert.False(t, ok)

	_, ok = DataRange([]model.Element{{ID: "x", Kind: model.KindTask, Start: -1}})
	assert.False(t, ok)
}

func TestCalculate(t *testing.T) {
	curve := zoom.New(zoom.Default)
	day := int64(timeunit.DayMs)
	elements := []model.Element{{ID: "a", Kind: model.KindTask, Start: base, End: base + 10*day}}

	res, ok := Calculate(elements, 1000, curve, -1)
	require.True(t, ok)
	assert.Equal(t, float64(base+5*day), res.Center)
	assert.InDelta(t, 1000/(float64(10*day)*1.1), res.Scale, 1e-15)
	assert.InDelta(t, res.Zoom, curve.ZoomForScale(res.Scale), 1e-9)
	assert.InDelta(t, res.Scale, curve.ScaleForZoom(res.Zoom), res.Scale*0.01)

	wide, ok := Calculate(elements, 1000, curve, 0.25)
	require.True(t, ok)
	assert.Less(t, wide.Scale, res.Scale)
	assert.Less(t, wide.Zoom, res.Zoom)
}

func TestCalculateClampsScale(t *testing.T) {
	curve := zoom.New(zoom.Default)
	// ten thousand years does not fit in 100px at the minimum scale
	elements := []model.Element{{ID: "a", Kind: model.KindTask, Start: 1, End: 10_000 * 365 * int64(timeunit.DayMs)}}
	res, ok := Calculate(elements, 100, curve, DefaultPadding)
	require.True(t, ok)
	assert.Equal(t, curve.Config().MinScale, res.Scale)
	assert.InDelta(t, 0, res.Zoom, 1e-6)
}

func TestCalculateWithoutData(t *testing.T) {
	_, ok := Calculate(nil, 1000, zoom.New(zoom.Default), DefaultPadding)
	assert.False(t, ok)
	_, ok = Calculate([]model.Element{{ID: "a", Kind: model.KindTask, Start: base, End: base + 1}}, 0, zoom.New(zoom.Default), DefaultPadding)
	assert.False(t, ok)
}

func TestShouldAutoFit(t *testing.T) {
	assert.True(t, ShouldAutoFit(true, false, false))
	assert.False(t, ShouldAutoFit(false, false, false))
	assert.False(t, ShouldAutoFit(true, true, false))
	assert.False(t, ShouldAutoFit(true, false, true))
}
