/*
Package zoom maps a linear 0-100 zoom control onto a scale in pixels per
millisecond, and back.

The lower part of the range (0 up to the breakpoint) is log-linear between the
minimum scale and the logarithmic midpoint; above the breakpoint the log-scale
progress accelerates so that the zoomed-in end of the control covers seconds
through hours quickly. ScaleForZoom and ZoomForScale are exact inverses.

A Curve is an immutable value built once per chart. There is no package-level
mutable state, so independent charts never influence each other.
*/
package zoom

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MinLevel and MaxLevel bound the zoom control.
	MinLevel = 0.0
	MaxLevel = 100.0

	msPerDay = 86_400_000.0
)

// Config parameterizes the curve.
type Config struct {
	Breakpoint    float64 // zoom level where acceleration begins, 0-100
	MinScale      float64 // pixels per millisecond at level 0 (years per screen)
	MaxScale      float64 // pixels per millisecond at level 100 (seconds per screen)
	UpperExponent float64 // nominal steepness label; the upper segment is always quadratic
}

// Preset configurations.
var (
	Default = Config{Breakpoint: 70, MinScale: 4e-9, MaxScale: 3e-2, UpperExponent: 2.0}
	Gentle  = Config{Breakpoint: 60, MinScale: 4e-9, MaxScale: 1e-2, UpperExponent: 1.5}
	Steep   = Config{Breakpoint: 40, MinScale: 4e-9, MaxScale: 1e-2, UpperExponent: 2.5}
	Extreme = Config{Breakpoint: 30, MinScale: 4e-9, MaxScale: 5e-2, UpperExponent: 3.0}
)

// Preset looks up a named preset ("default", "gentle", "steep", "extreme").
func Preset(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return Default, nil
	case "gentle":
		return Gentle, nil
	case "steep":
		return Steep, nil
	case "extreme":
		return Extreme, nil
	default:
		return Config{}, fmt.Errorf("unknown zoom preset %q", name)
	}
}

// Curve is a validated zoom configuration with its log-space anchors precomputed.
type Curve struct {
	cfg    Config
	logMin float64
	logMid float64
	logMax float64
}

// New builds a curve, repairing out-of-range configuration values.
func New(cfg Config) Curve {
	if !(cfg.MinScale > 0) || math.IsInf(cfg.MinScale, 0) {
		cfg.MinScale = Default.MinScale
	}
	if !(cfg.MaxScale > cfg.MinScale) || math.IsInf(cfg.MaxScale, 0) {
		cfg.MaxScale = math.Max(Default.MaxScale, cfg.MinScale*10)
	}
	if !(cfg.Breakpoint > MinLevel && cfg.Breakpoint < MaxLevel) {
		cfg.Breakpoint = Default.Breakpoint
	}
	if !(cfg.UpperExponent >= 1) || math.IsInf(cfg.UpperExponent, 0) {
		cfg.UpperExponent = Default.UpperExponent
	}

	logMin := math.Log10(cfg.MinScale)
	logMax := math.Log10(cfg.MaxScale)
	return Curve{
		cfg:    cfg,
		logMin: logMin,
		logMax: logMax,
		logMid: (logMin + logMax) / 2,
	}
}

// Config returns the effective configuration.
func (c Curve) Config() Config {
	return c.cfg
}

// WithConfig returns a new curve with cfg applied.
func (c Curve) WithConfig(cfg Config) Curve {
	return New(cfg)
}

// MidScale is the logarithmic midpoint reached at the breakpoint.
func (c Curve) MidScale() float64 {
	return math.Pow(10, c.logMid)
}

// ClampLevel clamps a zoom level into [0,100]. NaN resolves to 0.
func ClampLevel(level float64) float64 {
	if math.IsNaN(level) {
		return MinLevel
	}
	return math.Max(MinLevel, math.Min(MaxLevel, level))
}

// ClampScale clamps a scale into [MinScale, MaxScale]. NaN resolves to MinScale.
func (c Curve) ClampScale(scale float64) float64 {
	if math.IsNaN(scale) {
		return c.cfg.MinScale
	}
	return math.Max(c.cfg.MinScale, math.Min(c.cfg.MaxScale, scale))
}

// ScaleForZoom converts a zoom level into pixels per millisecond.
func (c Curve) ScaleForZoom(level float64) float64 {
	z := ClampLevel(level)
	bp := c.cfg.Breakpoint

	var logScale float64
	if z <= bp {
		p := z / bp
		logScale = c.logMin + (c.logMid-c.logMin)*p
	} else {
		p := (z - bp) / (MaxLevel - bp)
		logScale = c.logMid + (c.logMax-c.logMid)*accelerate(p)
	}
	return c.ClampScale(math.Pow(10, logScale))
}

// ZoomForScale converts pixels per millisecond back into a zoom level.
func (c Curve) ZoomForScale(scale float64) float64 {
	s := c.ClampScale(scale)
	logScale := math.Log10(s)
	bp := c.cfg.Breakpoint

	if logScale <= c.logMid {
		p := (logScale - c.logMin) / (c.logMid - c.logMin)
		return ClampLevel(p * bp)
	}

	accel := (logScale - c.logMid) / (c.logMax - c.logMid)
	p := decelerate(accel)
	return ClampLevel(bp + p*(MaxLevel-bp))
}

// accelerate is the upper-segment progress: 0.5p + 0.5p².
func accelerate(p float64) float64 {
	return 0.5*p + 0.5*p*p
}

// decelerate inverts accelerate on [0,1] by solving 0.5p² + 0.5p - a = 0.
func decelerate(a float64) float64 {
	a = math.Max(0, math.Min(1, a))
	return math.Max(0, math.Min(1, -0.5+math.Sqrt(0.25+2*a)))
}

// Describe names the time unit a viewer perceives at the given scale.
// The thresholds follow the grid axis selection table.
func (c Curve) Describe(scale float64) string {
	pixelsPerDay := scale * msPerDay
	switch {
	case pixelsPerDay < 1:
		return "Years"
	case pixelsPerDay < 4:
		return "Quarters"
	case pixelsPerDay < 20:
		return "Months"
	case pixelsPerDay < 45:
		return "Weeks"
	case pixelsPerDay < 2000:
		return "Days"
	case pixelsPerDay < 15000:
		return "Hours"
	case pixelsPerDay < 1e6:
		return "Minutes"
	default:
		return "Seconds"
	}
}

// Sample is one point of the curve.
type Sample struct {
	Level float64
	Scale float64
	Unit  string
}

// Samples returns steps+1 evenly spaced points from level 0 to 100.
func (c Curve) Samples(steps int) []Sample {
	if steps < 1 {
		steps = 1
	}
	out := make([]Sample, 0, steps+1)
	for i := 0; i <= steps; i++ {
		level := MaxLevel * float64(i) / float64(steps)
		scale := c.ScaleForZoom(level)
		out = append(out, Sample{Level: level, Scale: scale, Unit: c.Describe(scale)})
	}
	return out
}

// VerifyInverse checks both compositions and returns a description of every
// sample outside tolerance. Levels are checked in steps of 5 against an absolute
// tolerance; scales are checked against a relative one.
func (c Curve) VerifyInverse(tolerance float64) []string {
	var failures []string
	for z := MinLevel; z <= MaxLevel; z += 5 {
		back := c.ZoomForScale(c.ScaleForZoom(z))
		if math.Abs(back-z) > tolerance {
			failures = append(failures, fmt.Sprintf("zoom %.1f -> %.4f", z, back))
		}
	}

	const steps = 40
	for i := 0; i <= steps; i++ {
		logScale := c.logMin + (c.logMax-c.logMin)*float64(i)/steps
		scale := math.Pow(10, logScale)
		back := c.ScaleForZoom(c.ZoomForScale(scale))
		if rel := math.Abs(back-scale) / scale; rel > tolerance {
			failures = append(failures, fmt.Sprintf("scale %.3e -> %.3e", scale, back))
		}
	}
	return failures
}
