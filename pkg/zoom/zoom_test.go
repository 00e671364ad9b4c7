package zoom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func presets() map[string]Config {
	return map[string]Config{
		"default": Default,
		"gentle":  Gentle,
		"steep":   Steep,
		"extreme": Extreme,
	}
}

func TestZoomScaleRoundTrip(t *testing.T) {
	for name, cfg := range presets() {
		t.Run(name, func(t *testing.T) {
			c := New(cfg)
			for z := 0.0; z <= 100; z += 5 {
				back := c.ZoomForScale(c.ScaleForZoom(z))
				assert.InDelta(t, z, back, 0.5, "zoom %v", z)
			}
		})
	}
}

func TestScaleZoomRoundTrip(t *testing.T) {
	for name, cfg := range presets() {
		t.Run(name, func(t *testing.T) {
			c := New(cfg)
			logMin, logMax := math.Log10(cfg.MinScale), math.Log10(cfg.MaxScale)
			for i := 0; i <= 50; i++ {
				scale := math.Pow(10, logMin+(logMax-logMin)*float64(i)/50)
				back := c.ScaleForZoom(c.ZoomForScale(scale))
				assert.InEpsilon(t, scale, back, 0.01, "scale %v", scale)
			}
		})
	}
}

func TestVerifyInverse(t *testing.T) {
	for name, cfg := range presets() {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, New(cfg).VerifyInverse(0.01))
		})
	}
}

func TestCurveAnchors(t *testing.T) {
	c := New(Default)
	assert.InEpsilon(t, Default.MinScale, c.ScaleForZoom(0), 1e-9)
	assert.InEpsilon(t, Default.MaxScale, c.ScaleForZoom(100), 1e-9)
	assert.InEpsilon(t, c.MidScale(), c.ScaleForZoom(Default.Breakpoint), 1e-9)
}

func TestCurveIsMonotonic(t *testing.T) {
	c := New(Steep)
	prev := 0.0
	for z := 0.0; z <= 100; z += 0.5 {
		s := c.ScaleForZoom(z)
		assert.Greater(t, s, prev)
		prev = s
	}
}

func TestUpperSegmentIsQuadratic(t *testing.T) {
	for name, cfg := range presets() {
		t.Run(name, func(t *testing.T) {
			c := New(cfg)
			logMid := math.Log10(c.MidScale())
			logMax := math.Log10(cfg.MaxScale)

			// halfway through the upper segment progress is 0.5*0.5 + 0.5*0.25
			level := cfg.Breakpoint + 0.5*(MaxLevel-cfg.Breakpoint)
			got := math.Log10(c.ScaleForZoom(level))
			assert.InDelta(t, logMid+0.375*(logMax-logMid), got, 1e-9)
			assert.InDelta(t, level, c.ZoomForScale(c.ScaleForZoom(level)), 1e-9)
		})
	}
	assert.InDelta(t, 0.375, accelerate(0.5), 1e-12)
	assert.InDelta(t, 0.5, decelerate(0.375), 1e-12)
	assert.Equal(t, 0.0, decelerate(-1))
	assert.Equal(t, 1.0, decelerate(2))
}

func TestClamping(t *testing.T) {
	c := New(Default)
	assert.Equal(t, c.ScaleForZoom(0), c.ScaleForZoom(-20))
	assert.Equal(t, c.ScaleForZoom(100), c.ScaleForZoom(250))
	assert.Equal(t, 0.0, c.ZoomForScale(0))
	assert.Equal(t, 100.0, c.ZoomForScale(1))
	assert.Equal(t, 0.0, c.ZoomForScale(math.NaN()))
	assert.InEpsilon(t, Default.MinScale, c.ScaleForZoom(math.NaN()), 1e-9)
}

func TestNewRepairsConfig(t *testing.T) {
	c := New(Config{Breakpoint: 150, MinScale: -1, MaxScale: 0, UpperExponent: 0})
	cfg := c.Config()
	assert.Equal(t, Default.Breakpoint, cfg.Breakpoint)
	assert.Equal(t, Default.MinScale, cfg.MinScale)
	assert.Greater(t, cfg.MaxScale, cfg.MinScale)
	assert.Equal(t, Default.UpperExponent, cfg.UpperExponent)
	assert.Empty(t, c.VerifyInverse(0.01))
}

func TestInstancesAreIndependent(t *testing.T) {
	a := New(Default)
	b := a.WithConfig(Extreme)
	assert.NotEqual(t, a.ScaleForZoom(100), b.ScaleForZoom(100))
	assert.Equal(t, Default, a.Config())
}

func TestPreset(t *testing.T) {
	cfg, err := Preset("Steep")
	require.NoError(t, err)
	assert.Equal(t, Steep, cfg)

	cfg, err = Preset("")
	require.NoError(t, err)
	assert.Equal(t, Default, cfg)

	_, err = Preset("wobbly")
	assert.Error(t, err)
}

func TestSamplesAndDescribe(t *testing.T) {
	c := New(Default)
	samples := c.Samples(10)
	require.Len(t, samples, 11)
	assert.Equal(t, 0.0, samples[0].Level)
	assert.Equal(t, 100.0, samples[10].Level)
	assert.Equal(t, "Years", samples[0].Unit)
	assert.Equal(t, "Seconds", samples[10].Unit)

	assert.Equal(t, "Days", c.Describe(100.0/86_400_000))
	assert.Equal(t, "Hours", c.Describe(5000.0/86_400_000))
}
