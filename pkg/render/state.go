package render

import (
	"log/slog"

	"gantt2img/pkg/axis"
	"gantt2img/pkg/matrix"
)

// CacheState describes how much of the last frame's grid can be reused.
type CacheState int

const (
	// Fresh: the cached grid matches the current matrix and width.
	Fresh CacheState = iota
	// StaleByWindow: the matrix or width moved. Cached line times may be
	// reused by the generator but screen positions must be recomputed.
	StaleByWindow
	// StaleByConfig: styling, zoom or pixel ratio changed. The generator
	// cache is dropped and one extra full redraw is requested.
	StaleByConfig
)

func (s CacheState) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case StaleByWindow:
		return "stale-by-window"
	case StaleByConfig:
		return "stale-by-config"
	default:
		return "unknown"
	}
}

// gridCache owns the last computed grid and the invalidation rules around it.
// Config staleness dominates window staleness until the next rebuild.
type gridCache struct {
	state  CacheState
	grid   axis.Grid
	valid  bool
	matrix matrix.Matrix
	width  float64
	redraw bool
	logger *slog.Logger
}

func newGridCache(logger *slog.Logger) *gridCache {
	return &gridCache{state: StaleByConfig, logger: logger}
}

// invalidate moves the cache towards to. A weaker staleness never
// overrides a stronger one; every config change requests a redraw.
func (c *gridCache) invalidate(to CacheState, reason string) {
	if to == StaleByConfig {
		c.redraw = true
	}
	if to > c.state {
		c.transition(to, reason)
	}
}

func (c *gridCache) transition(to CacheState, reason string) {
	if c.state == to {
		return
	}
	c.logger.Debug("cache state", "from", c.state.String(), "to", to.String(), "reason", reason)
	c.state = to
}

// resolve returns the grid for the window, rebuilding what the current
// state requires, and leaves the cache Fresh. The second result reports
// whether the cached grid was returned untouched.
func (c *gridCache) resolve(gen *axis.Generator, m matrix.Matrix, width float64) (axis.Grid, bool) {
	if c.state == Fresh && (!c.valid || !m.Equal(c.matrix) || width != c.width) {
		c.transition(StaleByWindow, "window moved")
	}

	reused := c.state == Fresh
	if c.state == StaleByConfig {
		gen.Reset()
	}
	if !reused {
		start, end := m.VisibleRange(width)
		c.grid = gen.Generate(start, end, m, width)
	}

	c.valid = true
	c.matrix = m
	c.width = width
	c.transition(Fresh, "rendered")
	return c.grid, reused
}
