/*
Package axis generates calendar-aligned grid lines and two-row labels for a
visible time window.

A Generator selects a unit and density from the scale, snaps major lines to
true calendar boundaries, subdivides them with minor lines, and hides labels
that would collide. Generated line times are cached under a rounded window
key; screen positions and label visibility are recomputed on every call, so a
pan reuses the cached lines while moving them.
*/
package axis

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"gantt2img/pkg/matrix"
	"gantt2img/pkg/timeunit"
)

const (
	// DefaultLabelSpacing is the minimum distance between shown labels in pixels.
	DefaultLabelSpacing = 50.0
	// DefaultTTL is how long a cached window stays valid.
	DefaultTTL = 3 * time.Second
	// DefaultMaxAge is the age after which cached windows are dropped.
	DefaultMaxAge = 10 * time.Second

	minCacheWindowMs = 5000.0
	maxLinesPerGrid  = 4000
)

// Line is one grid line.
type Line struct {
	Time      int64   // ms since epoch
	X         float64 // screen position under the matrix of the last Generate call
	Major     bool
	Primary   string
	Secondary string
	Boundary  bool // starts the next coarser unit
	ShowLabel bool

	labels labelSet
}

// Grid is the result of one Generate call.
type Grid struct {
	Selection Selection
	Major     []Line
	Minor     []Line
	Spacing   float64 // label spacing used by the overlap pass
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Options configure a Generator.
type Options struct {
	Location     *time.Location
	LabelSpacing float64
	TTL          time.Duration
	MaxAge       time.Duration
	Clock        func() time.Time
	Logger       *slog.Logger
}

type cacheEntry struct {
	created time.Time
	major   []Line
	minor   []Line
}

// Generator produces grids and owns their cache. It is not safe for concurrent use.
type Generator struct {
	loc     *time.Location
	spacing float64
	ttl     time.Duration
	maxAge  time.Duration
	now     func() time.Time
	logger  *slog.Logger

	cache map[string]*cacheEntry
	stats Stats
}

// NewGenerator builds a generator, filling unset options with defaults.
func NewGenerator(opts Options) *Generator {
	g := &Generator{
		loc:     opts.Location,
		spacing: opts.LabelSpacing,
		ttl:     opts.TTL,
		maxAge:  opts.MaxAge,
		now:     opts.Clock,
		logger:  opts.Logger,
		cache:   make(map[string]*cacheEntry),
	}
	if g.loc == nil {
		g.loc = time.UTC
	}
	if g.spacing <= 0 {
		g.spacing = DefaultLabelSpacing
	}
	if g.ttl <= 0 {
		g.ttl = DefaultTTL
	}
	if g.maxAge <= 0 {
		g.maxAge = DefaultMaxAge
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g
}

// Location returns the time zone used for calendar boundaries.
func (g *Generator) Location() *time.Location {
	return g.loc
}

// Reset drops every cached window.
func (g *Generator) Reset() {
	g.cache = make(map[string]*cacheEntry)
}

// Stats returns cache counters.
func (g *Generator) Stats() Stats {
	s := g.stats
	s.Entries = len(g.cache)
	return s
}

// LabelSpacing returns the minimum label distance for a unit. Seconds and
// minutes have wider labels and get proportionally more room.
func (g *Generator) LabelSpacing(unit timeunit.Unit) float64 {
	switch unit {
	case timeunit.UnitSecond:
		return g.spacing * 1.2
	case timeunit.UnitMinute:
		return g.spacing * 1.1
	default:
		return g.spacing
	}
}

// Generate returns the grid covering [start, end] (ms) at the matrix's scale.
// Labels are resolved for lines inside [0, width].
func (g *Generator) Generate(start, end float64, m matrix.Matrix, width float64) Grid {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return Grid{Selection: Select(m.Scale), Spacing: g.spacing}
	}
	if end < start {
		start, end = end, start
	}

	sel := Select(m.Scale)
	now := g.now()
	g.prune(now)

	window := math.Max(minCacheWindowMs, (end-start)*0.5)
	roundedStart := math.Floor(start/window) * window
	roundedEnd := math.Ceil(end/window) * window
	key := fmt.Sprintf("%.0f_%.0f_%s_%d", roundedStart, roundedEnd, sel.Unit, sel.Level)

	entry, ok := g.cache[key]
	if ok && now.Sub(entry.created) < g.ttl {
		g.stats.Hits++
	} else {
		g.stats.Misses++
		major, minor := g.build(int64(roundedStart), int64(roundedEnd), sel)
		entry = &cacheEntry{created: now, major: major, minor: minor}
		g.cache[key] = entry
		g.logger.Debug("grid generated", "selection", sel.String(), "major", len(major), "minor", len(minor), "key", key)
	}

	grid := Grid{
		Selection: sel,
		Major:     make([]Line, len(entry.major)),
		Minor:     make([]Line, len(entry.minor)),
		Spacing:   g.LabelSpacing(sel.Unit),
	}
	copy(grid.Major, entry.major)
	copy(grid.Minor, entry.minor)

	for i := range grid.Minor {
		grid.Minor[i].X = m.ToPixel(float64(grid.Minor[i].Time))
	}
	for i := range grid.Major {
		grid.Major[i].X = m.ToPixel(float64(grid.Major[i].Time))
	}
	g.labelVisible(grid.Major, width, grid.Spacing)
	return grid
}

// labelVisible resolves label text and visibility for the on-screen slice of lines.
func (g *Generator) labelVisible(lines []Line, width, spacing float64) {
	lo, hi := len(lines), 0
	for i := range lines {
		lines[i].ShowLabel = false
		lines[i].Primary = lines[i].labels.primary
		lines[i].Secondary = lines[i].labels.secondary
		if lines[i].X >= 0 && lines[i].X <= width {
			lo = min(lo, i)
			hi = max(hi, i+1)
		}
	}
	if lo >= hi {
		return
	}

	visible := lines[lo:hi]
	for i := range visible {
		t := time.UnixMilli(visible[i].Time).In(g.loc)
		if i == 0 || isMonthBoundary(t) {
			visible[i].Secondary = visible[i].labels.secondaryLong
		}
	}
	resolveOverlaps(visible, spacing)
}

// build generates major lines over [start, end] plus the minor lines nested
// between consecutive majors.
func (g *Generator) build(start, end int64, sel Selection) (major, minor []Line) {
	interval, sub, subUnit := Intervals(sel)

	t := timeunit.Start(time.UnixMilli(start).In(g.loc), sel.Unit, interval)
	limit := time.UnixMilli(end).In(g.loc)

	for !t.After(limit) && len(major) < maxLinesPerGrid {
		next := timeunit.Add(t, sel.Unit, interval)
		if !next.After(t) {
			break
		}

		major = append(major, Line{
			Time:     t.UnixMilli(),
			Major:    true,
			Boundary: isBoundary(t, sel.Unit),
			labels:   formatLabels(t, sel.Unit),
		})

		if sub > 0 {
			s := timeunit.Add(t, subUnit, sub)
			for s.Before(next) && len(minor) < maxLinesPerGrid {
				minor = append(minor, Line{Time: s.UnixMilli()})
				s = timeunit.Add(s, subUnit, sub)
			}
		}
		t = next
	}
	return major, minor
}

func (g *Generator) prune(now time.Time) {
	for key, entry := range g.cache {
		if now.Sub(entry.created) > g.maxAge {
			delete(g.cache, key)
		}
	}
}
