/*
Package render drives one chart: it owns the drawing surfaces, the long-lived
time matrix and zoom level, the grid cache, and the per-frame draw sequence.

A Renderer is single-threaded. Callers schedule Render themselves, typically
once per animation frame or once per output image; Pan and SetZoom mutate the
matrix between frames. Each Render works on a snapshot of the matrix, so the
painters never observe a half-applied interaction.
*/
package render

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"time"

	"gantt2img/pkg/autofit"
	"gantt2img/pkg/axis"
	"gantt2img/pkg/matrix"
	"gantt2img/pkg/model"
	"gantt2img/pkg/paint"
	"gantt2img/pkg/store"
	"gantt2img/pkg/surface"
	"gantt2img/pkg/zoom"
)

// DefaultZoom is the zoom level of a new Renderer.
const DefaultZoom = 50.0

var (
	// ErrReentrantRender is returned when Render is called from inside Render.
	ErrReentrantRender = errors.New("render: reentrant call")
	// ErrNoSurface is returned when the content layer has no surface.
	ErrNoSurface = errors.New("render: content layer has no surface")
)

// Layer identifies a drawing surface.
type Layer int

const (
	// LayerTimeline is the fixed-height time-axis header.
	LayerTimeline Layer = iota
	// LayerContent is the scrollable row area.
	LayerContent
	layerCount
)

func (l Layer) String() string {
	switch l {
	case LayerTimeline:
		return "timeline"
	case LayerContent:
		return "content"
	default:
		return "unknown"
	}
}

type layer struct {
	s    surface.Surface
	w, h float64
}

// Frame is the caller-supplied input of one Render call.
type Frame struct {
	Elements     []model.Element
	Dependencies []model.Dependency

	ScrollTop      float64
	ViewportHeight float64 // 0 uses the content surface height

	SelectedID string
	HoveredID  string
	Collapsed  []string // ids of collapsed groups
	Disabled   []string // ids drawn in the ghost state
	Marker     *int64   // optional custom marker, ms since epoch
	HideNow    bool
}

// Stats describes the last rendered frame.
type Stats struct {
	Rows         store.RowRange
	Elements     int
	Dependencies paint.DependencyStats
	GridReused   bool
	Selection    axis.Selection
	Duration     time.Duration
}

// Renderer is one chart instance.
type Renderer struct {
	logger       *slog.Logger
	curve        zoom.Curve
	style        paint.Style
	loc          *time.Location
	labelSpacing float64
	buffer       store.Buffer
	now          func() time.Time
	ratio        float64
	fitPadding   float64

	gen    *axis.Generator
	store  *store.Store
	cache  *gridCache
	layers [layerCount]layer

	matrix matrix.Matrix
	level  float64

	rendering bool
	stats     Stats
}

// New builds a renderer. The matrix starts centered on the current time at
// the initial zoom level; it is re-centered when the content width is first set.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		curve:      zoom.New(zoom.Default),
		style:      paint.DefaultStyle(),
		buffer:     store.Buffer{TimeFraction: store.DefaultTimeBuffer, Rows: store.DefaultRowBuffer},
		now:        time.Now,
		ratio:      1,
		level:      DefaultZoom,
		fitPadding: autofit.DefaultPadding,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !(r.ratio > 0) {
		r.ratio = 1
	}

	r.gen = axis.NewGenerator(axis.Options{
		Location:     r.loc,
		LabelSpacing: r.labelSpacing,
		Clock:        r.now,
		Logger:       r.logger,
	})
	r.store = store.New(nil)
	r.cache = newGridCache(r.logger)
	r.matrix = matrix.Centered(float64(r.now().UnixMilli()), r.curve.ScaleForZoom(r.level), 0)
	return r
}

// SetSurface attaches s to a layer and configures it for the current pixel ratio.
func (r *Renderer) SetSurface(l Layer, s surface.Surface, width, height float64) {
	if l < 0 || l >= layerCount {
		return
	}
	r.layers[l].s = s
	r.Resize(l, width, height)
}

// Surface returns the surface attached to a layer.
func (r *Renderer) Surface(l Layer) surface.Surface {
	if l < 0 || l >= layerCount {
		return nil
	}
	return r.layers[l].s
}

// Resize changes a layer's logical size and reconfigures its surface. Resizing
// the content layer keeps the time at the viewport center in place.
func (r *Renderer) Resize(l Layer, width, height float64) {
	if l < 0 || l >= layerCount {
		return
	}
	width, height = math.Max(0, width), math.Max(0, height)
	ly := &r.layers[l]
	oldWidth := ly.w
	ly.w, ly.h = width, height
	if ly.s != nil {
		ly.s.Configure(width, height, r.ratio)
	}
	if l == LayerContent && width != oldWidth {
		center := r.matrix.ToTime(oldWidth / 2)
		r.matrix = matrix.Centered(center, r.matrix.Scale, width)
		r.cache.invalidate(StaleByWindow, "resize")
	}
}

// SetPixelRatio reconfigures every attached surface for a new device pixel ratio.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if !(ratio > 0) || math.IsInf(ratio, 0) {
		ratio = 1
	}
	if ratio == r.ratio {
		return
	}
	r.ratio = ratio
	for i := range r.layers {
		if ly := r.layers[i]; ly.s != nil {
			ly.s.Configure(ly.w, ly.h, ratio)
		}
	}
	r.cache.invalidate(StaleByConfig, "pixel ratio")
}

// PixelRatio returns the device pixel ratio.
func (r *Renderer) PixelRatio() float64 {
	return r.ratio
}

// ContentHeight is the scrollable height for rows rows: the rows' total
// height, or the viewport when that is larger.
func (r *Renderer) ContentHeight(rows int, viewport float64) float64 {
	return math.Max(float64(max(rows, 0))*r.style.RowHeight, viewport)
}

// Width is the content layer width.
func (r *Renderer) Width() float64 {
	return r.layers[LayerContent].w
}

// Matrix returns a snapshot of the current matrix.
func (r *Renderer) Matrix() matrix.Matrix {
	return r.matrix.Clone()
}

// Curve returns the zoom curve of this chart.
func (r *Renderer) Curve() zoom.Curve {
	return r.curve
}

// Style returns the current style.
func (r *Renderer) Style() paint.Style {
	return r.style
}

// Zoom returns the current zoom level.
func (r *Renderer) Zoom() float64 {
	return r.level
}

// SetZoom changes the zoom level, keeping the time under focalX fixed on
// screen. A nil focalX zooms around the viewport center.
func (r *Renderer) SetZoom(level float64, focalX *float64) {
	level = zoom.ClampLevel(level)
	fx := r.Width() / 2
	if focalX != nil && !math.IsNaN(*focalX) && !math.IsInf(*focalX, 0) {
		fx = *focalX
	}
	r.matrix = r.matrix.ZoomAroundPixel(r.curve.ScaleForZoom(level), fx)
	r.level = level
	r.cache.invalidate(StaleByConfig, "zoom")
}

// Pan moves the content by dx pixels. Positive dx reveals earlier times.
func (r *Renderer) Pan(dx float64) {
	if dx == 0 {
		return
	}
	r.matrix.Pan(dx)
	r.cache.invalidate(StaleByWindow, "pan")
}

// Center places t in the middle of the viewport at the current scale.
func (r *Renderer) Center(t float64) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return
	}
	r.matrix = matrix.Centered(t, r.matrix.Scale, r.Width())
	r.cache.invalidate(StaleByWindow, "center")
}

// AutoFit zooms and centers so that every valid timestamp of elements is visible.
// It reports false, leaving the view unchanged, when there is nothing to fit.
func (r *Renderer) AutoFit(elements []model.Element) (autofit.Result, bool) {
	res, ok := autofit.Calculate(elements, r.Width(), r.curve, r.fitPadding)
	if !ok {
		return res, false
	}
	r.level = res.Zoom
	r.matrix = matrix.Centered(res.Center, res.Scale, r.Width())
	r.cache.invalidate(StaleByConfig, "auto-fit")
	r.logger.Debug("auto-fit", "zoom", res.Zoom, "scale", r.curve.Describe(res.Scale))
	return res, true
}

// UpdateStyle replaces the style. An identical style is ignored unless force is set.
func (r *Renderer) UpdateStyle(st paint.Style, force bool) {
	if st == r.style && !force {
		return
	}
	r.style = st
	r.cache.invalidate(StaleByConfig, "style")
}

// NeedsRedraw reports whether a configuration change asked for another full frame.
func (r *Renderer) NeedsRedraw() bool {
	return r.cache.redraw
}

// State returns the grid cache state.
func (r *Renderer) State() CacheState {
	return r.cache.state
}

// TimeUnitName is the label of the grid unit at the current scale, e.g. "Hours".
func (r *Renderer) TimeUnitName() string {
	return axis.Select(r.matrix.Scale).Unit.Label()
}

// VisibleTimeRange is the time interval covered by the content width.
func (r *Renderer) VisibleTimeRange() store.TimeRange {
	start, end := r.matrix.VisibleRange(r.Width())
	return store.TimeRange{Start: start, End: end}
}

// Stats describes the last rendered frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Store returns the element index of the last frame.
func (r *Renderer) Store() *store.Store {
	return r.store
}

// VisibleRows returns the strict row window for a viewport, clamped to rows.
func VisibleRows(scrollTop, height, rowHeight float64, rows int) store.RowRange {
	if rows <= 0 || !(rowHeight > 0) {
		return store.RowRange{First: 0, Last: -1}
	}
	scrollTop = math.Max(0, scrollTop)
	first := int(math.Floor(scrollTop / rowHeight))
	last := int(math.Ceil((scrollTop+math.Max(0, height))/rowHeight))
	return store.RowRange{First: min(first, rows-1), Last: min(last, rows-1)}
}

// Render draws one frame. The content layer is cleared and repainted in
// order: background and grid, row lines, now and custom markers, the
// selected row, collapsed-group bars, dependencies, then elements. The
// header layer, when attached, gets the axis.
func (r *Renderer) Render(f Frame) error {
	if r.rendering {
		return ErrReentrantRender
	}
	content := r.layers[LayerContent]
	if content.s == nil {
		return ErrNoSurface
	}
	r.rendering = true
	defer func() { r.rendering = false }()

	began := r.now()
	consumingConfig := r.cache.state == StaleByConfig

	m := r.matrix.Clone()
	st := r.style
	width := content.w
	height := f.ViewportHeight
	if !(height > 0) {
		height = content.h
	}
	vp := paint.Viewport{Width: width, Height: height, ScrollTop: math.Max(0, f.ScrollTop)}

	r.store.SetElements(f.Elements)
	grid, reused := r.cache.resolve(r.gen, m, width)
	rows := VisibleRows(vp.ScrollTop, height, st.RowHeight, r.store.Len())
	geom := store.Geometry{RowHeight: st.RowHeight, MinElementWidth: st.MinElementWidth, MilestoneSize: st.MilestoneSize}

	s := content.s
	s.Clear()
	s.Save()
	s.Translate(0, -vp.ScrollTop)

	paint.PaintGrid(s, grid, st, vp)
	paint.PaintRows(s, rows, st, vp)

	if !f.HideNow {
		paint.PaintMarker(s, m.ToPixel(float64(r.now().UnixMilli())), st.NowColor, st.NowWidth, vp)
	}
	if f.Marker != nil {
		paint.PaintMarker(s, m.ToPixel(float64(*f.Marker)), st.MarkerColor, st.NowWidth, vp)
	}
	if f.SelectedID != "" {
		paint.PaintSelectedRow(s, r.store.RowIndexOf(f.SelectedID), st, vp)
	}

	visible := r.store.Visible(store.ViewportQuery{
		Matrix:   m,
		Width:    width,
		Rows:     rows,
		Geometry: geom,
		Buffer:   &r.buffer,
	})

	collapsed := set(f.Collapsed)
	for _, v := range visible {
		if v.Element.Kind == model.KindGroup && collapsed[v.Element.ID] {
			paint.PaintCollapsed(s, v, st)
		}
	}

	var deps paint.DependencyStats
	if len(f.Dependencies) > 0 {
		deps = paint.PaintDependencies(s, f.Dependencies,
			r.resolver(m, width, geom),
			m,
			r.obstacles(m, width, geom),
			func(d model.Dependency) bool { return f.SelectedID != "" && d.Source == f.SelectedID },
			rows, width, st)
	}

	disabled := set(f.Disabled)
	for _, v := range visible {
		state := paint.StateNormal
		switch id := v.Element.ID; {
		case disabled[id]:
			state = paint.StateGhost
		case id == f.HoveredID || id == f.SelectedID:
			state = paint.StateEmphasized
		}
		paint.PaintElement(s, v, m, width, st, state)
	}
	s.Restore()

	if header := r.layers[LayerTimeline]; header.s != nil {
		header.s.Clear()
		paint.PaintAxis(header.s, grid, st, header.w)
	}

	if !consumingConfig {
		r.cache.redraw = false
	}
	r.stats = Stats{
		Rows:         rows,
		Elements:     len(visible),
		Dependencies: deps,
		GridReused:   reused,
		Selection:    grid.Selection,
		Duration:     r.now().Sub(began),
	}
	r.logger.Debug("frame rendered",
		"rows", rows.Last-rows.First+1,
		"elements", len(visible),
		"dependencies", deps.Drawn,
		"grid", grid.Selection.String(),
		"grid_reused", reused)
	return nil
}

func (r *Renderer) resolver(m matrix.Matrix, width float64, g store.Geometry) paint.Resolver {
	return func(id string) (store.VisibleElement, bool) {
		e, row, ok := r.store.Lookup(id)
		if !ok {
			return store.VisibleElement{}, false
		}
		return store.Resolve(e, row, m, width, g), true
	}
}

func (r *Renderer) obstacles(m matrix.Matrix, width float64, g store.Geometry) paint.Obstacles {
	return func(row int) (float64, float64, bool) {
		e, ok := r.store.Element(row)
		if !ok {
			return 0, 0, false
		}
		b := store.Bounds(e, row, m, width, g)
		return b.X, b.X + b.W, true
	}
}

func set(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
