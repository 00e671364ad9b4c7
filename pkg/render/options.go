package render

import (
	"log/slog"
	"time"

	"gantt2img/pkg/paint"
	"gantt2img/pkg/store"
	"gantt2img/pkg/zoom"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for cache transitions and frame summaries.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCurve sets the zoom curve of this chart.
func WithCurve(c zoom.Curve) Option {
	return func(r *Renderer) { r.curve = c }
}

// WithStyle replaces the default style.
func WithStyle(st paint.Style) Option {
	return func(r *Renderer) { r.style = st }
}

// WithLocation sets the time zone of calendar boundaries and labels.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.loc = loc }
}

// WithLabelSpacing sets the minimum pixel distance between axis labels.
func WithLabelSpacing(px float64) Option {
	return func(r *Renderer) { r.labelSpacing = px }
}

// WithBuffer sets the virtualization buffer applied beyond the visible window.
func WithBuffer(b store.Buffer) Option {
	return func(r *Renderer) { r.buffer = b }
}

// WithClock sets the source of the "now" marker and of cache ages.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithPixelRatio sets the initial device pixel ratio.
func WithPixelRatio(ratio float64) Option {
	return func(r *Renderer) { r.ratio = ratio }
}

// WithZoom sets the initial zoom level.
func WithZoom(level float64) Option {
	return func(r *Renderer) { r.level = zoom.ClampLevel(level) }
}

// WithFitPadding sets the per-side padding used by AutoFit.
func WithFitPadding(p float64) Option {
	return func(r *Renderer) { r.fitPadding = p }
}
