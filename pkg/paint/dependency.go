package paint

import (
	"image/color"
	"math"

	"gantt2img/pkg/matrix"
	"gantt2img/pkg/model"
	"gantt2img/pkg/store"
	"gantt2img/pkg/surface"
)

// Resolver places a dependency endpoint by element id.
type Resolver func(id string) (store.VisibleElement, bool)

// DependencyStats summarizes one PaintDependencies call.
type DependencyStats struct {
	Drawn   int
	Skipped int
	Detours int
	Ghosts  int // drawn dependencies between ghost occurrences
}

// PaintDependencies draws every dependency with at least one end on a visible
// row: normal edges first, then highlighted edges on top. Edges with an
// unknown endpoint are skipped. Ghost dependencies connect the named ghost
// occurrences, placed with m, and are drawn translucently. A plain self-loop
// is dropped when its element also has an outgoing ghost dependency.
func PaintDependencies(s surface.Surface, deps []model.Dependency, resolve Resolver, m matrix.Matrix, obstacles Obstacles, highlighted func(model.Dependency) bool, rows store.RowRange, viewWidth float64, st Style) DependencyStats {
	var stats DependencyStats
	ds := st.Dependency
	deps = withoutShadowedSelfLoops(deps)

	pass := func(hl bool) {
		for _, d := range deps {
			if isHL := highlighted != nil && highlighted(d); isHL != hl {
				continue
			}
			src, ok1 := resolve(d.Source)
			dst, ok2 := resolve(d.Target)
			if !ok1 || !ok2 {
				stats.Skipped++
				continue
			}
			if !inRows(src.Row, rows) && !inRows(dst.Row, rows) {
				stats.Skipped++
				continue
			}
			a, b := EndpointOf(src, st), EndpointOf(dst, st)
			if d.Ghost {
				a = ghostEndpoint(src, d.SourceInstance, a, m, st)
				b = ghostEndpoint(dst, d.TargetInstance, b, m, st)
			}
			if a.End < 0 && b.End < 0 || a.Start > viewWidth && b.Start > viewWidth {
				stats.Skipped++
				continue
			}

			route := Route{}
			alpha := 1.0
			if d.Ghost {
				var ok bool
				if route, ok = ComputeGhostRoute(a, b, d.Relation, obstacles, st); !ok {
					stats.Skipped++
					continue
				}
				alpha = ds.GhostAlpha
			} else {
				route = ComputeRoute(a, b, d.Relation, d.IsSelfLoop(), obstacles, st)
			}
			c, w := color.Color(ds.Color), ds.LineWidth
			if hl {
				c, w = ds.HighlightColor, ds.HighlightWidth
			}

			s.Save()
			s.SetAlpha(alpha)
			DrawRoute(s, route, c, w, ds)
			s.Restore()
			stats.Drawn++
			if d.Ghost {
				stats.Ghosts++
			}
			if route.Kind != RouteDirect {
				stats.Detours++
			}
		}
	}
	pass(false)
	pass(true)
	return stats
}

// ghostEndpoint moves an endpoint onto the ghost occurrence named instanceID.
// Unknown instances and fallback placements keep ep.
func ghostEndpoint(v store.VisibleElement, instanceID string, ep Endpoint, m matrix.Matrix, st Style) Endpoint {
	if v.Fallback {
		return ep
	}
	occ, ok := v.Element.Occurrence(instanceID)
	if !ok {
		return ep
	}
	return GhostEndpointOf(v, occ, m, st)
}

// withoutShadowedSelfLoops drops plain self-loops of elements that have an
// outgoing ghost dependency.
func withoutShadowedSelfLoops(deps []model.Dependency) []model.Dependency {
	ghostSources := make(map[string]bool)
	for _, d := range deps {
		if d.Ghost {
			ghostSources[d.Source] = true
		}
	}
	if len(ghostSources) == 0 {
		return deps
	}
	out := make([]model.Dependency, 0, len(deps))
	for _, d := range deps {
		if d.IsSelfLoop() && ghostSources[d.Source] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func inRows(row int, r store.RowRange) bool {
	return row >= r.First && row <= r.Last
}

// DrawRoute strokes a route and fills its arrowhead unless the route hides it.
func DrawRoute(s surface.Surface, route Route, c color.Color, width float64, ds DependencyStyle) {
	pts := simplify(route.Points)
	if len(pts) < 2 {
		return
	}
	s.Save()
	defer s.Restore()

	s.SetStrokeColor(c)
	s.SetFillColor(c)
	s.SetLineWidth(width)
	s.SetDash()

	tip := pts[len(pts)-1]
	last := pts[len(pts)-2]
	dist := math.Hypot(tip.X-last.X, tip.Y-last.Y)
	offset := ds.ArrowSize * 0.8
	if dist < 30 {
		offset = math.Min(ds.ArrowSize*0.5, dist*0.3)
	}
	if route.HideArrow {
		offset = 0
	}
	dir := direction(last, tip)
	line := append([]surface.Point(nil), pts...)
	line[len(line)-1] = surface.Point{X: tip.X - dir.X*offset, Y: tip.Y - dir.Y*offset}

	if ds.Curved && ds.CornerRadius > 0 {
		curved(s, line, ds.CornerRadius)
	} else {
		polyline(s, line)
	}
	s.Stroke()

	if !route.HideArrow {
		arrowHead(s, tip, dir, ds.ArrowSize)
	}
}

// curved starts a path through pts with quadratic fillets at each corner,
// each radius clamped to half of the shorter neighbouring segment.
func curved(s surface.Surface, pts []surface.Point, radius float64) {
	s.BeginPath()
	s.MoveTo(pts[0].X, pts[0].Y)
	for i := 1; i < len(pts)-1; i++ {
		prev, corner, next := pts[i-1], pts[i], pts[i+1]
		d1, d2 := direction(prev, corner), direction(corner, next)
		r := math.Min(radius, math.Min(length(prev, corner), length(corner, next))/2)
		s.LineTo(corner.X-d1.X*r, corner.Y-d1.Y*r)
		s.QuadTo(corner.X, corner.Y, corner.X+d2.X*r, corner.Y+d2.Y*r)
	}
	end := pts[len(pts)-1]
	s.LineTo(end.X, end.Y)
}

// arrowHead fills a triangle whose tip is at p, pointing along dir.
func arrowHead(s surface.Surface, p, dir surface.Point, size float64) {
	nx, ny := -dir.Y, dir.X
	bx, by := p.X-dir.X*size, p.Y-dir.Y*size
	s.BeginPath()
	s.MoveTo(p.X, p.Y)
	s.LineTo(bx+nx*size/2, by+ny*size/2)
	s.LineTo(bx-nx*size/2, by-ny*size/2)
	s.ClosePath()
	s.Fill()
}

// simplify drops repeated points and the middle of collinear runs.
func simplify(pts []surface.Point) []surface.Point {
	out := make([]surface.Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && length(out[n-1], p) < 1e-9 {
			continue
		}
		if n := len(out); n >= 2 {
			d1, d2 := direction(out[n-2], out[n-1]), direction(out[n-1], p)
			if math.Abs(d1.X-d2.X) < 1e-9 && math.Abs(d1.Y-d2.Y) < 1e-9 {
				out[n-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func direction(a, b surface.Point) surface.Point {
	l := length(a, b)
	if l == 0 {
		return surface.Point{}
	}
	return surface.Point{X: (b.X - a.X) / l, Y: (b.Y - a.Y) / l}
}

func length(a, b surface.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
