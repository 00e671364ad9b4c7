package paint

import (
	"math"

	"gantt2img/pkg/matrix"
	"gantt2img/pkg/model"
	"gantt2img/pkg/store"
	"gantt2img/pkg/surface"
)

// RouteKind names the shape of a dependency path.
type RouteKind int

const (
	// RouteDirect has one vertical leg, or none on a single row.
	RouteDirect RouteKind = iota
	// RouteDetour runs along a row boundary between two vertical legs.
	RouteDetour
	// RouteSelfLoop leaves and re-enters the same row over its top edge.
	RouteSelfLoop
)

func (k RouteKind) String() string {
	switch k {
	case RouteDetour:
		return "detour"
	case RouteSelfLoop:
		return "self-loop"
	default:
		return "direct"
	}
}

// Endpoint is the connection geometry of one element: its row and the x of
// its start and end edges.
type Endpoint struct {
	Row   int
	Start float64
	End   float64
}

// EndpointOf derives the connection edges of a resolved element. Point
// milestones connect at the sides of the diamond.
func EndpointOf(v store.VisibleElement, st Style) Endpoint {
	ep := Endpoint{Row: v.Row, Start: v.X1}
	switch {
	case v.Fallback:
		ep.End = v.X2
	case v.Element.Kind == model.KindMilestone && !v.Element.IsRangeMilestone():
		ep.Start = v.X1 - st.MilestoneSize/2
		ep.End = v.X1 + st.MilestoneSize/2
	case v.Element.Kind == model.KindMilestone:
		ep.End = v.X2
	default:
		ep.End = v.X1 + math.Max(v.X2-v.X1, st.MinElementWidth)
	}
	return ep
}

// GhostEndpointOf derives the connection edges of one ghost occurrence of v.
// Occurrences without a distinct end connect like point milestones when v is
// a milestone.
func GhostEndpointOf(v store.VisibleElement, occ model.Occurrence, m matrix.Matrix, st Style) Endpoint {
	start := m.ToPixel(float64(occ.Start))
	end := start
	if model.ValidTimestamp(occ.End) {
		end = m.ToPixel(float64(occ.End))
	}

	ep := Endpoint{Row: v.Row, Start: start}
	switch {
	case v.Element.Kind == model.KindMilestone && end == start:
		ep.Start = start - st.MilestoneSize/2
		ep.End = start + st.MilestoneSize/2
	case v.Element.Kind == model.KindMilestone:
		ep.End = end
	default:
		ep.End = start + math.Max(end-start, st.MinElementWidth)
	}
	return ep
}

// Obstacles reports the horizontal extent of the element occupying a row.
type Obstacles func(row int) (x1, x2 float64, ok bool)

// Route is a computed dependency path. Points run from the source connection
// point to the arrow tip; consecutive points differ in exactly one coordinate.
type Route struct {
	Kind   RouteKind
	Points []surface.Point
	// Dir is the direction of the final segment: +1 arrives moving right, -1 moving left.
	Dir float64
	// HideArrow draws the line up to the tip without an arrowhead.
	HideArrow bool
}

// router holds the constants of one routing call.
type router struct {
	grid, minSource, minTarget float64
	origin                     float64 // the vertical grid is anchored at the source x
}

// snapUp returns the smallest grid line >= x.
func (r router) snapUp(x float64) float64 {
	return r.origin + math.Ceil((x-r.origin)/r.grid-1e-9)*r.grid
}

// snapDown returns the largest grid line <= x.
func (r router) snapDown(x float64) float64 {
	return r.origin + math.Floor((x-r.origin)/r.grid+1e-9)*r.grid
}

// ComputeRoute plans the path of one dependency.
//
// The source leaves its finish edge moving right, or its start edge moving
// left for start-based relations; the target is entered at its start edge
// moving right, or at its finish edge moving left. Every route keeps at least
// MinSourceRun after the source and MinTargetRun before the arrow tip, and
// vertical legs sit on a grid anchored at the source x. A direct route is used
// when one leg position satisfies both runs and no element on an intermediate
// row covers it; otherwise the path detours along a row boundary.
func ComputeRoute(src, dst Endpoint, rel model.Relation, selfLoop bool, obstacles Obstacles, st Style) Route {
	ds := st.Dependency
	rh := st.RowHeight
	from, to, sd, td := anchors(src, dst, rel, st)
	r := newRouter(from.X, ds)

	if selfLoop || src.Row == dst.Row {
		if !selfLoop && sd == td && (to.X-from.X)*sd > 0 {
			return Route{Kind: RouteDirect, Points: []surface.Point{from, to}, Dir: td}
		}
		return r.detour(from, to, sd, td, src.Row, RouteSelfLoop, rh)
	}

	if x, ok := r.directLeg(from.X, to.X, sd, td); ok {
		span := abs(dst.Row - src.Row)
		if span > ds.MaxCollisionRows || !r.legBlocked(x, src.Row, dst.Row, obstacles, ds.ObstaclePadding) {
			return Route{Kind: RouteDirect, Dir: td, Points: []surface.Point{
				from, {X: x, Y: from.Y}, {X: x, Y: to.Y}, to,
			}}
		}
	}

	boundary := r.bestBoundary(from.X, to.X, sd, td, src.Row, dst.Row, obstacles, ds)
	return r.detour(from, to, sd, td, boundary, RouteDetour, rh)
}

// ComputeGhostRoute plans the path of a dependency between ghost
// occurrences. On a single row it is a straight run without minimum lengths,
// and ok is false when the target does not lie at least ghostMinDistance
// ahead of the source; the arrowhead is dropped below MinArrowTipLength.
// Across rows it always detours along a row boundary.
func ComputeGhostRoute(src, dst Endpoint, rel model.Relation, obstacles Obstacles, st Style) (route Route, ok bool) {
	ds := st.Dependency
	from, to, sd, td := anchors(src, dst, rel, st)
	r := newRouter(from.X, ds)

	if src.Row != dst.Row {
		boundary := r.bestBoundary(from.X, to.X, sd, td, src.Row, dst.Row, obstacles, ds)
		return r.detour(from, to, sd, td, boundary, RouteDetour, st.RowHeight), true
	}
	if sd != td {
		return r.detour(from, to, sd, td, src.Row, RouteSelfLoop, st.RowHeight), true
	}
	distance := (to.X - from.X) * td
	if distance <= 0 || distance+ds.ArrowGap < ghostMinDistance {
		return Route{}, false
	}
	return Route{
		Kind:      RouteDirect,
		Points:    []surface.Point{from, to},
		Dir:       td,
		HideArrow: distance < MinArrowTipLength,
	}, true
}

// anchors returns the source and target connection points, with the
// direction of the first and the final run.
func anchors(src, dst Endpoint, rel model.Relation, st Style) (from, to surface.Point, sd, td float64) {
	ds := st.Dependency
	rh := st.RowHeight

	from = surface.Point{X: src.End, Y: rowCenter(src.Row, rh)}
	sd = 1.0
	if rel.SourceAtStart() {
		from.X, sd = src.Start, -1
	}
	to = surface.Point{X: dst.Start - ds.ArrowGap, Y: rowCenter(dst.Row, rh)}
	td = 1.0
	if rel.TargetAtEnd() {
		to.X, td = dst.End+ds.ArrowGap, -1
	}
	return from, to, sd, td
}

func newRouter(origin float64, ds DependencyStyle) router {
	r := router{grid: ds.GridSpacing, minSource: ds.MinSourceRun, minTarget: ds.MinTargetRun, origin: origin}
	if r.grid <= 0 {
		r.grid = 20
	}
	return r
}

// directLeg finds the grid line nearest the source that leaves room for both minimum runs.
func (r router) directLeg(fromX, toX, sd, td float64) (float64, bool) {
	lo, hi := math.Inf(-1), math.Inf(1)
	if sd > 0 {
		lo = fromX + r.minSource
	} else {
		hi = fromX - r.minSource
	}
	if td > 0 {
		hi = math.Min(hi, toX-r.minTarget)
	} else {
		lo = math.Max(lo, toX+r.minTarget)
	}
	if lo > hi {
		return 0, false
	}
	var x float64
	if sd > 0 {
		x = r.snapUp(lo)
	} else {
		x = r.snapDown(hi)
	}
	if x < lo-1e-9 || x > hi+1e-9 {
		return 0, false
	}
	return x, true
}

// legs returns the two vertical leg positions used by detours.
func (r router) legs(fromX, toX, sd, td float64) (float64, float64) {
	var a, b float64
	if sd > 0 {
		a = r.snapUp(fromX + r.minSource)
	} else {
		a = r.snapDown(fromX - r.minSource)
	}
	if td > 0 {
		b = r.snapDown(toX - r.minTarget)
	} else {
		b = r.snapUp(toX + r.minTarget)
	}
	return a, b
}

// detour builds the five-segment path along the top edge of row boundary.
func (r router) detour(from, to surface.Point, sd, td float64, boundary int, kind RouteKind, rh float64) Route {
	a, b := r.legs(from.X, to.X, sd, td)
	y := float64(boundary) * rh
	return Route{Kind: kind, Dir: td, Points: []surface.Point{
		from, {X: a, Y: from.Y}, {X: a, Y: y}, {X: b, Y: y}, {X: b, Y: to.Y}, to,
	}}
}

// bestBoundary chooses the row boundary with the fewest blocked legs. Ties go
// to the boundary nearest the source.
func (r router) bestBoundary(fromX, toX, sd, td float64, srcRow, dstRow int, obstacles Obstacles, ds DependencyStyle) int {
	a, b := r.legs(fromX, toX, sd, td)
	down := dstRow > srcRow
	first, last, step := srcRow+1, dstRow+1, 1
	if !down {
		first, last, step = srcRow, dstRow, -1
	}

	best, bestCost := first, math.MaxInt
	check := abs(dstRow-srcRow) <= ds.MaxCollisionRows
	for k := first; k != last; k += step {
		if !check {
			return k
		}
		cost := 0
		if down {
			// leg a crosses rows srcRow+1..k-1, leg b crosses k..dstRow-1
			cost += r.countBlocked(a, srcRow+1, k-1, obstacles, ds.ObstaclePadding)
			cost += r.countBlocked(b, k, dstRow-1, obstacles, ds.ObstaclePadding)
		} else {
			// leg a crosses rows k..srcRow-1, leg b crosses dstRow+1..k-1
			cost += r.countBlocked(a, k, srcRow-1, obstacles, ds.ObstaclePadding)
			cost += r.countBlocked(b, dstRow+1, k-1, obstacles, ds.ObstaclePadding)
		}
		if cost < bestCost {
			best, bestCost = k, cost
		}
	}
	return best
}

func (r router) legBlocked(x float64, srcRow, dstRow int, obstacles Obstacles, pad float64) bool {
	lo, hi := min(srcRow, dstRow)+1, max(srcRow, dstRow)-1
	return r.countBlocked(x, lo, hi, obstacles, pad) > 0
}

func (r router) countBlocked(x float64, first, last int, obstacles Obstacles, pad float64) int {
	if obstacles == nil {
		return 0
	}
	n := 0
	for row := first; row <= last; row++ {
		x1, x2, ok := obstacles(row)
		if ok && x >= x1-pad && x <= x2+pad {
			n++
		}
	}
	return n
}

func rowCenter(row int, rh float64) float64 {
	return float64(row)*rh + rh/2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
