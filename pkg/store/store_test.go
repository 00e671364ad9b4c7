package store

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gantt2img/pkg/matrix"
	"gantt2img/pkg/model"
)

const (
	hourMs = int64(3_600_000)
	dayMs  = 24 * hourMs
	t0     = int64(1_700_000_000_000)
)

func randomElements(rng *rand.Rand, n int) []model.Element {
	out := make([]model.Element, n)
	for i := range out {
		start := t0 + rng.Int63n(60*dayMs)
		kind := model.Kind(rng.Intn(3))
		e := model.Element{ID: fmt.Sprintf("e%d", i), Kind: kind, Start: start, End: start + rng.Int63n(10*dayMs)}
		if kind == model.KindMilestone {
			e.HasEnd = rng.Intn(2) == 0
			if !e.HasEnd {
				e.End = 0
			}
		}
		out[i] = e
	}
	return out
}

func TestElementsForWindowProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	elements := randomElements(rng, 2000)
	s := New(elements)

	for trial := 0; trial < 50; trial++ {
		r0 := rng.Intn(1900)
		r1 := r0 + rng.Intn(100)
		start := float64(t0 + rng.Int63n(60*dayMs))
		end := start + float64(rng.Int63n(5*dayMs))
		window := TimeRange{Start: start, End: end}

		got := s.ElementsForWindow(Query{Time: &window, Rows: &RowRange{First: r0, Last: r1}})
		gotRows := make(map[int]bool, len(got))
		for _, m := range got {
			require.GreaterOrEqual(t, m.Row, r0)
			require.LessOrEqual(t, m.Row, r1)
			gotRows[m.Row] = true
		}

		for row := r0; row <= r1; row++ {
			e := elements[row]
			intersects := float64(e.EndOrStart()) >= start && float64(e.Start) <= end
			if intersects {
				assert.True(t, gotRows[row], "row %d intersects the window but was dropped", row)
			}
		}
	}
}

func TestPartialOverlapIncluded(t *testing.T) {
	s := New([]model.Element{
		{ID: "spanning", Kind: model.KindTask, Start: t0 - dayMs, End: t0 + 3*dayMs},
		{ID: "inside", Kind: model.KindTask, Start: t0 + hourMs, End: t0 + 2*hourMs},
		{ID: "left-edge", Kind: model.KindTask, Start: t0 - dayMs, End: t0 + hourMs},
		{ID: "outside", Kind: model.KindTask, Start: t0 + 30*dayMs, End: t0 + 31*dayMs},
	})
	window := TimeRange{Start: float64(t0), End: float64(t0 + dayMs)}

	got := s.ElementsForWindow(Query{Time: &window})
	require.Len(t, got, 3)
	assert.Equal(t, Partial, got[0].Visibility)
	assert.InDelta(t, 0.25, got[0].VisibleFraction, 1e-9)
	assert.Equal(t, Full, got[1].Visibility)
	assert.Equal(t, Partial, got[2].Visibility)

	strict := s.ElementsForWindow(Query{Time: &window, ExcludePartial: true})
	require.Len(t, strict, 1)
	assert.Equal(t, "inside", strict[0].Element.ID)
}

func TestTimeAndRowBuffers(t *testing.T) {
	elements := make([]model.Element, 20)
	for i := range elements {
		elements[i] = model.Element{ID: fmt.Sprintf("r%d", i), Kind: model.KindTask, Start: t0 + 11*hourMs, End: t0 + 12*hourMs}
	}
	s := New(elements)
	window := TimeRange{Start: float64(t0), End: float64(t0 + 10*hourMs)}

	none := s.ElementsForWindow(Query{Time: &window, Rows: &RowRange{First: 8, Last: 9}})
	assert.Empty(t, none)

	buffered := s.ElementsForWindow(Query{
		Time:   &window,
		Rows:   &RowRange{First: 8, Last: 9},
		Buffer: Buffer{TimeFraction: 0.2, Rows: 2},
	})
	require.Len(t, buffered, 6)
	assert.Equal(t, 6, buffered[0].Row)
	assert.Equal(t, Hidden, buffered[0].Visibility)
}

func TestKindAndIDFilters(t *testing.T) {
	s := New([]model.Element{
		{ID: "a", Kind: model.KindTask, Start: t0, End: t0 + hourMs},
		{ID: "b", Kind: model.KindMilestone, Start: t0},
		{ID: "c", Kind: model.KindGroup, Start: t0, End: t0 + hourMs},
	})

	milestones := s.ElementsForWindow(Query{Kinds: []model.Kind{model.KindMilestone}})
	require.Len(t, milestones, 1)
	assert.Equal(t, "b", milestones[0].Element.ID)

	byID := s.ElementsForWindow(Query{IDs: []string{"c", "missing", "a"}})
	require.Len(t, byID, 2)
	assert.Equal(t, "c", byID[0].Element.ID)
	assert.Equal(t, "a", byID[1].Element.ID)

	repeated := s.ElementsForWindow(Query{IDs: []string{"a", "c", "a", "a", "c"}})
	require.Len(t, repeated, 2)
	assert.Equal(t, "a", repeated[0].Element.ID)
	assert.Equal(t, "c", repeated[1].Element.ID)
}

func TestRowIndexOf(t *testing.T) {
	s := New([]model.Element{{ID: "x"}, {ID: "y"}, {ID: "x"}})
	assert.Equal(t, 0, s.RowIndexOf("x"))
	assert.Equal(t, 1, s.RowIndexOf("y"))
	assert.Equal(t, -1, s.RowIndexOf("z"))
	assert.Equal(t, 90.0, s.ContentHeight(30))
}

func TestInvalidTimestampsAlwaysIncluded(t *testing.T) {
	s := New([]model.Element{{ID: "broken", Kind: model.KindTask}})
	window := TimeRange{Start: float64(t0), End: float64(t0 + dayMs)}
	assert.Len(t, s.ElementsForWindow(Query{Time: &window}), 1)

	m := matrix.Centered(float64(t0), 100/float64(dayMs), 1000)
	visible := s.Visible(ViewportQuery{Matrix: m, Width: 1000, Rows: RowRange{0, 10}})
	require.Len(t, visible, 1)
	assert.True(t, visible[0].Fallback)
	assert.InDelta(t, 150.0, visible[0].X1, 1e-9)
	assert.InDelta(t, 350.0, visible[0].X2, 1e-9)
}

func TestTimeRange(t *testing.T) {
	s := New([]model.Element{
		{ID: "a", Kind: model.KindTask, Start: t0, End: t0 + 100*hourMs},
		{ID: "b", Kind: model.KindTask, Start: 0, End: 0},
	})
	r := s.TimeRange()
	assert.InDelta(t, float64(t0-5*hourMs), r.Start, 1)
	assert.InDelta(t, float64(t0+105*hourMs), r.End, 1)

	empty := New(nil)
	fixed := time.UnixMilli(t0)
	empty.now = func() time.Time { return fixed }
	r = empty.TimeRange()
	assert.Equal(t, float64(t0-12*hourMs), r.Start)
	assert.Equal(t, float64(t0+12*hourMs), r.End)
}

func TestVisibleResolvesScreenCoordinates(t *testing.T) {
	s := New([]model.Element{
		{ID: "task", Kind: model.KindTask, Start: t0, End: t0 + dayMs},
		{ID: "ms", Kind: model.KindMilestone, Start: t0 + dayMs},
		{ID: "grp", Kind: model.KindGroup, Start: t0 - 20*dayMs, End: t0 + 20*dayMs},
	})
	m := matrix.Centered(float64(t0), 100/float64(dayMs), 1000)

	grouped := s.VisibleGrouped(ViewportQuery{Matrix: m, Width: 1000, Rows: RowRange{0, 2}})
	require.Len(t, grouped.Tasks, 1)
	require.Len(t, grouped.Milestones, 1)
	require.Len(t, grouped.Groups, 1)

	task := grouped.Tasks[0]
	assert.InDelta(t, 500, task.X1, 1e-6)
	assert.InDelta(t, 600, task.X2, 1e-6)
	assert.InDelta(t, 100, task.Width, 1e-6)
	assert.Equal(t, Full, task.Visibility)
	assert.True(t, task.Unclipped())

	ms := grouped.Milestones[0]
	assert.Equal(t, ms.X1, ms.X2)
	assert.Equal(t, 30.0, ms.Y)

	grp := grouped.Groups[0]
	assert.Equal(t, Partial, grp.Visibility)
	assert.InDelta(t, 0, grp.Clipped.X, 1e-6)
	assert.InDelta(t, 1000, grp.Clipped.W, 1e-6)
	assert.InDelta(t, 0.375, grp.StartFraction, 1e-6)
	assert.InDelta(t, 0.625, grp.EndFraction, 1e-6)
	assert.False(t, grp.Unclipped())
}

func TestFindAt(t *testing.T) {
	s := New([]model.Element{
		{ID: "task", Kind: model.KindTask, Start: t0, End: t0 + dayMs},
		{ID: "ms", Kind: model.KindMilestone, Start: t0},
	})
	m := matrix.Centered(float64(t0), 100/float64(dayMs), 1000)

	e, row, ok := s.FindAt(550, 10, m, 1000, DefaultGeometry)
	require.True(t, ok)
	assert.Equal(t, "task", e.ID)
	assert.Equal(t, 0, row)

	_, _, ok = s.FindAt(700, 10, m, 1000, DefaultGeometry)
	assert.False(t, ok)

	// 7px marker half-width plus 5px slack
	e, _, ok = s.FindAt(511, 40, m, 1000, DefaultGeometry)
	require.True(t, ok)
	assert.Equal(t, "ms", e.ID)
	_, _, ok = s.FindAt(513, 40, m, 1000, DefaultGeometry)
	assert.False(t, ok)

	_, _, ok = s.FindAt(500, 200, m, 1000, DefaultGeometry)
	assert.False(t, ok)
}
