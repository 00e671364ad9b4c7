/*
Package store is the virtualization index over the chart's elements.

Row index equals the element's position in the caller's slice, so row-window
queries slice the backing array directly and id lookups go through a map. Only
the time filter walks the rows inside the requested window.
*/
package store

import (
	"math"
	"time"

	"gantt2img/pkg/model"
	"gantt2img/pkg/timeunit"
)

// Default buffers applied by Visible when a query leaves them unset.
const (
	DefaultTimeBuffer = 0.2
	DefaultRowBuffer  = 5
	// MilestoneHitSlack widens the milestone hit area on both sides, in pixels.
	MilestoneHitSlack = 5.0
)

// Visibility classifies an element against the strict (unbuffered) window.
type Visibility int

const (
	// Hidden elements are only inside the buffer zone.
	Hidden Visibility = iota
	// Partial elements cross at least one window edge.
	Partial
	// Full elements start and end inside the window.
	Full
)

func (v Visibility) String() string {
	switch v {
	case Full:
		return "full"
	case Partial:
		return "partial"
	default:
		return "hidden"
	}
}

// TimeRange is an inclusive interval in ms.
type TimeRange struct {
	Start float64
	End   float64
}

// Span returns the length of the range, never negative.
func (r TimeRange) Span() float64 {
	return math.Max(0, r.End-r.Start)
}

// RowRange is an inclusive row interval.
type RowRange struct {
	First int
	Last  int
}

// Buffer extends a query beyond the strict window.
type Buffer struct {
	TimeFraction float64 // fraction of the time span added on both sides
	Rows         int     // rows added above and below
}

// Query selects elements. Nil ranges mean unbounded.
type Query struct {
	Time           *TimeRange
	Rows           *RowRange
	Kinds          []model.Kind
	IDs            []string
	Buffer         Buffer
	ExcludePartial bool
}

// Match is one query result.
type Match struct {
	Element         model.Element
	Row             int
	Visibility      Visibility
	VisibleFraction float64 // share of the element's duration inside the strict window
}

// Store indexes one element sequence.
type Store struct {
	elements []model.Element
	rows     map[string]int
	now      func() time.Time
}

// New builds a store over elements. The slice is not copied.
func New(elements []model.Element) *Store {
	s := &Store{now: time.Now}
	s.SetElements(elements)
	return s
}

// SetElements replaces the indexed sequence.
func (s *Store) SetElements(elements []model.Element) {
	s.elements = elements
	s.rows = make(map[string]int, len(elements))
	for i, e := range elements {
		if _, dup := s.rows[e.ID]; !dup {
			s.rows[e.ID] = i
		}
	}
}

// Elements returns the indexed sequence.
func (s *Store) Elements() []model.Element {
	return s.elements
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return len(s.elements)
}

// Element returns the element on a row.
func (s *Store) Element(row int) (model.Element, bool) {
	if row < 0 || row >= len(s.elements) {
		return model.Element{}, false
	}
	return s.elements[row], true
}

// RowIndexOf returns the row of id, or -1 when it is not indexed.
func (s *Store) RowIndexOf(id string) int {
	if row, ok := s.rows[id]; ok {
		return row
	}
	return -1
}

// Lookup returns the element with id.
func (s *Store) Lookup(id string) (model.Element, int, bool) {
	row := s.RowIndexOf(id)
	if row < 0 {
		return model.Element{}, -1, false
	}
	return s.elements[row], row, true
}

// ContentHeight is the total height of all rows.
func (s *Store) ContentHeight(rowHeight float64) float64 {
	return float64(len(s.elements)) * rowHeight
}

// TimeRange returns the span of all valid timestamps padded by 5% on each side.
// Without usable data it returns the twelve hours on either side of now.
func (s *Store) TimeRange() TimeRange {
	lo, hi := int64(math.MaxInt64), int64(math.MinInt64)
	for _, e := range s.elements {
		for _, ts := range []int64{e.Start, e.EndOrStart()} {
			if !model.ValidTimestamp(ts) {
				continue
			}
			lo = min(lo, ts)
			hi = max(hi, ts)
		}
	}
	if lo > hi {
		now := float64(s.now().UnixMilli())
		half := float64(12 * timeunit.HourMs)
		return TimeRange{Start: now - half, End: now + half}
	}

	pad := float64(hi-lo) * 0.05
	return TimeRange{Start: float64(lo) - pad, End: float64(hi) + pad}
}

// ElementsForWindow answers a range query. Elements that only partially
// overlap the window are included unless ExcludePartial is set; elements
// without valid timestamps always pass the time filter because they are drawn
// at a fixed fallback position.
func (s *Store) ElementsForWindow(q Query) []Match {
	first, last := 0, len(s.elements)-1
	if q.Rows != nil {
		first = max(first, q.Rows.First-q.Buffer.Rows)
		last = min(last, q.Rows.Last+q.Buffer.Rows)
	}
	if first > last {
		return nil
	}

	var kinds map[model.Kind]bool
	if len(q.Kinds) > 0 {
		kinds = make(map[model.Kind]bool, len(q.Kinds))
		for _, k := range q.Kinds {
			kinds[k] = true
		}
	}

	var buffered TimeRange
	if q.Time != nil {
		pad := q.Time.Span() * q.Buffer.TimeFraction
		buffered = TimeRange{Start: q.Time.Start - pad, End: q.Time.End + pad}
	}

	var out []Match
	consider := func(row int) {
		e := s.elements[row]
		if kinds != nil && !kinds[e.Kind] {
			return
		}
		m := Match{Element: e, Row: row, Visibility: Full, VisibleFraction: 1}
		if q.Time != nil && e.HasValidTimes() {
			start, end := float64(e.Start), float64(e.EndOrStart())
			if end < buffered.Start || start > buffered.End {
				return
			}
			m.Visibility, m.VisibleFraction = classify(start, end, *q.Time)
			if q.ExcludePartial && m.Visibility != Full {
				return
			}
		}
		out = append(out, m)
	}

	if len(q.IDs) > 0 {
		seen := make(map[int]bool, len(q.IDs))
		for _, id := range q.IDs {
			row := s.RowIndexOf(id)
			if row < first || row > last || seen[row] {
				continue
			}
			seen[row] = true
			consider(row)
		}
		return out
	}

	for row := first; row <= last; row++ {
		consider(row)
	}
	return out
}

// classify compares [start, end] with the strict window.
func classify(start, end float64, w TimeRange) (Visibility, float64) {
	if end < w.Start || start > w.End {
		return Hidden, 0
	}
	if start >= w.Start && end <= w.End {
		return Full, 1
	}
	duration := end - start
	if duration <= 0 {
		return Partial, 1
	}
	overlap := math.Min(end, w.End) - math.Max(start, w.Start)
	return Partial, math.Max(0, math.Min(1, overlap/duration))
}
