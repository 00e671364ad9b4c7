/*
Package model defines the chart data handed to the engine on every render call:
elements (tasks, milestones, groups) and the dependency links between them.

Row position is the element's index in the caller-supplied slice. Nothing in the
engine sorts or regroups elements.
*/
package model

import (
	"errors"
	"fmt"
)

// ErrEndBeforeStart is returned by Validate when an element ends before it starts.
var ErrEndBeforeStart = errors.New("element ends before it starts")

// Kind discriminates the element variants.
type Kind int

const (
	// KindTask is a duration bar.
	KindTask Kind = iota
	// KindMilestone is a point marker, or a bracketed range when it has a distinct end.
	KindMilestone
	// KindGroup is a bracketed summary row over child elements.
	KindGroup
)

// String returns the lower-case name used in input files and logs.
func (k Kind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindMilestone:
		return "milestone"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ParseKind maps an input string to a Kind. Unknown names fall back to KindTask.
func ParseKind(s string) Kind {
	switch s {
	case "milestone", "Milestone", "MILESTONE":
		return KindMilestone
	case "group", "Group", "GROUP":
		return KindGroup
	default:
		return KindTask
	}
}

// Occurrence is an extra start/end pair drawn translucently next to the main element.
// InstanceID names the occurrence for ghost dependencies.
type Occurrence struct {
	InstanceID string
	Start      int64
	End        int64
}

// Element is one chart row. Timestamps are milliseconds since the Unix epoch.
type Element struct {
	ID        string
	Name      string
	Kind      Kind
	Start     int64
	End       int64
	HasEnd    bool   // only meaningful for milestones; tasks and groups always have an end
	Color     string // hex override, empty for the style default
	TypeLabel string

	Children   []string // groups only
	SubProcess bool     // groups only: draw the sub-process bracket variant

	IsLoop         bool
	IsLoopCut      bool
	InstanceNumber int
	TotalInstances int

	Ghosts []Occurrence
}

// ValidTimestamp reports whether ms is a usable timestamp.
// Zero and negative values mark missing data.
func ValidTimestamp(ms int64) bool {
	return ms > 0
}

// HasValidTimes reports whether the element can be placed on the time axis.
func (e Element) HasValidTimes() bool {
	if !ValidTimestamp(e.Start) {
		return false
	}
	if e.Kind == KindMilestone && !e.HasEnd {
		return true
	}
	return ValidTimestamp(e.End)
}

// EndOrStart returns the end timestamp, or the start when the element has no end.
func (e Element) EndOrStart() int64 {
	if e.Kind == KindMilestone && !e.HasEnd {
		return e.Start
	}
	return e.End
}

// IsRangeMilestone reports whether the milestone spans a distinct start and end.
func (e Element) IsRangeMilestone() bool {
	return e.Kind == KindMilestone && e.HasEnd && e.End != e.Start
}

// Occurrence returns the ghost occurrence named instanceID.
func (e Element) Occurrence(instanceID string) (Occurrence, bool) {
	if instanceID == "" {
		return Occurrence{}, false
	}
	for _, g := range e.Ghosts {
		if g.InstanceID == instanceID {
			return g, true
		}
	}
	return Occurrence{}, false
}

// Validate checks the end >= start invariant.
func (e Element) Validate() error {
	if e.Kind == KindMilestone && !e.HasEnd {
		return nil
	}
	if ValidTimestamp(e.Start) && ValidTimestamp(e.End) && e.End < e.Start {
		return fmt.Errorf("element %q: %w", e.ID, ErrEndBeforeStart)
	}
	return nil
}

// Relation is the dependency type. The set is open: unknown values are
// treated like FinishToStart by the painters.
type Relation string

const (
	FinishToStart  Relation = "finish-to-start"
	StartToStart   Relation = "start-to-start"
	FinishToFinish Relation = "finish-to-finish"
	StartToFinish  Relation = "start-to-finish"
)

// ParseRelation accepts both the long names and the FS/SS/FF/SF shorthands.
func ParseRelation(s string) Relation {
	switch s {
	case "SS", "ss", string(StartToStart):
		return StartToStart
	case "FF", "ff", string(FinishToFinish):
		return FinishToFinish
	case "SF", "sf", string(StartToFinish):
		return StartToFinish
	default:
		return FinishToStart
	}
}

// SourceAtStart reports whether the connector leaves from the source's start edge.
func (r Relation) SourceAtStart() bool {
	return r == StartToStart || r == StartToFinish
}

// TargetAtEnd reports whether the connector arrives at the target's end edge.
func (r Relation) TargetAtEnd() bool {
	return r == FinishToFinish || r == StartToFinish
}

// Dependency links two elements by id. Unknown ids are skipped silently by consumers.
//
// A ghost dependency connects ghost occurrences instead of the main elements:
// SourceInstance and TargetInstance name an Occurrence of the source and
// target. An instance that cannot be found falls back to the main element.
type Dependency struct {
	ID       string
	Source   string
	Target   string
	Relation Relation
	Flow     string // display text only

	Ghost          bool
	SourceInstance string
	TargetInstance string
}

// IsSelfLoop reports whether a non-ghost dependency links an element to itself.
func (d Dependency) IsSelfLoop() bool {
	return !d.Ghost && d.Source == d.Target
}
