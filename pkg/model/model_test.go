package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementValidate(t *testing.T) {
	tests := []struct {
		name    string
		element Element
		wantErr bool
	}{
		{"ordered task", Element{ID: "a", Kind: KindTask, Start: 10, End: 20}, false},
		{"zero duration", Element{ID: "a", Kind: KindTask, Start: 10, End: 10}, false},
		{"reversed task", Element{ID: "a", Kind: KindTask, Start: 20, End: 10}, true},
		{"missing timestamps", Element{ID: "a", Kind: KindTask}, false},
		{"point milestone", Element{ID: "m", Kind: KindMilestone, Start: 20}, false},
		{"reversed range milestone", Element{ID: "m", Kind: KindMilestone, Start: 20, End: 10, HasEnd: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.element.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEndBeforeStart)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRangeMilestone(t *testing.T) {
	assert.True(t, Element{Kind: KindMilestone, Start: 1000, End: 5000, HasEnd: true}.IsRangeMilestone())
	assert.False(t, Element{Kind: KindMilestone, Start: 1000, End: 1000, HasEnd: true}.IsRangeMilestone())
	assert.False(t, Element{Kind: KindMilestone, Start: 1000}.IsRangeMilestone())
	assert.False(t, Element{Kind: KindTask, Start: 1000, End: 5000}.IsRangeMilestone())
}

func TestHasValidTimes(t *testing.T) {
	assert.True(t, Element{Kind: KindMilestone, Start: 1}.HasValidTimes())
	assert.False(t, Element{Kind: KindTask, Start: 1}.HasValidTimes())
	assert.False(t, Element{Kind: KindTask, Start: 0, End: 0}.HasValidTimes())
	assert.True(t, Element{Kind: KindGroup, Start: 1, End: 2}.HasValidTimes())
}

func TestParseRelation(t *testing.T) {
	assert.Equal(t, StartToStart, ParseRelation("SS"))
	assert.Equal(t, FinishToStart, ParseRelation("FS"))
	assert.Equal(t, FinishToStart, ParseRelation("something-new"))
	assert.Equal(t, FinishToFinish, ParseRelation("finish-to-finish"))
	assert.True(t, StartToStart.SourceAtStart())
	assert.False(t, FinishToStart.SourceAtStart())
	assert.True(t, StartToFinish.TargetAtEnd())
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindMilestone, ParseKind("milestone"))
	assert.Equal(t, KindGroup, ParseKind("Group"))
	assert.Equal(t, KindTask, ParseKind(""))
	assert.Equal(t, "group", KindGroup.String())
}

func TestOccurrenceLookup(t *testing.T) {
	e := Element{ID: "a", Ghosts: []Occurrence{{InstanceID: "a-2", Start: 10, End: 20}, {Start: 30, End: 40}}}
	occ, ok := e.Occurrence("a-2")
	assert.True(t, ok)
	assert.Equal(t, int64(10), occ.Start)

	_, ok = e.Occurrence("")
	assert.False(t, ok, "unnamed occurrences are not addressable")
	_, ok = e.Occurrence("a-9")
	assert.False(t, ok)
}

func TestDependencySelfLoop(t *testing.T) {
	assert.True(t, Dependency{Source: "a", Target: "a"}.IsSelfLoop())
	assert.False(t, Dependency{Source: "a", Target: "a", Ghost: true}.IsSelfLoop())
	assert.False(t, Dependency{Source: "a", Target: "b"}.IsSelfLoop())
}
