package surface

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderAppliesTranslationAndClip(t *testing.T) {
	r := NewRecorder(200, 100)
	r.Save()
	r.Translate(10, -5)
	r.ClipRect(0, 0, 50, 50)
	r.SetFillColor(color.White)
	FillRect(r, 1, 2, 3, 4)
	r.Restore()
	FillRect(r, 1, 2, 3, 4)

	fills := r.OpsOf("fill")
	require.Len(t, fills, 2)
	assert.Equal(t, Point{11, -3}, fills[0].Points()[0])
	require.NotNil(t, fills[0].Clip)
	assert.Equal(t, Box{X: 10, Y: -5, W: 50, H: 50}, *fills[0].Clip)
	assert.Equal(t, color.White, fills[0].Fill)

	assert.Equal(t, Point{1, 2}, fills[1].Points()[0])
	assert.Nil(t, fills[1].Clip)
	assert.Zero(t, r.Depth())
}

func TestRecorderNestedClipIntersects(t *testing.T) {
	r := NewRecorder(200, 100)
	r.ClipRect(0, 0, 100, 100)
	r.ClipRect(50, 50, 100, 100)
	StrokeLine(r, 0, 0, 1, 1)

	op := r.OpsOf("stroke")[0]
	assert.Equal(t, Box{X: 50, Y: 50, W: 50, H: 50}, *op.Clip)
}

func TestRecorderText(t *testing.T) {
	r := NewRecorder(200, 100)
	r.SetFont(Font{Size: 10, Bold: true})
	assert.InDelta(t, 30, r.MeasureText("abcde"), 1e-9)

	r.FillText("hi", 5, 6, AlignCenter, BaselineTop)
	assert.Equal(t, []string{"hi"}, r.Texts())
	op := r.OpsOf("text")[0]
	assert.True(t, op.Font.Bold)
	assert.Equal(t, AlignCenter, op.Align)
}

func TestBoxIntersect(t *testing.T) {
	a := Box{0, 0, 10, 10}
	assert.Equal(t, Box{5, 5, 5, 5}, a.Intersect(Box{5, 5, 10, 10}))
	assert.Zero(t, a.Intersect(Box{20, 20, 5, 5}).W)
}

func TestEstimateTextWidthCountsRunes(t *testing.T) {
	assert.InDelta(t, EstimateTextWidth("abc", 10), EstimateTextWidth("a↻c", 10), 1e-9)
}
