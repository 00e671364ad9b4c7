package svg

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gantt2img/pkg/surface"
)

func TestDocumentUsesPixelRatio(t *testing.T) {
	s := New(300, 100, 2)
	doc := string(s.Bytes())
	assert.Contains(t, doc, `width="600" height="200" viewBox="0 0 300 100"`)
	assert.True(t, strings.HasSuffix(doc, "</svg>\n"))
}

func TestFillAndStroke(t *testing.T) {
	s := New(300, 100, 1)
	s.Translate(10, 20)
	s.SetFillColor(color.NRGBA{R: 0x4f, G: 0x94, B: 0xf9, A: 0xff})
	surface.FillRect(s, 0, 0, 5, 5)

	s.SetStrokeColor(color.Black)
	s.SetLineWidth(1.5)
	s.SetDash(4, 2)
	s.SetAlpha(0.5)
	surface.StrokeLine(s, 0, 0, 10, 0)

	frag := s.Fragment()
	assert.Contains(t, frag, `<path d="M10 20 L15 20 L15 25 L10 25 Z" fill="#4f94f9"/>`)
	assert.Contains(t, frag, `stroke="#000000" stroke-width="1.5" stroke-dasharray="4,2" stroke-opacity="0.5"`)
}

func TestClipPathsAreReferenced(t *testing.T) {
	s := New(300, 100, 1)
	s.Save()
	s.ClipRect(0, 0, 50, 30)
	surface.FillRect(s, 0, 0, 100, 100)
	s.Restore()
	surface.FillRect(s, 0, 0, 1, 1)

	assert.Contains(t, s.Defs(), `<clipPath id="clip1"><rect x="0" y="0" width="50" height="30"/></clipPath>`)
	lines := strings.Split(strings.TrimSpace(s.Fragment()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `clip-path="url(#clip1)"`)
	assert.NotContains(t, lines[1], "clip-path")
}

func TestIDPrefixSurvivesConfigure(t *testing.T) {
	s := New(300, 100, 1)
	s.SetIDPrefix("content-")
	s.Configure(200, 100, 2)
	s.ClipRect(0, 0, 10, 10)
	surface.FillRect(s, 0, 0, 1, 1)

	assert.Contains(t, s.Defs(), `id="content-clip1"`)
	assert.Contains(t, s.Fragment(), `clip-path="url(#content-clip1)"`)
}

func TestTextIsEscaped(t *testing.T) {
	s := New(300, 100, 1)
	s.SetFont(surface.Font{Size: 11, Bold: true})
	s.FillText(`R&D <phase "one">`, 4, 8, surface.AlignCenter, surface.BaselineMiddle)

	frag := s.Fragment()
	assert.Contains(t, frag, "R&amp;D &lt;phase &quot;one&quot;&gt;")
	assert.Contains(t, frag, `font-weight="bold"`)
	assert.Contains(t, frag, `text-anchor="middle"`)
}

func TestClearAndWriteTo(t *testing.T) {
	s := New(10, 10, 1)
	surface.FillRect(s, 0, 0, 1, 1)
	s.Clear()
	assert.Empty(t, s.Fragment())

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
}

func TestNum(t *testing.T) {
	assert.Equal(t, "1.5", num(1.5))
	assert.Equal(t, "-2.25", num(-2.25))
	assert.Equal(t, "3.33", num(10.0/3))
	assert.Equal(t, "0", num(0))
}

func TestStack(t *testing.T) {
	header := New(300, 50, 2)
	header.SetIDPrefix("header-")
	content := New(300, 100, 2)
	content.SetIDPrefix("content-")

	header.ClipRect(0, 0, 300, 50)
	surface.FillRect(header, 0, 0, 10, 10)
	content.ClipRect(0, 0, 300, 100)
	surface.FillRect(content, 0, 0, 10, 10)

	var buf bytes.Buffer
	require.NoError(t, Stack(&buf, header, content))
	doc := buf.String()

	assert.Contains(t, doc, `width="600" height="300" viewBox="0 0 300 150"`)
	assert.Contains(t, doc, `id="header-clip1"`)
	assert.Contains(t, doc, `id="content-clip1"`)
	assert.Contains(t, doc, `<g transform="translate(0 50)">`)
	assert.Less(t, strings.Index(doc, "header-clip1)"), strings.Index(doc, "content-clip1)"))
}
