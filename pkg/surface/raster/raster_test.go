package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gantt2img/pkg/surface"
)

func TestConfigureUsesPhysicalPixels(t *testing.T) {
	s, err := New(100, 40, 2)
	require.NoError(t, err)

	b := s.Image().Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Equal(t, 80, b.Dy())

	w, h := s.Size()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 40.0, h)

	s.Configure(50, 10, 3)
	assert.Equal(t, 150, s.Image().Bounds().Dx())
}

func TestFillRectInLogicalCoordinates(t *testing.T) {
	s, err := New(20, 20, 2)
	require.NoError(t, err)

	s.SetFillColor(color.NRGBA{R: 255, A: 255})
	surface.FillRect(s, 5, 5, 5, 5)

	r, _, _, a := s.Image().At(15, 15).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)

	_, _, _, a = s.Image().At(2, 2).RGBA()
	assert.Zero(t, a)
}

func TestClipAndRestore(t *testing.T) {
	s, err := New(20, 20, 1)
	require.NoError(t, err)

	s.Save()
	s.ClipRect(0, 0, 10, 20)
	s.SetFillColor(color.Black)
	surface.FillRect(s, 0, 0, 20, 20)
	s.Restore()

	_, _, _, inside := s.Image().At(5, 5).RGBA()
	_, _, _, outside := s.Image().At(15, 5).RGBA()
	assert.NotZero(t, inside)
	assert.Zero(t, outside)
}

func TestAlphaAndClear(t *testing.T) {
	s, err := New(10, 10, 1)
	require.NoError(t, err)

	s.SetAlpha(0.5)
	s.SetFillColor(color.Black)
	surface.FillRect(s, 0, 0, 10, 10)
	_, _, _, a := s.Image().At(5, 5).RGBA()
	assert.InDelta(t, 0x8080, float64(a), 0x200)

	s.Clear()
	_, _, _, a = s.Image().At(5, 5).RGBA()
	assert.Zero(t, a)
}

func TestTextAndPNG(t *testing.T) {
	s, err := New(120, 30, 1)
	require.NoError(t, err)

	s.SetFont(surface.Font{Size: 12})
	narrow := s.MeasureText("ab")
	wide := s.MeasureText("abcdef")
	assert.Greater(t, wide, narrow)

	s.SetFont(surface.Font{Size: 12, Bold: true})
	s.SetFillColor(color.Black)
	s.FillText("Phase 1", 4, 15, surface.AlignLeft, surface.BaselineMiddle)

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestStackPlacesLayersTopToBottom(t *testing.T) {
	header, err := New(100, 10, 2)
	require.NoError(t, err)
	content, err := New(100, 30, 2)
	require.NoError(t, err)

	header.SetFillColor(color.NRGBA{R: 255, A: 255})
	surface.FillRect(header, 0, 0, 100, 10)
	content.SetFillColor(color.NRGBA{B: 255, A: 255})
	surface.FillRect(content, 0, 0, 100, 30)

	img := Stack(header, content)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())

	r, _, _, _ := img.At(10, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	_, _, b, _ := img.At(10, 50).RGBA()
	assert.Equal(t, uint32(0xffff), b)
}

func TestWritePNG(t *testing.T) {
	s, err := New(20, 10, 1)
	require.NoError(t, err)
	path := t.TempDir() + "/out.png"
	require.NoError(t, WritePNG(path, s.Image()))
	assert.Error(t, WritePNG(t.TempDir()+"/missing/out.png", s.Image()))
}
