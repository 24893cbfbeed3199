package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateFlipsY(t *testing.T) {
	full := structs.Square(1)
	x, y := Translate(structs.Position{X: 0, Y: 0}, full, 10, 20)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 180.0, y, "(0,0) is the bottom-left cell")

	x, y = Translate(structs.Position{X: 9, Y: 9}, full, 10, 20)
	assert.Equal(t, 180.0, x)
	assert.Equal(t, 0.0, y, "(w-1,h-1) is the top-right cell")

	x, y = Translate(structs.Position{X: 0, Y: 0}, structs.Square(0.5), 10, 20)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 185.0, y)
}

func TestScale(t *testing.T) {
	w, h := Scale(structs.Extent{Width: 0.8, Height: 0.6}, 50)
	assert.InDelta(t, 40.0, w, 1e-9)
	assert.InDelta(t, 30.0, h, 1e-9)
}

func isGray(c color.Color, want uint8) bool {
	r, g, b, _ := c.RGBA()
	return uint8(r>>8) == want && uint8(g>>8) == want && uint8(b>>8) == want
}

func TestFrameDrawsEntities(t *testing.T) {
	snap := structs.Snapshot{
		Width:  10,
		Height: 10,
		Snake: []structs.Segment{
			{Position: structs.Position{X: 5, Y: 5}, Extent: structs.Square(0.8), Head: true},
			{Position: structs.Position{X: 5, Y: 4}, Extent: structs.Square(0.6)},
		},
		Food: []structs.Food{{Position: structs.Position{X: 0, Y: 0}, Extent: structs.Square(0.8)}},
	}
	img := Frame(snap, 20)
	require.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())

	// 各个格子的中心点
	r, g, b, _ := img.At(10, 190).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0xffff), b)
	assert.True(t, isGray(img.At(110, 90), 178), "head")
	assert.True(t, isGray(img.At(110, 110), 76), "tail")
}

func TestResizeAndEncode(t *testing.T) {
	img := Frame(structs.Snapshot{Width: 4, Height: 2}, 10)
	assert.Same(t, img, Resize(img, 0, 0))

	small := Resize(img, 20, 0)
	assert.Equal(t, 20, small.Bounds().Dx())
	assert.Equal(t, 10, small.Bounds().Dy())

	data, err := EncodePNG(small)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, small.Bounds(), decoded.Bounds())
}
