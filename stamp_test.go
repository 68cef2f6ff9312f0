package densiteye

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maxAlpha(img image.Image) (a uint32, at image.Point) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, pa := img.At(x, y).RGBA(); pa > a {
				a, at = pa, image.Pt(x, y)
			}
		}
	}
	return a, at
}

func TestRenderStamps_ForwardCircles(t *testing.T) {
	alpha, w, h := maskAlpha(
		"........",
		".######.",
		".######.",
		".######.",
		".######.",
		".######.",
		".######.",
		"........",
	)
	forward := ComputeLayerField(alpha, w, h, ForegroundMember)
	img, err := RenderStamps(alpha, w, h, forward, nil)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, w, h), img.Bounds())

	a, at := maxAlpha(img)
	assert.NotZero(t, a)
	r, g, b, pa := img.At(at.X, at.Y).RGBA()
	assert.Equal(t, pa, r, "white stamps")
	assert.Equal(t, pa, g)
	assert.Equal(t, pa, b)
}

func TestRenderStamps_InverseDotsAreBlack(t *testing.T) {
	alpha, w, h := maskAlpha("....", "....", "....", "....")
	inverse := ComputeLayerField(alpha, w, h, BackgroundMember)
	img, err := RenderStamps(alpha, w, h, nil, inverse)
	require.NoError(t, err)

	a, at := maxAlpha(img)
	assert.NotZero(t, a)
	r, g, b, _ := img.At(at.X, at.Y).RGBA()
	assert.Zero(t, r+g+b)
}

func TestRenderStamps_NoFieldsIsTransparent(t *testing.T) {
	alpha, w, h := maskAlpha("###", "###")
	img, err := RenderStamps(alpha, w, h, nil, nil)
	require.NoError(t, err)
	a, _ := maxAlpha(img)
	assert.Zero(t, a)
}

func TestRenderStamps_EmptyImage(t *testing.T) {
	img, err := RenderStamps(nil, 0, 0, &LayerField{Layers: []int{}}, &LayerField{Layers: []int{}})
	require.NoError(t, err)
	assert.True(t, img.Bounds().Empty())
}
