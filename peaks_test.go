package densiteye

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPeaks_SquareCenters(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		peaks []bool
	}{
		{
			name: "3x3 opaque",
			rows: []string{"###", "###", "###"},
			// Corners only see layer-1 neighbors and the border, so the
			// inclusive test keeps them alongside the center.
			peaks: []bool{
				true, false, true,
				false, true, false,
				true, false, true,
			},
		},
		{
			name: "5x5 opaque",
			rows: []string{"#####", "#####", "#####", "#####", "#####"},
			peaks: []bool{
				true, false, false, false, true,
				false, true, false, true, false,
				false, false, true, false, false,
				false, true, false, true, false,
				true, false, false, false, true,
			},
		},
		{
			// Flat maxima are kept whole.
			name: "4x4 plateau",
			rows: []string{"####", "####", "####", "####"},
			peaks: []bool{
				true, false, false, true,
				false, true, true, false,
				false, true, true, false,
				true, false, false, true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alpha, w, h := maskAlpha(tt.rows...)
			m := ExtractPeaks(ComputeLayerField(alpha, w, h, ForegroundMember))
			assert.Equal(t, tt.peaks, m.Pix)
		})
	}
}

func TestExtractPeaks_EdgeBelowInteriorIsNotMarked(t *testing.T) {
	alpha, w, h := maskAlpha("#####", "#####", "#####", "#####", "#####")
	f := ComputeLayerField(alpha, w, h, ForegroundMember)
	m := ExtractPeaks(f)
	assert.True(t, m.At(2, 2))
	assert.Equal(t, 1, f.At(2, 0))
	assert.False(t, m.At(2, 0), "edge pixel next to layer 2")
}

func TestExtractPeaks_NeverMarksLayerZero(t *testing.T) {
	alpha, w, h := maskAlpha(
		"#.#.#",
		".....",
		"#.#.#",
	)
	f := ComputeLayerField(alpha, w, h, ForegroundMember)
	m := ExtractPeaks(f)
	for i, l := range f.Layers {
		if l == 0 {
			assert.False(t, m.Pix[i])
		} else {
			// Isolated single pixels are their own maximum.
			assert.True(t, m.Pix[i])
		}
	}
	assert.Equal(t, 6, m.Count())
}

func TestExtractPeaks_ThinStrokeIsItsOwnRidge(t *testing.T) {
	alpha, w, h := maskAlpha(
		"......",
		".####.",
		"......",
	)
	m := ExtractPeaks(ComputeLayerField(alpha, w, h, ForegroundMember))
	for x := range w {
		assert.Equal(t, x >= 1 && x <= 4, m.At(x, 1), "x=%d", x)
	}
	assert.False(t, m.At(-1, 1))
}

func TestExtractPeaks_EmptyField(t *testing.T) {
	m := ExtractPeaks(&LayerField{Layers: []int{}})
	assert.Zero(t, m.Count())
	assert.True(t, m.Image(color.NRGBA{A: 255}).Bounds().Empty())
}

func TestRidgeMask_Image(t *testing.T) {
	alpha, w, h := maskAlpha("###", "###", "###")
	img := ExtractPeaks(ComputeLayerField(alpha, w, h, ForegroundMember)).Image(peakColor)
	assert.Equal(t, peakColor, img.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
}
