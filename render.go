package densiteye

import (
	"image"
	"image/color"
	"math"
)

// RenderGradient maps f to an image scaled linearly from black at layer 0
// to target at f.MaxLayer. Unlayered pixels stay fully transparent.
func RenderGradient(f *LayerField, target color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	if f.MaxLayer == 0 {
		return out
	}
	scale := func(layer int, c uint8) uint8 {
		return uint8(math.Round(float64(layer) * float64(c) / float64(f.MaxLayer)))
	}
	for y := range f.H {
		for x := range f.W {
			layer := f.Layers[y*f.W+x]
			if layer <= 0 {
				continue
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: scale(layer, target.R),
				G: scale(layer, target.G),
				B: scale(layer, target.B),
				A: 255,
			})
		}
	}
	return out
}

// MergeGradients returns a copy of fg where every pixel that is not fully
// transparent in bg is replaced by the bg pixel. Both images must share
// bounds; neither is modified.
func MergeGradients(fg, bg *image.NRGBA) *image.NRGBA {
	merged := image.NewNRGBA(fg.Rect)
	copy(merged.Pix, fg.Pix)
	b := fg.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := bg.NRGBAAt(x, y)
			if c.A != 0 {
				merged.SetNRGBA(x, y, c)
			}
		}
	}
	return merged
}
