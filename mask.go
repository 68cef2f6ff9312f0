package densiteye

import "image"

// Membership classifies a pixel by its opacity as inside (true) or outside
// the region being layered.
type Membership func(alpha uint8) bool

// ForegroundMember selects opaque pixels: anything with non-zero opacity.
func ForegroundMember(alpha uint8) bool { return alpha != 0 }

// BackgroundMember selects fully transparent pixels. It is the exact
// complement of ForegroundMember.
func BackgroundMember(alpha uint8) bool { return alpha == 0 }

// alphaChannel flattens the 8-bit opacity of img into a row-major buffer
// (len = w*h) rebased to the origin.
func alphaChannel(img image.Image) (alpha []uint8, w, h int) {
	bounds := img.Bounds()
	w, h = bounds.Dx(), bounds.Dy()
	alpha = make([]uint8, w*h)
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range h {
			row := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for x := range w {
				alpha[y*w+x] = nrgba.Pix[row+x*4+3]
			}
		}
		return alpha, w, h
	}
	for y := range h {
		for x := range w {
			_, _, _, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			alpha[y*w+x] = uint8(a >> 8)
		}
	}
	return alpha, w, h
}
