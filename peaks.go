package densiteye

import (
	"image"
	"image/color"
)

// RidgeMask marks the ridge pixels of one LayerField.
type RidgeMask struct {
	W, H int
	Pix  []bool // len = W*H, row-major
}

// At reports whether (x, y) is a ridge pixel.
func (m *RidgeMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Pix[y*m.W+x]
}

// Count returns the number of marked pixels.
func (m *RidgeMask) Count() int {
	n := 0
	for _, p := range m.Pix {
		if p {
			n++
		}
	}
	return n
}

// ExtractPeaks marks every layered pixel whose four axis neighbors are all
// at or below its own layer. Out-of-bounds neighbors count as layer 0.
// The comparison is inclusive, so flat maxima mark as plateaus.
func ExtractPeaks(f *LayerField) *RidgeMask {
	m := &RidgeMask{W: f.W, H: f.H, Pix: make([]bool, f.W*f.H)}
	for y := range f.H {
		for x := range f.W {
			layer := f.Layers[y*f.W+x]
			if layer <= 0 {
				continue
			}
			peak := true
			for k := range 4 {
				if f.At(x+dx4[k], y+dy4[k]) > layer {
					peak = false
					break
				}
			}
			m.Pix[y*f.W+x] = peak
		}
	}
	return m
}

// Image draws marked pixels in c over a transparent background.
func (m *RidgeMask) Image(c color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := range m.H {
		for x := range m.W {
			if m.Pix[y*m.W+x] {
				out.SetNRGBA(x, y, c)
			}
		}
	}
	return out
}
