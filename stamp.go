package densiteye

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
)

// inverseDotRadius is the radius of the dot stamped on every layered
// pixel of the inverse field.
const inverseDotRadius = 0.5

// RenderStamps draws the circle-stamp visualization. Every pixel of the
// forward field with layer L gets a white circle of radius round(L/2)
// centered on it, carrying the source opacity as alpha; every layered
// pixel of the inverse field then gets a small black dot on top.
// Either field may be nil.
func RenderStamps(alpha []uint8, w, h int, forward, inverse *LayerField) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))), nil
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.Clear()

	if forward != nil {
		for y := range h {
			for x := range w {
				i := y*w + x
				r := math.Round(float64(forward.Layers[i]) / 2)
				if r <= 0 {
					continue
				}
				dc.SetRGBA(1, 1, 1, float64(alpha[i])/255)
				dc.DrawCircle(float64(x), float64(y), r)
				if err := dc.Fill(); err != nil {
					return nil, fmt.Errorf("stamp forward circle at %d,%d: %w", x, y, err)
				}
			}
		}
	}

	if inverse != nil {
		dc.SetRGBA(0, 0, 0, 1)
		for y := range h {
			for x := range w {
				if inverse.Layers[y*w+x] == 0 {
					continue
				}
				dc.DrawCircle(float64(x), float64(y), inverseDotRadius)
				if err := dc.Fill(); err != nil {
					return nil, fmt.Errorf("stamp inverse dot at %d,%d: %w", x, y, err)
				}
			}
		}
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("stamp flush: %w", err)
	}
	return dc.Image(), nil
}
