package densiteye

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the layered pixels of one field.
type Summary struct {
	Members  int
	MaxLayer int
	Mean     float64
	StdDev   float64
	// Histogram[i] counts pixels at layer i+1.
	Histogram []float64
}

// Summarize computes the layer statistics of f over its layered pixels.
func Summarize(f *LayerField) Summary {
	if f.MaxLayer == 0 {
		return Summary{}
	}
	layers := make([]float64, 0, len(f.Layers))
	for _, l := range f.Layers {
		if l > 0 {
			layers = append(layers, float64(l))
		}
	}
	slices.Sort(layers)

	s := Summary{
		Members:  len(layers),
		MaxLayer: f.MaxLayer,
		Mean:     stat.Mean(layers, nil),
	}
	if len(layers) > 1 {
		s.StdDev = stat.StdDev(layers, nil)
	}
	// Bin i spans [i+0.5, i+1.5), one bin per layer.
	dividers := floats.Span(make([]float64, f.MaxLayer+1), 0.5, float64(f.MaxLayer)+0.5)
	s.Histogram = stat.Histogram(nil, dividers, layers, nil)
	return s
}
