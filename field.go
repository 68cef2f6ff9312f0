package densiteye

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Algorithm selects how a LayerField is computed. Both produce identical
// layers for every input.
type Algorithm int

const (
	// AlgorithmRelaxation repeats synchronous full-grid sweeps, one ring per
	// sweep. O(W*H*MaxLayer).
	AlgorithmRelaxation Algorithm = iota
	// AlgorithmBreadthFirst runs a multi-source BFS seeded with the first
	// ring. O(W*H).
	AlgorithmBreadthFirst
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmBreadthFirst:
		return "bfs"
	default:
		return "relaxation"
	}
}

// ParseAlgorithm accepts "relaxation" and "bfs" (case-insensitive).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relaxation":
		return AlgorithmRelaxation, nil
	case "bfs", "breadth-first":
		return AlgorithmBreadthFirst, nil
	}
	return AlgorithmRelaxation, fmt.Errorf("unknown algorithm %q", s)
}

// LayerField holds the ring distance of every pixel to the nearest
// non-member pixel or the image border. Zero marks pixels outside the mask.
type LayerField struct {
	W, H     int
	Layers   []int // len = W*H, row-major
	MaxLayer int
}

// At returns the layer at (x, y); out-of-bounds coordinates read as 0.
func (f *LayerField) At(x, y int) int {
	if x < 0 || y < 0 || x >= f.W || y >= f.H {
		return 0
	}
	return f.Layers[y*f.W+x]
}

// Dense returns the field as an H×W matrix, or nil for an empty field.
func (f *LayerField) Dense() *mat.Dense {
	if f.W == 0 || f.H == 0 {
		return nil
	}
	data := make([]float64, len(f.Layers))
	for i, l := range f.Layers {
		data[i] = float64(l)
	}
	return mat.NewDense(f.H, f.W, data)
}

var (
	dx4 = [4]int{-1, 0, 1, 0}
	dy4 = [4]int{0, -1, 0, 1}
)

// Compute dispatches to the engine selected by a.
func (a Algorithm) Compute(alpha []uint8, w, h int, member Membership) *LayerField {
	if a == AlgorithmBreadthFirst {
		return ComputeLayerFieldBFS(alpha, w, h, member)
	}
	return ComputeLayerField(alpha, w, h, member)
}

func emptyField(w, h int) *LayerField {
	return &LayerField{W: max(w, 0), H: max(h, 0), Layers: []int{}}
}

// ComputeLayerField layers the member pixels of a w×h opacity buffer by
// synchronous wavefront relaxation. Sweep L assigns L to every unassigned
// member that touches the border, a non-member, or a pixel assigned in an
// earlier sweep. Neighbor reads come from the previous sweep only, so the
// front advances exactly one ring per sweep. alpha must hold w*h values.
func ComputeLayerField(alpha []uint8, w, h int, member Membership) *LayerField {
	if w <= 0 || h <= 0 {
		return emptyField(w, h)
	}
	log := Logger()
	f := &LayerField{W: w, H: h}

	prev := make([]int, w*h)
	next := make([]int, w*h)
	for layer := 1; ; layer++ {
		copy(next, prev)
		added := 0
		for y := range h {
			for x := range w {
				i := y*w + x
				if prev[i] > 0 || !member(alpha[i]) {
					continue
				}
				if touchesOutside(prev, alpha, member, w, h, x, y) {
					next[i] = layer
					added++
				}
			}
		}
		log.Debug("relaxation sweep", "layer", layer, "added", added)
		if added == 0 {
			break
		}
		f.MaxLayer = layer
		prev, next = next, prev
	}
	f.Layers = prev
	return f
}

// touchesOutside reports whether any 4-neighbor of (x, y) is out of
// bounds, a non-member, or already layered in prev.
func touchesOutside(prev []int, alpha []uint8, member Membership, w, h, x, y int) bool {
	for k := range 4 {
		nx, ny := x+dx4[k], y+dy4[k]
		if nx < 0 || nx >= w || ny < 0 || ny >= h {
			return true
		}
		n := ny*w + nx
		if !member(alpha[n]) || prev[n] > 0 {
			return true
		}
	}
	return false
}

// ComputeLayerFieldBFS produces the same field as ComputeLayerField in a
// single pass: the first ring seeds a queue and every dequeued pixel
// assigns its unlayered member neighbors one ring deeper.
func ComputeLayerFieldBFS(alpha []uint8, w, h int, member Membership) *LayerField {
	if w <= 0 || h <= 0 {
		return emptyField(w, h)
	}
	layers := make([]int, w*h)
	queue := make([]int, 0, 2*(w+h))
	for y := range h {
		for x := range w {
			i := y*w + x
			if member(alpha[i]) && touchesOutside(layers, alpha, member, w, h, x, y) {
				queue = append(queue, i)
			}
		}
	}
	// Marked after the scan so the seed test only sees the border and
	// non-members.
	for _, i := range queue {
		layers[i] = 1
	}

	maxLayer := 0
	if len(queue) > 0 {
		maxLayer = 1
	}
	for c := 0; c < len(queue); c++ {
		cur := queue[c]
		cx, cy := cur%w, cur/w
		for k := range 4 {
			nx, ny := cx+dx4[k], cy+dy4[k]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			n := ny*w + nx
			if layers[n] != 0 || !member(alpha[n]) {
				continue
			}
			layers[n] = layers[cur] + 1
			maxLayer = max(maxLayer, layers[n])
			queue = append(queue, n)
		}
	}
	return &LayerField{W: w, H: h, Layers: layers, MaxLayer: maxLayer}
}
