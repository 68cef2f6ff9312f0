package utils

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

// ErrUnsupportedFormat is returned by SaveImage for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported image format")

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts "dominantcolor" and "kmeans".
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return PaletteMethodDominantColor, fmt.Errorf("unknown palette method %q", s)
}

// ExtractDominantPalette runs dominantcolor over pixels packed into a
// square opaque image, so only the given pixels take part.
func ExtractDominantPalette(pixels []color.NRGBA, k int) []colorful.Color {
	if k <= 0 || len(pixels) == 0 {
		return nil
	}

	nCandidates := max(24, k*8)
	candidates := dominantcolor.FindWeight(packPixels(pixels), nCandidates)

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		col, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: c.Weight})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// packPixels lays pixels out row by row in the smallest square that holds
// them, repeating from the start to fill the last row. Every pixel is
// made fully opaque.
func packPixels(pixels []color.NRGBA) *image.NRGBA {
	side := int(math.Ceil(math.Sqrt(float64(len(pixels)))))
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := range side * side {
		c := pixels[i%len(pixels)]
		c.A = 255
		img.SetNRGBA(i%side, i/side, c)
	}
	return img
}

// SelectDiverseWeightedColors greedily picks k colors, seeded with the
// heaviest candidate, scoring the rest by Lab distance to the picks
// weighted by candidate weight.
func SelectDiverseWeightedColors(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		col := c.Col.Clamped()
		l, a, b := col.Lab()
		w := max(c.Weight, 1e-6)
		maxW = max(maxW, w)
		items = append(items, item{col: col, lab: [3]float64{l, a, b}, w: w})
	}
	k = min(k, len(items))

	selectedIdx := make([]int, 0, k)
	selected := make([]bool, len(items))

	bestSeed := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[bestSeed].w {
			bestSeed = i
		}
	}
	selectedIdx = append(selectedIdx, bestSeed)
	selected[bestSeed] = true

	for len(selectedIdx) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range selectedIdx {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			normW := items[i].w / maxW
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(normW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		selected[bestIdx] = true
		selectedIdx = append(selectedIdx, bestIdx)
	}

	out := make([]colorful.Color, 0, len(selectedIdx))
	for _, idx := range selectedIdx {
		out = append(out, items[idx].col)
	}
	return out
}

// maxKMeansSamples bounds the observations handed to kmeans.
const maxKMeansSamples = 12000

// ExtractKMeansPalette clusters pixels in RGB space, subsampled to at most
// maxKMeansSamples observations. Empty clusters are dropped.
func ExtractKMeansPalette(pixels []color.NRGBA, k int) []colorful.Color {
	if k <= 0 || len(pixels) == 0 {
		return nil
	}

	step := len(pixels)/maxKMeansSamples + 1
	dataset := make(clusters.Observations, 0, len(pixels)/step+1)
	for i := 0; i < len(pixels); i += step {
		c := pixels[i]
		dataset = append(dataset, clusters.Coordinates{
			float64(c.R) / 255.0,
			float64(c.G) / 255.0,
			float64(c.B) / 255.0,
		})
	}

	workK := min(max(k*4, k+2), len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil {
		return nil
	}

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	// Most populated clusters first.
	slices.SortStableFunc(weighted, func(a, b weightedColor) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return SelectDiverseWeightedColors(weighted, k)
}

// ExtractPalette returns up to k colors of pixels and the method that
// produced them. An empty kmeans result falls back to dominantcolor.
func ExtractPalette(pixels []color.NRGBA, k int, method PaletteMethod) ([]colorful.Color, PaletteMethod) {
	if method == PaletteMethodKMeans {
		if p := ExtractKMeansPalette(pixels, k); len(p) != 0 {
			return p, PaletteMethodKMeans
		}
	}
	return ExtractDominantPalette(pixels, k), PaletteMethodDominantColor
}

// BrightestDominantColor returns the brightest of the three palette
// colors of pixels, and the method that produced the palette. ok is false
// when pixels is empty.
func BrightestDominantColor(pixels []color.NRGBA, method PaletteMethod) (c colorful.Color, used PaletteMethod, ok bool) {
	palette, used := ExtractPalette(pixels, 3, method)
	if len(palette) == 0 {
		return colorful.Color{}, used, false
	}
	SortPaletteByBrightness(palette)
	return palette[len(palette)-1], used, true
}

// ReadImage decodes the image at path (PNG, JPEG, GIF, BMP, TIFF or WebP)
// into an NRGBA image anchored at the origin.
func ReadImage(path string) (*image.NRGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba, nil
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, nil
}

// IsSupportedFormat reports whether SaveImage can encode ext (with or
// without the leading dot).
func IsSupportedFormat(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "jpg", "jpeg", "bmp", "tif", "tiff":
		return true
	}
	return false
}

// SaveImage encodes img according to the extension of filename.
func SaveImage(img image.Image, filename string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !IsSupportedFormat(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	switch ext {
	case "jpg", "jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case "bmp":
		err = bmp.Encode(f, img)
	case "tif", "tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
