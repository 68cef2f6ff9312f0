package densiteye

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/setanarut/densiteye/utils"
)

type Options struct {
	// Engine used for both fields. Results are identical; relaxation is the
	// reference, BreadthFirst is linear in the pixel count.
	Algorithm Algorithm
	// Color reached at the deepest layer of the forward gradient.
	ForegroundColor colorful.Color
	// Color reached at the deepest layer of the inverse gradient.
	BackgroundColor colorful.Color
	// Replace ForegroundColor with the brightest dominant color of the
	// opaque pixels.
	AutoForeground bool
	// Palette extraction used by AutoForeground.
	PaletteMethod utils.PaletteMethod
}

func DefaultOptions() Options {
	return Options{
		Algorithm:       AlgorithmRelaxation,
		ForegroundColor: colorful.Color{R: 1, G: 1, B: 1},
		BackgroundColor: colorful.Color{R: 1, G: 0, B: 0},
		PaletteMethod:   utils.PaletteMethodDominantColor,
	}
}

// Arguments configures one Run.
type Arguments struct {
	InputFilePath string
	// Created if missing.
	OutputFolder string
	// Stem shared by every artifact.
	OutputName string
	// Artifact extension: png, jpg, jpeg, bmp, tif or tiff.
	Format string
	// Skip the inverse field and its artifacts.
	DisableTransparentProcessing bool
	// Skip the forward field and its artifacts.
	DisableOpaqueProcessing bool

	Options
}

// NewArguments returns Arguments with DefaultOptions and PNG output.
func NewArguments(input, outputFolder, outputName string) Arguments {
	return Arguments{
		InputFilePath: input,
		OutputFolder:  outputFolder,
		OutputName:    outputName,
		Format:        "png",
		Options:       DefaultOptions(),
	}
}

// Validate checks every path before any work starts and creates the
// output folder when it does not exist yet.
func (a Arguments) Validate() error {
	if a.InputFilePath == "" {
		return &ValidationError{Field: "InputFilePath", Reason: "required"}
	}
	info, err := os.Stat(a.InputFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &ValidationError{Field: "InputFilePath", Reason: fmt.Sprintf("%s does not exist", a.InputFilePath)}
	case err != nil:
		return &ValidationError{Field: "InputFilePath", Reason: err.Error()}
	case info.IsDir():
		return &ValidationError{Field: "InputFilePath", Reason: fmt.Sprintf("%s is a directory", a.InputFilePath)}
	}

	if a.OutputName == "" {
		return &ValidationError{Field: "OutputName", Reason: "required"}
	}
	if strings.ContainsAny(a.OutputName, `/\`) {
		return &ValidationError{Field: "OutputName", Reason: "must not contain path separators"}
	}
	if !utils.IsSupportedFormat(a.format()) {
		return &ValidationError{Field: "Format", Reason: fmt.Sprintf("unsupported format %q", a.Format)}
	}

	if a.OutputFolder == "" {
		return &ValidationError{Field: "OutputFolder", Reason: "required"}
	}
	if err := os.MkdirAll(a.OutputFolder, 0o755); err != nil {
		return &ValidationError{
			Field:  "OutputFolder",
			Reason: fmt.Sprintf("%s does not exist and could not be created: %v", a.OutputFolder, err),
		}
	}
	return nil
}

func (a Arguments) format() string {
	if a.Format == "" {
		return "png"
	}
	return strings.ToLower(strings.TrimPrefix(a.Format, "."))
}

// ArtifactPath returns where the given artifact of this run is written.
func (a Arguments) ArtifactPath(kind Artifact) string {
	return filepath.Join(a.OutputFolder, a.OutputName+"."+string(kind)+"."+a.format())
}

// Artifact names one output of a run.
type Artifact string

const (
	ArtifactGradientForeground Artifact = "gradient-foreground"
	ArtifactGradientBackground Artifact = "gradient-background"
	ArtifactGradient           Artifact = "gradient"
	ArtifactScaleIt            Artifact = "scaleit"
	ArtifactPeakLines          Artifact = "peaklines"
	ArtifactInversePeakLines   Artifact = "inverse-peaklines"
)

// ParseColor reads "#rrggbb", "rrggbb" or one of black, white, red, green,
// blue.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "black":
		return colorful.Color{}, nil
	case "white":
		return colorful.Color{R: 1, G: 1, B: 1}, nil
	case "red":
		return colorful.Color{R: 1}, nil
	case "green":
		return colorful.Color{G: 1}, nil
	case "blue":
		return colorful.Color{B: 1}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
