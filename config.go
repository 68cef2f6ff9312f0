package densiteye

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/setanarut/densiteye/utils"
)

// argumentsFile is the decoding target of an HCL run file. Every
// attribute is optional so flags can fill the gaps.
type argumentsFile struct {
	Input                        string `hcl:"input,optional"`
	OutputFolder                 string `hcl:"output_folder,optional"`
	OutputName                   string `hcl:"output_name,optional"`
	Format                       string `hcl:"format,optional"`
	DisableTransparentProcessing bool   `hcl:"disable_transparent_processing,optional"`
	DisableOpaqueProcessing      bool   `hcl:"disable_opaque_processing,optional"`
	ForegroundColor              string `hcl:"foreground_color,optional"`
	BackgroundColor              string `hcl:"background_color,optional"`
	PaletteMethod                string `hcl:"palette_method,optional"`
	Algorithm                    string `hcl:"algorithm,optional"`
}

// LoadArguments reads run arguments from an HCL file. Relative input and
// output paths resolve against the directory of the file.
//
//	input            = "sprite.png"
//	output_folder    = "out"
//	output_name      = "sprite"
//	foreground_color = "auto"
func LoadArguments(path string) (Arguments, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Arguments{}, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var raw argumentsFile
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return Arguments{}, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	args, err := raw.arguments(filepath.Dir(path))
	if err != nil {
		return Arguments{}, fmt.Errorf("%s: %w", path, err)
	}
	return args, nil
}

func (raw argumentsFile) arguments(baseDir string) (Arguments, error) {
	args := NewArguments(resolve(baseDir, raw.Input), resolve(baseDir, raw.OutputFolder), raw.OutputName)
	if raw.Format != "" {
		args.Format = raw.Format
	}
	args.DisableTransparentProcessing = raw.DisableTransparentProcessing
	args.DisableOpaqueProcessing = raw.DisableOpaqueProcessing

	if err := args.SetForegroundColor(raw.ForegroundColor); err != nil {
		return Arguments{}, err
	}
	if raw.BackgroundColor != "" {
		c, err := ParseColor(raw.BackgroundColor)
		if err != nil {
			return Arguments{}, fmt.Errorf("background_color: %w", err)
		}
		args.BackgroundColor = c
	}
	m, err := utils.ParsePaletteMethod(raw.PaletteMethod)
	if err != nil {
		return Arguments{}, fmt.Errorf("palette_method: %w", err)
	}
	args.PaletteMethod = m
	a, err := ParseAlgorithm(raw.Algorithm)
	if err != nil {
		return Arguments{}, fmt.Errorf("algorithm: %w", err)
	}
	args.Algorithm = a
	return args, nil
}

// SetForegroundColor parses s into ForegroundColor. "auto" enables
// AutoForeground instead; an empty string leaves the options untouched.
func (a *Arguments) SetForegroundColor(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil
	case "auto":
		a.AutoForeground = true
		return nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("foreground_color: %w", err)
	}
	a.ForegroundColor = c
	a.AutoForeground = false
	return nil
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
