package densiteye

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/setanarut/densiteye/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHCL(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "run.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadArguments(t *testing.T) {
	dir := t.TempDir()
	path := writeHCL(t, dir, `
input                          = "art/sprite.png"
output_folder                  = "/tmp/densiteye-out"
output_name                    = "sprite"
format                         = "tiff"
disable_transparent_processing = true
foreground_color               = "auto"
background_color               = "#0000ff"
palette_method                 = "kmeans"
algorithm                      = "bfs"
`)

	args, err := LoadArguments(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "art", "sprite.png"), args.InputFilePath)
	assert.Equal(t, "/tmp/densiteye-out", args.OutputFolder)
	assert.Equal(t, "sprite", args.OutputName)
	assert.Equal(t, "tiff", args.Format)
	assert.True(t, args.DisableTransparentProcessing)
	assert.False(t, args.DisableOpaqueProcessing)
	assert.True(t, args.AutoForeground)
	assert.Equal(t, "#0000ff", args.BackgroundColor.Hex())
	assert.Equal(t, utils.PaletteMethodKMeans, args.PaletteMethod)
	assert.Equal(t, AlgorithmBreadthFirst, args.Algorithm)
}

func TestLoadArguments_Defaults(t *testing.T) {
	dir := t.TempDir()
	args, err := LoadArguments(writeHCL(t, dir, `output_name = "x"`))
	require.NoError(t, err)
	assert.Empty(t, args.InputFilePath)
	assert.Equal(t, "png", args.Format)
	assert.Equal(t, DefaultOptions(), args.Options)
}

func TestLoadArguments_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":         `input = `,
		"unknown field":  `colour = "red"`,
		"wrong type":     `disable_opaque_processing = "sometimes"`,
		"bad color":      `background_color = "#12"`,
		"bad palette":    `palette_method = "median-cut"`,
		"bad algorithm":  `algorithm = "chamfer"`,
		"bad foreground": `foreground_color = "nope"`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadArguments(writeHCL(t, t.TempDir(), src))
			assert.Error(t, err)
		})
	}

	_, err := LoadArguments(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.Error(t, err)
}

func TestArguments_SetForegroundColor(t *testing.T) {
	args := NewArguments("", "", "")
	require.NoError(t, args.SetForegroundColor("auto"))
	assert.True(t, args.AutoForeground)

	require.NoError(t, args.SetForegroundColor("#00ff00"))
	assert.False(t, args.AutoForeground)
	assert.Equal(t, "#00ff00", args.ForegroundColor.Hex())

	require.NoError(t, args.SetForegroundColor(""))
	assert.Equal(t, "#00ff00", args.ForegroundColor.Hex())
}
