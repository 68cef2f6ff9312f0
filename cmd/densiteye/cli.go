package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/setanarut/densiteye"
	"github.com/setanarut/densiteye/utils"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

type config struct {
	args      densiteye.Arguments
	logLevel  string
	logFormat string
}

// parse turns command-line arguments into a config. The boolean is true
// when the program should exit cleanly without running (help, no input).
func parse(args []string, output io.Writer) (*config, bool, error) {
	flagSet := flag.NewFlagSet("densiteye", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
densiteye - ring-distance fields, gradients and peak lines from image opacity.

Usage:
  densiteye [options] [INPUT]

Arguments:
  INPUT
    Image to process. Overrides the input of -config.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "HCL file with run arguments. Flags override its values.")
	inputFlag := flagSet.String("input", "", "Input image path.")
	outputFlag := flagSet.String("output", "", "Output folder, created if missing.")
	nameFlag := flagSet.String("name", "", "Stem for every output file.")
	formatFlag := flagSet.String("format", "png", "Output format: png, jpg, bmp or tiff.")
	noTransparentFlag := flagSet.Bool("no-transparent", false, "Skip the transparent-region field and its outputs.")
	noOpaqueFlag := flagSet.Bool("no-opaque", false, "Skip the opaque-region field and its outputs.")
	fgFlag := flagSet.String("fg", "#ffffff", "Foreground gradient color, or 'auto' to use the image palette.")
	bgFlag := flagSet.String("bg", "#ff0000", "Background gradient color.")
	paletteFlag := flagSet.String("palette", "dominantcolor", "Palette method for -fg auto: 'dominantcolor' or 'kmeans'.")
	algorithmFlag := flagSet.String("algorithm", "relaxation", "Layering engine: 'relaxation' or 'bfs'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	runArgs := densiteye.NewArguments("", "", "")
	if *configFlag != "" {
		loaded, err := densiteye.LoadArguments(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		runArgs = loaded
	}

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["input"] {
		runArgs.InputFilePath = *inputFlag
	} else if flagSet.NArg() > 0 {
		runArgs.InputFilePath = flagSet.Arg(0)
	}
	if runArgs.InputFilePath == "" {
		flagSet.Usage()
		return nil, true, nil
	}
	if set["output"] {
		runArgs.OutputFolder = *outputFlag
	}
	if set["name"] {
		runArgs.OutputName = *nameFlag
	}
	if set["format"] {
		runArgs.Format = *formatFlag
	}
	if set["no-transparent"] {
		runArgs.DisableTransparentProcessing = *noTransparentFlag
	}
	if set["no-opaque"] {
		runArgs.DisableOpaqueProcessing = *noOpaqueFlag
	}
	if set["fg"] {
		if err := runArgs.SetForegroundColor(*fgFlag); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}
	if set["bg"] {
		c, err := densiteye.ParseColor(*bgFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: "bg: " + err.Error()}
		}
		runArgs.BackgroundColor = c
	}
	if set["palette"] {
		m, err := utils.ParsePaletteMethod(*paletteFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		runArgs.PaletteMethod = m
	}
	if set["algorithm"] {
		a, err := densiteye.ParseAlgorithm(*algorithmFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		runArgs.Algorithm = a
	}

	return &config{args: runArgs, logLevel: logLevel, logFormat: logFormat}, false, nil
}
