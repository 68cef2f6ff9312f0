package densiteye

import (
	"context"
	"image"
	"image/color"
	"log/slog"

	"github.com/setanarut/densiteye/utils"
	"golang.org/x/sync/errgroup"
)

var peakColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Densiteye holds the opacity of one image and the layer fields computed
// from it. Fields are nil until Build computes them.
type Densiteye struct {
	InputImage image.Image
	Alpha      []uint8 // len = W*H
	W, H       int
	Forward    *LayerField
	Inverse    *LayerField
}

func New(input image.Image) *Densiteye {
	alpha, w, h := alphaChannel(input)
	return &Densiteye{
		InputImage: input,
		Alpha:      alpha,
		W:          w,
		H:          h,
	}
}

// Build computes the requested fields concurrently. Each field owns its
// buffers; only the alpha buffer is shared, read-only.
func (d *Densiteye) Build(ctx context.Context, algo Algorithm, forward, inverse bool) error {
	g, ctx := errgroup.WithContext(ctx)
	compute := func(dst **LayerField, member Membership) func() error {
		return func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			*dst = algo.Compute(d.Alpha, d.W, d.H, member)
			return nil
		}
	}
	if forward {
		g.Go(compute(&d.Forward, ForegroundMember))
	}
	if inverse {
		g.Go(compute(&d.Inverse, BackgroundMember))
	}
	return g.Wait()
}

// ForegroundPixels returns the colors of the pixels layered by the
// forward field, in row-major order. It is nil before Build.
func (d *Densiteye) ForegroundPixels() []color.NRGBA {
	if d.Forward == nil {
		return nil
	}
	b := d.InputImage.Bounds()
	var pixels []color.NRGBA
	for y := range d.H {
		for x := range d.W {
			if d.Forward.Layers[y*d.W+x] == 0 {
				continue
			}
			pixels = append(pixels, color.NRGBAModel.Convert(d.InputImage.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
		}
	}
	return pixels
}

// Run validates args, computes the enabled fields of the input image and
// writes every enabled artifact. It returns the paths written, in order.
func Run(ctx context.Context, args Arguments) ([]string, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	log := Logger()
	opaque := !args.DisableOpaqueProcessing
	transparent := !args.DisableTransparentProcessing
	if !opaque && !transparent {
		log.Warn("opaque and transparent processing both disabled, nothing to do")
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := utils.ReadImage(args.InputFilePath)
	if err != nil {
		return nil, &DecodeError{Path: args.InputFilePath, Err: err}
	}
	d := New(img)
	log.Info("image loaded", "path", args.InputFilePath, "width", d.W, "height", d.H)

	if err := d.Build(ctx, args.Algorithm, opaque, transparent); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name  string
		field *LayerField
	}{{"forward", d.Forward}, {"inverse", d.Inverse}} {
		if f.field == nil {
			continue
		}
		s := Summarize(f.field)
		log.Info("layer field", "field", f.name, "algorithm", args.Algorithm.String(),
			"maxLayer", s.MaxLayer, "members", s.Members, "mean", s.Mean, "stddev", s.StdDev)
	}

	fgColor := args.ForegroundColor
	if args.AutoForeground && d.Forward != nil {
		c, used, ok := utils.BrightestDominantColor(d.ForegroundPixels(), args.PaletteMethod)
		if !ok {
			log.Warn("no opaque pixels to pick a foreground color from", "color", fgColor.Hex())
		} else {
			if used != args.PaletteMethod {
				log.Warn("palette method returned nothing, fell back", "method", args.PaletteMethod.String(), "used", used.String())
			}
			fgColor = c
			log.Info("foreground color picked from palette", "method", used.String(), "color", c.Hex())
		}
	}

	w := &artifactWriter{ctx: ctx, args: args, log: log}
	var fg, bg *image.NRGBA
	if opaque {
		fg = RenderGradient(d.Forward, toNRGBA(fgColor))
		w.write(ArtifactGradientForeground, fg)
	}
	if transparent {
		bg = RenderGradient(d.Inverse, toNRGBA(args.BackgroundColor))
		w.write(ArtifactGradientBackground, bg)
	}
	if opaque && transparent {
		w.write(ArtifactGradient, MergeGradients(fg, bg))
	}
	if w.err == nil {
		stamps, err := RenderStamps(d.Alpha, d.W, d.H, d.Forward, d.Inverse)
		if err != nil {
			return w.written, err
		}
		w.write(ArtifactScaleIt, stamps)
	}
	if opaque {
		w.write(ArtifactPeakLines, ExtractPeaks(d.Forward).Image(peakColor))
	}
	if transparent {
		w.write(ArtifactInversePeakLines, ExtractPeaks(d.Inverse).Image(peakColor))
	}
	return w.written, w.err
}

// artifactWriter saves artifacts until the first failure or cancellation;
// later writes become no-ops.
type artifactWriter struct {
	ctx     context.Context
	args    Arguments
	log     *slog.Logger
	written []string
	err     error
}

func (w *artifactWriter) write(kind Artifact, img image.Image) {
	if w.err != nil {
		return
	}
	if err := w.ctx.Err(); err != nil {
		w.err = err
		return
	}
	path := w.args.ArtifactPath(kind)
	if err := utils.SaveImage(img, path); err != nil {
		w.err = &WriteError{Path: path, Err: err}
		return
	}
	w.written = append(w.written, path)
	w.log.Info("artifact written", "artifact", string(kind), "path", path)
}
