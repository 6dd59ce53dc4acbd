// Command superres upscales images 4x (or by the model's native factor)
// using tiled inference through an ONNX super-resolution model, falling
// back to plain interpolation when no model is given.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/cocosip/go-superres/imageio"
	"github.com/cocosip/go-superres/model"
	"github.com/cocosip/go-superres/model/interp"
	"github.com/cocosip/go-superres/model/onnx"
	"github.com/cocosip/go-superres/superres"
)

type options struct {
	Inputs   []string `short:"i" long:"input" required:"true" description:"Input image (repeatable); PNG, JPEG, GIF, TIFF, BMP or DICOM"`
	Output   string   `short:"o" long:"output" description:"Output file for a single input, or output directory"`
	Model    string   `short:"m" long:"model" description:"Path to an ONNX super-resolution model"`
	Backend  string   `long:"backend" description:"Backend to run, by name (default: the loaded model, else interp-catmullrom)"`
	OrtLib   string   `long:"ort-lib" description:"Path to the ONNX Runtime shared library"`
	Device   string   `short:"d" long:"device" default:"auto" description:"Compute device: auto, cpu or all"`
	TileSize int      `short:"t" long:"tile-size" default:"512" description:"Tile edge in source pixels"`
	Overlap  int      `long:"overlap" default:"32" description:"Overlap between adjacent tiles in source pixels"`
	Scale    int      `short:"s" long:"scale" default:"4" description:"Upscale factor for the interpolation fallback"`
	Jobs     int      `short:"j" long:"jobs" default:"1" description:"Images to process concurrently"`
	Verbose  bool     `short:"v" long:"verbose" description:"Per-tile progress logging"`
}

func main() {
	opts := &options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = "superres"
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts); err != nil {
		if errors.Is(err, superres.ErrCancelled) {
			// User abort: no output, no error message.
			os.Exit(130)
		}
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	m, cleanup, err := buildModel(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	token := superres.NewCancelToken()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		slog.Info("cancelling after current tile")
		token.Cancel()
	}()

	if opts.Output != "" && len(opts.Inputs) > 1 {
		if err := os.MkdirAll(opts.Output, 0o755); err != nil {
			return err
		}
	}

	upscaler := superres.New(m, superres.Options{
		TileSize: opts.TileSize,
		Overlap:  opts.Overlap,
	})

	var g errgroup.Group
	g.SetLimit(max(opts.Jobs, 1))
	for _, input := range opts.Inputs {
		g.Go(func() error {
			return processOne(upscaler, token, input, opts)
		})
	}
	return g.Wait()
}

// buildModel registers every available backend and resolves the one to
// run through the registry.
func buildModel(opts *options) (model.Model, func(), error) {
	cleanup := func() {}

	catmull, err := interp.New(opts.TileSize, opts.TileSize, opts.Scale)
	if err != nil {
		return nil, nil, err
	}
	model.Register(catmull)

	nearest, err := interp.NewWithKernel(opts.TileSize, opts.TileSize, opts.Scale,
		xdraw.NearestNeighbor, "interp-nearest")
	if err != nil {
		return nil, nil, err
	}
	model.Register(nearest)

	backend := opts.Backend
	if opts.Model != "" {
		device, err := model.ParseComputeDevice(opts.Device)
		if err != nil {
			return nil, nil, err
		}
		session, err := onnx.Load(onnx.Config{
			ModelPath:   opts.Model,
			LibraryPath: opts.OrtLib,
			Device:      device,
		})
		if err != nil {
			return nil, nil, err
		}
		model.Register(session)
		cleanup = func() { _ = session.Close() }

		w, h := session.InputSize()
		slog.Info("model loaded", "name", session.Name(),
			"input", fmt.Sprintf("%dx%d", w, h), "device", device)
		if backend == "" {
			backend = session.Name()
		}
	} else if backend == "" {
		slog.Info("no model given, using interpolation fallback", "scale", opts.Scale)
		backend = catmull.Name()
	}

	m, err := model.Get(backend)
	if err != nil {
		cleanup()
		var names []string
		for _, reg := range model.List() {
			names = append(names, reg.Name())
		}
		return nil, nil, fmt.Errorf("backend %q: %w (available: %s)", backend, err, strings.Join(names, ", "))
	}
	return m, cleanup, nil
}

func processOne(upscaler *superres.Upscaler, token *superres.CancelToken, input string, opts *options) error {
	img, err := imageio.Load(input)
	if err != nil {
		return err
	}

	res, err := upscaler.Upscale(img, token, func(fraction float64) {
		slog.Debug("progress", "input", input, "done", fmt.Sprintf("%.0f%%", fraction*100))
	})
	if err != nil {
		if errors.Is(err, superres.ErrCancelled) {
			return err
		}
		return fmt.Errorf("%s: %w", input, err)
	}
	if res.SkippedTiles > 0 {
		slog.Warn("output has gaps from failed tiles", "input", input, "skipped", res.SkippedTiles, "total", res.TotalTiles)
	}

	out := outputPath(input, opts, res.Scale)
	if err := imageio.Save(out, res.Image); err != nil {
		return err
	}
	slog.Info("saved", "input", input, "output", out,
		"size", fmt.Sprintf("%dx%d", res.Image.Bounds().Dx(), res.Image.Bounds().Dy()))
	return nil
}

func outputPath(input string, opts *options, scale int) string {
	if opts.Output != "" {
		if info, err := os.Stat(opts.Output); err == nil && info.IsDir() {
			return filepath.Join(opts.Output, upscaledName(input, scale))
		}
		if len(opts.Inputs) == 1 {
			return opts.Output
		}
		return filepath.Join(opts.Output, upscaledName(input, scale))
	}
	return filepath.Join(filepath.Dir(input), upscaledName(input, scale))
}

func upscaledName(input string, scale int) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_x%d.png", stem, scale)
}
