package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"solarcube/pkg/aia"
	"solarcube/pkg/config"
	"solarcube/pkg/cube"
	"solarcube/pkg/fitsreader"
	"solarcube/pkg/goes"
	"solarcube/pkg/render"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "solarcube.yaml", "Path to YAML configuration file")
	inputDir := flag.String("input", "", "Directory containing single-image FITS files")
	passbands := flag.String("passbands", "", "Comma-separated AIA passbands matching the input files (e.g. 94,171,193)")
	gridOut := flag.String("grid", "", "Output PNG for a passband image grid")
	montageOut := flag.String("montage", "", "Output PNG for a montage of all frames")
	movieOut := flag.String("movie", "", "Output GIF animating all frames")
	framesDir := flag.String("dump-frames", "", "Directory to write individual frames via the frame viewer")
	startFrame := flag.Int("start", 0, "Frame index the viewer starts from when dumping frames")
	cols := flag.Int("cols", 0, "Grid columns (overrides config)")
	gap := flag.Int("gap", -1, "Pixel gap between grid cells (overrides config)")
	dpi := flag.Float64("dpi", 0, "Canvas density in dots per inch (overrides config)")
	fps := flag.Int("fps", 0, "Movie frame rate (overrides config)")
	vmaxPct := flag.Float64("vmax-percentile", -1, "Percentile for per-image display ceilings (overrides config)")
	goesStart := flag.String("goes-start", "", "Fetch GOES XRS data from this RFC3339 time")
	goesEnd := flag.String("goes-end", "", "Fetch GOES XRS data until this RFC3339 time")
	goesOut := flag.String("goes-out", "goes_xrs.png", "Output PNG for the fetched GOES timeseries")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides take precedence over the config file.
	if *cols > 0 {
		cfg.Grid.Cols = *cols
	}
	if *gap >= 0 {
		cfg.Grid.Gap = *gap
	}
	if *dpi > 0 {
		cfg.Grid.Dpi = *dpi
	}
	if *fps > 0 {
		cfg.Movie.FPS = *fps
	}
	if *vmaxPct >= 0 {
		cfg.Grid.VmaxPercentile = *vmaxPct
	}

	level := log.InfoLevel
	if *verbose || cfg.Output.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	wantImages := *gridOut != "" || *montageOut != "" || *movieOut != "" || *framesDir != ""
	wantGoes := *goesStart != "" || *goesEnd != ""
	if !wantImages && !wantGoes {
		flag.Usage()
		os.Exit(1)
	}

	if wantImages {
		if *inputDir == "" {
			logger.Fatal("image output requested but no -input directory given")
		}
		runImagePipeline(logger, cfg, *inputDir, *passbands, *gridOut, *montageOut, *movieOut, *framesDir, *startFrame)
	}

	if wantGoes {
		runGoesFetch(logger, cfg, *goesStart, *goesEnd, *goesOut)
	}
}

// runImagePipeline reads the FITS directory once and produces every
// requested image artifact from the resulting stack.
func runImagePipeline(logger *log.Logger, cfg *config.Config, inputDir, passbands, gridOut, montageOut, movieOut, framesDir string, startFrame int) {
	paths, err := filepath.Glob(filepath.Join(inputDir, "*.fits"))
	if err != nil {
		logger.Fatal("failed to list input directory", "err", err)
	}
	if len(paths) == 0 {
		logger.Fatal("no FITS files found", "dir", inputDir)
	}
	sort.Strings(paths)

	logger.Info("reading FITS files", "count", len(paths))
	stack, err := fitsreader.ReadImageStack(paths)
	if err != nil {
		logger.Fatal("failed to read FITS files", "err", err)
	}
	logger.Debug("stack loaded", "frames", stack.Frames, "height", stack.Height, "width", stack.Width)

	bands, err := parsePassbands(passbands)
	if err != nil {
		logger.Fatal("invalid -passbands", "err", err)
	}

	if gridOut != "" {
		if len(bands) == 0 {
			logger.Fatal("-grid requires -passbands")
		}
		var opts []aia.PlotOption
		if cfg.Grid.VmaxPercentile > 0 {
			opts = append(opts, aia.WithVMaxPercentile(cfg.Grid.VmaxPercentile))
		}
		img, err := aia.PlotImageGrid(stack, bands, cfg.Grid.Cols, cfg.Grid.Gap, cfg.Grid.Dpi, opts...)
		if err != nil {
			logger.Fatal("failed to build image grid", "err", err)
		}
		if err := render.SavePNG(gridOut, img); err != nil {
			logger.Fatal("failed to save image grid", "err", err)
		}
		logger.Info("image grid saved", "path", gridOut)
	}

	c := cube.New(stack, cube.WithLogger(logger))

	if montageOut != "" {
		img, err := c.Montage(cfg.Grid.Cols, cfg.Grid.Gap, cfg.Grid.Dpi)
		if err != nil {
			logger.Fatal("failed to build montage", "err", err)
		}
		if err := render.SavePNG(montageOut, img); err != nil {
			logger.Fatal("failed to save montage", "err", err)
		}
		logger.Info("montage saved", "path", montageOut)
	}

	if movieOut != "" {
		if len(bands) == 0 {
			logger.Fatal("-movie requires -passbands")
		}
		err := aia.MakeMovie(movieOut, stack, bands[0], aia.WithFPS(cfg.Movie.FPS))
		if err != nil {
			logger.Fatal("failed to write movie", "err", err)
		}
		logger.Info("movie saved", "path", movieOut, "fps", cfg.Movie.FPS)
	}

	if framesDir != "" {
		dumpFrames(logger, c, framesDir, startFrame)
	}
}

// dumpFrames drives the frame viewer from startFrame until exhaustion,
// saving each default-rendered frame as a PNG.
func dumpFrames(logger *log.Logger, c *cube.Cube, dir string, startFrame int) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Fatal("failed to create frames directory", "err", err)
	}

	viewer := c.NewViewer()
	for i := 0; ; i++ {
		var opts []cube.AdvanceOption
		if i == 0 && startFrame > 0 {
			opts = append(opts, cube.WithStart(startFrame))
		}
		_, ok, err := viewer.Advance(opts...)
		if err != nil {
			logger.Fatal("failed to advance viewer", "err", err)
		}
		if !ok {
			break
		}

		path := filepath.Join(dir, fmt.Sprintf("frame_%03d.png", startFrame+i))
		if err := render.SavePNG(path, viewer.LastImage()); err != nil {
			logger.Fatal("failed to save frame", "path", path, "err", err)
		}
	}
	logger.Info("frames dumped", "dir", dir)
}

// runGoesFetch fetches the requested XRS window and plots it.
func runGoesFetch(logger *log.Logger, cfg *config.Config, startStr, endStr, out string) {
	if startStr == "" || endStr == "" {
		logger.Fatal("both -goes-start and -goes-end are required")
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		logger.Fatal("invalid -goes-start", "err", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		logger.Fatal("invalid -goes-end", "err", err)
	}

	client := goes.NewClient(
		goes.WithBaseURL(cfg.Goes.BaseURL),
		goes.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Goes.TimeoutSeconds) * time.Second}),
		goes.WithLogger(logger),
	)

	ts, err := client.FetchXRS(context.Background(), start, end)
	if err != nil {
		logger.Fatal("GOES fetch failed", "err", err)
	}

	if err := goes.PlotTimeSeries(ts, out); err != nil {
		logger.Fatal("failed to plot timeseries", "err", err)
	}
	logger.Info("GOES timeseries saved", "path", out, "satellite", ts.Satellite, "samples", ts.Len())
}

// parsePassbands parses a comma-separated wavelength list such as
// "94,171,193". An empty string yields no passbands.
func parsePassbands(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	bands := make([]int, 0, len(parts))
	for _, p := range parts {
		band, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad passband %q: %w", p, err)
		}
		bands = append(bands, band)
	}
	return bands, nil
}
