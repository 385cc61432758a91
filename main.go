package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/loaders"
	"github.com/df07/go-voxel-raytracer/pkg/renderer"
)

// options holds the parsed command line
type options struct {
	layersDir   string
	palettePath string
	texturesDir string
	outPath     string
	from        core.Vec3
	at          core.Vec3
	fov         float64
	frame       renderer.FrameConfig
}

func main() {
	defaults := renderer.DefaultFrameConfig()
	camera := renderer.DefaultCameraConfig()

	layersDir := flag.String("layers", "layers", "Directory of layer files (*.txt), one per height level")
	palettePath := flag.String("palette", "", "Block palette YAML file (default: built-in palette)")
	texturesDir := flag.String("textures", "textures", "Directory texture paths are resolved against")
	width := flag.Int("width", defaults.Width, "Image width in pixels")
	height := flag.Int("height", defaults.Height, "Image height in pixels")
	samples := flag.Int("samples", defaults.SamplesPerPixel, "Jittered samples per pixel")
	seed := flag.Int64("seed", defaults.Seed, "Seed for sample jitter")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	from := flag.String("from", formatVec3(camera.LookFrom), "Camera position as x,y,z")
	at := flag.String("at", formatVec3(camera.LookAt), "Camera target as x,y,z")
	fov := flag.Float64("fov", camera.VFov, "Vertical field of view in degrees")
	outPath := flag.String("out", "", "Output image (.png, .jpg or .bmp; default: output/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Voxel Raytracer")
		fmt.Println("Usage: voxel-raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Layer files hold one character per block; '_', 'X' and space are empty.")
		fmt.Println("Without a layers directory the built-in cave scene is rendered.")
		return
	}

	opts := options{
		layersDir:   *layersDir,
		palettePath: *palettePath,
		texturesDir: *texturesDir,
		outPath:     *outPath,
		fov:         *fov,
		frame: renderer.FrameConfig{
			Width:           *width,
			Height:          *height,
			SamplesPerPixel: *samples,
			Jitter:          *samples > 1,
			Seed:            *seed,
			NumWorkers:      *workers,
		},
	}

	var err error
	if opts.from, err = parseVec3(*from); err != nil {
		fmt.Printf("Error: -from: %v\n", err)
		os.Exit(2)
	}
	if opts.at, err = parseVec3(*at); err != nil {
		fmt.Printf("Error: -at: %v\n", err)
		os.Exit(2)
	}
	if opts.outPath == "" {
		opts.outPath = filepath.Join("output", fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}

	logger := renderer.NewDefaultLogger()
	fmt.Println("Starting Voxel Raytracer...")
	logHostInfo(logger)

	if err := run(opts, logger); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the scene, renders it and writes the image
func run(opts options, logger core.Logger) error {
	if err := opts.frame.Validate(); err != nil {
		return err
	}

	palette := loaders.PaletteOrDefault(opts.palettePath, opts.texturesDir, logger)
	s := loaders.LoadLayers(opts.layersDir, palette, logger)
	logger.Printf("Scene has %d cubes\n", s.Len())

	fr, err := renderer.NewFrameRenderer(s, renderer.DefaultShadingConfig(), opts.frame)
	if err != nil {
		return err
	}
	defer fr.Close()

	camera := renderer.NewCamera(renderer.CameraConfig{
		LookFrom:    opts.from,
		LookAt:      opts.at,
		Up:          core.NewVec3(0, 1, 0),
		VFov:        opts.fov,
		AspectRatio: opts.frame.AspectRatio(),
	})

	logger.Printf("Rendering %dx%d, %d samples per pixel, %d workers\n",
		opts.frame.Width, opts.frame.Height, opts.frame.SamplesPerPixel, fr.NumWorkers())
	img, stats := fr.RenderImage(camera, progressReporter(logger))

	logger.Printf("Render completed in %v (%.0f samples/s)\n", stats.Duration.Round(time.Millisecond), stats.SamplesPerSecond())
	logger.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(img))

	if dir := filepath.Dir(opts.outPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := loaders.SaveImage(opts.outPath, img); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", opts.outPath)
	return nil
}

// progressReporter logs every 5% of finished rows
func progressReporter(logger core.Logger) func(renderer.Progress) {
	lastMilestone := 0
	return func(p renderer.Progress) {
		milestone := int(p.Percent()) / 5 * 5
		if milestone > lastMilestone {
			lastMilestone = milestone
			logger.Printf("Progress: %d%%\n", milestone)
		}
	}
}

// logHostInfo prints the CPU model and memory, when available
func logHostInfo(logger core.Logger) {
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		logger.Printf("CPU: %s (%d logical cores)\n", strings.TrimSpace(info[0].ModelName), countLogicalCores(info))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		logger.Printf("Memory: %d GB\n", vm.Total/(1024*1024*1024))
	}
}

func countLogicalCores(info []cpu.InfoStat) int {
	cores := 0
	for _, i := range info {
		cores += int(i.Cores)
	}
	if cores == 0 {
		cores = len(info)
	}
	return cores
}

// parseVec3 parses "x,y,z"
func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid component %q: %w", part, err)
		}
		v[i] = f
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func formatVec3(v core.Vec3) string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}
