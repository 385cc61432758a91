package renderer

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// FrameConfig contains the per-frame sampling configuration
type FrameConfig struct {
	Width           int   // Image width, at least 2
	Height          int   // Image height, at least 2
	SamplesPerPixel int   // Rays per pixel
	Jitter          bool  // Offset each sample randomly within its pixel
	Seed            int64 // Base seed for jitter
	NumWorkers      int   // Number of parallel workers (0 = auto-detect CPU count)
}

// DefaultFrameConfig returns the batch render configuration
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		Width:           800,
		Height:          450,
		SamplesPerPixel: 4,
		Jitter:          true,
		Seed:            42,
		NumWorkers:      0,
	}
}

// InteractiveFrameConfig returns a low-resolution configuration with one
// unjittered sample per pixel, suitable for real-time preview
func InteractiveFrameConfig() FrameConfig {
	return FrameConfig{
		Width:           320,
		Height:          180,
		SamplesPerPixel: 1,
		Jitter:          false,
		NumWorkers:      0,
	}
}

// Validate checks that the configuration can be rendered
func (c FrameConfig) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("frame must be at least 2x2, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	return nil
}

// AspectRatio returns width / height
func (c FrameConfig) AspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}

// Progress reports how many rows of the current frame are finished
type Progress struct {
	RowsDone  int
	TotalRows int
}

// Percent returns the completed fraction as a percentage
func (p Progress) Percent() float64 {
	if p.TotalRows == 0 {
		return 100
	}
	return 100 * float64(p.RowsDone) / float64(p.TotalRows)
}

// FrameRenderer renders whole frames on a persistent worker pool. Frames are
// rendered one at a time; concurrent calls are serialized.
type FrameRenderer struct {
	raytracer  *Raytracer
	config     FrameConfig
	workerPool *WorkerPool
	mu         sync.Mutex
	closed     bool
}

// NewFrameRenderer creates a frame renderer and starts its workers. Call
// Close to stop them.
func NewFrameRenderer(s *scene.Scene, shading ShadingConfig, config FrameConfig) (*FrameRenderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	raytracer := NewRaytracer(s, shading)
	pool := NewWorkerPool(raytracer, config, config.NumWorkers)
	pool.Start()

	return &FrameRenderer{
		raytracer:  raytracer,
		config:     config,
		workerPool: pool,
	}, nil
}

// Config returns the frame configuration
func (fr *FrameRenderer) Config() FrameConfig {
	return fr.config
}

// NumWorkers returns the size of the worker pool
func (fr *FrameRenderer) NumWorkers() int {
	return fr.workerPool.GetNumWorkers()
}

// RenderImage renders a frame into a new image. progress, if not nil, is
// called on the calling goroutine after each finished row.
func (fr *FrameRenderer) RenderImage(camera *Camera, progress func(Progress)) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, fr.config.Width, fr.config.Height))
	stats := fr.render(camera, img.Pix, progress)
	return img, stats
}

// RenderFrame renders into a caller-owned RGBA8 buffer of Width*Height*4
// bytes, row 0 at the top
func (fr *FrameRenderer) RenderFrame(camera *Camera, frame []byte) RenderStats {
	if need := fr.config.Width * fr.config.Height * 4; len(frame) < need {
		panic(fmt.Sprintf("frame buffer holds %d bytes, need %d", len(frame), need))
	}
	return fr.render(camera, frame, nil)
}

// render submits one task per row and waits for all of them
func (fr *FrameRenderer) render(camera *Camera, frame []byte, progress func(Progress)) RenderStats {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.closed {
		panic("render on closed FrameRenderer")
	}

	start := time.Now()
	height := fr.config.Height

	for y := 0; y < height; y++ {
		fr.workerPool.SubmitTask(RowTask{
			Row:    y,
			Camera: camera,
			Frame:  frame,
			TaskID: y,
		})
	}

	stats := RenderStats{
		TotalPixels:     fr.config.Width * height,
		Rows:            height,
		SamplesPerPixel: max(fr.config.SamplesPerPixel, 1),
	}
	for done := 1; done <= height; done++ {
		result, ok := fr.workerPool.GetResult()
		if !ok {
			break
		}
		stats.TotalSamples += result.Samples
		if progress != nil {
			progress(Progress{RowsDone: done, TotalRows: height})
		}
	}
	stats.Duration = time.Since(start)

	return stats
}

// Close stops the worker pool. The renderer cannot be used afterwards.
func (fr *FrameRenderer) Close() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.closed {
		return
	}
	fr.closed = true
	fr.workerPool.Stop()
}
