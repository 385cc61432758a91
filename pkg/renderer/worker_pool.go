package renderer

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-voxel-raytracer/pkg/core"
)

// RowTask represents one image row to render
type RowTask struct {
	Row    int
	Camera *Camera
	Frame  []byte // Shared RGBA8 frame; the task writes only its own row
	TaskID int    // Position within the frame's submission order
}

// RowResult contains the result from rendering a row
type RowResult struct {
	TaskID  int
	Row     int
	Samples int
}

// WorkerPool manages parallel row rendering. Workers are started once and
// reused for every frame until Stop.
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows taken from the pool's queue
type Worker struct {
	ID          int
	raytracer   *Raytracer
	config      FrameConfig
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool for frames of the given configuration.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(raytracer *Raytracer, config FrameConfig, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// One slot per row so a whole frame can be queued without blocking
	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, config.Height),
		resultQueue: make(chan RowResult, config.Height),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			config:      config,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		samples := w.renderRow(task)
		w.resultQueue <- RowResult{
			TaskID:  task.TaskID,
			Row:     task.Row,
			Samples: samples,
		}
	}
}

// renderRow shades every pixel of one row into the shared frame
func (w *Worker) renderRow(task RowTask) int {
	cfg := w.config
	width, height := cfg.Width, cfg.Height
	samples := max(cfg.SamplesPerPixel, 1)

	var random *rand.Rand
	if cfg.Jitter {
		random = rand.New(rand.NewSource(rowSeed(cfg.Seed, task.Row)))
	}

	y := task.Row
	row := task.Frame[y*width*4 : (y+1)*width*4]
	for x := 0; x < width; x++ {
		var accum [3]float64
		for s := 0; s < samples; s++ {
			jx, jy := 0.0, 0.0
			if random != nil {
				jx, jy = random.Float64(), random.Float64()
			}
			u := (float64(x) + jx) / float64(width-1)
			v := (float64(height-1-y) + jy) / float64(height-1)

			c := w.raytracer.Trace(task.Camera.GetRay(u, v), 0)
			accum[0] += c.X
			accum[1] += c.Y
			accum[2] += c.Z
		}

		scale := 1.0 / float64(samples)
		pixel := vec3ToColor(core.NewVec3(accum[0]*scale, accum[1]*scale, accum[2]*scale))
		i := x * 4
		row[i], row[i+1], row[i+2], row[i+3] = pixel.R, pixel.G, pixel.B, pixel.A
	}

	return width * samples
}

// rowSeed derives an independent per-row seed so a frame's jitter does not
// depend on which worker renders which row
func rowSeed(seed int64, row int) int64 {
	return int64(uint64(seed) ^ (uint64(row)+1)*0x9E3779B97F4A7C15)
}
