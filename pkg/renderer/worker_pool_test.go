package renderer

import (
	"testing"

	"github.com/df07/go-voxel-raytracer/pkg/scene"
)

func TestWorkerPool_RendersEveryRowOnce(t *testing.T) {
	config := FrameConfig{Width: 8, Height: 6, SamplesPerPixel: 2, Jitter: true, Seed: 3}
	rt := NewRaytracer(scene.New(), DefaultShadingConfig())
	camera := NewCamera(DefaultCameraConfig())
	frame := make([]byte, config.Width*config.Height*4)

	wp := NewWorkerPool(rt, config, 3)
	if wp.GetNumWorkers() != 3 {
		t.Fatalf("Expected 3 workers, got %d", wp.GetNumWorkers())
	}
	wp.Start()

	for y := 0; y < config.Height; y++ {
		wp.SubmitTask(RowTask{Row: y, Camera: camera, Frame: frame, TaskID: 100 + y})
	}

	seen := make(map[int]bool)
	for i := 0; i < config.Height; i++ {
		result, ok := wp.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		if result.TaskID != 100+result.Row {
			t.Errorf("Row %d returned task id %d", result.Row, result.TaskID)
		}
		if result.Samples != config.Width*config.SamplesPerPixel {
			t.Errorf("Row %d: expected %d samples, got %d", result.Row, config.Width*config.SamplesPerPixel, result.Samples)
		}
		if seen[result.Row] {
			t.Errorf("Row %d rendered twice", result.Row)
		}
		seen[result.Row] = true
	}

	wp.Stop()
	if _, ok := wp.GetResult(); ok {
		t.Error("Expected closed result queue after Stop")
	}

	// Every pixel is opaque sky
	for i := 3; i < len(frame); i += 4 {
		if frame[i] != 255 {
			t.Fatalf("Pixel %d has alpha %d", i/4, frame[i])
		}
	}
}

func TestWorkerPool_AutoWorkers(t *testing.T) {
	wp := NewWorkerPool(NewRaytracer(scene.New(), DefaultShadingConfig()), InteractiveFrameConfig(), 0)
	if wp.GetNumWorkers() < 1 {
		t.Errorf("Expected at least one worker, got %d", wp.GetNumWorkers())
	}
}
