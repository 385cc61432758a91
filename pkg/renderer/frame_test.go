package renderer

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
	"github.com/df07/go-voxel-raytracer/pkg/scene"
)

func newTestRenderer(t *testing.T, s *scene.Scene, config FrameConfig) *FrameRenderer {
	t.Helper()
	fr, err := NewFrameRenderer(s, DefaultShadingConfig(), config)
	if err != nil {
		t.Fatalf("NewFrameRenderer failed: %v", err)
	}
	t.Cleanup(fr.Close)
	return fr
}

func TestFrameConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  FrameConfig
		wantErr bool
	}{
		{"default", DefaultFrameConfig(), false},
		{"interactive", InteractiveFrameConfig(), false},
		{"single column", FrameConfig{Width: 1, Height: 10, SamplesPerPixel: 1}, true},
		{"single row", FrameConfig{Width: 10, Height: 1, SamplesPerPixel: 1}, true},
		{"no samples", FrameConfig{Width: 10, Height: 10, SamplesPerPixel: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewFrameRenderer(scene.New(), DefaultShadingConfig(), FrameConfig{Width: 1, Height: 1, SamplesPerPixel: 1}); err == nil {
		t.Error("NewFrameRenderer should reject an invalid configuration")
	}
}

// Camera above a single cube looking straight down at the center of its top face
func TestFrameRenderer_SingleCubeCenterPixel(t *testing.T) {
	base := color.RGBA{200, 100, 50, 255}
	s := scene.New()
	s.AddCube(core.NewVec3(0, 0, 0), 1, material.NewSolid("clay", base))

	config := FrameConfig{Width: 3, Height: 3, SamplesPerPixel: 1, NumWorkers: 2}
	fr := newTestRenderer(t, s, config)
	camera := NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(0, 5, 0),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 0, -1),
		VFov:        10,
		AspectRatio: config.AspectRatio(),
	})

	img, stats := fr.RenderImage(camera, nil)

	light := 0.4 + 0.6*(1/math.Sqrt(0.25+1+0.09))
	expected := color.RGBA{
		R: uint8(math.Sqrt(200.0/255*light) * 255),
		G: uint8(math.Sqrt(100.0/255*light) * 255),
		B: uint8(math.Sqrt(50.0/255*light) * 255),
		A: 255,
	}
	if got := img.RGBAAt(1, 1); got != expected {
		t.Errorf("Center pixel: expected %v, got %v", expected, got)
	}

	if stats.TotalPixels != 9 || stats.TotalSamples != 9 || stats.Rows != 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestFrameRenderer_EmptySceneIsSky(t *testing.T) {
	config := FrameConfig{Width: 8, Height: 6, SamplesPerPixel: 1}
	fr := newTestRenderer(t, scene.New(), config)
	camera := NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(1, 0.2, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        70,
		AspectRatio: config.AspectRatio(),
	})
	rt := NewRaytracer(scene.New(), DefaultShadingConfig())

	img, _ := fr.RenderImage(camera, nil)

	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			u := float64(x) / float64(config.Width-1)
			v := float64(config.Height-1-y) / float64(config.Height-1)
			expected := vec3ToColor(rt.Sky(camera.GetRay(u, v).Direction))
			if got := img.RGBAAt(x, y); got != expected {
				t.Fatalf("Pixel (%d,%d): expected %v, got %v", x, y, expected, got)
			}
		}
	}

	// Row 0 is the top of the image, so it is closer to the zenith color
	top, bottom := img.RGBAAt(0, 0), img.RGBAAt(0, config.Height-1)
	if top.R >= bottom.R {
		t.Errorf("Expected bluer sky at the top: top=%v bottom=%v", top, bottom)
	}
}

func TestFrameRenderer_DeterministicWithSeed(t *testing.T) {
	s := scene.NewExampleScene(nil)
	camera := NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(20, 15, 20),
		LookAt:      core.NewVec3(6, 3, 6),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60,
		AspectRatio: 16.0 / 9.0,
	})

	render := func(seed int64, workers int) []byte {
		config := FrameConfig{Width: 32, Height: 18, SamplesPerPixel: 3, Jitter: true, Seed: seed, NumWorkers: workers}
		fr := newTestRenderer(t, s, config)
		img, _ := fr.RenderImage(camera, nil)
		return img.Pix
	}

	a := render(7, 1)
	b := render(7, 4)
	if !bytes.Equal(a, b) {
		t.Error("Same seed should give identical images regardless of worker count")
	}

	c := render(8, 4)
	if bytes.Equal(a, c) {
		t.Error("Different seeds should give different jitter")
	}
}

func TestFrameRenderer_RenderFrameMatchesRenderImage(t *testing.T) {
	s := scene.NewExampleScene(nil)
	config := InteractiveFrameConfig()
	config.Width, config.Height = 40, 24
	fr := newTestRenderer(t, s, config)
	camera := NewCamera(CameraConfig{
		LookFrom:    core.NewVec3(6, 3.5, 6),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60,
		AspectRatio: config.AspectRatio(),
	})

	img, _ := fr.RenderImage(camera, nil)

	// Reuse the pool for several frames into the same buffer
	frame := make([]byte, config.Width*config.Height*4)
	for i := 0; i < 3; i++ {
		stats := fr.RenderFrame(camera, frame)
		if stats.TotalSamples != config.Width*config.Height {
			t.Errorf("Frame %d: expected %d samples, got %d", i, config.Width*config.Height, stats.TotalSamples)
		}
	}
	if !bytes.Equal(frame, img.Pix) {
		t.Error("RenderFrame and RenderImage should produce the same pixels")
	}
	for i := 3; i < len(frame); i += 4 {
		if frame[i] != 255 {
			t.Fatalf("Alpha at byte %d is %d, want 255", i, frame[i])
		}
	}
}

func TestFrameRenderer_Progress(t *testing.T) {
	config := FrameConfig{Width: 4, Height: 10, SamplesPerPixel: 1, NumWorkers: 3}
	fr := newTestRenderer(t, scene.New(), config)
	camera := NewCamera(DefaultCameraConfig())

	var updates []Progress
	fr.RenderImage(camera, func(p Progress) {
		updates = append(updates, p)
	})

	if len(updates) != config.Height {
		t.Fatalf("Expected %d progress updates, got %d", config.Height, len(updates))
	}
	for i, p := range updates {
		if p.RowsDone != i+1 || p.TotalRows != config.Height {
			t.Errorf("Update %d: unexpected progress %+v", i, p)
		}
	}
	if updates[len(updates)-1].Percent() != 100 {
		t.Errorf("Final progress should be 100%%, got %f", updates[len(updates)-1].Percent())
	}
}

func TestFrameRenderer_RenderFrameShortBufferPanics(t *testing.T) {
	config := FrameConfig{Width: 4, Height: 4, SamplesPerPixel: 1}
	fr := newTestRenderer(t, scene.New(), config)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for short frame buffer")
		}
	}()
	fr.RenderFrame(NewCamera(DefaultCameraConfig()), make([]byte, 10))
}

func TestFrameRenderer_CloseIsIdempotent(t *testing.T) {
	fr, err := NewFrameRenderer(scene.New(), DefaultShadingConfig(), FrameConfig{Width: 2, Height: 2, SamplesPerPixel: 1, NumWorkers: 2})
	if err != nil {
		t.Fatalf("NewFrameRenderer failed: %v", err)
	}
	if fr.NumWorkers() != 2 {
		t.Errorf("Expected 2 workers, got %d", fr.NumWorkers())
	}
	fr.Close()
	fr.Close()
}

func TestRowSeed_DistinctPerRow(t *testing.T) {
	seen := make(map[int64]int)
	for row := 0; row < 1000; row++ {
		s := rowSeed(42, row)
		if prev, ok := seen[s]; ok {
			t.Fatalf("Rows %d and %d share seed %d", prev, row, s)
		}
		seen[s] = row
	}
}
