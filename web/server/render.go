package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/loaders"
	"github.com/df07/go-voxel-raytracer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string    // Scene id (e.g., "example" or "layers:village")
	Width   int       // Image width
	Height  int       // Image height
	Samples int       // Samples per pixel, jittered when above one
	Seed    int64     // Jitter seed
	From    core.Vec3 // Camera position
	At      core.Vec3 // Camera target
	VFov    float64   // Vertical field of view in degrees
	Format  string    // Output extension: png, jpg or bmp
}

var contentTypes = map[string]string{
	"png": "image/png",
	"jpg": "image/jpeg",
	"bmp": "image/bmp",
}

// parseRenderRequest parses and validates the render query parameters
func parseRenderRequest(values url.Values) (RenderRequest, error) {
	cam := renderer.DefaultCameraConfig()
	frame := renderer.DefaultFrameConfig()
	req := RenderRequest{Scene: sceneParam(values), Format: "png"}

	var err error
	if req.Width, err = parseIntParam(values, "width", frame.Width, 16, 2000); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", frame.Height, 16, 2000); err != nil {
		return req, err
	}
	if req.Samples, err = parseIntParam(values, "samples", frame.SamplesPerPixel, 1, 1000); err != nil {
		return req, err
	}
	seed, err := parseIntParam(values, "seed", int(frame.Seed), 0, 1<<31-1)
	if err != nil {
		return req, err
	}
	req.Seed = int64(seed)
	if req.VFov, err = parseFloatParam(values, "fov", cam.VFov, 1, 179); err != nil {
		return req, err
	}
	if req.From, err = parseVec3Param(values, "from", cam.LookFrom); err != nil {
		return req, err
	}
	if req.At, err = parseVec3Param(values, "at", cam.LookAt); err != nil {
		return req, err
	}
	if req.From == req.At {
		return req, fmt.Errorf("from and at must differ")
	}
	if f := values.Get("format"); f != "" {
		if _, ok := contentTypes[f]; !ok {
			return req, fmt.Errorf("unsupported format: %s", f)
		}
		req.Format = f
	}

	return req, nil
}

// camera builds the camera described by the request
func (r RenderRequest) camera() *renderer.Camera {
	cfg := renderer.DefaultCameraConfig()
	cfg.LookFrom = r.From
	cfg.LookAt = r.At
	cfg.VFov = r.VFov
	cfg.AspectRatio = float64(r.Width) / float64(r.Height)
	return renderer.NewCamera(cfg)
}

// handleRender renders one image and returns it encoded in the requested format
func (s *Server) handleRender(c echo.Context) error {
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	renderID := uuid.New().String()
	logger := NewWebLogger(renderID, s.logChan)

	sc, err := s.loadScene(req.Scene, logger)
	if err != nil {
		return jsonError(c, http.StatusNotFound, err)
	}

	fr, err := renderer.NewFrameRenderer(sc, renderer.DefaultShadingConfig(), renderer.FrameConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.Samples,
		Jitter:          req.Samples > 1,
		Seed:            req.Seed,
	})
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	defer fr.Close()

	logger.Printf("Rendering %s at %dx%d, %d spp\n", req.Scene, req.Width, req.Height, req.Samples)
	start := time.Now()
	img, stats := fr.RenderImage(req.camera(), nil)
	logger.Printf("Render completed in %v (%.0f samples/s)\n",
		time.Since(start).Round(time.Millisecond), stats.SamplesPerSecond())

	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, img, "."+req.Format); err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}

	c.Response().Header().Set("X-Render-ID", renderID)
	return c.Blob(http.StatusOK, contentTypes[req.Format], buf.Bytes())
}
