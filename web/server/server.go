package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/loaders"
	"github.com/df07/go-voxel-raytracer/pkg/material"
	"github.com/df07/go-voxel-raytracer/pkg/scene"
)

// Config holds the server settings
type Config struct {
	Port      int    // Port to listen on
	ScenesDir string // Directory holding one subdirectory of layer files per scene
}

// Server handles web requests for the voxel raytracer
type Server struct {
	config  Config
	palette *material.Palette
	echo    *echo.Echo
	console *ConsoleBuffer
	logChan chan ConsoleMessage

	mu     sync.Mutex
	scenes map[string]*scene.Scene // Built scenes by id
}

// NewServer creates a new web server. Scenes are built lazily with the given
// palette and cached for the lifetime of the server.
func NewServer(config Config, palette *material.Palette) *Server {
	s := &Server{
		config:  config,
		palette: palette,
		echo:    echo.New(),
		console: NewConsoleBuffer(500),
		logChan: make(chan ConsoleMessage, 100),
		scenes:  make(map[string]*scene.Scene),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/scene", s.handleSceneInfo)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/inspect", s.handleInspect)
	s.echo.GET("/api/console", s.handleConsole)

	go s.console.Run(s.logChan)

	return s
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%d", s.config.Port))
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scene and every scene pack
func (s *Server) handleScenes(c echo.Context) error {
	scenes, err := scene.ListAllScenes(s.config.ScenesDir)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, scenes)
}

// SceneResponse describes a built scene
type SceneResponse struct {
	ID        string         `json:"id"`
	Cubes     int            `json:"cubes"`
	Min       [3]float64     `json:"min"`
	Max       [3]float64     `json:"max"`
	Materials map[string]int `json:"materials"`
	Palette   []string       `json:"palette"`
}

// handleSceneInfo reports the size and contents of a scene
func (s *Server) handleSceneInfo(c echo.Context) error {
	id := sceneParam(c.QueryParams())
	sc, err := s.loadScene(id, core.NopLogger{})
	if err != nil {
		return jsonError(c, http.StatusNotFound, err)
	}

	resp := SceneResponse{
		ID:        id,
		Cubes:     sc.Len(),
		Materials: sc.MaterialCounts(),
		Palette:   s.palette.Codes(),
	}
	if lo, hi, ok := sc.Bounds(); ok {
		resp.Min = vecArray(lo)
		resp.Max = vecArray(hi)
	}
	return c.JSON(http.StatusOK, resp)
}

// loadScene returns the cached scene for id, building it on first use
func (s *Server) loadScene(id string, logger core.Logger) (*scene.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc, ok := s.scenes[id]; ok {
		return sc, nil
	}

	info, ok := scene.FindScene(s.config.ScenesDir, id)
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", id)
	}

	var sc *scene.Scene
	switch info.Type {
	case "builtin":
		sc = scene.NewExampleScene(s.palette)
	default:
		sc = loaders.LoadLayers(info.Dir, s.palette, logger)
	}
	logger.Printf("Built scene %s with %d cubes\n", id, sc.Len())

	s.scenes[id] = sc
	return sc, nil
}

func sceneParam(values url.Values) string {
	if id := values.Get("scene"); id != "" {
		return id
	}
	return scene.ExampleSceneID
}

func jsonError(c echo.Context, code int, err error) error {
	return c.JSON(code, map[string]string{"error": err.Error()})
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseVec3Param parses an "x,y,z" parameter from URL query
func parseVec3Param(values url.Values, key string, defaultValue core.Vec3) (core.Vec3, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("invalid %s: expected x,y,z, got: %s", key, value)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid %s: %s", key, value)
		}
		xyz[i] = f
	}
	return core.NewVec3(xyz[0], xyz[1], xyz[2]), nil
}
