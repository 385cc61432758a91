package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-voxel-raytracer/pkg/controls"
	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/loaders"
	"github.com/df07/go-voxel-raytracer/pkg/renderer"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

// Game renders the scene every tick at low resolution and scales it up to
// the window
type Game struct {
	renderer   *renderer.FrameRenderer
	controller *controls.FlyController
	frame      []byte
	image      *ebiten.Image
	logger     core.Logger

	lastUpdate   time.Time
	fps          *renderer.FrameRateCounter
	dragging     bool
	lastX, lastY int
}

// NewGame creates the viewer state around a started frame renderer
func NewGame(fr *renderer.FrameRenderer, logger core.Logger) *Game {
	config := fr.Config()
	now := time.Now()
	return &Game{
		renderer:   fr,
		controller: controls.NewFlyController(),
		frame:      make([]byte, config.Width*config.Height*4),
		image:      ebiten.NewImage(config.Width, config.Height),
		logger:     logger,
		lastUpdate: now,
		fps:        renderer.NewFrameRateCounter(now),
	}
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	now := time.Now()
	dt := now.Sub(g.lastUpdate).Seconds()
	g.lastUpdate = now

	g.controller.Keys = controls.Keys{
		Forward:  ebiten.IsKeyPressed(ebiten.KeyW),
		Backward: ebiten.IsKeyPressed(ebiten.KeyS),
		Left:     ebiten.IsKeyPressed(ebiten.KeyA),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD),
		Up:       ebiten.IsKeyPressed(ebiten.KeySpace),
		Down:     ebiten.IsKeyPressed(ebiten.KeyShiftLeft),
	}

	// Look around while the left button is held
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging {
		g.controller.Rotate(float64(x-g.lastX), float64(y-g.lastY))
		g.lastX, g.lastY = x, y
	}

	g.controller.Update(dt)

	camera := g.controller.Camera(g.renderer.Config().AspectRatio())
	g.renderer.RenderFrame(camera, g.frame)
	g.image.WritePixels(g.frame)

	if fps, ok := g.fps.Tick(now); ok {
		g.logger.Printf("FPS: %.1f\n", fps)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	config := g.renderer.Config()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(windowWidth)/float64(config.Width), float64(windowHeight)/float64(config.Height))
	screen.DrawImage(g.image, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

func main() {
	layersDir := flag.String("layers", "layers", "Directory of layer files (*.txt)")
	palettePath := flag.String("palette", "", "Block palette YAML file (default: built-in palette)")
	texturesDir := flag.String("textures", "textures", "Directory texture paths are resolved against")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.Parse()

	logger := renderer.NewDefaultLogger()

	palette := loaders.PaletteOrDefault(*palettePath, *texturesDir, logger)
	s := loaders.LoadLayers(*layersDir, palette, logger)
	log.Printf("Loaded %d blocks", s.Len())

	config := renderer.InteractiveFrameConfig()
	config.NumWorkers = *workers
	fr, err := renderer.NewFrameRenderer(s, renderer.DefaultShadingConfig(), config)
	if err != nil {
		log.Fatal(err)
	}
	defer fr.Close()

	log.Println("Controls: W/A/S/D move, Space up, Left Shift down, drag with the left mouse button to look, Esc quits")

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Voxel Raytracer")
	if err := ebiten.RunGame(NewGame(fr, logger)); err != nil {
		log.Fatal(err)
	}
}
