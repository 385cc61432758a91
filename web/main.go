package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-voxel-raytracer/pkg/loaders"
	"github.com/df07/go-voxel-raytracer/pkg/renderer"
	"github.com/df07/go-voxel-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory with one subdirectory of layer files per scene")
	palettePath := flag.String("palette", "", "Block palette YAML file (default: built-in palette)")
	texturesDir := flag.String("textures", "textures", "Directory texture paths are resolved against")
	flag.Parse()

	palette := loaders.PaletteOrDefault(*palettePath, *texturesDir, renderer.NewDefaultLogger())

	webServer := server.NewServer(server.Config{Port: *port, ScenesDir: *scenesDir}, palette)

	log.Printf("Voxel Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=example", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
