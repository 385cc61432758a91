package loaders

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
	"github.com/df07/go-voxel-raytracer/pkg/scene"
)

// LoadLayers builds a scene from a directory of layer files.
//
// Files matching *.txt are read in name order; the n-th file is the slab at
// y = n. Within a file, line index is z and character index is x, and every
// non-empty character becomes a unit cube centered at (x, y, z).
//
// A missing or unreadable directory, or one without layer files, yields the
// built-in example scene. A layer file that cannot be read is skipped but
// keeps its y index.
func LoadLayers(dir string, palette *material.Palette, logger core.Logger) *scene.Scene {
	if logger == nil {
		logger = core.NopLogger{}
	}

	files, err := layerFiles(dir)
	if err != nil {
		logger.Printf("Layer directory %s unavailable (%v), using example scene\n", dir, err)
		return scene.NewExampleScene(palette)
	}
	if len(files) == 0 {
		logger.Printf("No .txt layer files in %s, using example scene\n", dir)
		return scene.NewExampleScene(palette)
	}

	s := scene.New()
	warned := make(map[rune]bool)
	for y, file := range files {
		logger.Printf("Loading layer %d: %s\n", y, file)
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Printf("Warning: skipping layer %s: %v\n", file, err)
			continue
		}
		addLayer(s, data, y, palette, logger, warned)
	}

	logger.Printf("Loaded %d cubes from %d layers\n", s.Len(), len(files))
	return s
}

func layerFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: dir, Err: os.ErrInvalid}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// addLayer adds the cubes of one layer at height y. Unknown characters are
// reported once per load and treated as empty.
func addLayer(s *scene.Scene, data []byte, y int, palette *material.Palette, logger core.Logger, warned map[rune]bool) {
	for z, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		x := 0
		for _, code := range line {
			m, known := lookupCode(palette, code)
			switch {
			case !known:
				if !warned[code] {
					logger.Printf("Warning: unknown block code %q, treating as empty\n", code)
					warned[code] = true
				}
			case m != nil:
				s.AddCube(core.NewVec3(float64(x), float64(y), float64(z)), 1, m)
			}
			x++
		}
	}
}

func lookupCode(palette *material.Palette, code rune) (*material.Material, bool) {
	if palette == nil {
		switch code {
		case ' ', '\t', '_', 'X':
			return nil, true
		}
		return nil, false
	}
	return palette.Lookup(code)
}
