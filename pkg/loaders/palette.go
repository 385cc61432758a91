package loaders

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
)

//go:embed default_palette.yaml
var defaultPaletteYAML []byte

// paletteFile is the on-disk palette document
type paletteFile struct {
	Empty  []string             `yaml:"empty"`
	Blocks map[string]blockSpec `yaml:"blocks"`
}

// blockSpec describes one block type
type blockSpec struct {
	Name            string            `yaml:"name"`
	Color           []int             `yaml:"color"`
	Textures        map[string]string `yaml:"textures"`
	Reflectivity    float64           `yaml:"reflectivity"`
	Transparency    float64           `yaml:"transparency"`
	RefractiveIndex *float64          `yaml:"refractive_index"`
}

// Texture keys in increasing order of precedence
var textureKeyFaces = []struct {
	key   string
	faces []material.Face
}{
	{"all", []material.Face{material.FaceTop, material.FaceBottom, material.FaceNorth, material.FaceSouth, material.FaceEast, material.FaceWest}},
	{"sides", []material.Face{material.FaceNorth, material.FaceSouth, material.FaceEast, material.FaceWest}},
	{"top", []material.Face{material.FaceTop}},
	{"bottom", []material.Face{material.FaceBottom}},
	{"north", []material.Face{material.FaceNorth}},
	{"south", []material.Face{material.FaceSouth}},
	{"east", []material.Face{material.FaceEast}},
	{"west", []material.Face{material.FaceWest}},
}

// LoadPalette reads a palette YAML file. Texture paths inside it are resolved
// against textureRoot.
func LoadPalette(filename, textureRoot string, logger core.Logger) (*material.Palette, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}
	p, err := ParsePalette(data, textureRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", filename, err)
	}
	return p, nil
}

// DefaultPalette returns the built-in block palette with textures resolved
// against textureRoot. Missing textures fall back to flat colors.
func DefaultPalette(textureRoot string, logger core.Logger) *material.Palette {
	p, err := ParsePalette(defaultPaletteYAML, textureRoot, logger)
	if err != nil {
		// The embedded document is fixed at build time
		panic(fmt.Sprintf("invalid built-in palette: %v", err))
	}
	return p
}

// PaletteOrDefault loads the palette file at path. An empty path, or a file
// that fails to load, yields the built-in palette; failures are logged.
func PaletteOrDefault(path, textureRoot string, logger core.Logger) *material.Palette {
	if path != "" {
		p, err := LoadPalette(path, textureRoot, logger)
		if err == nil {
			return p
		}
		logger.Printf("Warning: %v; using built-in palette\n", err)
	}
	return DefaultPalette(textureRoot, logger)
}

// ParsePalette builds a palette from a YAML document. Each texture path is
// decoded once, however many faces or blocks share it.
func ParsePalette(data []byte, textureRoot string, logger core.Logger) (*material.Palette, error) {
	var doc paletteFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}

	p := material.NewPalette()
	for _, code := range doc.Empty {
		r, err := blockCode(code)
		if err != nil {
			return nil, fmt.Errorf("empty code: %w", err)
		}
		p.MarkEmpty(r)
	}

	// Sorted so that texture warnings come out in a stable order
	codes := make([]string, 0, len(doc.Blocks))
	for code := range doc.Blocks {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	textures := newTextureCache(textureRoot, logger)
	for _, code := range codes {
		r, err := blockCode(code)
		if err != nil {
			return nil, err
		}
		m, err := doc.Blocks[code].material(code, textures)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", code, err)
		}
		p.Register(r, m)
	}

	return p, nil
}

func (b blockSpec) material(code string, textures *textureCache) (*material.Material, error) {
	m := &material.Material{
		Name:            b.Name,
		Reflectivity:    b.Reflectivity,
		Transparency:    b.Transparency,
		RefractiveIndex: 1.0,
	}
	if m.Name == "" {
		m.Name = code
	}

	if len(b.Color) != 3 {
		return nil, fmt.Errorf("color must have 3 components, got %d", len(b.Color))
	}
	for _, c := range b.Color {
		if c < 0 || c > 255 {
			return nil, fmt.Errorf("color component %d out of range 0-255", c)
		}
	}
	m.BaseColor = color.RGBA{R: uint8(b.Color[0]), G: uint8(b.Color[1]), B: uint8(b.Color[2]), A: 255}

	if m.Reflectivity < 0 || m.Reflectivity > 1 {
		return nil, fmt.Errorf("reflectivity %g out of range 0-1", m.Reflectivity)
	}
	if m.Transparency < 0 || m.Transparency > 1 {
		return nil, fmt.Errorf("transparency %g out of range 0-1", m.Transparency)
	}
	if b.RefractiveIndex != nil {
		if *b.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("refractive_index must be positive, got %g", *b.RefractiveIndex)
		}
		m.RefractiveIndex = *b.RefractiveIndex
	}

	for key := range b.Textures {
		if !knownTextureKey(key) {
			return nil, fmt.Errorf("unknown texture key %q", key)
		}
	}
	for _, kf := range textureKeyFaces {
		path, ok := b.Textures[kf.key]
		if !ok {
			continue
		}
		tex := textures.get(path)
		for _, face := range kf.faces {
			m.Textures[face] = tex
		}
	}

	return m, nil
}

func knownTextureKey(key string) bool {
	for _, kf := range textureKeyFaces {
		if kf.key == key {
			return true
		}
	}
	return false
}

// blockCode validates a single-character block code
func blockCode(code string) (rune, error) {
	if utf8.RuneCountInString(code) != 1 {
		return 0, fmt.Errorf("block code %q must be exactly one character", code)
	}
	r, _ := utf8.DecodeRuneInString(code)
	return r, nil
}

// textureCache decodes each texture path at most once. Failed loads are
// cached as nil so the warning is logged once.
type textureCache struct {
	root    string
	logger  core.Logger
	entries map[string]*material.Texture
}

func newTextureCache(root string, logger core.Logger) *textureCache {
	return &textureCache{
		root:    root,
		logger:  logger,
		entries: make(map[string]*material.Texture),
	}
}

func (c *textureCache) get(path string) *material.Texture {
	if !filepath.IsAbs(path) && c.root != "" {
		path = filepath.Join(c.root, path)
	}
	if tex, ok := c.entries[path]; ok {
		return tex
	}
	tex := LoadTexture(path, c.logger)
	c.entries[path] = tex
	return tex
}
