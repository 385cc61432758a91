package scene

import (
	"image/color"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
)

// Flat stand-ins used when the palette has no material of the requested name
var fallbackMaterials = map[string]*material.Material{
	"stone":       material.NewSolid("stone", color.RGBA{128, 128, 128, 255}),
	"dirt":        material.NewSolid("dirt", color.RGBA{139, 90, 43, 255}),
	"grass":       material.NewSolid("grass", color.RGBA{34, 139, 34, 255}),
	"wood":        material.NewSolid("wood", color.RGBA{139, 90, 43, 255}),
	"coal_ore":    material.NewSolid("coal_ore", color.RGBA{64, 64, 64, 255}),
	"iron_ore":    material.NewSolid("iron_ore", color.RGBA{188, 152, 98, 255}),
	"diamond_ore": {Name: "diamond_ore", BaseColor: color.RGBA{100, 200, 200, 255}, Reflectivity: 0.3, RefractiveIndex: 1.0},
	"leaves":      {Name: "leaves", BaseColor: color.RGBA{34, 139, 34, 255}, Transparency: 0.2, RefractiveIndex: 1.0},
	"water":       {Name: "water", BaseColor: color.RGBA{30, 70, 200, 255}, Reflectivity: 0.2, Transparency: 0.7, RefractiveIndex: 1.33},
	"glass":       {Name: "glass", BaseColor: color.RGBA{200, 220, 255, 255}, Reflectivity: 0.1, Transparency: 0.9, RefractiveIndex: 1.5},
	"creeper":     material.NewSolid("creeper", color.RGBA{80, 180, 80, 255}),
}

// ExampleMaterialNames lists the material names NewExampleScene asks the palette for
var ExampleMaterialNames = []string{
	"stone", "dirt", "grass", "wood", "coal_ore", "iron_ore",
	"diamond_ore", "leaves", "water", "glass", "creeper",
}

// NewExampleScene builds the built-in cave diorama: a hollow stone cave with
// ore veins, pillars and a pool, a dirt and grass roof, a tree on top, two
// glass windows and a creeper inside.
//
// Materials come from p by name; names p does not define use flat colors.
func NewExampleScene(p *material.Palette) *Scene {
	mat := func(name string) *material.Material {
		if p != nil {
			if m, ok := p.Named(name); ok {
				return m
			}
		}
		return fallbackMaterials[name]
	}

	stone := mat("stone")
	coal := mat("coal_ore")
	iron := mat("iron_ore")
	diamond := mat("diamond_ore")
	water := mat("water")
	dirt := mat("dirt")
	grass := mat("grass")
	wood := mat("wood")
	leaves := mat("leaves")
	glass := mat("glass")
	creeper := mat("creeper")

	s := New()
	const sizeX, sizeZ = 12, 12

	// Solid stone floor
	for y := 0; y < 2; y++ {
		for x := 0; x < sizeX; x++ {
			for z := 0; z < sizeZ; z++ {
				s.AddCube(cell(x, y, z), 1, stone)
			}
		}
	}

	// Cave walls with ore veins
	for y := 2; y < 5; y++ {
		for x := 0; x < sizeX; x++ {
			for z := 0; z < sizeZ; z++ {
				if x != 0 && x != sizeX-1 && z != 0 && z != sizeZ-1 {
					continue
				}
				m := stone
				switch {
				case (x+y+z)%4 == 0:
					m = coal
				case (x+y+z)%7 == 0:
					m = iron
				}
				s.AddCube(cell(x, y, z), 1, m)
			}
		}
	}

	pillars := [][2]int{{3, 3}, {8, 3}, {3, 8}, {8, 8}, {5, 5}}
	for _, pz := range pillars {
		for y := 2; y < 5; y++ {
			s.AddCube(cell(pz[0], y, pz[1]), 1, stone)
		}
	}

	s.AddCube(core.NewVec3(1, 3, 5), 1, diamond)
	s.AddCube(core.NewVec3(10, 2, 6), 1, diamond)

	// Pool in one corner
	for x := 1; x < 3; x++ {
		for z := 1; z < 3; z++ {
			s.AddCube(cell(x, 2, z), 1, water)
		}
	}

	// Roof
	for x := 0; x < sizeX; x++ {
		for z := 0; z < sizeZ; z++ {
			s.AddCube(cell(x, 5, z), 1, dirt)
		}
	}
	for x := 0; x < sizeX; x++ {
		for z := 0; z < sizeZ; z++ {
			s.AddCube(cell(x, 6, z), 1, grass)
		}
	}

	// Tree
	const treeX, treeZ = 6, 6
	for y := 7; y < 10; y++ {
		s.AddCube(cell(treeX, y, treeZ), 1, wood)
	}
	for x := 4; x < 9; x++ {
		for z := 4; z < 9; z++ {
			if x == treeX && z == treeZ {
				continue // trunk
			}
			s.AddCube(cell(x, 9, z), 1, leaves)
		}
	}
	for x := 4; x < 9; x++ {
		for z := 4; z < 9; z++ {
			s.AddCube(cell(x, 10, z), 1, leaves)
		}
	}
	for x := 5; x < 8; x++ {
		for z := 5; z < 8; z++ {
			s.AddCube(cell(x, 11, z), 1, leaves)
		}
	}
	s.AddCube(cell(treeX, 12, treeZ), 1, leaves)

	// Windows
	s.AddCube(core.NewVec3(0, 3, 5), 1, glass)
	s.AddCube(core.NewVec3(11, 3, 6), 1, glass)

	// Creeper: body, head and four legs
	const creeperX, creeperZ = 9.0, 4.0
	s.AddCube(core.NewVec3(creeperX, 2, creeperZ), 0.8, creeper)
	s.AddCube(core.NewVec3(creeperX, 3, creeperZ), 0.8, creeper)
	s.AddCube(core.NewVec3(creeperX, 4, creeperZ), 0.9, creeper)
	const legSize = 0.3
	for _, off := range [][2]float64{{-0.2, -0.2}, {0.2, -0.2}, {-0.2, 0.2}, {0.2, 0.2}} {
		s.AddCube(core.NewVec3(creeperX+off[0], 1.65, creeperZ+off[1]), legSize, creeper)
	}

	return s
}

func cell(x, y, z int) core.Vec3 {
	return core.NewVec3(float64(x), float64(y), float64(z))
}
